package app

import (
	"net/http"
	"time"

	"go.uber.org/dig"

	"service-dispatch/internal/config"
	"service-dispatch/internal/http/pprofserver"
)

type pprofOut struct {
	dig.Out

	Server *http.Server `name:"pprof_server"`
}

// providePprofServer returns the pprof listener, or a nil server when
// profiling is disabled.
func providePprofServer(cfg *config.Config) pprofOut {
	if !cfg.Pprof.Enabled {
		return pprofOut{}
	}
	return pprofOut{Server: &http.Server{
		Addr: cfg.Pprof.Addr,
		Handler: pprofserver.Handler(pprofserver.Config{
			User: cfg.Pprof.User,
			Pass: cfg.Pprof.Pass,
		}),
		ReadHeaderTimeout: 5 * time.Second,
	}}
}
