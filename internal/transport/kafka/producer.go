package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/IBM/sarama"

	"service-dispatch/internal/domain"
)

// AlertProducer publishes fraud alerts to Kafka. Messages are keyed by
// courier id so alerts for one courier stay ordered within a partition.
type AlertProducer struct {
	producer sarama.SyncProducer
	topic    string
}

// NewAlertProducer creates a new AlertProducer.
func NewAlertProducer(brokers []string, topic string) (*AlertProducer, error) {
	if len(brokers) == 0 || strings.TrimSpace(topic) == "" {
		return nil, nil
	}

	cfg := sarama.NewConfig()
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Retry.Max = 3
	cfg.Producer.Return.Successes = true

	producer, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, err
	}

	return &AlertProducer{producer: producer, topic: topic}, nil
}

// PublishAlert sends one fraud alert.
func (p *AlertProducer) PublishAlert(_ context.Context, e domain.FraudEvent) error {
	if p == nil {
		return nil
	}

	value, err := json.Marshal(FromEvent(e))
	if err != nil {
		return fmt.Errorf("marshal alert: %w", err)
	}

	_, _, err = p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(strconv.FormatInt(e.CourierID, 10)),
		Value: sarama.ByteEncoder(value),
	})
	if err != nil {
		return fmt.Errorf("send alert: %w", err)
	}
	return nil
}

func (p *AlertProducer) Close() error {
	if p == nil {
		return nil
	}
	return p.producer.Close()
}
