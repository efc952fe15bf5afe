package apperr

import "errors"

// Invalid is returned when the input fails domain validation.
var Invalid = errors.New("invalid input")

// Conflict indicates a uniqueness or state conflict (HTTP 409).
var Conflict = errors.New("conflict")

// NotFound indicates that the requested resource does not exist.
var NotFound = errors.New("not found")

// NoCandidates indicates that a courier search returned no qualifying couriers.
var NoCandidates = errors.New("no candidates available")

// UnknownLocation indicates that a courier has no resolvable current position.
var UnknownLocation = errors.New("courier location unknown")

// Unavailable indicates that a backing store or collaborator is unreachable.
var Unavailable = errors.New("upstream unavailable")
