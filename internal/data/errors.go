package data

import "errors"

// Shared sentinel errors for data-layer repositories.
var (
	// ErrEntityIDRequired is returned when an update or delete is attempted without an id.
	ErrEntityIDRequired = errors.New("entity id is required")
	// ErrUnknownCollection is returned when a store call names a collection outside the routing table.
	ErrUnknownCollection = errors.New("unknown collection")
	// ErrJobIDRequired is returned when a job operation is attempted without a job id.
	ErrJobIDRequired = errors.New("job id is required")
)
