package pipeline

import (
	"fmt"
)

// MissingSortKeyError reports items lacking metadata for an order-by key.
type MissingSortKeyError struct {
	// Key is the first instruction key, in instruction order, that some
	// item does not carry.
	Key string
	// Count is the number of items lacking Key.
	Count int
}

func NewMissingSortKeyError(key string, count int) *MissingSortKeyError {
	return &MissingSortKeyError{Key: key, Count: count}
}

func (e *MissingSortKeyError) Error() string {
	return fmt.Sprintf("%d item(s) missing metadata %q required for ordering",
		e.Count, e.Key)
}

// MissingJoinKeyError reports a join side with an item lacking the join key.
type MissingJoinKeyError struct {
	// Side is "left" or "right".
	Side string
	// Key is the configured join key for that side.
	Key string
}

func NewMissingJoinKeyError(side, key string) *MissingJoinKeyError {
	return &MissingJoinKeyError{Side: side, Key: key}
}

func (e *MissingJoinKeyError) Error() string {
	return fmt.Sprintf("%s item missing join key metadata %q", e.Side, e.Key)
}

// InvalidOpError reports a pipeline operation that cannot be run.
type InvalidOpError struct {
	// Index is the position of the op in the pipeline.
	Index int
	// Reason says what is wrong with the op.
	Reason string
}

func NewInvalidOpError(index int, reason string) *InvalidOpError {
	return &InvalidOpError{Index: index, Reason: reason}
}

func (e *InvalidOpError) Error() string {
	return fmt.Sprintf("invalid pipeline op %d: %s", e.Index, e.Reason)
}
