package todo

import (
	"errors"
	"fmt"
)

// ErrToggleInFlight is returned by Item.Toggle when the item is already
// waiting on a toggle and the policy is RejectWhileUpdating.
var ErrToggleInFlight = errors.New("todo: toggle already in flight")

// ErrItemDisposed is returned when toggling an item that has been unmounted.
var ErrItemDisposed = errors.New("todo: item disposed")

// ErrUnknownItem is returned by Page.Toggle for an id not currently listed.
var ErrUnknownItem = errors.New("todo: unknown item")

var errMissingField = errors.New("missing field")

// FetchError reports a list fetch that failed in transport or returned a
// non-2xx status.
type FetchError struct {
	Source     string
	StatusCode int // 0 for transport failures
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: unexpected status %d", e.Source, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.Source, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ParseError reports a payload that does not match the record shape.
// Index is -1 when the payload as a whole is malformed.
type ParseError struct {
	Index int
	Field string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("parse records: %v", e.Err)
	}
	if e.Field != "" {
		return fmt.Sprintf("parse records: element %d: %s: %v", e.Index, e.Field, e.Err)
	}
	return fmt.Sprintf("parse records: element %d: %v", e.Index, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ToggleError reports a failed remote toggle for one item.
type ToggleError struct {
	ID         int64
	StatusCode int // 0 for transport failures
	Err        error
}

func (e *ToggleError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("toggle %d: unexpected status %d", e.ID, e.StatusCode)
	}
	return fmt.Sprintf("toggle %d: %v", e.ID, e.Err)
}

func (e *ToggleError) Unwrap() error { return e.Err }
