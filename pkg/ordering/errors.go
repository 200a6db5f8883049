package ordering

import (
	"fmt"
)

// MalformedOptionError reports a directive whose option token is not one of
// the recognized keywords. The directive is dropped; parsing continues.
type MalformedOptionError struct {
	Directive string
	Option    string
}

func NewMalformedOptionError(directive, option string) *MalformedOptionError {
	return &MalformedOptionError{Directive: directive, Option: option}
}

func (e *MalformedOptionError) Error() string {
	if e.Option == "" {
		return fmt.Sprintf("malformed order directive %q", e.Directive)
	}
	return fmt.Sprintf("malformed order directive %q: unrecognized option %q",
		e.Directive, e.Option)
}

// DuplicateKeyError reports two instructions sharing a key name under
// case-insensitive comparison.
type DuplicateKeyError struct {
	Key string
}

func NewDuplicateKeyError(key string) *DuplicateKeyError {
	return &DuplicateKeyError{Key: key}
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate order key %q", e.Key)
}
