// Package errors provides the error kinds reported by the product catalog.
package errors

import (
	"errors"
	"strings"
)

// ErrInvalidArgument marks input rejected by validation: a non-positive id, a blank name
// or a price outside (0, 10000].
var ErrInvalidArgument = errors.New("invalid argument")

// ErrProductNotFound marks a mutation that targets an id the store does not hold.
var ErrProductNotFound = errors.New("product not found")

// ErrEmptyCatalog is returned when listing a catalog that holds no products.
var ErrEmptyCatalog = errors.New("empty catalog")

var kinds = []error{ErrInvalidArgument, ErrProductNotFound, ErrEmptyCatalog}

// Message returns the human readable part of an error wrapped around one of the kinds above.
func Message(err error) string {
	msg := err.Error()
	for _, kind := range kinds {
		if after, ok := strings.CutPrefix(msg, kind.Error()+": "); ok {
			return after
		}
	}
	return msg
}
