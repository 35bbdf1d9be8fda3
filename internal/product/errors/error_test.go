package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Message(t *testing.T) {
	testCases := []struct {
		name     string
		err      error
		expected string
	}{
		{name: "invalid argument", err: fmt.Errorf("%w: Product name cannot be empty.", ErrInvalidArgument), expected: "Product name cannot be empty."},
		{name: "not found", err: fmt.Errorf("%w: Product with ID 9 not found.", ErrProductNotFound), expected: "Product with ID 9 not found."},
		{name: "empty catalog", err: fmt.Errorf("%w: No products available in the system.", ErrEmptyCatalog), expected: "No products available in the system."},
		{name: "bare kind", err: ErrProductNotFound, expected: "product not found"},
		{name: "other error", err: errors.New("connection refused"), expected: "connection refused"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Message(tc.err))
		})
	}
}
