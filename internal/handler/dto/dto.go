// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Amounts serialize as JSON numbers, not strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// ErrorResponse is the error envelope returned by every non-2xx response.
type ErrorResponse struct {
	Timestamp time.Time `json:"timestamp"`
	Status    int       `json:"status"`
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	Path      string    `json:"path"`
	TraceID   string    `json:"traceId,omitempty"`
}

// violations accumulates failed request constraints in field order.
type violations struct {
	items []string
}

func (v *violations) add(field, detail string) {
	v.items = append(v.items, field+": "+detail)
}

// err joins all violations into a single message, or returns nil if the
// request is valid.
func (v *violations) err() error {
	if len(v.items) == 0 {
		return nil
	}
	return fmt.Errorf("Validation failed: %s", strings.Join(v.items, "; "))
}
