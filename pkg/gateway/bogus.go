package gateway

import (
	"context"
	"errors"
	"strings"

	"github.com/luleka/deposit-service/internal/domain"
)

// Bogus gateway responses, keyed off the destination address. Addresses at
// "fail@..." are declined, addresses at "error@..." raise a transport error,
// anything else succeeds. Used in tests and in development mode.
const (
	bogusSuccessMessage = "Bogus Gateway: Forced success"
	bogusFailureMessage = "Bogus Gateway: Forced failure"
	bogusErrorMessage   = "Bogus Gateway: Use CreditCard number 1 for success, 2 for exception and anything else for error"
)

// Bogus is an in-process Gateway for tests and local development.
type Bogus struct{}

// NewBogus returns a Bogus gateway.
func NewBogus() *Bogus { return &Bogus{} }

// Send simulates a gateway call based on the destination's local part.
func (g *Bogus) Send(ctx context.Context, destination string, amount domain.Money) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	switch {
	case strings.HasPrefix(destination, "error@"):
		return nil, errors.New(bogusErrorMessage)
	case strings.HasPrefix(destination, "fail@"):
		return &Result{Success: false, Description: bogusFailureMessage}, nil
	default:
		return &Result{Success: true, Description: bogusSuccessMessage}, nil
	}
}
