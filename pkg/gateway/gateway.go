/**
 * @description
 * This package defines the payment gateway contract used by the transfer
 * engine. A gateway moves the net transfer amount to an external destination
 * address and reports the outcome. Gateways signal a decline through the
 * Result and a transport failure through the returned error; the engine folds
 * both into the same failed-transfer shape and rolls back the reservation.
 *
 * @dependencies
 * - context: Standard Go library.
 * - internal/domain: For the Money type.
 */
package gateway

import (
	"context"

	"github.com/luleka/deposit-service/internal/domain"
)

// Result is the gateway's verdict on a send attempt.
type Result struct {
	Success     bool
	Description string
}

// Gateway sends money to an external destination.
type Gateway interface {
	Send(ctx context.Context, destination string, amount domain.Money) (*Result, error)
}
