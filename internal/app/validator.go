/**
 * @description
 * This file implements transfer validation for deposit accounts. All checks are
 * evaluated and their messages accumulated per field, so a caller sees every
 * problem at once. Amount checks only run when a transfer amount has been
 * requested; an account with no pending transfer request is valid, and the
 * missing amount is caught at transfer time instead.
 *
 * @dependencies
 * - fmt: Standard Go library.
 * - internal/domain: Domain models and the FieldErrors accumulator.
 */

package app

import (
	"fmt"

	"github.com/luleka/deposit-service/internal/domain"
)

// FieldTransferAmount is the field key for transfer amount validation messages.
const FieldTransferAmount = "transfer_amount"

// ValidateTransfer checks the requested transfer amount against the account
// kind's bounds and the owner's available balance, and the destination address
// against the kind's structural pattern.
func ValidateTransfer(account *domain.DepositAccount, available domain.Money) domain.FieldErrors {
	errs := domain.FieldErrors{}
	descriptor := account.Descriptor()
	policy := descriptor.Policy

	if account.TransferAmount != nil {
		amount := *account.TransferAmount
		if amount.LessThan(policy.MinTransferAmount()) {
			errs.Add(FieldTransferAmount,
				fmt.Sprintf("must be greater than or equal to %s", policy.MinTransferAmount()))
		}
		if amount.GreaterThan(policy.MaxTransferAmount()) {
			errs.Add(FieldTransferAmount,
				fmt.Sprintf("must be less than or equal to %s", policy.MaxTransferAmount()))
		}
		if transferable := policy.AvailableTransferAmount(available); amount.GreaterThan(transferable) {
			errs.Add(FieldTransferAmount,
				fmt.Sprintf("%s exceeds your available account balance of %s", amount, transferable))
		}
	}

	if !descriptor.ValidDestination(account.Destination) {
		errs.Add(descriptor.DestinationField, "appears to be invalid")
	}

	return errs
}
