/**
 * @description
 * This file defines deposit account kinds and their transfer policies. Each kind
 * bundles the numeric transfer bounds, the fee function, the structural check for
 * destination addresses and the label used in settlement narratives. Kinds are
 * registered in a map and looked up either by their kind symbol ("paypal") or by
 * their concrete type name ("PaypalDepositAccount"), mirroring how the account
 * repository constructs accounts polymorphically.
 *
 * @dependencies
 * - fmt, regexp: Standard Go libraries.
 */

package domain

import (
	"fmt"
	"regexp"
)

// Kind discriminates concrete deposit account behaviour.
type Kind string

// KindPaypal is the PayPal-backed deposit account kind.
const KindPaypal Kind = "paypal"

// FeeFunc computes the (negative) transaction fee for a gross transfer amount.
type FeeFunc func(gross Money) Money

// TransferPolicy carries the numeric transfer constraints of an account kind.
type TransferPolicy struct {
	MinTransferCents int64
	MaxTransferCents int64
	Currency         Currency
	Fee              FeeFunc
}

// MinTransferAmount returns the smallest transferable amount.
func (p TransferPolicy) MinTransferAmount() Money {
	return NewMoney(p.MinTransferCents, p.Currency)
}

// MaxTransferAmount returns the largest transferable amount.
func (p TransferPolicy) MaxTransferAmount() Money {
	return NewMoney(p.MaxTransferCents, p.Currency)
}

// TransactionFee returns the fee for a gross amount. Fees are negative.
func (p TransferPolicy) TransactionFee(gross Money) Money {
	return p.Fee(gross)
}

// AvailableTransferAmount caps the ledger's available balance at the kind's
// maximum transfer amount.
func (p TransferPolicy) AvailableTransferAmount(available Money) Money {
	max := p.MaxTransferAmount()
	if available.GreaterThan(max) {
		return max
	}
	return available
}

// DefaultTransferAmount suggests the amount that empties the available balance
// after the fee is charged, floored at zero.
func (p TransferPolicy) DefaultTransferAmount(available Money) Money {
	capped := p.AvailableTransferAmount(available)
	suggested, err := capped.Add(p.TransactionFee(capped))
	if err != nil || suggested.IsNegative() {
		return NewMoney(0, p.Currency)
	}
	return suggested
}

// NetTransferAmount is the amount the destination receives: gross plus the
// (negative) fee.
func (p TransferPolicy) NetTransferAmount(gross Money) Money {
	net, err := gross.Add(p.TransactionFee(gross))
	if err != nil {
		return NewMoney(0, p.Currency)
	}
	return net
}

// GrossTransferAmount is the amount withdrawn from the payer's ledger.
func (p TransferPolicy) GrossTransferAmount(gross Money) Money {
	return gross
}

// RequiredAccountBalance is the balance needed to cover gross plus the fee.
func (p TransferPolicy) RequiredAccountBalance(gross Money) Money {
	required, err := gross.Subtract(p.TransactionFee(gross))
	if err != nil {
		return gross
	}
	return required
}

// KindDescriptor bundles everything kind-specific the engine needs.
type KindDescriptor struct {
	Kind             Kind
	TypeName         string
	Label            string
	DestinationField string
	Policy           TransferPolicy
	destinationRE    *regexp.Regexp
}

// ValidDestination reports whether addr structurally matches the kind's
// destination address shape.
func (d *KindDescriptor) ValidDestination(addr string) bool {
	return addr != "" && d.destinationRE.MatchString(addr)
}

// FlatFee returns a FeeFunc that charges the same (negative) fee regardless of
// the transfer amount.
func FlatFee(cents int64, currency Currency) FeeFunc {
	return func(Money) Money { return NewMoney(cents, currency) }
}

var paypalDescriptor = &KindDescriptor{
	Kind:             KindPaypal,
	TypeName:         "PaypalDepositAccount",
	Label:            "Paypal",
	DestinationField: "paypal_account",
	Policy: TransferPolicy{
		MinTransferCents: 100,
		MaxTransferCents: 10000,
		Currency:         CurrencyUSD,
		Fee:              FlatFee(-50, CurrencyUSD),
	},
	destinationRE: regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`),
}

var kindRegistry = map[Kind]*KindDescriptor{
	KindPaypal: paypalDescriptor,
}

// DescriptorFor returns the descriptor of a registered kind.
func DescriptorFor(kind Kind) (*KindDescriptor, error) {
	d, ok := kindRegistry[kind]
	if !ok {
		return nil, fmt.Errorf("unknown deposit account kind %q", kind)
	}
	return d, nil
}

// DescriptorByName resolves a descriptor from either a kind symbol ("paypal")
// or a concrete type name ("PaypalDepositAccount").
func DescriptorByName(name string) (*KindDescriptor, error) {
	if d, ok := kindRegistry[Kind(name)]; ok {
		return d, nil
	}
	for _, d := range kindRegistry {
		if d.TypeName == name {
			return d, nil
		}
	}
	return nil, fmt.Errorf("unknown deposit account type %q", name)
}
