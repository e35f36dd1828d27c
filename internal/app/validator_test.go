package app

import (
	"testing"

	"github.com/google/uuid"
	"github.com/luleka/deposit-service/internal/domain"
)

func buildAccount(t *testing.T, transferCents *int64, destination string) *domain.DepositAccount {
	t.Helper()
	account, err := domain.NewDepositAccount(domain.KindPaypal, uuid.New(), "Homer Simpson", destination)
	if err != nil {
		t.Fatalf("failed to build account: %v", err)
	}
	if transferCents != nil {
		amount := domain.NewMoney(*transferCents, domain.CurrencyUSD)
		account.SetTransferAmount(&amount)
	}
	return account
}

func cents(v int64) *int64 { return &v }

func TestValidateTransfer_Valid(t *testing.T) {
	account := buildAccount(t, cents(400), "adam@smith.tst")
	errs := ValidateTransfer(account, domain.NewMoney(500, domain.CurrencyUSD))

	if !errs.Valid() {
		t.Fatalf("expected valid account, got errors: %v", errs)
	}
}

func TestValidateTransfer_NoAmountIsValid(t *testing.T) {
	account := buildAccount(t, nil, "valid@paypal.com")
	errs := ValidateTransfer(account, domain.NewMoney(500, domain.CurrencyUSD))

	if !errs.Valid() {
		t.Fatalf("expected account without transfer amount to be valid, got errors: %v", errs)
	}
}

func TestValidateTransfer_UnderMinimum(t *testing.T) {
	account := buildAccount(t, cents(99), "adam@smith.tst")
	errs := ValidateTransfer(account, domain.NewMoney(500, domain.CurrencyUSD))

	if errs.Valid() {
		t.Fatal("expected validation errors")
	}
	if !errs.Invalid(FieldTransferAmount) {
		t.Fatal("expected transfer_amount to be invalid")
	}
	messages := errs.On(FieldTransferAmount)
	if len(messages) != 1 || messages[0] != "must be greater than or equal to $1.00" {
		t.Fatalf("unexpected messages: %v", messages)
	}
}

func TestValidateTransfer_OverMaximum(t *testing.T) {
	account := buildAccount(t, cents(10001), "adam@smith.tst")
	errs := ValidateTransfer(account, domain.NewMoney(20000, domain.CurrencyUSD))

	if errs.Valid() {
		t.Fatal("expected validation errors")
	}
	messages := errs.On(FieldTransferAmount)
	if len(messages) == 0 || messages[0] != "must be less than or equal to $100.00" {
		t.Fatalf("unexpected messages: %v", messages)
	}
}

func TestValidateTransfer_ExceedsAvailableBalance(t *testing.T) {
	account := buildAccount(t, cents(501), "adam@smith.tst")
	errs := ValidateTransfer(account, domain.NewMoney(500, domain.CurrencyUSD))

	if errs.Valid() {
		t.Fatal("expected validation errors")
	}
	messages := errs.On(FieldTransferAmount)
	if len(messages) != 1 || messages[0] != "$5.01 exceeds your available account balance of $5.00" {
		t.Fatalf("unexpected messages: %v", messages)
	}
}

func TestValidateTransfer_OverMaximumCollectsBothAmountErrors(t *testing.T) {
	// 100.01 breaks the maximum and the available balance at once; both
	// messages must be reported.
	account := buildAccount(t, cents(10001), "adam@smith.tst")
	errs := ValidateTransfer(account, domain.NewMoney(500, domain.CurrencyUSD))

	messages := errs.On(FieldTransferAmount)
	if len(messages) != 2 {
		t.Fatalf("expected two messages, got %v", messages)
	}
	if messages[0] != "must be less than or equal to $100.00" {
		t.Fatalf("unexpected first message: %q", messages[0])
	}
	if messages[1] != "$100.01 exceeds your available account balance of $5.00" {
		t.Fatalf("unexpected second message: %q", messages[1])
	}
}

func TestValidateTransfer_BogusDestination(t *testing.T) {
	account := buildAccount(t, cents(400), "bogus")
	errs := ValidateTransfer(account, domain.NewMoney(500, domain.CurrencyUSD))

	if errs.Valid() {
		t.Fatal("expected validation errors")
	}
	if !errs.Invalid("paypal_account") {
		t.Fatal("expected paypal_account to be invalid")
	}
	messages := errs.On("paypal_account")
	if len(messages) != 1 || messages[0] != "appears to be invalid" {
		t.Fatalf("unexpected messages: %v", messages)
	}
}

func TestValidateTransfer_EmptyDestination(t *testing.T) {
	account := buildAccount(t, cents(400), "")
	errs := ValidateTransfer(account, domain.NewMoney(500, domain.CurrencyUSD))

	if !errs.Invalid("paypal_account") {
		t.Fatal("expected paypal_account to be invalid")
	}
}
