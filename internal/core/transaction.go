package core

import (
	"errors"
	"strings"
	"time"
)

// Defaults applied to every new transaction draft. The conversion rate is a
// fixed EUR -> XOF value for this build, not live-fetched.
const (
	DefaultCurrencyCode   = "EUR"
	DefaultMonecoFees     = 1.5
	DefaultTransferFees   = 0.05
	DefaultConversionRate = 655.94
)

type (
	// Recipient is someone who can receive a transfer through a mobile wallet.
	Recipient struct {
		ID           string `json:"id"`
		Name         string `json:"name"`
		Country      string `json:"country"`
		MobileWallet string `json:"mobile_wallet"`
		PhoneNumber  string `json:"phoneNumber,omitempty"`
		CurrencyCode string `json:"currencyCode,omitempty"`
	}

	// Transaction is a transfer being assembled across wizard steps, or a
	// persisted copy of one once confirmed. ID is zero while in draft and
	// assigned by the ledger on insert.
	Transaction struct {
		ID             int64      `json:"id"`
		Option         string     `json:"option,omitempty"`
		From           string     `json:"from,omitempty"`
		Recipient      *Recipient `json:"recipient,omitempty"`
		SelectedWallet string     `json:"selectedWallet,omitempty"`
		CurrencyCode   string     `json:"currencyCode"`
		Amount         string     `json:"amount,omitempty"`
		MonecoFees     float64    `json:"monecoFees"`
		TransferFees   float64    `json:"transferFees"`
		ConversionRate float64    `json:"conversionRate"`
		TotalSpent     float64    `json:"totalSpent"`
		AmountReceived float64    `json:"amountReceived"`
		Date           time.Time  `json:"date"`
	}
)

var (
	ErrNegativeAmount     = errors.New("negative amount")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrNoRecipient        = errors.New("no recipient selected")
	ErrNoWallet           = errors.New("no wallet selected")
	ErrAmountNotComputed  = errors.New("amount not computed")
	ErrNoTransactionDraft = errors.New("no transaction in progress")
)

// NewTransaction returns an empty draft with the fixed fee and conversion
// defaults and the creation timestamp set.
func NewTransaction() Transaction {
	return Transaction{
		CurrencyCode:   DefaultCurrencyCode,
		MonecoFees:     DefaultMonecoFees,
		TransferFees:   DefaultTransferFees,
		ConversionRate: DefaultConversionRate,
		Date:           time.Now(),
	}
}

// Persisted reports whether the transaction has been assigned a ledger id.
func (t Transaction) Persisted() bool {
	return t.ID > 0
}

// Validate checks that a draft is complete enough to be confirmed: a
// recipient and wallet were chosen and the amount went through the
// calculator. It does not re-check the arithmetic.
func (t Transaction) Validate() error {
	if t.Recipient == nil {
		return ErrNoRecipient
	}
	if strings.TrimSpace(t.SelectedWallet) == "" {
		return ErrNoWallet
	}
	if strings.TrimSpace(t.Amount) == "" {
		return ErrAmountNotComputed
	}
	return nil
}

func (r Recipient) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return errors.New("empty recipient name")
	}
	if strings.TrimSpace(r.Country) == "" {
		return errors.New("empty recipient country")
	}
	return nil
}
