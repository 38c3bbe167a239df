// Package core holds the remittance domain types and the fee/conversion
// arithmetic.
//
// This file contains the calculator invoked whenever the user edits the
// amount field. It is a pure function over the current draft: every call
// recomputes transferFees, totalSpent and amountReceived together so the
// derived fields can never go stale against the entered amount.
package core

import "strconv"

// TransferFeesPercentage is the fixed percentage-based transfer fee policy.
const TransferFeesPercentage = 0.05

// Calculate returns a copy of current with amount, transferFees, totalSpent
// and amountReceived recomputed for amountToSend:
//
//	transferFees   = amountToSend * 0.05
//	totalSpent     = amountToSend + monecoFees + transferFees
//	amountReceived = (amountToSend - transferFees) * conversionRate
//
// Negative amounts are rejected. All arithmetic is plain float64; rounding
// happens only at display time (see FormatAmount).
func Calculate(amountToSend float64, current Transaction) (Transaction, error) {
	if amountToSend < 0 {
		return Transaction{}, ErrNegativeAmount
	}

	transferFees := amountToSend * TransferFeesPercentage

	out := current
	out.Amount = strconv.FormatFloat(amountToSend, 'f', -1, 64)
	out.TransferFees = transferFees
	out.TotalSpent = amountToSend + current.MonecoFees + transferFees
	out.AmountReceived = (amountToSend - transferFees) * current.ConversionRate
	return out, nil
}

// AmountToSend parses the draft's string-encoded amount back to a float64.
func (t Transaction) AmountToSend() (float64, error) {
	if t.Amount == "" {
		return 0, ErrAmountNotComputed
	}
	v, err := strconv.ParseFloat(t.Amount, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	return v, nil
}
