package entities

import (
	"fmt"
	"strconv"
	"strings"
)

type Money struct {
	Amount   string `json:"amount" db:"amount"`
	Currency string `json:"currency" db:"currency"`
}

// Cents parses the decimal amount into cents. Amounts carry at most two
// decimal places end-to-end (NUMERIC(12,2) in the schema).
func (m Money) Cents() (int64, error) {
	amount := strings.TrimSpace(m.Amount)
	if amount == "" {
		return 0, fmt.Errorf("empty amount")
	}

	negative := false
	if strings.HasPrefix(amount, "-") {
		negative = true
		amount = amount[1:]
	}
	if amount == "" {
		return 0, fmt.Errorf("invalid amount %q", m.Amount)
	}

	whole, frac, _ := strings.Cut(amount, ".")
	if whole == "" && frac == "" {
		return 0, fmt.Errorf("invalid amount %q", m.Amount)
	}
	if whole == "" {
		whole = "0"
	}
	if len(frac) > 2 {
		return 0, fmt.Errorf("amount %q has more than two decimal places", m.Amount)
	}
	// both parts must be bare digits; ParseInt would accept an embedded sign
	if !isDigits(whole) || (frac != "" && !isDigits(frac)) {
		return 0, fmt.Errorf("invalid amount %q", m.Amount)
	}
	for len(frac) < 2 {
		frac += "0"
	}

	wholePart, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", m.Amount, err)
	}
	fracPart, err := strconv.ParseInt(frac, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", m.Amount, err)
	}

	cents := wholePart*100 + fracPart
	if negative {
		cents = -cents
	}
	return cents, nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}

func MoneyFromCents(cents int64, currency string) Money {
	negative := cents < 0
	if negative {
		cents = -cents
	}

	amount := fmt.Sprintf("%d.%02d", cents/100, cents%100)
	if negative {
		amount = "-" + amount
	}

	return Money{Amount: amount, Currency: currency}
}

func (m Money) IsPositive() bool {
	cents, err := m.Cents()
	return err == nil && cents > 0
}

type FeeSplit struct {
	Gross Money `json:"gross"`
	Fee   Money `json:"fee"`
	Net   Money `json:"net"`
}

// SplitFee cuts a percentage fee (in basis points) out of a gross amount.
// The fee is rounded half-up on cents, so net + fee == gross always holds.
func SplitFee(gross Money, feeBps int64) (FeeSplit, error) {
	if feeBps < 0 || feeBps > 10000 {
		return FeeSplit{}, fmt.Errorf("fee basis points out of range: %d", feeBps)
	}

	grossCents, err := gross.Cents()
	if err != nil {
		return FeeSplit{}, fmt.Errorf("could not parse gross amount: %w", err)
	}
	if grossCents <= 0 {
		return FeeSplit{}, fmt.Errorf("gross amount must be positive, got %q", gross.Amount)
	}

	feeCents := (grossCents*feeBps + 5000) / 10000

	return FeeSplit{
		Gross: MoneyFromCents(grossCents, gross.Currency),
		Fee:   MoneyFromCents(feeCents, gross.Currency),
		Net:   MoneyFromCents(grossCents-feeCents, gross.Currency),
	}, nil
}
