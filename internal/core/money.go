// Package core provides the ledger domain types and amount parsing.
//
// This file contains functions for parsing signed monetary amounts from
// strings and bridging them to the JSON number representation used by the
// persisted document.
package core

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount converts a decimal string to an exact signed amount.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators and an
// optional leading sign. Returns ErrInvalidAmount for anything that is not a
// plain decimal number.
//
// Examples:
//
//	ParseAmount("12.34")  -> 12.34, nil
//	ParseAmount("12,34")  -> 12.34, nil
//	ParseAmount("-250")   -> -250, nil
//	ParseAmount("1e3")    -> 0, ErrInvalidAmount
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	// Normalize decimal comma to dot
	s = strings.ReplaceAll(s, ",", ".")
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r == '.' || r == '+' || r == '-':
		default:
			// NewFromString also accepts exponent notation; the document
			// format never uses it, so keep the accepted grammar plain.
			return decimal.Zero, ErrInvalidAmount
		}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// AmountFromNumber converts a raw JSON number into an exact amount.
func AmountFromNumber(n json.Number) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(n.String())
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// AmountToNumber renders an amount as a raw JSON number, preserving the exact
// decimal representation.
func AmountToNumber(d decimal.Decimal) json.Number {
	return json.Number(d.String())
}
