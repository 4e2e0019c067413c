package currency

import (
	"math"
	"strconv"
)

// Code is a display currency. Amounts are stored in the base unit (INR);
// other codes are a cosmetic conversion at a fixed rate.
type Code string

const (
	INR Code = "INR"
	USD Code = "USD"
)

// ParseCode normalizes a currency code. Returns false for unsupported codes.
func ParseCode(s string) (Code, bool) {
	switch Code(s) {
	case INR:
		return INR, true
	case USD:
		return USD, true
	}
	return "", false
}

func Symbol(code Code) string {
	if code == USD {
		return "$"
	}
	return "₹"
}

// Converter converts base-unit amounts into a display currency.
type Converter struct {
	rate float64
}

// NewConverter creates a Converter with the given base-units-per-USD rate.
func NewConverter(rate float64) *Converter {
	return &Converter{rate: rate}
}

// Convert returns the amount in the given display currency.
// USD amounts are rounded to 2 decimals.
func (c *Converter) Convert(amount float64, code Code) float64 {
	if code == USD {
		return math.Round(amount/c.rate*100) / 100
	}
	return amount
}

// Format renders an amount with its currency symbol, e.g. "₹250" or "$3.01".
func (c *Converter) Format(amount float64, code Code) string {
	converted := c.Convert(amount, code)
	if code == USD {
		return Symbol(code) + strconv.FormatFloat(converted, 'f', 2, 64)
	}
	return Symbol(code) + strconv.FormatFloat(converted, 'f', -1, 64)
}
