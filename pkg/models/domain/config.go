package domain

import (
	"fmt"
	"strings"
)

type TotalsMode string

const (
	TotalsNone    TotalsMode = "none"
	TotalsInvoice TotalsMode = "invoice"
	TotalsQuote   TotalsMode = "quote"
)

// ConversionPolicy decides what happens when no fixed-layout converter is available.
type ConversionPolicy string

const (
	PolicyDegrade ConversionPolicy = "degrade"
	PolicyFail    ConversionPolicy = "fail"
)

func ParseConversionPolicy(s string) (ConversionPolicy, error) {
	policy := ConversionPolicy(strings.ToLower(strings.TrimSpace(s)))
	switch policy {
	case PolicyDegrade, PolicyFail:
		return policy, nil
	default:
		return "", fmt.Errorf("unknown conversion policy %q (want %q or %q)", s, PolicyDegrade, PolicyFail)
	}
}

// Kind describes one document type the generator can produce.
type Kind struct {
	Name          string
	Title         string
	NumberField   string
	Required      []string
	Template      string
	OutputPrefix  string
	Totals        TotalsMode
	OnUnavailable ConversionPolicy
	// RequireSource makes the CLI reject a missing input argument instead of reading stdin.
	RequireSource bool
}

func (k Kind) String() string {
	return fmt.Sprintf("%s:%s", k.Name, k.Template)
}
