package models

import "strings"

// Symbol identifies a security. Per-symbol feeds know only the ticker given
// by the caller; universe feeds also carry the security identifier.
type Symbol struct {
	SecurityID string `json:"security_id,omitempty" msgpack:"security_id,omitempty"`
	Ticker     string `json:"ticker" msgpack:"ticker"`
}

// NewSymbol creates Symbol from a ticker only.
func NewSymbol(ticker string) Symbol {
	return Symbol{Ticker: strings.ToUpper(strings.TrimSpace(ticker))}
}

// Value is the lower case ticker used in file names.
func (x Symbol) Value() string {
	return strings.ToLower(x.Ticker)
}

func (x Symbol) String() string {
	if x.SecurityID == "" {
		return x.Ticker
	}
	return x.SecurityID + ":" + x.Ticker
}

// IsZero is true when neither ticker nor identifier is set.
func (x Symbol) IsZero() bool {
	return x.Ticker == "" && x.SecurityID == ""
}
