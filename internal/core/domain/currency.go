package domain

// Currency is a scheme-supported currency. Decimals is the number of
// fractional digits carried by scaled-integer amounts in that currency.
type Currency struct {
	Code     string `json:"code"`     // Primary key, e.g. "EUR"
	Decimals int    `json:"decimals"` // e.g. 2
}
