package dto

// CreateCurrencyRequest registers a currency with the directory.
type CreateCurrencyRequest struct {
	Code     string `json:"code" binding:"required,len=3,uppercase"`
	Decimals int    `json:"decimals" binding:"min=0,max=8"`
}
