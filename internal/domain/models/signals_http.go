package models

// Requests for the signal HTTP endpoints. Defined in domain for consistency and reuse.

type SignalRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"omitempty,alphanum,max=32"`
}

type AnalyzeRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"omitempty,alphanum,max=32"`
}

type TimeframeRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"omitempty,alphanum,max=32"`
	TF     string `param:"tf" json:"tf" validate:"required,oneof=15m 1H 4H 1D"`
}

type HistoryRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"omitempty,alphanum,max=32"`
	Limit  int    `query:"limit" json:"limit" default:"20" validate:"gte=1,lte=500"`
}
