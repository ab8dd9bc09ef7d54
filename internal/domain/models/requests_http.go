package models

// Requests for PDM HTTP endpoints. Defined in domain for consistency and reuse.

type ScanRequest struct {
	Symbols string `query:"symbols" json:"symbols"`
	Limit   int    `query:"limit" json:"limit" default:"25" validate:"gte=1,lte=100"`
	Refresh bool   `query:"refresh" json:"refresh"`
}

type EvaluateRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"required"`
}

type BacktestRequest struct {
	From      string `query:"from" json:"from" validate:"required"`
	To        string `query:"to" json:"to" validate:"required"`
	Benchmark string `query:"benchmark" json:"benchmark"`
}
