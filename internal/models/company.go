package models

import "time"

// Company is one entry of the company directory
type Company struct {
	CorpCode   string    `json:"corp_code"`
	CorpName   string    `json:"corp_name"`
	StockCode  *string   `json:"stock_code"` // nil for unlisted companies
	ModifyDate string    `json:"modify_date,omitempty"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Listed reports whether the company trades under a ticker
func (c Company) Listed() bool {
	return c.StockCode != nil && *c.StockCode != ""
}

// Narrative is generated prose about a set of statements
type Narrative struct {
	Text     string `json:"analysis"`
	HTML     string `json:"html,omitempty"`
	Fallback bool   `json:"fallback"`
}

// NarrativeRequest carries the structured statements to be explained
type NarrativeRequest struct {
	Company         string           `json:"company"`
	Year            string           `json:"year"`
	BalanceSheet    *BalanceSheet    `json:"balanceSheet"`
	IncomeStatement *IncomeStatement `json:"incomeStatement"`
	Ratios          *RatioSet        `json:"ratios"`
	Prompt          string           `json:"prompt,omitempty"`
}
