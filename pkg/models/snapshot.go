package models

// FinancialSnapshot holds the fundamental metrics derived from the most
// recent annual report of a company. NetDebt and FreeCashFlow are derived
// fields; everything else is read straight from the statements.
type FinancialSnapshot struct {
	Ticker            string  `json:"ticker"`
	Revenue           float64 `json:"revenue"`
	OperatingIncome   float64 `json:"operating_income"`
	OperatingCashFlow float64 `json:"operating_cash_flow"`
	Capex             float64 `json:"capex"`
	FreeCashFlow      float64 `json:"free_cash_flow"`
	ShortTermDebt     float64 `json:"short_term_debt"`
	LongTermDebt      float64 `json:"long_term_debt"`
	Cash              float64 `json:"cash"`
	NetDebt           float64 `json:"net_debt"`
	SharesOutstanding float64 `json:"shares_outstanding"`
	MarketCap         float64 `json:"market_cap"`
	CurrentPrice      float64 `json:"current_price"`
}
