package models

import "github.com/shopspring/decimal"

// Summary aggregates an owner's income and expenses
// swagger:model Summary
type Summary struct {
	TotalIncome       decimal.Decimal `json:"totalIncome" swaggertype:"number"`
	TotalExpense      decimal.Decimal `json:"totalExpense" swaggertype:"number"`
	Balance           decimal.Decimal `json:"balance" swaggertype:"number"`
	IncomeCount       int64           `json:"incomeCount"`
	ExpenseCount      int64           `json:"expenseCount"`
	TotalTransactions int64           `json:"totalTransactions"`
}

// TypeTotal is one row of the summary grouping.
type TypeTotal struct {
	Type  string          `db:"type"`
	Total decimal.Decimal `db:"total"`
	Count int64           `db:"count"`
}

// CategoryBreakdown aggregates transactions of one category
// swagger:model CategoryBreakdown
type CategoryBreakdown struct {
	Category  string          `json:"category" db:"category"`
	Total     decimal.Decimal `json:"total" db:"total" swaggertype:"number"`
	Count     int64           `json:"count" db:"count"`
	AvgAmount decimal.Decimal `json:"avgAmount" db:"avg_amount" swaggertype:"number"`
}

// MonthTypeTotal is one row of the monthly grouping.
type MonthTypeTotal struct {
	Month int             `db:"month"`
	Type  string          `db:"type"`
	Total decimal.Decimal `db:"total"`
	Count int64           `db:"count"`
}

// MonthlyTrend aggregates one calendar month
// swagger:model MonthlyTrend
type MonthlyTrend struct {
	Month        string          `json:"month"`
	MonthNumber  int             `json:"monthNumber"`
	Income       decimal.Decimal `json:"income" swaggertype:"number"`
	Expense      decimal.Decimal `json:"expense" swaggertype:"number"`
	Balance      decimal.Decimal `json:"balance" swaggertype:"number"`
	IncomeCount  int64           `json:"incomeCount"`
	ExpenseCount int64           `json:"expenseCount"`
}
