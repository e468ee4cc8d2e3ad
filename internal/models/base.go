// Package models holds the persisted aggregates of the HR back office:
// identity, employee records, designations, attendance, advances, loans,
// leave requests, pay-runs, and the audit trail.
package models

import (
	"fmt"
	"time"

	"github.com/HMB-research/open-accounting/internal/database"
)

// Re-exported for convenience so domain packages only import one decimal type.
type Decimal = database.Decimal

var (
	NewDecimal           = database.NewDecimal
	NewDecimalFromFloat  = database.NewDecimalFromFloat
	NewDecimalFromString = database.NewDecimalFromString
	DecimalZero          = database.DecimalZero
)

// Base is embedded by every aggregate root. There is no tenant column: this
// service is single-tenant by design.
type Base struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Period is a (month, year) pay-period key. Month is 1-12.
type Period struct {
	Month int `json:"month"`
	Year  int `json:"year"`
}

// Before reports whether p precedes o chronologically.
func (p Period) Before(o Period) bool {
	if p.Year != o.Year {
		return p.Year < o.Year
	}
	return p.Month < o.Month
}

// Equal reports whether p and o name the same calendar month.
func (p Period) Equal(o Period) bool {
	return p.Month == o.Month && p.Year == o.Year
}

// Next returns the period one calendar month after p.
func (p Period) Next() Period {
	if p.Month == 12 {
		return Period{Month: 1, Year: p.Year + 1}
	}
	return Period{Month: p.Month + 1, Year: p.Year}
}

// String renders the period as "2026-03".
func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, p.Month)
}
