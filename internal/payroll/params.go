package payroll

import "github.com/shopspring/decimal"

// ProfessionalTaxBracket is one slab of the flat professional-tax schedule
// (§4.1 step 7): Gross at or below UpToGross pays Amount. The last bracket
// should carry a very large UpToGross to act as a catch-all.
type ProfessionalTaxBracket struct {
	UpToGross decimal.Decimal
	Amount    decimal.Decimal
}

// Parameters is the statutory/configuration constant table the calculator
// and pay-run generator are pure functions of. It is injected into the
// calculator rather than held as a package-level literal (§4.1);
// cmd/api/main.go passes DefaultParameters() and reads none of these values
// from the environment or a config file.
type Parameters struct {
	PFBaseCap          decimal.Decimal
	PFEmployeeRate     decimal.Decimal
	PFEmployerRate     decimal.Decimal
	ESIEmployeeRate    decimal.Decimal
	ESIEmployerRate    decimal.Decimal
	ProfessionalTax    []ProfessionalTaxBracket
	DefaultConveyance  decimal.Decimal
	DefaultTelephone   decimal.Decimal
	DefaultMedical     decimal.Decimal
	HRAPercentLowCTC   decimal.Decimal
	HRAPercentHighCTC  decimal.Decimal
	HRAThresholdAnnual decimal.Decimal
	DefaultWorkingDays int
}

// DefaultParameters returns the spec's documented defaults (§4.1, §4.2).
// The server uses this table unchanged; there is no configuration override.
func DefaultParameters() Parameters {
	return Parameters{
		PFBaseCap:          decimal.NewFromInt(15000),
		PFEmployeeRate:     decimal.NewFromFloat(0.12),
		PFEmployerRate:     decimal.NewFromFloat(0.12),
		ESIEmployeeRate:    decimal.NewFromFloat(0.0075),
		ESIEmployerRate:    decimal.NewFromFloat(0.0325),
		ProfessionalTax: []ProfessionalTaxBracket{
			{UpToGross: decimal.NewFromInt(999999999), Amount: decimal.NewFromInt(200)},
		},
		DefaultConveyance:  decimal.NewFromInt(1600),
		DefaultTelephone:   decimal.NewFromInt(1000),
		DefaultMedical:     decimal.NewFromInt(1250),
		HRAPercentLowCTC:   decimal.NewFromInt(10),
		HRAPercentHighCTC:  decimal.NewFromInt(40),
		HRAThresholdAnnual: decimal.NewFromInt(1200000),
		DefaultWorkingDays: 26,
	}
}

// professionalTax looks up the flat schedule by gross bracket, returning the
// first bracket whose ceiling covers gross.
func (p Parameters) professionalTax(gross decimal.Decimal) decimal.Decimal {
	for _, b := range p.ProfessionalTax {
		if gross.LessThanOrEqual(b.UpToGross) {
			return b.Amount
		}
	}
	if len(p.ProfessionalTax) > 0 {
		return p.ProfessionalTax[len(p.ProfessionalTax)-1].Amount
	}
	return decimal.Zero
}

// defaultHRAPercent returns the default HRA percentage for the given annual
// CTC (§4.1 input: "default 10 for CTC < 12 lakh, else 40").
func (p Parameters) defaultHRAPercent(ctcAnnual decimal.Decimal) decimal.Decimal {
	if ctcAnnual.LessThan(p.HRAThresholdAnnual) {
		return p.HRAPercentLowCTC
	}
	return p.HRAPercentHighCTC
}
