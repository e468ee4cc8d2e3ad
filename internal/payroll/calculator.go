// Package payroll implements the compensation calculator and pay-run
// generator (§4.1, §4.2): the HR back office's core financial arithmetic.
package payroll

import (
	"github.com/shopspring/decimal"

	"github.com/HMB-research/open-accounting/internal/apierror"
	"github.com/HMB-research/open-accounting/internal/models"
)

// CompensationInput is the calculator's input (§4.1).
type CompensationInput struct {
	CTCAnnual        decimal.Decimal
	HRAPercent       *decimal.Decimal
	Conveyance       *decimal.Decimal
	Telephone        *decimal.Decimal
	MedicalAllowance *decimal.Decimal
	IncludePF        bool
	IncludeESI       bool
	TDSAnnual        decimal.Decimal
}

// round rounds to the nearest whole currency unit using banker's rounding
// (round-half-to-even), matching §4.1's repeated "round(...)" steps.
func round(d decimal.Decimal) decimal.Decimal {
	return d.RoundBank(0)
}

// Calculate runs the §4.1 compensation algorithm and returns the fully
// derived Compensation block. It is a pure function of input and params.
func Calculate(input CompensationInput, params Parameters) (models.Compensation, error) {
	if input.CTCAnnual.IsNegative() {
		return models.Compensation{}, apierror.WithFields(apierror.InvalidInput, "CTC must not be negative",
			apierror.FieldError{Field: "ctc_annual", Message: "must be >= 0"})
	}

	hraPercent := params.defaultHRAPercent(input.CTCAnnual)
	if input.HRAPercent != nil {
		hraPercent = *input.HRAPercent
	}
	if hraPercent.IsNegative() || hraPercent.GreaterThan(decimal.NewFromInt(100)) {
		return models.Compensation{}, apierror.WithFields(apierror.InvalidInput, "HRA percentage must be between 0 and 100",
			apierror.FieldError{Field: "hra_percent", Message: "must be between 0 and 100"})
	}

	conveyance := params.DefaultConveyance
	if input.Conveyance != nil {
		conveyance = *input.Conveyance
	}
	telephone := params.DefaultTelephone
	if input.Telephone != nil {
		telephone = *input.Telephone
	}
	medical := params.DefaultMedical
	if input.MedicalAllowance != nil {
		medical = *input.MedicalAllowance
	}

	// 1. Monthly CTC.
	monthlyCTC := round(input.CTCAnnual.Div(decimal.NewFromInt(12)))

	// 2. Basic, capped for PF base purposes.
	basic := round(monthlyCTC.Mul(decimal.NewFromFloat(0.5)))
	pfBase := basic
	if pfBase.GreaterThan(params.PFBaseCap) {
		pfBase = params.PFBaseCap
	}

	// 3. HRA.
	hra := round(basic.Mul(hraPercent).Div(decimal.NewFromInt(100)))

	// 5. PF.
	pfEmployee := decimal.Zero
	pfEmployer := decimal.Zero
	if input.IncludePF {
		pfEmployee = round(pfBase.Mul(params.PFEmployeeRate))
		pfEmployer = round(pfBase.Mul(params.PFEmployerRate))
	}

	// 9 (partial). Gross is monthly CTC minus employer PF minus employer ESI.
	// ESI is itself computed on Gross (step 6), so resolve the two-equation
	// system directly: employer ESI is a fixed fraction of (monthlyCTC -
	// employerPF - employerESI), solved algebraically.
	esiEmployerRate := decimal.Zero
	esiEmployeeRate := decimal.Zero
	if input.IncludeESI {
		esiEmployerRate = params.ESIEmployerRate
		esiEmployeeRate = params.ESIEmployeeRate
	}
	baseForGross := monthlyCTC.Sub(pfEmployer)
	gross := baseForGross.Div(decimal.NewFromInt(1).Add(esiEmployerRate))
	gross = round(gross)

	esiEmployee := decimal.Zero
	esiEmployer := decimal.Zero
	if input.IncludeESI {
		esiEmployee = round(gross.Mul(esiEmployeeRate))
		esiEmployer = round(gross.Mul(esiEmployerRate))
	}

	// 7. Professional tax.
	professionalTax := params.professionalTax(gross)

	// 8. TDS monthly.
	tdsMonthly := round(input.TDSAnnual.Div(decimal.NewFromInt(12)))

	// 9. Special allowance.
	fixedTotal := basic.Add(hra).Add(conveyance).Add(telephone).Add(medical)
	specialAllowance := gross.Sub(fixedTotal)
	if specialAllowance.IsNegative() {
		return models.Compensation{}, apierror.WithFields(apierror.InvalidInput,
			"Fixed allowances exceed the residual gross available for special allowance",
			apierror.FieldError{Field: "special_allowance", Message: "would be negative"})
	}

	// 10. Net.
	net := gross.Sub(pfEmployee).Sub(esiEmployee).Sub(professionalTax).Sub(tdsMonthly)

	return models.Compensation{
		CTCAnnual:        models.NewDecimal(input.CTCAnnual),
		HRAPercent:       models.NewDecimal(hraPercent),
		Conveyance:       models.NewDecimal(conveyance),
		Telephone:        models.NewDecimal(telephone),
		MedicalAllowance: models.NewDecimal(medical),
		IncludePF:        input.IncludePF,
		IncludeESI:       input.IncludeESI,
		TDSAnnual:        models.NewDecimal(input.TDSAnnual),
		MonthlyCTC:       models.NewDecimal(monthlyCTC),
		Basic:            models.NewDecimal(basic),
		HRA:              models.NewDecimal(hra),
		SpecialAllowance: models.NewDecimal(specialAllowance),
		Gross:            models.NewDecimal(gross),
		PFEmployee:       models.NewDecimal(pfEmployee),
		PFEmployer:       models.NewDecimal(pfEmployer),
		ESIEmployee:      models.NewDecimal(esiEmployee),
		ESIEmployer:      models.NewDecimal(esiEmployer),
		ProfessionalTax:  models.NewDecimal(professionalTax),
		TDSMonthly:       models.NewDecimal(tdsMonthly),
		Net:              models.NewDecimal(net),
	}, nil
}
