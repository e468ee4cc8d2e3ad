package payroll

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateBasicHRAAndPF(t *testing.T) {
	params := DefaultParameters()
	tenPercent := decimal.NewFromInt(10)
	input := CompensationInput{
		CTCAnnual:  decimal.NewFromInt(1200000),
		HRAPercent: &tenPercent,
		IncludePF:  true,
		TDSAnnual:  decimal.NewFromInt(60000),
	}

	comp, err := Calculate(input, params)
	require.NoError(t, err)

	assert.True(t, comp.MonthlyCTC.Equal(decimal.NewFromInt(100000)))
	assert.True(t, comp.Basic.Equal(decimal.NewFromInt(50000)))
	assert.True(t, comp.HRA.Equal(decimal.NewFromInt(5000)))
	assert.True(t, comp.PFEmployee.Equal(decimal.NewFromInt(1800)))
	assert.True(t, comp.PFEmployer.Equal(decimal.NewFromInt(1800)))
	assert.True(t, comp.TDSMonthly.Equal(decimal.NewFromInt(5000)))
	assert.True(t, comp.ESIEmployee.IsZero())
}

func TestCalculateNegativeCTCRejected(t *testing.T) {
	_, err := Calculate(CompensationInput{CTCAnnual: decimal.NewFromInt(-1)}, DefaultParameters())
	assert.Error(t, err)
}

func TestCalculateInvalidHRAPercentRejected(t *testing.T) {
	bad := decimal.NewFromInt(150)
	_, err := Calculate(CompensationInput{
		CTCAnnual:  decimal.NewFromInt(600000),
		HRAPercent: &bad,
	}, DefaultParameters())
	assert.Error(t, err)
}

func TestCalculateHighCTCUsesHighHRADefault(t *testing.T) {
	params := DefaultParameters()
	comp, err := Calculate(CompensationInput{CTCAnnual: decimal.NewFromInt(2400000)}, params)
	require.NoError(t, err)

	assert.True(t, comp.HRAPercent.Equal(params.HRAPercentHighCTC))
}

func TestCalculateESIAppliedWhenIncluded(t *testing.T) {
	comp, err := Calculate(CompensationInput{
		CTCAnnual:  decimal.NewFromInt(240000),
		IncludeESI: true,
	}, DefaultParameters())
	require.NoError(t, err)

	assert.False(t, comp.ESIEmployee.IsZero())
	assert.False(t, comp.ESIEmployer.IsZero())
}

func TestCalculateExcessiveFixedAllowancesRejected(t *testing.T) {
	huge := decimal.NewFromInt(1000000)
	_, err := Calculate(CompensationInput{
		CTCAnnual:  decimal.NewFromInt(120000),
		Conveyance: &huge,
	}, DefaultParameters())
	assert.Error(t, err)
}
