package pdf

import (
	"fmt"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/border"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/HMB-research/open-accounting/internal/models"
)

// Settings holds the employer identity printed on every generated payslip.
type Settings struct {
	CompanyName string
	FooterText  string
}

// DefaultSettings returns the built-in settings used when none are supplied.
func DefaultSettings() Settings {
	return Settings{
		CompanyName: "Company",
		FooterText:  "This is a system-generated payslip and does not require a signature.",
	}
}

// Service generates payslip PDFs from a pay-run's line items (§4.2's export
// surface — the pay-run itself returns structured line items; rendering them
// into a document is this package's concern).
type Service struct{}

// NewService creates a new PDF service.
func NewService() *Service {
	return &Service{}
}

// GeneratePayslipPDF renders a single employee's pay-run line item as a
// one-page payslip for the given period.
func (s *Service) GeneratePayslipPDF(employee *models.Employee, period models.Period, line models.PayRunLineItem, settings Settings) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
			Size:    8,
		}).
		WithLeftMargin(15).
		WithTopMargin(15).
		WithRightMargin(15).
		Build()

	m := maroto.New(cfg)

	s.addHeader(m, settings, period)
	s.addEmployeeDetails(m, employee)
	s.addEarningsAndDeductions(m, line)
	s.addNetPay(m, line)
	s.addFooter(m, settings)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	return doc.GetBytes(), nil
}

func (s *Service) addHeader(m core.Maroto, settings Settings, period models.Period) {
	m.AddRow(20,
		col.New(8).Add(
			text.New(settings.CompanyName, props.Text{
				Size:  16,
				Style: fontstyle.Bold,
				Align: align.Left,
			}),
		),
		col.New(4).Add(
			text.New("Payslip", props.Text{
				Size:  14,
				Style: fontstyle.Bold,
				Align: align.Right,
			}),
		),
	)

	m.AddRow(6,
		col.New(12).Add(
			text.New(fmt.Sprintf("Pay period: %s", period.String()), props.Text{
				Size:  9,
				Align: align.Left,
			}),
		),
	)

	m.AddRow(5)
	m.AddRow(1,
		col.New(12).Add(
			line.New(props.Line{Thickness: 0.5}),
		),
	)
	m.AddRow(8)
}

func (s *Service) addEmployeeDetails(m core.Maroto, employee *models.Employee) {
	labelStyle := props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Left}
	valueStyle := props.Text{Size: 9, Align: align.Left}

	m.AddRow(6,
		col.New(3).Add(text.New("Employee", labelStyle)),
		col.New(9).Add(text.New(employee.FullName(), valueStyle)),
	)
	m.AddRow(6,
		col.New(3).Add(text.New("Employee ID", labelStyle)),
		col.New(9).Add(text.New(employee.PublicID, valueStyle)),
	)
	m.AddRow(6,
		col.New(3).Add(text.New("Department", labelStyle)),
		col.New(9).Add(text.New(employee.Department, valueStyle)),
	)

	m.AddRow(8)
}

func (s *Service) addEarningsAndDeductions(m core.Maroto, l models.PayRunLineItem) {
	headerStyle := props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Left}
	headerStyleRight := props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}
	cellStyle := props.Text{Size: 9, Align: align.Left}
	cellStyleRight := props.Text{Size: 9, Align: align.Right}

	m.AddRow(7,
		col.New(4).Add(text.New("Attendance", headerStyle)),
		col.New(4).Add(text.New(fmt.Sprintf("%d / %d payable days", l.PayableDays, l.TotalWorkingDays), cellStyle)),
	)
	m.AddRow(5)

	m.AddRow(7,
		col.New(6).Add(text.New("Earnings", headerStyle)),
		col.New(6).Add(text.New("Deductions", headerStyleRight)),
	).WithStyle(&props.Cell{
		BackgroundColor: &props.Color{Red: 240, Green: 240, Blue: 240},
		BorderType:      border.Bottom,
		BorderThickness: 0.5,
	})

	rows := [][4]string{
		{"Gross pay", formatDecimal(l.Gross), "Provident fund", formatDecimal(l.PFEmployee)},
		{"", "", "ESI", formatDecimal(l.ESIEmployee)},
		{"", "", "Professional tax", formatDecimal(l.ProfessionalTax)},
		{"", "", "TDS", formatDecimal(l.TDSMonthly)},
		{"", "", "Loan EMI", formatDecimal(l.LoanDeductions)},
		{"", "", "Advance recovery", formatDecimal(l.AdvanceDeductions)},
		{"", "", "Loss of pay", formatDecimal(l.LossOfPayAmount)},
	}

	for _, row := range rows {
		m.AddRow(6,
			col.New(3).Add(text.New(row[0], cellStyle)),
			col.New(3).Add(text.New(row[1], cellStyleRight)),
			col.New(3).Add(text.New(row[2], cellStyle)),
			col.New(3).Add(text.New(row[3], cellStyleRight)),
		)
	}

	m.AddRow(5)
}

func (s *Service) addNetPay(m core.Maroto, l models.PayRunLineItem) {
	m.AddRow(1,
		col.New(12).Add(line.New(props.Line{Thickness: 0.5})),
	)
	m.AddRow(8,
		col.New(8),
		col.New(2).Add(text.New("Net pay:", props.Text{Size: 11, Style: fontstyle.Bold, Align: align.Left})),
		col.New(2).Add(text.New(formatDecimal(l.Net), props.Text{Size: 11, Style: fontstyle.Bold, Align: align.Right})),
	)
	m.AddRow(10)
}

func (s *Service) addFooter(m core.Maroto, settings Settings) {
	if settings.FooterText == "" {
		return
	}
	m.AddRow(10)
	m.AddRow(6,
		col.New(12).Add(
			text.New(settings.FooterText, props.Text{
				Size:  9,
				Style: fontstyle.Italic,
				Align: align.Center,
			}),
		),
	)
}

func formatDecimal(d models.Decimal) string {
	return d.StringFixed(2)
}
