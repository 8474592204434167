package ctl

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"gagyebu/internal/budget"
)

var printer = message.NewPrinter(language.Korean)

// formatAmount groups thousands: 1234567 -> 1,234,567.
func formatAmount(v int64) string {
	return printer.Sprintf("%d", v)
}

func signed(v int64) string {
	s := formatAmount(v)
	if v < 0 {
		return color.RedString(s)
	}
	return s
}

func discrepancy(v int64) string {
	if v == 0 {
		return color.GreenString("0")
	}
	return color.YellowString("%+d", v)
}

func monthLabel(m int) string {
	if m == 0 {
		return "-"
	}
	return fmt.Sprintf("%d월", m)
}

func formatRate(f budget.Figures) string {
	if !f.HasRate {
		return "-"
	}
	pct := decimal.NewFromFloat(f.BurnRate).Shift(2).StringFixed(1) + "%"
	switch f.Status {
	case budget.StatusOver:
		return color.RedString(pct)
	case budget.StatusWarning:
		return color.YellowString(pct)
	default:
		return color.GreenString(pct)
	}
}

func figureRow(label string, f budget.Figures) []string {
	return []string{label, formatAmount(f.Annualized), formatAmount(f.Spent), signed(f.Remaining), formatRate(f)}
}

// renderTable writes a boxed table. A nil header renders rows only.
func renderTable(w io.Writer, header []string, rows [][]string) error {
	table := pterm.DefaultTable.WithBoxed()
	data := pterm.TableData{}
	if header != nil {
		table = table.WithHasHeader().WithHeaderStyle(pterm.NewStyle(pterm.FgLightCyan))
		data = append(data, header)
	}
	data = append(data, rows...)
	if len(data) == 0 {
		return nil
	}
	rendered, err := table.WithData(data).Srender()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, rendered)
	return err
}
