package services

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ashmitsharp/moneylens-api/internal/models"
	"github.com/ashmitsharp/moneylens-api/internal/reports"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const (
	XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	transactionsSheet = "Transactions"
	categoriesSheet   = "Categories"

	headerColor  = "4F46E5"
	incomeColor  = "22C55E"
	expenseColor = "EF4444"
	amountFormat = "#,##0.00"
)

var transactionColumns = []struct {
	header string
	width  float64
}{
	{"#", 5},
	{"Date", 15},
	{"Description", 40},
	{"Category", 20},
	{"Type", 12},
	{"Amount", 18},
}

// ExportFormatter renders assembled reports as XLSX workbooks
type ExportFormatter struct{}

func NewExportFormatter() *ExportFormatter {
	return &ExportFormatter{}
}

type exportStyles struct {
	header        int
	incomeAmount  int
	expenseAmount int
	incomeText    int
	expenseText   int
	bold          int
	boldIncome    int
	boldExpense   int
	boldAmount    int
}

// MonthlyWorkbook writes one row per transaction, newest day first, followed by
// income, expense and net balance totals. A second sheet holds the category breakdown.
func (e *ExportFormatter) MonthlyWorkbook(report reports.MonthlyDetailReport, breakdown []reports.CategoryLine) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", transactionsSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	styles, err := newExportStyles(f)
	if err != nil {
		return nil, err
	}

	if err := writeHeader(f, transactionsSheet, styles.header); err != nil {
		return nil, err
	}

	row := 2
	index := 1
	for _, day := range report.Days {
		for _, line := range day.Transactions {
			description := line.Description
			if strings.TrimSpace(description) == "" {
				description = "-"
			}
			category := line.CategoryName
			if category == "" {
				category = "-"
			}

			values := []interface{}{
				index,
				line.LocalDate,
				description,
				category,
				strings.ToUpper(line.Type.String()),
				line.Amount.InexactFloat64(),
			}
			cell, _ := excelize.CoordinatesToCellName(1, row)
			if err := f.SetSheetRow(transactionsSheet, cell, &values); err != nil {
				return nil, fmt.Errorf("write row %d: %w", row, err)
			}

			amountStyle, textStyle := styles.expenseAmount, styles.expenseText
			if line.Type == models.Income {
				amountStyle, textStyle = styles.incomeAmount, styles.incomeText
			}
			if err := setStyle(f, transactionsSheet, 6, row, amountStyle); err != nil {
				return nil, err
			}
			if err := setStyle(f, transactionsSheet, 5, row, textStyle); err != nil {
				return nil, err
			}

			row++
			index++
		}
	}

	// Leave one empty row before the totals
	row++
	totals := []struct {
		label string
		value decimal.Decimal
		style int
	}{
		{"Total Income", report.Income, styles.boldIncome},
		{"Total Expense", report.Expense, styles.boldExpense},
		{"Net Balance", report.Income.Sub(report.Expense), styles.boldAmount},
	}
	for _, total := range totals {
		if err := setValue(f, transactionsSheet, 3, row, total.label, styles.bold); err != nil {
			return nil, err
		}
		if err := setValue(f, transactionsSheet, 6, row, total.value.InexactFloat64(), total.style); err != nil {
			return nil, err
		}
		row++
	}

	if err := writeCategorySheet(f, breakdown, styles); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf, nil
}

// ExportFilename names the workbook after its period
func ExportFilename(year, month int) string {
	return fmt.Sprintf("transactions_%d_%02d.xlsx", year, month)
}

func writeHeader(f *excelize.File, sheet string, style int) error {
	for i, col := range transactionColumns {
		name, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(sheet, name, name, col.width); err != nil {
			return fmt.Errorf("set column width: %w", err)
		}
		if err := setValue(f, sheet, i+1, 1, col.header, style); err != nil {
			return err
		}
	}
	if err := f.SetRowHeight(sheet, 1, 24); err != nil {
		return fmt.Errorf("set header height: %w", err)
	}
	return nil
}

func writeCategorySheet(f *excelize.File, breakdown []reports.CategoryLine, styles exportStyles) error {
	if _, err := f.NewSheet(categoriesSheet); err != nil {
		return fmt.Errorf("create categories sheet: %w", err)
	}

	headers := []string{"Category", "Type", "Count", "Total"}
	widths := []float64{25, 12, 10, 18}
	for i, h := range headers {
		name, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(categoriesSheet, name, name, widths[i]); err != nil {
			return fmt.Errorf("set column width: %w", err)
		}
		if err := setValue(f, categoriesSheet, i+1, 1, h, styles.header); err != nil {
			return err
		}
	}

	for i, line := range breakdown {
		row := i + 2
		values := []interface{}{line.Name, strings.ToUpper(line.Type.String()), line.Count, line.Total.InexactFloat64()}
		cell, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(categoriesSheet, cell, &values); err != nil {
			return fmt.Errorf("write category row %d: %w", row, err)
		}
		style := styles.expenseAmount
		if line.Type == models.Income {
			style = styles.incomeAmount
		}
		if err := setStyle(f, categoriesSheet, 4, row, style); err != nil {
			return err
		}
	}
	return nil
}

func setValue(f *excelize.File, sheet string, col, row int, value interface{}, style int) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	if err := f.SetCellValue(sheet, cell, value); err != nil {
		return fmt.Errorf("set %s: %w", cell, err)
	}
	return f.SetCellStyle(sheet, cell, cell, style)
}

func setStyle(f *excelize.File, sheet string, col, row int, style int) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, cell, cell, style)
}

func newExportStyles(f *excelize.File) (exportStyles, error) {
	numFmt := amountFormat
	var s exportStyles
	var err error

	defs := []struct {
		dst   *int
		style *excelize.Style
	}{
		{&s.header, &excelize.Style{
			Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
			Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{headerColor}},
			Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		}},
		{&s.incomeAmount, &excelize.Style{Font: &excelize.Font{Color: incomeColor}, CustomNumFmt: &numFmt}},
		{&s.expenseAmount, &excelize.Style{Font: &excelize.Font{Color: expenseColor}, CustomNumFmt: &numFmt}},
		{&s.incomeText, &excelize.Style{Font: &excelize.Font{Color: incomeColor}}},
		{&s.expenseText, &excelize.Style{Font: &excelize.Font{Color: expenseColor}}},
		{&s.bold, &excelize.Style{Font: &excelize.Font{Bold: true}}},
		{&s.boldIncome, &excelize.Style{Font: &excelize.Font{Bold: true, Color: incomeColor}, CustomNumFmt: &numFmt}},
		{&s.boldExpense, &excelize.Style{Font: &excelize.Font{Bold: true, Color: expenseColor}, CustomNumFmt: &numFmt}},
		{&s.boldAmount, &excelize.Style{Font: &excelize.Font{Bold: true}, CustomNumFmt: &numFmt}},
	}
	for _, d := range defs {
		if *d.dst, err = f.NewStyle(d.style); err != nil {
			return exportStyles{}, fmt.Errorf("create style: %w", err)
		}
	}
	return s, nil
}
