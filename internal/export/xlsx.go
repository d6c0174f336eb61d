package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"loandesk-backend/internal/loans"
)

const sheetName = "Loans"

type column struct {
	header string
	width  float64
	value  func(loans.Loan) *string
}

var columns = []column{
	{"Loan #", 15, func(l loans.Loan) *string { return l.LoanNumber }},
	{"Lender", 20, func(l loans.Loan) *string { return l.Lender }},
	{"Borrower", 20, func(l loans.Loan) *string { return l.Borrower }},
	{"Co-Borrower", 20, func(l loans.Loan) *string { return l.CoBorrower }},
	{"Status", 15, func(l loans.Loan) *string { return l.Status }},
	{"Program", 15, func(l loans.Loan) *string { return l.Program }},
	{"Closing Date", 15, func(l loans.Loan) *string { return l.ClosingDate }},
	{"Loan Type", 15, func(l loans.Loan) *string { return l.LoanType }},
	{"Occupancy", 15, func(l loans.Loan) *string { return l.Occupancy }},
	{"Appraisal Ordered", 18, func(l loans.Loan) *string { return l.AppraisalOrdered }},
	{"Appraisal Due Date", 18, func(l loans.Loan) *string { return l.AppraisalDueDate }},
	{"Title Ordered", 15, func(l loans.Loan) *string { return l.TitleOrdered }},
	{"Title Company", 20, func(l loans.Loan) *string { return l.TitleCompany }},
	{"State", 10, func(l loans.Loan) *string { return l.State }},
	{"Address", 30, func(l loans.Loan) *string { return l.Address }},
	{"Loan Officer", 20, func(l loans.Loan) *string { return l.LoanOfficer }},
	{"Lock Expiration", 18, func(l loans.Loan) *string { return l.LockExpiration }},
	{"ICD Date", 15, func(l loans.Loan) *string { return l.ICDDate }},
	{"Intro Call", 15, func(l loans.Loan) *string { return l.IntroCall }},
	{"Notes/Comments", 40, func(l loans.Loan) *string { return l.NotesComments }},
}

// WorkbookBytes renders the given loans into an XLSX workbook with a styled
// header row. Missing field values become empty cells.
func WorkbookBytes(records []loans.Loan) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"E0E0E0"}},
	})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}

	for i, col := range columns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheetName, cell, col.header); err != nil {
			return nil, err
		}
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetColWidth(sheetName, name, name, col.width); err != nil {
			return nil, err
		}
	}
	lastHeader, err := excelize.CoordinatesToCellName(len(columns), 1)
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(sheetName, "A1", lastHeader, headerStyle); err != nil {
		return nil, err
	}

	for rowIdx, record := range records {
		for colIdx, col := range columns {
			value := ""
			if v := col.value(record); v != nil {
				value = *v
			}
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				return nil, err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
