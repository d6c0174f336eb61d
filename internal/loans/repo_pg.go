package loans

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"loandesk-backend/internal/llm"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// fieldColumns maps wire field names to their table columns, in canonical
// field order (iterate via llm.FieldNames for deterministic SQL).
var fieldColumns = map[string]string{
	"loanNumber":       "loan_number",
	"lender":           "lender",
	"borrower":         "borrower",
	"coBorrower":       "co_borrower",
	"status":           "status",
	"program":          "program",
	"closingDate":      "closing_date",
	"loanType":         "loan_type",
	"occupancy":        "occupancy",
	"appraisalOrdered": "appraisal_ordered",
	"appraisalDueDate": "appraisal_due_date",
	"titleOrdered":     "title_ordered",
	"titleCompany":     "title_company",
	"state":            "state",
	"address":          "address",
	"loanOfficer":      "loan_officer",
	"lockExpiration":   "lock_expiration",
	"icdDate":          "icd_date",
	"introCall":        "intro_call",
	"notesComments":    "notes_comments",
}

const loanColumns = `id, loan_number, lender, borrower, co_borrower, status, program, closing_date, loan_type, occupancy, appraisal_ordered, appraisal_due_date, title_ordered, title_company, state, address, loan_officer, lock_expiration, icd_date, intro_call, notes_comments, pdf_file_name, extracted_at, created_at, updated_at`

// Create inserts a new loan.
func (r *PGRepo) Create(ctx context.Context, loan Loan) error {
	const query = `
INSERT INTO loans (` + loanColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25)`

	f := loan.LoanFields
	_, err := r.DB.ExecContext(
		ctx,
		query,
		loan.ID,
		nullable(f.LoanNumber),
		nullable(f.Lender),
		nullable(f.Borrower),
		nullable(f.CoBorrower),
		nullable(f.Status),
		nullable(f.Program),
		nullable(f.ClosingDate),
		nullable(f.LoanType),
		nullable(f.Occupancy),
		nullable(f.AppraisalOrdered),
		nullable(f.AppraisalDueDate),
		nullable(f.TitleOrdered),
		nullable(f.TitleCompany),
		nullable(f.State),
		nullable(f.Address),
		nullable(f.LoanOfficer),
		nullable(f.LockExpiration),
		nullable(f.ICDDate),
		nullable(f.IntroCall),
		nullable(f.NotesComments),
		nullable(loan.PDFFileName),
		loan.ExtractedAt,
		loan.CreatedAt,
		loan.UpdatedAt,
	)
	return err
}

// Get fetches a loan by ID.
func (r *PGRepo) Get(ctx context.Context, id string) (Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE id = $1`
	loan, err := scanLoan(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Loan{}, ErrNotFound
		}
		return Loan{}, err
	}
	return loan, nil
}

// Update applies the given field values, bumps updated_at, and returns the
// updated row.
func (r *PGRepo) Update(ctx context.Context, id string, fields map[string]*string) (Loan, error) {
	set := []string{"updated_at = $1"}
	args := []any{time.Now().UTC()}

	for _, name := range llm.FieldNames {
		value, ok := fields[name]
		if !ok {
			continue
		}
		args = append(args, nullable(value))
		set = append(set, fmt.Sprintf("%s = $%d", fieldColumns[name], len(args)))
	}

	args = append(args, id)
	query := fmt.Sprintf(
		"UPDATE loans SET %s WHERE id = $%d RETURNING %s",
		strings.Join(set, ", "), len(args), loanColumns,
	)

	loan, err := scanLoan(r.DB.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Loan{}, ErrNotFound
		}
		return Loan{}, err
	}
	return loan, nil
}

// Delete removes a loan by ID.
func (r *PGRepo) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM loans WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns one page of loans, newest first, plus the total count.
func (r *PGRepo) List(ctx context.Context, page, limit int) ([]Loan, int, error) {
	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM loans`).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + loanColumns + ` FROM loans ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.DB.QueryContext(ctx, query, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	loans, err := collectLoans(rows)
	if err != nil {
		return nil, 0, err
	}
	return loans, total, nil
}

// ListAll returns every loan, newest first.
func (r *PGRepo) ListAll(ctx context.Context) ([]Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans ORDER BY created_at DESC`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectLoans(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLoan(row rowScanner) (Loan, error) {
	var (
		loan    Loan
		strs    [13]sql.NullString
		dates   [7]sql.NullTime
		pdfName sql.NullString
	)
	err := row.Scan(
		&loan.ID,
		&strs[0],  // loan_number
		&strs[1],  // lender
		&strs[2],  // borrower
		&strs[3],  // co_borrower
		&strs[4],  // status
		&strs[5],  // program
		&dates[0], // closing_date
		&strs[6],  // loan_type
		&strs[7],  // occupancy
		&dates[1], // appraisal_ordered
		&dates[2], // appraisal_due_date
		&dates[3], // title_ordered
		&strs[8],  // title_company
		&strs[9],  // state
		&strs[10], // address
		&strs[11], // loan_officer
		&dates[4], // lock_expiration
		&dates[5], // icd_date
		&dates[6], // intro_call
		&strs[12], // notes_comments
		&pdfName,
		&loan.ExtractedAt,
		&loan.CreatedAt,
		&loan.UpdatedAt,
	)
	if err != nil {
		return Loan{}, err
	}

	loan.LoanFields = llm.LoanFields{
		LoanNumber:       strPtr(strs[0]),
		Lender:           strPtr(strs[1]),
		Borrower:         strPtr(strs[2]),
		CoBorrower:       strPtr(strs[3]),
		Status:           strPtr(strs[4]),
		Program:          strPtr(strs[5]),
		ClosingDate:      dateStr(dates[0]),
		LoanType:         strPtr(strs[6]),
		Occupancy:        strPtr(strs[7]),
		AppraisalOrdered: dateStr(dates[1]),
		AppraisalDueDate: dateStr(dates[2]),
		TitleOrdered:     dateStr(dates[3]),
		TitleCompany:     strPtr(strs[8]),
		State:            strPtr(strs[9]),
		Address:          strPtr(strs[10]),
		LoanOfficer:      strPtr(strs[11]),
		LockExpiration:   dateStr(dates[4]),
		ICDDate:          dateStr(dates[5]),
		IntroCall:        dateStr(dates[6]),
		NotesComments:    strPtr(strs[12]),
	}
	loan.PDFFileName = strPtr(pdfName)
	return loan, nil
}

func collectLoans(rows *sql.Rows) ([]Loan, error) {
	out := []Loan{}
	for rows.Next() {
		loan, err := scanLoan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, loan)
	}
	return out, rows.Err()
}

func nullable(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

func strPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func dateStr(nt sql.NullTime) *string {
	if !nt.Valid {
		return nil
	}
	s := nt.Time.Format("2006-01-02")
	return &s
}

var _ Repo = (*PGRepo)(nil)
