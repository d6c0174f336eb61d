package llm

import (
	"strings"
	"time"
)

// LoanFields is the canonical normalized shape extracted from a loan
// document. Every field is nullable: nil means the value was missing,
// empty, or unparseable in the source document.
type LoanFields struct {
	LoanNumber       *string `json:"loanNumber"`
	Lender           *string `json:"lender"`
	Borrower         *string `json:"borrower"`
	CoBorrower       *string `json:"coBorrower"`
	Status           *string `json:"status"`
	Program          *string `json:"program"`
	ClosingDate      *string `json:"closingDate"`
	LoanType         *string `json:"loanType"`
	Occupancy        *string `json:"occupancy"`
	AppraisalOrdered *string `json:"appraisalOrdered"`
	AppraisalDueDate *string `json:"appraisalDueDate"`
	TitleOrdered     *string `json:"titleOrdered"`
	TitleCompany     *string `json:"titleCompany"`
	State            *string `json:"state"`
	Address          *string `json:"address"`
	LoanOfficer      *string `json:"loanOfficer"`
	LockExpiration   *string `json:"lockExpiration"`
	ICDDate          *string `json:"icdDate"`
	IntroCall        *string `json:"introCall"`
	NotesComments    *string `json:"notesComments"`
}

// FieldNames lists every wire field name in canonical display order.
var FieldNames = []string{
	"loanNumber",
	"lender",
	"borrower",
	"coBorrower",
	"status",
	"program",
	"closingDate",
	"loanType",
	"occupancy",
	"appraisalOrdered",
	"appraisalDueDate",
	"titleOrdered",
	"titleCompany",
	"state",
	"address",
	"loanOfficer",
	"lockExpiration",
	"icdDate",
	"introCall",
	"notesComments",
}

var dateFields = map[string]struct{}{
	"closingDate":      {},
	"appraisalOrdered": {},
	"appraisalDueDate": {},
	"titleOrdered":     {},
	"lockExpiration":   {},
	"icdDate":          {},
	"introCall":        {},
}

// IsDateField reports whether the wire field name holds a calendar date.
func IsDateField(name string) bool {
	_, ok := dateFields[name]
	return ok
}

// dateLayouts are the accepted input formats for calendar-date fields, tried
// in order. Output is always canonical YYYY-MM-DD.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"01/02/2006",
	"1/2/2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"01-02-2006",
}

// NormalizeFields coerces a decoded JSON object into LoanFields. Unknown keys
// are ignored; missing keys come out nil, so the result always carries the
// complete schema.
func NormalizeFields(raw map[string]any) LoanFields {
	return LoanFields{
		LoanNumber:       NormalizeStringValue(raw["loanNumber"]),
		Lender:           NormalizeStringValue(raw["lender"]),
		Borrower:         NormalizeStringValue(raw["borrower"]),
		CoBorrower:       NormalizeStringValue(raw["coBorrower"]),
		Status:           NormalizeStringValue(raw["status"]),
		Program:          NormalizeStringValue(raw["program"]),
		ClosingDate:      NormalizeDateValue(raw["closingDate"]),
		LoanType:         NormalizeStringValue(raw["loanType"]),
		Occupancy:        NormalizeStringValue(raw["occupancy"]),
		AppraisalOrdered: NormalizeDateValue(raw["appraisalOrdered"]),
		AppraisalDueDate: NormalizeDateValue(raw["appraisalDueDate"]),
		TitleOrdered:     NormalizeDateValue(raw["titleOrdered"]),
		TitleCompany:     NormalizeStringValue(raw["titleCompany"]),
		State:            NormalizeStringValue(raw["state"]),
		Address:          NormalizeStringValue(raw["address"]),
		LoanOfficer:      NormalizeStringValue(raw["loanOfficer"]),
		LockExpiration:   NormalizeDateValue(raw["lockExpiration"]),
		ICDDate:          NormalizeDateValue(raw["icdDate"]),
		IntroCall:        NormalizeDateValue(raw["introCall"]),
		NotesComments:    NormalizeStringValue(raw["notesComments"]),
	}
}

// NormalizeStringValue coerces a raw JSON value into a nullable string.
// Empty strings and the literal "null" become nil.
func NormalizeStringValue(v any) *string {
	s, ok := v.(string)
	if !ok {
		return nil
	}
	s = strings.TrimSpace(s)
	if s == "" || s == "null" {
		return nil
	}
	return &s
}

// NormalizeDateValue coerces a raw JSON value into a nullable YYYY-MM-DD
// string. Unparseable dates become nil; date normalization is never fatal.
func NormalizeDateValue(v any) *string {
	s := NormalizeStringValue(v)
	if s == nil {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, *s); err == nil {
			formatted := t.Format("2006-01-02")
			return &formatted
		}
	}
	return nil
}
