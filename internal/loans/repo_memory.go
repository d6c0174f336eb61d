package loans

import (
	"context"
	"sort"
	"sync"
	"time"

	"loandesk-backend/internal/llm"
)

// MemoryRepo is an in-memory implementation of Repo, used when no database
// is configured (dev fallback) and in tests.
type MemoryRepo struct {
	mu    sync.RWMutex
	loans []Loan
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{}
}

// Create stores a new loan.
func (r *MemoryRepo) Create(ctx context.Context, loan Loan) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loans = append(r.loans, loan)
	return nil
}

// Get returns a loan by ID.
func (r *MemoryRepo) Get(ctx context.Context, id string) (Loan, error) {
	if err := ctx.Err(); err != nil {
		return Loan{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i := range r.loans {
		if r.loans[i].ID == id {
			return r.loans[i], nil
		}
	}
	return Loan{}, ErrNotFound
}

// Update applies the given field values and bumps UpdatedAt. Last write wins
// under concurrent updates.
func (r *MemoryRepo) Update(ctx context.Context, id string, fields map[string]*string) (Loan, error) {
	if err := ctx.Err(); err != nil {
		return Loan{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.loans {
		if r.loans[i].ID != id {
			continue
		}
		for name, value := range fields {
			setField(&r.loans[i].LoanFields, name, value)
		}
		r.loans[i].UpdatedAt = time.Now().UTC()
		return r.loans[i], nil
	}
	return Loan{}, ErrNotFound
}

// Delete removes a loan by ID.
func (r *MemoryRepo) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.loans {
		if r.loans[i].ID == id {
			r.loans = append(r.loans[:i], r.loans[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// List returns one page of loans, newest first.
func (r *MemoryRepo) List(ctx context.Context, page, limit int) ([]Loan, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	all, err := r.ListAll(ctx)
	if err != nil {
		return nil, 0, err
	}

	total := len(all)
	start := (page - 1) * limit
	if start >= total {
		return []Loan{}, total, nil
	}
	end := start + limit
	if end > total {
		end = total
	}
	return all[start:end], total, nil
}

// ListAll returns every loan, newest first.
func (r *MemoryRepo) ListAll(ctx context.Context) ([]Loan, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	out := make([]Loan, len(r.loans))
	copy(out, r.loans)
	r.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// setField assigns a wire-named extracted field. Unknown names are ignored.
func setField(f *llm.LoanFields, name string, v *string) {
	switch name {
	case "loanNumber":
		f.LoanNumber = v
	case "lender":
		f.Lender = v
	case "borrower":
		f.Borrower = v
	case "coBorrower":
		f.CoBorrower = v
	case "status":
		f.Status = v
	case "program":
		f.Program = v
	case "closingDate":
		f.ClosingDate = v
	case "loanType":
		f.LoanType = v
	case "occupancy":
		f.Occupancy = v
	case "appraisalOrdered":
		f.AppraisalOrdered = v
	case "appraisalDueDate":
		f.AppraisalDueDate = v
	case "titleOrdered":
		f.TitleOrdered = v
	case "titleCompany":
		f.TitleCompany = v
	case "state":
		f.State = v
	case "address":
		f.Address = v
	case "loanOfficer":
		f.LoanOfficer = v
	case "lockExpiration":
		f.LockExpiration = v
	case "icdDate":
		f.ICDDate = v
	case "introCall":
		f.IntroCall = v
	case "notesComments":
		f.NotesComments = v
	}
}

var _ Repo = (*MemoryRepo)(nil)
