package loans

import "context"

// Repo defines persistence operations for loans. Update takes a map of wire
// field names to already-normalized values; a nil value clears the field.
// Implementations bump UpdatedAt on every update and ignore nothing else —
// unrecognized keys are filtered out before the repo is reached.
type Repo interface {
	Create(ctx context.Context, loan Loan) error
	Get(ctx context.Context, id string) (Loan, error)
	Update(ctx context.Context, id string, fields map[string]*string) (Loan, error)
	Delete(ctx context.Context, id string) error
	// List returns one 1-indexed page ordered by creation time, newest
	// first, plus the total record count. Out-of-range pages yield an
	// empty slice, not an error.
	List(ctx context.Context, page, limit int) ([]Loan, int, error)
	ListAll(ctx context.Context) ([]Loan, error)
}
