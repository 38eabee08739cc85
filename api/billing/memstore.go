package billing

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemStore keeps billing data in memory for the importer tests.
type MemStore struct {
	mu      sync.Mutex
	Batches []ImportBatch
	rows    map[invoiceKey]*Invoice
	allocs  map[int64][]MonthlyAllocation
	nextID  int64
}

type invoiceKey struct {
	account, invoice string
	start, end       time.Time
}

func NewMemStore() *MemStore {
	return &MemStore{
		rows:   make(map[invoiceKey]*Invoice),
		allocs: make(map[int64][]MonthlyAllocation),
		nextID: 1,
	}
}

func (s *MemStore) CreateBatch(ctx context.Context, filename string) (ImportBatch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b := ImportBatch{ID: uuid.New(), SourceFilename: filename, ImportedAt: time.Now().UTC()}
	s.Batches = append(s.Batches, b)
	return b, nil
}

func (s *MemStore) UpsertInvoice(ctx context.Context, inv *Invoice, allocs []MonthlyAllocation) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := invoiceKey{inv.ContractAccount, inv.InvoiceNumber, inv.PeriodStart, inv.PeriodEnd}
	created := false
	if existing, ok := s.rows[key]; ok {
		inv.ID = existing.ID
	} else {
		inv.ID = s.nextID
		s.nextID++
		created = true
	}
	cp := *inv
	s.rows[key] = &cp
	out := make([]MonthlyAllocation, len(allocs))
	for i, a := range allocs {
		a.InvoiceID = inv.ID
		out[i] = a
	}
	s.allocs[inv.ID] = out
	return created, nil
}

func (s *MemStore) ListBatches(ctx context.Context) ([]ImportBatch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ImportBatch(nil), s.Batches...), nil
}

func (s *MemStore) ListInvoices(ctx context.Context, search string) ([]Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Invoice
	for _, inv := range s.rows {
		out = append(out, *inv)
	}
	return out, nil
}

func (s *MemStore) ListAllocations(ctx context.Context, f AllocationFilter) ([]MonthlyAllocation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []MonthlyAllocation
	for _, as := range s.allocs {
		for _, a := range as {
			if f.Year != 0 && a.Year != f.Year {
				continue
			}
			if f.Month != 0 && a.Month != f.Month {
				continue
			}
			if f.Account != "" && a.ContractAccount != f.Account {
				continue
			}
			if f.Invoice != "" && a.InvoiceNumber != f.Invoice {
				continue
			}
			out = append(out, a)
		}
	}
	return out, nil
}
