package pwmreport

import (
	"context"
	"strings"
	"sync"
	"time"
)

// MemStore keeps PWM reports in memory for the importer tests.
type MemStore struct {
	mu      sync.Mutex
	reports map[reportKey]*Report
	nextID  int64
}

type reportKey struct {
	siteID     int64
	start, end time.Time
}

func NewMemStore() *MemStore {
	return &MemStore{reports: make(map[reportKey]*Report), nextID: 1}
}

func (s *MemStore) UpsertReport(ctx context.Context, r *Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := reportKey{r.SiteID, r.PeriodStart, r.PeriodEnd}
	if old, ok := s.reports[key]; ok {
		r.ID = old.ID
	} else {
		r.ID = s.nextID
		s.nextID++
	}
	r.ImportedAt = time.Now().UTC()
	cp := *r
	s.reports[key] = &cp
	return nil
}

func (s *MemStore) ListReports(ctx context.Context, f ReportFilter) ([]Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Report
	for _, r := range s.reports {
		if f.Country != "" && !strings.EqualFold(r.Country, f.Country) {
			continue
		}
		if f.SiteID != "" && !strings.EqualFold(r.SiteCode, f.SiteID) {
			continue
		}
		if f.Query != "" &&
			!strings.Contains(strings.ToLower(r.SiteCode), strings.ToLower(f.Query)) &&
			!strings.Contains(strings.ToLower(r.SiteName), strings.ToLower(f.Query)) {
			continue
		}
		if !f.From.IsZero() && r.PeriodStart.Before(f.From) {
			continue
		}
		if !f.To.IsZero() && r.PeriodEnd.After(f.To) {
			continue
		}
		out = append(out, *r)
	}
	return out, nil
}
