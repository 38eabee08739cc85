package rectifiers

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemStore keeps readings in memory for the importer tests.
type MemStore struct {
	mu       sync.Mutex
	readings map[readingKey]*Reading
	nextID   int64
}

type readingKey struct {
	siteID     int64
	param      string
	measuredAt time.Time
}

func NewMemStore() *MemStore {
	return &MemStore{readings: make(map[readingKey]*Reading), nextID: 1}
}

func (s *MemStore) UpsertReading(ctx context.Context, r *Reading) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := readingKey{r.SiteID, r.ParamName, r.MeasuredAt}
	created := false
	if old, ok := s.readings[key]; ok {
		r.ID = old.ID
	} else {
		r.ID = s.nextID
		s.nextID++
		created = true
	}
	r.ImportedAt = time.Now().UTC()
	cp := *r
	s.readings[key] = &cp
	return created, nil
}

func (s *MemStore) ListReadings(ctx context.Context, f ReadingFilter) ([]Reading, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Reading
	for _, r := range s.readings {
		if f.Country != "" && !strings.EqualFold(r.Country, f.Country) {
			continue
		}
		if f.SiteID != "" && !strings.EqualFold(r.SiteCode, f.SiteID) {
			continue
		}
		if f.Param != "" && !strings.EqualFold(r.ParamName, f.Param) {
			continue
		}
		if f.Query != "" {
			q := strings.ToLower(f.Query)
			if !strings.Contains(strings.ToLower(r.SiteCode), q) &&
				!strings.Contains(strings.ToLower(r.SiteName), q) &&
				!strings.Contains(strings.ToLower(r.ParamName), q) {
				continue
			}
		}
		if !f.From.IsZero() && r.MeasuredAt.Before(f.From) {
			continue
		}
		if !f.To.IsZero() && r.MeasuredAt.After(f.To) {
			continue
		}
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].MeasuredAt.Equal(out[j].MeasuredAt) {
			return out[i].MeasuredAt.After(out[j].MeasuredAt)
		}
		return out[i].SiteCode < out[j].SiteCode
	})
	return out, nil
}

func (s *MemStore) ListParams(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	seen := map[string]bool{}
	var out []string
	for _, r := range s.readings {
		if !seen[r.ParamName] {
			seen[r.ParamName] = true
			out = append(out, r.ParamName)
		}
	}
	sort.Strings(out)
	return out, nil
}
