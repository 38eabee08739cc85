package energy

import (
	"context"
	"strings"
	"sync"
	"time"
)

// MemStore keeps energy stats in memory for the importer tests.
type MemStore struct {
	mu           sync.Mutex
	countryStats map[[3]int64]*CountryMonthlyStat
	siteStats    map[[3]int64]*SiteMonthlyStat
	nextID       int64
}

func NewMemStore() *MemStore {
	return &MemStore{
		countryStats: make(map[[3]int64]*CountryMonthlyStat),
		siteStats:    make(map[[3]int64]*SiteMonthlyStat),
		nextID:       1,
	}
}

func (s *MemStore) UpsertCountryStat(ctx context.Context, st *CountryMonthlyStat) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := [3]int64{st.CountryID, int64(st.Year), int64(st.Month)}
	if old, ok := s.countryStats[key]; ok {
		st.ID = old.ID
	} else {
		st.ID = s.nextID
		s.nextID++
	}
	st.ImportedAt = time.Now().UTC()
	cp := *st
	s.countryStats[key] = &cp
	return nil
}

func (s *MemStore) UpsertSiteStat(ctx context.Context, st *SiteMonthlyStat) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := [3]int64{st.SiteID, int64(st.Year), int64(st.Month)}
	if old, ok := s.siteStats[key]; ok {
		st.ID = old.ID
	} else {
		st.ID = s.nextID
		s.nextID++
	}
	st.ImportedAt = time.Now().UTC()
	cp := *st
	s.siteStats[key] = &cp
	return nil
}

func (s *MemStore) ListCountryStats(ctx context.Context, f StatFilter) ([]CountryMonthlyStat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []CountryMonthlyStat
	for _, st := range s.countryStats {
		if f.Country != "" && !strings.EqualFold(st.Country, f.Country) {
			continue
		}
		if f.Year != 0 && st.Year != f.Year {
			continue
		}
		if f.Month != 0 && st.Month != f.Month {
			continue
		}
		out = append(out, *st)
	}
	return out, nil
}

func (s *MemStore) ListSiteStats(ctx context.Context, f StatFilter) ([]SiteMonthlyStat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []SiteMonthlyStat
	for _, st := range s.siteStats {
		if f.Country != "" && !strings.EqualFold(st.Country, f.Country) {
			continue
		}
		if f.Year != 0 && st.Year != f.Year {
			continue
		}
		if f.Month != 0 && st.Month != f.Month {
			continue
		}
		if f.Query != "" &&
			!strings.Contains(strings.ToLower(st.SiteCode), strings.ToLower(f.Query)) &&
			!strings.Contains(strings.ToLower(st.SiteName), strings.ToLower(f.Query)) {
			continue
		}
		out = append(out, *st)
	}
	return out, nil
}
