package registry

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// MemStore is an in-memory Store. It backs the importer tests here and in
// the report packages.
type MemStore struct {
	mu        sync.Mutex
	countries map[string]Country
	sites     map[string]Site
	nextID    int64
}

func NewMemStore() *MemStore {
	return &MemStore{
		countries: make(map[string]Country),
		sites:     make(map[string]Site),
		nextID:    1,
	}
}

func (s *MemStore) GetOrCreateCountry(ctx context.Context, name string) (Country, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.countryLocked(name), nil
}

func (s *MemStore) countryLocked(name string) Country {
	name = strings.TrimSpace(name)
	if name == "" {
		name = "Unknown"
	}
	if c, ok := s.countries[name]; ok {
		return c
	}
	c := Country{ID: s.nextID, Name: name}
	s.nextID++
	s.countries[name] = c
	return c
}

func (s *MemStore) GetOrCreateSite(ctx context.Context, country, siteID, siteName string) (Site, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.countryLocked(country)
	if site, ok := s.sites[siteID]; ok {
		site.CountryID = c.ID
		site.Country = c.Name
		if siteName != "" {
			site.SiteName = siteName
		}
		s.sites[siteID] = site
		return site, nil
	}
	site := Site{ID: s.nextID, CountryID: c.ID, Country: c.Name, SiteID: siteID, SiteName: siteName}
	s.nextID++
	s.sites[siteID] = site
	return site, nil
}

func (s *MemStore) GetSiteByName(ctx context.Context, siteName string) (Site, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	want := strings.ToLower(strings.TrimSpace(siteName))
	for _, site := range s.sites {
		if strings.ToLower(site.SiteName) == want {
			return site, true, nil
		}
	}
	return Site{}, false, nil
}

func (s *MemStore) ListCountries(ctx context.Context) ([]Country, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Country, 0, len(s.countries))
	for _, c := range s.countries {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *MemStore) ListSites(ctx context.Context, country string) ([]Site, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Site
	for _, site := range s.sites {
		if country != "" && !strings.EqualFold(site.Country, country) {
			continue
		}
		out = append(out, site)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SiteID < out[j].SiteID })
	return out, nil
}
