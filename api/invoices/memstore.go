package invoices

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// MemStore keeps invoices in memory for the importer and KPI tests.
type MemStore struct {
	mu       sync.Mutex
	factures map[string]*Facture
	nextID   int64
}

func NewMemStore() *MemStore {
	return &MemStore{factures: make(map[string]*Facture), nextID: 1}
}

func (s *MemStore) UpsertFacture(ctx context.Context, f *Facture) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	created := false
	if old, ok := s.factures[f.FactureNumber]; ok {
		f.ID = old.ID
	} else {
		f.ID = s.nextID
		s.nextID++
		created = true
	}
	f.ImportedAt = time.Now().UTC()
	cp := *f
	s.factures[f.FactureNumber] = &cp
	return created, nil
}

func (s *MemStore) matches(f *Facture, filter FactureFilter) bool {
	if filter.Country != "" && !strings.EqualFold(f.Country, filter.Country) {
		return false
	}
	if !filter.From.IsZero() && f.DateFacture.Before(filter.From) {
		return false
	}
	if !filter.To.IsZero() && f.DateFacture.After(filter.To) {
		return false
	}
	return true
}

func (s *MemStore) ListFactures(ctx context.Context, filter FactureFilter) ([]Facture, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Facture
	for _, f := range s.factures {
		if s.matches(f, filter) {
			out = append(out, *f)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if filter.BySiteName && out[i].SiteName != out[j].SiteName {
			return out[i].SiteName < out[j].SiteName
		}
		return out[i].DateFacture.After(out[j].DateFacture)
	})
	return out, nil
}

type statAcc struct {
	kpi   SiteStats
	sums  [7]decimal.Decimal
	nulls [7]int
}

func (s *MemStore) SiteStats(ctx context.Context, filter FactureFilter) ([]SiteStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	accs := map[int64]*statAcc{}
	for _, f := range s.factures {
		if !s.matches(f, filter) {
			continue
		}
		acc, ok := accs[f.SiteID]
		if !ok {
			acc = &statAcc{kpi: SiteStats{SiteID: f.SiteID, SiteCode: f.SiteCode, SiteName: f.SiteName}}
			accs[f.SiteID] = acc
		}
		acc.kpi.Count++
		for i, v := range []decimal.NullDecimal{
			f.MontantHT, f.MontantTCO, f.MontantRedevance, f.MontantTVA,
			f.MontantTTC, f.MontantHTVA, f.ConsommationKWh,
		} {
			if v.Valid {
				acc.sums[i] = acc.sums[i].Add(v.Decimal)
			} else {
				acc.nulls[i]++
			}
		}
	}
	var out []SiteStats
	for _, acc := range accs {
		st := acc.kpi
		for i, sum := range acc.sums {
			n := st.Count - acc.nulls[i]
			var avg decimal.Decimal
			if n > 0 {
				avg = sum.Div(decimal.NewFromInt(int64(n))).Round(moneyScale)
			}
			switch i {
			case 0:
				st.AvgMontantHT = avg
			case 1:
				st.AvgMontantTCO = avg
			case 2:
				st.AvgMontantRedevance = avg
			case 3:
				st.AvgMontantTVA = avg
			case 4:
				st.AvgMontantTTC = avg
			case 5:
				st.AvgMontantHTVA = avg
			case 6:
				st.AvgConsommation = avg
			}
		}
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SiteName < out[j].SiteName })
	return out, nil
}

func (s *MemStore) SiteKPIs(ctx context.Context, country string, today time.Time) ([]SiteKPI, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w := KPIWindows(today)
	type acc struct {
		kpi  SiteKPI
		sums [9]decimal.Decimal
		ns   [9]int
	}
	accs := map[int64]*acc{}
	for _, f := range s.factures {
		if country != "" && !strings.EqualFold(f.Country, country) {
			continue
		}
		a, ok := accs[f.SiteID]
		if !ok {
			a = &acc{kpi: SiteKPI{SiteID: f.SiteID, SiteCode: f.SiteCode, SiteName: f.SiteName}}
			accs[f.SiteID] = a
		}
		windows := []struct {
			in   bool
			base int
		}{
			{InWindow(f.DateFacture, w.Last3Start, w.Today), 0},
			{InWindow(f.DateFacture, w.YearStart, w.Today), 3},
			{InWindow(f.DateFacture, w.PrevYearStart, w.PrevYearEnd), 6},
		}
		for _, win := range windows {
			if !win.in {
				continue
			}
			for j, v := range []decimal.NullDecimal{f.MontantHT, f.MontantTTC, f.ConsommationKWh} {
				if v.Valid {
					a.sums[win.base+j] = a.sums[win.base+j].Add(v.Decimal)
					a.ns[win.base+j]++
				}
			}
		}
	}
	avg := func(a *acc, i int) decimal.Decimal {
		if a.ns[i] == 0 {
			return decimal.Decimal{}
		}
		return a.sums[i].Div(decimal.NewFromInt(int64(a.ns[i]))).Round(moneyScale)
	}
	var out []SiteKPI
	for _, a := range accs {
		k := a.kpi
		k.Last3Months = KPIWindow{avg(a, 0), avg(a, 1), avg(a, 2)}
		k.CurrentYear = KPIWindow{avg(a, 3), avg(a, 4), avg(a, 5)}
		k.PreviousYear = KPIWindow{avg(a, 6), avg(a, 7), avg(a, 8)}
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SiteName < out[j].SiteName })
	return out, nil
}
