package invoices

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// FactureFilter narrows invoice listings.
type FactureFilter struct {
	Country    string
	From       time.Time
	To         time.Time
	BySiteName bool
}

// KPIWindow is the per-site average over one time window.
type KPIWindow struct {
	AvgMontantHT       decimal.Decimal `json:"avg_montant_ht"`
	AvgMontantTTC      decimal.Decimal `json:"avg_montant_ttc"`
	AvgConsommationKWh decimal.Decimal `json:"avg_consommation_kwh"`
}

// SiteKPI is the rolling averages a site dashboard shows: last three
// months, current year and previous year.
type SiteKPI struct {
	SiteID       int64     `json:"site_id"`
	SiteCode     string    `json:"site_code"`
	SiteName     string    `json:"site_name"`
	Last3Months  KPIWindow `json:"kpi_last_3_months"`
	CurrentYear  KPIWindow `json:"kpi_current_year"`
	PreviousYear KPIWindow `json:"kpi_previous_year"`
}

// SiteStats is the per-site aggregate between two dates.
type SiteStats struct {
	SiteID              int64           `json:"site_id"`
	SiteCode            string          `json:"site_code"`
	SiteName            string          `json:"site_name"`
	AvgMontantHT        decimal.Decimal `json:"avg_montant_ht"`
	AvgMontantTCO       decimal.Decimal `json:"avg_montant_tco"`
	AvgMontantRedevance decimal.Decimal `json:"avg_montant_redevance"`
	AvgMontantTVA       decimal.Decimal `json:"avg_montant_tva"`
	AvgMontantTTC       decimal.Decimal `json:"avg_montant_ttc"`
	AvgMontantHTVA      decimal.Decimal `json:"avg_montant_htva"`
	AvgConsommation     decimal.Decimal `json:"avg_consommation"`
	Count               int             `json:"count"`
}

// Store persists invoices.
type Store interface {
	UpsertFacture(ctx context.Context, f *Facture) (created bool, err error)
	ListFactures(ctx context.Context, f FactureFilter) ([]Facture, error)
	SiteStats(ctx context.Context, f FactureFilter) ([]SiteStats, error)
	SiteKPIs(ctx context.Context, country string, today time.Time) ([]SiteKPI, error)
}

// PgStore runs the invoices on Postgres.
type PgStore struct {
	DB *sql.DB
}

func NewPgStore(db *sql.DB) *PgStore { return &PgStore{DB: db} }

const factureColumns = `
	police_number, contrat_number, typologie, categorie, societe, type_police,
	date_facture, date_echeance,
	montant_ht, montant_tco, montant_redevance, montant_tva, montant_ttc,
	montant_htva, montant_energie, montant_cosphi,
	date_ai, date_ni, index_ai_k1, index_ai_k2, index_ni_k1, index_ni_k2,
	consommation_kwh, rappel_majoration, nb_jours, ps, max_relevee,
	statut, observation, prime_fixe, conso_reactif, cos_phi,
	mois_echeance, annee_echeance, mois_business, annee_business,
	type_tarif, type_compte, numero_compteur, source_filename`

func (s *PgStore) UpsertFacture(ctx context.Context, f *Facture) (bool, error) {
	var created bool
	err := s.DB.QueryRowContext(ctx, `
		INSERT INTO factures (site_id, facture_number, `+factureColumns+`, imported_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,
		        $19,$20,$21,$22,$23,$24,$25,$26,$27,$28,$29,$30,$31,$32,$33,$34,
		        $35,$36,$37,$38,$39,$40,$41,NOW())
		ON CONFLICT (facture_number) DO UPDATE SET
			site_id = EXCLUDED.site_id,
			police_number = EXCLUDED.police_number,
			contrat_number = EXCLUDED.contrat_number,
			typologie = EXCLUDED.typologie,
			categorie = EXCLUDED.categorie,
			societe = EXCLUDED.societe,
			type_police = EXCLUDED.type_police,
			date_facture = EXCLUDED.date_facture,
			date_echeance = EXCLUDED.date_echeance,
			montant_ht = EXCLUDED.montant_ht,
			montant_tco = EXCLUDED.montant_tco,
			montant_redevance = EXCLUDED.montant_redevance,
			montant_tva = EXCLUDED.montant_tva,
			montant_ttc = EXCLUDED.montant_ttc,
			montant_htva = EXCLUDED.montant_htva,
			montant_energie = EXCLUDED.montant_energie,
			montant_cosphi = EXCLUDED.montant_cosphi,
			date_ai = EXCLUDED.date_ai,
			date_ni = EXCLUDED.date_ni,
			index_ai_k1 = EXCLUDED.index_ai_k1,
			index_ai_k2 = EXCLUDED.index_ai_k2,
			index_ni_k1 = EXCLUDED.index_ni_k1,
			index_ni_k2 = EXCLUDED.index_ni_k2,
			consommation_kwh = EXCLUDED.consommation_kwh,
			rappel_majoration = EXCLUDED.rappel_majoration,
			nb_jours = EXCLUDED.nb_jours,
			ps = EXCLUDED.ps,
			max_relevee = EXCLUDED.max_relevee,
			statut = EXCLUDED.statut,
			observation = EXCLUDED.observation,
			prime_fixe = EXCLUDED.prime_fixe,
			conso_reactif = EXCLUDED.conso_reactif,
			cos_phi = EXCLUDED.cos_phi,
			mois_echeance = EXCLUDED.mois_echeance,
			annee_echeance = EXCLUDED.annee_echeance,
			mois_business = EXCLUDED.mois_business,
			annee_business = EXCLUDED.annee_business,
			type_tarif = EXCLUDED.type_tarif,
			type_compte = EXCLUDED.type_compte,
			numero_compteur = EXCLUDED.numero_compteur,
			source_filename = EXCLUDED.source_filename,
			imported_at = NOW()
		RETURNING id, (xmax = 0)
	`,
		f.SiteID, f.FactureNumber,
		f.PoliceNumber, f.ContratNumber, f.Typologie, f.Categorie, f.Societe, f.TypePolice,
		f.DateFacture, f.DateEcheance,
		f.MontantHT, f.MontantTCO, f.MontantRedevance, f.MontantTVA, f.MontantTTC,
		f.MontantHTVA, f.MontantEnergie, f.MontantCosphi,
		f.DateAI, f.DateNI, f.IndexAIK1, f.IndexAIK2, f.IndexNIK1, f.IndexNIK2,
		f.ConsommationKWh, f.RappelMajoration, f.NbJours, f.PS, f.MaxRelevee,
		f.Statut, f.Observation, f.PrimeFixe, f.ConsoReactif, f.CosPhi,
		f.MoisEcheance, f.AnneeEcheance, f.MoisBusiness, f.AnneeBusiness,
		f.TypeTarif, f.TypeCompte, f.NumeroCompteur, f.SourceFilename,
	).Scan(&f.ID, &created)
	if err != nil {
		return false, fmt.Errorf("upsert facture %s: %w", f.FactureNumber, pgError(err))
	}
	return created, nil
}

// pgError turns the driver's constraint codes into messages a diagnostic
// line can carry without leaking SQL.
func pgError(err error) error {
	var pqe *pq.Error
	if !errors.As(err, &pqe) {
		return err
	}
	switch pqe.Code {
	case "22003":
		return fmt.Errorf("numeric value out of range")
	case "23503":
		return fmt.Errorf("unknown site reference")
	case "23505":
		return fmt.Errorf("duplicate invoice number")
	default:
		return err
	}
}

func (s *PgStore) ListFactures(ctx context.Context, f FactureFilter) ([]Facture, error) {
	q := `
		SELECT fa.id, fa.site_id, si.site_id, si.site_name, c.name,
		       fa.facture_number, fa.police_number, fa.contrat_number,
		       fa.typologie, fa.categorie, fa.societe, fa.type_police,
		       fa.date_facture, fa.date_echeance,
		       fa.montant_ht, fa.montant_tco, fa.montant_redevance, fa.montant_tva,
		       fa.montant_ttc, fa.montant_htva, fa.montant_energie, fa.montant_cosphi,
		       fa.date_ai, fa.date_ni,
		       fa.index_ai_k1, fa.index_ai_k2, fa.index_ni_k1, fa.index_ni_k2,
		       fa.consommation_kwh, fa.rappel_majoration, fa.nb_jours, fa.ps, fa.max_relevee,
		       fa.statut, fa.observation, fa.prime_fixe, fa.conso_reactif, fa.cos_phi,
		       fa.mois_echeance, fa.annee_echeance, fa.mois_business, fa.annee_business,
		       fa.type_tarif, fa.type_compte, fa.numero_compteur,
		       fa.source_filename, fa.imported_at
		FROM factures fa
		JOIN sites si ON si.id = fa.site_id
		JOIN countries c ON c.id = si.country_id
		WHERE 1=1
	`
	args := []interface{}{}
	n := 0
	if f.Country != "" {
		n++
		q += fmt.Sprintf(" AND LOWER(c.name) = LOWER($%d)", n)
		args = append(args, f.Country)
	}
	if !f.From.IsZero() {
		n++
		q += fmt.Sprintf(" AND fa.date_facture >= $%d", n)
		args = append(args, f.From)
	}
	if !f.To.IsZero() {
		n++
		q += fmt.Sprintf(" AND fa.date_facture <= $%d", n)
		args = append(args, f.To)
	}
	if f.BySiteName {
		q += ` ORDER BY si.site_name, fa.date_facture DESC`
	} else {
		q += ` ORDER BY fa.date_facture DESC`
	}

	rows, err := s.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Facture
	for rows.Next() {
		var fa Facture
		if err := rows.Scan(
			&fa.ID, &fa.SiteID, &fa.SiteCode, &fa.SiteName, &fa.Country,
			&fa.FactureNumber, &fa.PoliceNumber, &fa.ContratNumber,
			&fa.Typologie, &fa.Categorie, &fa.Societe, &fa.TypePolice,
			&fa.DateFacture, &fa.DateEcheance,
			&fa.MontantHT, &fa.MontantTCO, &fa.MontantRedevance, &fa.MontantTVA,
			&fa.MontantTTC, &fa.MontantHTVA, &fa.MontantEnergie, &fa.MontantCosphi,
			&fa.DateAI, &fa.DateNI,
			&fa.IndexAIK1, &fa.IndexAIK2, &fa.IndexNIK1, &fa.IndexNIK2,
			&fa.ConsommationKWh, &fa.RappelMajoration, &fa.NbJours, &fa.PS, &fa.MaxRelevee,
			&fa.Statut, &fa.Observation, &fa.PrimeFixe, &fa.ConsoReactif, &fa.CosPhi,
			&fa.MoisEcheance, &fa.AnneeEcheance, &fa.MoisBusiness, &fa.AnneeBusiness,
			&fa.TypeTarif, &fa.TypeCompte, &fa.NumeroCompteur,
			&fa.SourceFilename, &fa.ImportedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, fa)
	}
	return out, rows.Err()
}

func (s *PgStore) SiteStats(ctx context.Context, f FactureFilter) ([]SiteStats, error) {
	q := `
		SELECT fa.site_id, si.site_id, si.site_name,
		       COALESCE(AVG(fa.montant_ht), 0),
		       COALESCE(AVG(fa.montant_tco), 0),
		       COALESCE(AVG(fa.montant_redevance), 0),
		       COALESCE(AVG(fa.montant_tva), 0),
		       COALESCE(AVG(fa.montant_ttc), 0),
		       COALESCE(AVG(fa.montant_htva), 0),
		       COALESCE(AVG(fa.consommation_kwh), 0),
		       COUNT(*)
		FROM factures fa
		JOIN sites si ON si.id = fa.site_id
		JOIN countries c ON c.id = si.country_id
		WHERE 1=1
	`
	args := []interface{}{}
	n := 0
	if f.Country != "" {
		n++
		q += fmt.Sprintf(" AND LOWER(c.name) = LOWER($%d)", n)
		args = append(args, f.Country)
	}
	if !f.From.IsZero() {
		n++
		q += fmt.Sprintf(" AND fa.date_facture >= $%d", n)
		args = append(args, f.From)
	}
	if !f.To.IsZero() {
		n++
		q += fmt.Sprintf(" AND fa.date_facture <= $%d", n)
		args = append(args, f.To)
	}
	q += ` GROUP BY fa.site_id, si.site_id, si.site_name ORDER BY si.site_name`

	rows, err := s.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []SiteStats
	for rows.Next() {
		var st SiteStats
		if err := rows.Scan(
			&st.SiteID, &st.SiteCode, &st.SiteName,
			&st.AvgMontantHT, &st.AvgMontantTCO, &st.AvgMontantRedevance,
			&st.AvgMontantTVA, &st.AvgMontantTTC, &st.AvgMontantHTVA,
			&st.AvgConsommation, &st.Count,
		); err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

func (s *PgStore) SiteKPIs(ctx context.Context, country string, today time.Time) ([]SiteKPI, error) {
	w := KPIWindows(today)
	q := `
		SELECT fa.site_id, si.site_id, si.site_name,
		       COALESCE(AVG(fa.montant_ht)       FILTER (WHERE fa.date_facture >= $2 AND fa.date_facture <= $1), 0),
		       COALESCE(AVG(fa.montant_ttc)      FILTER (WHERE fa.date_facture >= $2 AND fa.date_facture <= $1), 0),
		       COALESCE(AVG(fa.consommation_kwh) FILTER (WHERE fa.date_facture >= $2 AND fa.date_facture <= $1), 0),
		       COALESCE(AVG(fa.montant_ht)       FILTER (WHERE fa.date_facture >= $3 AND fa.date_facture <= $1), 0),
		       COALESCE(AVG(fa.montant_ttc)      FILTER (WHERE fa.date_facture >= $3 AND fa.date_facture <= $1), 0),
		       COALESCE(AVG(fa.consommation_kwh) FILTER (WHERE fa.date_facture >= $3 AND fa.date_facture <= $1), 0),
		       COALESCE(AVG(fa.montant_ht)       FILTER (WHERE fa.date_facture >= $4 AND fa.date_facture <= $5), 0),
		       COALESCE(AVG(fa.montant_ttc)      FILTER (WHERE fa.date_facture >= $4 AND fa.date_facture <= $5), 0),
		       COALESCE(AVG(fa.consommation_kwh) FILTER (WHERE fa.date_facture >= $4 AND fa.date_facture <= $5), 0)
		FROM factures fa
		JOIN sites si ON si.id = fa.site_id
		JOIN countries c ON c.id = si.country_id
	`
	args := []interface{}{w.Today, w.Last3Start, w.YearStart, w.PrevYearStart, w.PrevYearEnd}
	if country != "" {
		q += ` WHERE LOWER(c.name) = LOWER($6)`
		args = append(args, country)
	}
	q += ` GROUP BY fa.site_id, si.site_id, si.site_name ORDER BY si.site_name`

	rows, err := s.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []SiteKPI
	for rows.Next() {
		var k SiteKPI
		if err := rows.Scan(
			&k.SiteID, &k.SiteCode, &k.SiteName,
			&k.Last3Months.AvgMontantHT, &k.Last3Months.AvgMontantTTC, &k.Last3Months.AvgConsommationKWh,
			&k.CurrentYear.AvgMontantHT, &k.CurrentYear.AvgMontantTTC, &k.CurrentYear.AvgConsommationKWh,
			&k.PreviousYear.AvgMontantHT, &k.PreviousYear.AvgMontantTTC, &k.PreviousYear.AvgConsommationKWh,
		); err != nil {
			return nil, err
		}
		out = append(out, k)
	}
	return out, rows.Err()
}
