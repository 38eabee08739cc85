package invoices

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

const moneyScale = 2

// Facture is one utility invoice line from the finance export. Natural key
// is the invoice number; re-imports overwrite every other column. Field
// names follow the export, which is French.
type Facture struct {
	ID       int64  `json:"id"`
	SiteID   int64  `json:"site_id"`
	SiteCode string `json:"site_code"`
	SiteName string `json:"site_name"`
	Country  string `json:"country"`

	FactureNumber string         `json:"facture_number"`
	PoliceNumber  sql.NullString `json:"police_number"`
	ContratNumber sql.NullString `json:"contrat_number"`
	Typologie     sql.NullString `json:"typologie"`
	Categorie     sql.NullString `json:"categorie"`
	Societe       sql.NullString `json:"societe"`
	TypePolice    sql.NullString `json:"type_police"`

	DateFacture  time.Time    `json:"date_facture"`
	DateEcheance sql.NullTime `json:"date_echeance"`

	MontantHT        decimal.NullDecimal `json:"montant_ht"`
	MontantTCO       decimal.NullDecimal `json:"montant_tco"`
	MontantRedevance decimal.NullDecimal `json:"montant_redevance"`
	MontantTVA       decimal.NullDecimal `json:"montant_tva"`
	MontantTTC       decimal.NullDecimal `json:"montant_ttc"`
	MontantHTVA      decimal.NullDecimal `json:"montant_htva"`
	MontantEnergie   decimal.NullDecimal `json:"montant_energie"`
	MontantCosphi    decimal.NullDecimal `json:"montant_cosphi"`

	DateAI sql.NullTime `json:"date_ai"`
	DateNI sql.NullTime `json:"date_ni"`

	IndexAIK1 sql.NullInt64 `json:"index_ai_k1"`
	IndexAIK2 sql.NullInt64 `json:"index_ai_k2"`
	IndexNIK1 sql.NullInt64 `json:"index_ni_k1"`
	IndexNIK2 sql.NullInt64 `json:"index_ni_k2"`

	ConsommationKWh  decimal.NullDecimal `json:"consommation_kwh"`
	RappelMajoration decimal.NullDecimal `json:"rappel_majoration"`
	NbJours          sql.NullInt64       `json:"nb_jours"`
	PS               sql.NullFloat64     `json:"ps"`
	MaxRelevee       sql.NullFloat64     `json:"max_relevee"`

	Statut       sql.NullString      `json:"statut"`
	Observation  sql.NullString      `json:"observation"`
	PrimeFixe    decimal.NullDecimal `json:"prime_fixe"`
	ConsoReactif decimal.NullDecimal `json:"conso_reactif"`
	CosPhi       sql.NullFloat64     `json:"cos_phi"`

	MoisEcheance  sql.NullString `json:"mois_echeance"`
	AnneeEcheance sql.NullInt64  `json:"annee_echeance"`
	MoisBusiness  sql.NullString `json:"mois_business"`
	AnneeBusiness sql.NullInt64  `json:"annee_business"`

	TypeTarif      sql.NullString `json:"type_tarif"`
	TypeCompte     sql.NullString `json:"type_compte"`
	NumeroCompteur sql.NullString `json:"numero_compteur"`

	SourceFilename string    `json:"source_filename"`
	ImportedAt     time.Time `json:"imported_at"`
}
