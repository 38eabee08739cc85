package invoices

import (
	"context"
	"fmt"
	"log"

	"EnerTrack/api/registry"
	"EnerTrack/internal/ingest"
)

// ImportResult reports one invoice upload.
type ImportResult struct {
	Message string   `json:"message"`
	Created int      `json:"created"`
	Updated int      `json:"updated"`
	Skipped int      `json:"skipped"`
	Errors  []string `json:"errors,omitempty"`
}

// Importer ingests the finance invoice export. Unlike the operational
// reports the header sits on the first row and sites are matched by name
// against the registry, never created.
type Importer struct {
	Registry registry.Store
	Store    Store
}

func (imp *Importer) Import(ctx context.Context, data []byte, filename string) (*ImportResult, error) {
	rows, err := ingest.ReadGrid(data, filename)
	if err != nil {
		return nil, ingest.Structuralf("unreadable file %s: %v", filename, err)
	}
	if len(rows) == 0 {
		return nil, ingest.Structuralf("empty file %s", filename)
	}
	cols, err := ingest.ResolveColumns(rows[0], factureFields, false)
	if err != nil {
		return nil, err
	}

	res := &ImportResult{}
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		siteName := ingest.CleanCell(cols.Cell(row, "site"))
		if siteName == "" {
			continue
		}
		site, ok, err := imp.Registry.GetSiteByName(ctx, siteName)
		if err != nil {
			res.Skipped++
			res.Errors = append(res.Errors, fmt.Sprintf("row %d: %v", i+1, err))
			continue
		}
		if !ok {
			res.Skipped++
			res.Errors = append(res.Errors, fmt.Sprintf("row %d: unknown site %q", i+1, siteName))
			continue
		}

		factureNumber := ingest.CleanCell(cols.Cell(row, "facture"))
		if factureNumber == "" {
			res.Skipped++
			res.Errors = append(res.Errors, fmt.Sprintf("row %d: empty invoice number", i+1))
			continue
		}
		dateFacture := ingest.ParseDate(cols.Cell(row, "date_facture"))
		if !dateFacture.Valid {
			res.Skipped++
			res.Errors = append(res.Errors, fmt.Sprintf("row %d: unreadable invoice date %q", i+1, cols.Cell(row, "date_facture")))
			continue
		}

		f := &Facture{
			SiteID:   site.ID,
			SiteCode: site.SiteID,
			SiteName: site.SiteName,
			Country:  site.Country,

			FactureNumber: factureNumber,
			PoliceNumber:  ingest.ParseString(cols.Cell(row, "police_number")),
			ContratNumber: ingest.ParseString(cols.Cell(row, "contrat_number")),
			Typologie:     ingest.ParseString(cols.Cell(row, "typologie")),
			Categorie:     ingest.ParseString(cols.Cell(row, "categorie")),
			Societe:       ingest.ParseString(cols.Cell(row, "societe")),
			TypePolice:    ingest.ParseString(cols.Cell(row, "type_police")),

			DateFacture:  dateFacture.Time,
			DateEcheance: ingest.ParseDate(cols.Cell(row, "echeance")),

			MontantHT:        ingest.ParseDecimal(cols.Cell(row, "montant_ht"), moneyScale),
			MontantTCO:       ingest.ParseDecimal(cols.Cell(row, "montant_tco"), moneyScale),
			MontantRedevance: ingest.ParseDecimal(cols.Cell(row, "montant_redevance"), moneyScale),
			MontantTVA:       ingest.ParseDecimal(cols.Cell(row, "montant_tva"), moneyScale),
			MontantTTC:       ingest.ParseDecimal(cols.Cell(row, "montant_ttc"), moneyScale),
			MontantHTVA:      ingest.ParseDecimal(cols.Cell(row, "montant_htva"), moneyScale),
			MontantEnergie:   ingest.ParseDecimal(cols.Cell(row, "montant_energie"), moneyScale),
			MontantCosphi:    ingest.ParseDecimal(cols.Cell(row, "montant_cosphi"), moneyScale),

			DateAI: ingest.ParseDate(cols.Cell(row, "date_ai")),
			DateNI: ingest.ParseDate(cols.Cell(row, "date_ni")),

			IndexAIK1: ingest.ParseInt(cols.Cell(row, "index_ai_k1")),
			IndexAIK2: ingest.ParseInt(cols.Cell(row, "index_ai_k2")),
			IndexNIK1: ingest.ParseInt(cols.Cell(row, "index_ni_k1")),
			IndexNIK2: ingest.ParseInt(cols.Cell(row, "index_ni_k2")),

			ConsommationKWh:  ingest.ParseDecimal(cols.Cell(row, "consommation_kwh"), moneyScale),
			RappelMajoration: ingest.ParseDecimal(cols.Cell(row, "rappel_majoration"), moneyScale),
			NbJours:          ingest.ParseInt(cols.Cell(row, "nb_jours")),
			PS:               ingest.ParseFloat(cols.Cell(row, "ps")),
			MaxRelevee:       ingest.ParseFloat(cols.Cell(row, "max_relevee")),

			Statut:       ingest.ParseString(cols.Cell(row, "statut")),
			Observation:  ingest.ParseString(cols.Cell(row, "observation")),
			PrimeFixe:    ingest.ParseDecimal(cols.Cell(row, "prime_fixe"), moneyScale),
			ConsoReactif: ingest.ParseDecimal(cols.Cell(row, "conso_reactif"), moneyScale),
			CosPhi:       ingest.ParseFloat(cols.Cell(row, "cos_phi")),

			MoisEcheance:  ingest.ParseString(cols.Cell(row, "mois_echeance")),
			AnneeEcheance: ingest.ParseInt(cols.Cell(row, "annee_echeance")),
			MoisBusiness:  ingest.ParseString(cols.Cell(row, "mois_business")),
			AnneeBusiness: ingest.ParseInt(cols.Cell(row, "annee_business")),

			TypeTarif:      ingest.ParseString(cols.Cell(row, "type_tarif")),
			TypeCompte:     ingest.ParseString(cols.Cell(row, "type_compte")),
			NumeroCompteur: ingest.ParseString(cols.Cell(row, "numero_compteur")),

			SourceFilename: filename,
		}

		created, err := imp.Store.UpsertFacture(ctx, f)
		if err != nil {
			res.Skipped++
			res.Errors = append(res.Errors, fmt.Sprintf("row %d (%s): %v", i+1, factureNumber, err))
			continue
		}
		if created {
			res.Created++
		} else {
			res.Updated++
		}
	}
	res.Message = fmt.Sprintf("%d created, %d updated", res.Created, res.Updated)
	log.Printf("[INFO] invoice import %s: %s, %d skipped", filename, res.Message, res.Skipped)
	return res, nil
}
