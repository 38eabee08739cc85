package billing

import "EnerTrack/internal/ingest"

// invoiceFields maps the billing sheet headers onto logical fields. The
// files are inconsistent about spacing and casing, which normalization
// absorbs; the TTC column ships with leading and trailing spaces in some
// exports.
var invoiceFields = []ingest.FieldSpec{
	ingest.Required("contract_account", "Numero Compte Contrat"),
	ingest.Optional("partner", "Partenaire"),
	ingest.Optional("locality", "Localite"),
	ingest.Optional("district", "Arrondissement"),
	ingest.Optional("street", "Rue"),
	ingest.Required("invoice_number", "Numero Facture"),
	ingest.Optional("accounting_date", "Date comptable Facture"),
	ingest.Optional("amount_energy", "Montant Total Energie"),
	ingest.Optional("amount_fee", "Montant Redevance"),
	ingest.Optional("amount_tco", "Montant TCO"),
	ingest.Optional("amount_excl_vat", "Montant Hors TVA"),
	ingest.Optional("amount_vat", "Montant TVA"),
	ingest.Optional("amount_ttc", "Montant Facture TTC"),
	ingest.Required("period_start", "Date Debut Periode Facturation"),
	ingest.Required("period_end", "Date Fin Periode Facturation"),
	ingest.Optional("old_index_k1", "Ancien index K1"),
	ingest.Optional("old_index_k2", "Ancien Index K2"),
	ingest.Optional("new_index_k1", "Nouvel index K1"),
	ingest.Optional("new_index_k2", "Nouvel Index K2"),
	ingest.Optional("billed_consumption", "Consommation Facturée"),
	ingest.Optional("agency", "AGENCE"),
	ingest.Optional("meter_number", "N° Compteur"),
}

// isInvoiceHeader recognizes the real header row wherever the export put it.
func isInvoiceHeader(norm []string) bool {
	return ingest.RowHasAll(norm, "numero facture", "date debut periode facturation")
}
