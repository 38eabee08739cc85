package invoices

import "EnerTrack/internal/ingest"

// factureFields maps the finance export. Headers are the French labels as
// exported; accents fold away during matching, so 'CONS FACTURÉE' and
// 'CONS FACTUREE' both resolve.
var factureFields = []ingest.FieldSpec{
	ingest.Required("site", "SITE"),
	ingest.Required("facture", "FACTURE"),
	ingest.Required("date_facture", "DATE FACTURE"),
	ingest.Optional("police_number", "N° POLICE"),
	ingest.Optional("contrat_number", "N°COMPTE CONTRAT", "N° COMPTE CONTRAT"),
	ingest.Optional("typologie", "TYPOLOGIE"),
	ingest.Optional("categorie", "CATEGORIE"),
	ingest.Optional("societe", "SOCIÉTÉ"),
	ingest.Optional("type_police", "TYPE POLICE"),
	ingest.Optional("echeance", "ÉCHÉANCE"),
	ingest.Optional("montant_ht", "MONTANT HT"),
	ingest.Optional("montant_tco", "MONTANT TCO"),
	ingest.Optional("montant_redevance", "MONTANT REDEVANCE"),
	ingest.Optional("montant_tva", "MONTANT TVA"),
	ingest.Optional("montant_ttc", "MONTANT TTC"),
	ingest.Optional("montant_htva", "MONTANT HTVA"),
	ingest.Optional("montant_energie", "MONTANT ENERGIE"),
	ingest.Optional("montant_cosphi", "MONTANT COSPHI"),
	ingest.Optional("date_ai", "DATE AI"),
	ingest.Optional("date_ni", "DATE NI"),
	ingest.Optional("index_ai_k1", "INDEX AI K1"),
	ingest.Optional("index_ai_k2", "INDEX AI K2"),
	ingest.Optional("index_ni_k1", "INDEX NI K1"),
	ingest.Optional("index_ni_k2", "INDEX NI K2"),
	ingest.Optional("consommation_kwh", "CONS FACTURÉE"),
	ingest.Optional("rappel_majoration", "RAPPEL MAJORATION"),
	ingest.Optional("nb_jours", "NOMBRE DE JOURS"),
	ingest.Optional("ps", "PS"),
	ingest.Optional("max_relevee", "MAX RELEVEE"),
	ingest.Optional("statut", "STATUT"),
	ingest.Optional("observation", "OBSERVATION"),
	ingest.Optional("prime_fixe", "PRIME FIXE"),
	ingest.Optional("conso_reactif", "CONSO REACTIF"),
	ingest.Optional("cos_phi", "COS PHI"),
	ingest.Optional("mois_echeance", "MOIS ECHEANCE"),
	ingest.Optional("annee_echeance", "ANNEE ECHEANCE"),
	ingest.Optional("mois_business", "MOIS BUSINESS"),
	ingest.Optional("annee_business", "ANNÉE"),
	ingest.Optional("type_tarif", "TYPE DE TARIF"),
	ingest.Optional("type_compte", "TYPE COMPTE"),
	ingest.Optional("numero_compteur", "N° COMPTEUR"),
}
