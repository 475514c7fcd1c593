package service

import (
	"fmt"
	"time"

	"auditex/internal/apierror"
	"auditex/internal/dto"

	"github.com/shopspring/decimal"
)

// dateFormat is the wire format for every date field (YYYY-MM-DD).
const dateFormat = "2006-01-02"

// champsDeBase are the unconditionally required fields (rule 1), keyed by
// wire name with the display label used in the error message.
var champsDeBase = []struct{ champ, label string }{
	{"fournisseur_if", "N° d'IF"},
	{"fournisseur_ice", "N° d'ICE"},
	{"fournisseur_raison_sociale", "Raison Sociale"},
	{"fournisseur_rc", "N° RC"},
	{"fournisseur_adresse", "Adresse"},
	{"fournisseur_ville_rc", "Ville du RC"},
	{"numero_facture", "N° Facture"},
	{"date_emission_facture", "Date Émission"},
	{"nature_prestation", "Nature Prestation"},
	{"montant_ttc", "Montant TTC"},
}

// ValiderFacture checks one candidate invoice row against the declaration
// rules. changed=false means no field was touched: the row is accepted
// vacuously so sparse rows in a batch never raise "required" errors.
//
// All violations are collected — nothing short-circuits. A nil return means
// the row is accepted.
func ValiderFacture(f *dto.FactureInput, changed bool) *apierror.ValidationError {
	if !changed {
		return nil
	}
	f.Normaliser()

	ve := apierror.NewValidation()

	// ── Règle 1 : champs de base requis ──────────────────────────────────────
	presents := map[string]bool{
		"fournisseur_if":             f.FournisseurIF != nil,
		"fournisseur_ice":            f.FournisseurICE != nil,
		"fournisseur_raison_sociale": f.FournisseurRaisonSociale != nil,
		"fournisseur_rc":             f.FournisseurRC != nil,
		"fournisseur_adresse":        f.FournisseurAdresse != nil,
		"fournisseur_ville_rc":       f.FournisseurVilleRC != nil,
		"numero_facture":             f.NumeroFacture != nil,
		"date_emission_facture":      f.DateEmissionFacture != nil,
		"nature_prestation":          f.NaturePrestation != nil,
		"montant_ttc":                f.MontantTTC != nil,
	}
	for _, c := range champsDeBase {
		if !presents[c.champ] {
			ve.AddField(c.champ, fmt.Sprintf("Le champ '%s' est obligatoire.", c.label))
		}
	}

	// Date fields must parse before the group rules can reason about them.
	dates := map[string]*string{
		"date_emission_facture":        f.DateEmissionFacture,
		"date_livraison":               f.DateLivraison,
		"date_constatation_service":    f.DateConstatationService,
		"date_paiement_prevue":         f.DatePaiementPrevue,
		"date_paiement_convenue":       f.DatePaiementConvenue,
		"date_paiement_prevue_secteur": f.DatePaiementPrevueSecteur,
		"date_paiement_hors_delai":     f.DatePaiementHorsDelai,
		"date_recours_judiciaire":      f.DateRecoursJudiciaire,
		"date_jugement_definitif":      f.DateJugementDefinitif,
	}
	for champ, valeur := range dates {
		if valeur == nil {
			continue
		}
		if _, err := time.Parse(dateFormat, *valeur); err != nil {
			ve.AddField(champ, "Format de date invalide (AAAA-MM-JJ attendu).")
		}
	}

	// ── Règle 2 : groupe livraison / prestation (exactement une option) ──────
	livraisonRemplies := 0
	if f.DateLivraison != nil {
		livraisonRemplies++
	}
	if f.MoisTransaction != nil && f.AnneeTransaction != nil {
		livraisonRemplies++
	}
	if f.DateConstatationService != nil {
		livraisonRemplies++
	}
	if livraisonRemplies == 0 {
		ve.AddNonField("Info Livraison : Veuillez remplir soit la 'Date Livraison', soit 'Mois/Année', soit la 'Date Constatation Service'.")
	}
	if livraisonRemplies > 1 {
		ve.AddNonField("Info Livraison : Veuillez ne remplir qu'une seule des options suivantes : 'Date Livraison', 'Mois/Année', ou 'Date Constatation Service'.")
	}

	// ── Règle 3 : groupe date de paiement (exactement une option) ────────────
	paiementRemplies := 0
	if f.DatePaiementPrevue != nil {
		paiementRemplies++
	}
	if f.DatePaiementConvenue != nil {
		paiementRemplies++
	}
	if f.DelaiPaiementSecteur != nil && f.DatePaiementPrevueSecteur != nil {
		paiementRemplies++
	}
	if paiementRemplies == 0 {
		ve.AddNonField("Info Paiement : Veuillez remplir soit la 'Date Paiement Prévue', soit la 'Date Paiement Convenue', soit 'Délai Secteur' et 'Date Prévue Secteur'.")
	}
	if paiementRemplies > 1 {
		ve.AddNonField("Info Paiement : Veuillez ne remplir qu'une seule des options suivantes : 'Date Paiement Prévue', 'Date Paiement Convenue', ou 'Délai/Date Secteur'.")
	}

	// ── Règle 4 : montant non payé / payé hors délai ─────────────────────────
	// Presence means "provided", which is distinct from a zero amount.
	nonPaye := f.MontantNonPaye != nil
	horsDelai := f.MontantPayeHorsDelai != nil

	if nonPaye && horsDelai {
		ve.AddNonField("Info Montant : Veuillez ne remplir qu'un seul des deux champs : 'Montant Non Payé' ou 'Montant Payé Hors Délai'.")
	}
	if !nonPaye && !horsDelai {
		ve.AddNonField("Info Montant : Veuillez remplir soit le 'Montant Non Payé', soit le 'Montant Payé Hors Délai'.")
	}
	if horsDelai && f.DatePaiementHorsDelai == nil {
		ve.AddField("date_paiement_hors_delai", "Ce champ est requis avec le 'Montant Payé Hors Délai'.")
	}
	if !horsDelai && f.DatePaiementHorsDelai != nil {
		ve.AddField("date_paiement_hors_delai", "Ce champ doit être vide si le 'Montant Payé Hors Délai' est vide.")
	}

	// ── Règle 5 : section litige ─────────────────────────────────────────────
	// Activated only by a strictly positive dispute amount.
	if f.MontantObjetLitige != nil && f.MontantObjetLitige.GreaterThan(decimal.Zero) {
		if f.DateRecoursJudiciaire == nil {
			ve.AddField("date_recours_judiciaire", "Ce champ est requis car un montant est en litige.")
		}
		if f.MontantDuApresJugement == nil {
			ve.AddField("montant_du_apres_jugement", "Ce champ est requis car un montant est en litige.")
		}
		if f.DateJugementDefinitif == nil {
			ve.AddField("date_jugement_definitif", "Ce champ est requis car un montant est en litige.")
		}
	}

	// ── Règle 6 : mode et référence de paiement ──────────────────────────────
	if horsDelai {
		if f.ModePaiement == nil {
			ve.AddField("mode_paiement", "Ce champ est requis lorsque le 'Montant Payé Hors Délai' est renseigné.")
		}
		if f.ReferencePaiement == nil {
			ve.AddField("reference_paiement", "Ce champ est requis lorsque le 'Montant Payé Hors Délai' est renseigné.")
		}
	}

	if !ve.HasErrors() {
		return nil
	}
	return ve
}
