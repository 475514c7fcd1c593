package dto

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FactureInput is one candidate invoice row in a batch submission.
//
// Every field is optional at the transport level: required-ness is decided by
// the domain validator, which also handles the mutually-exclusive groups. An
// all-blank row is accepted vacuously and silently dropped, so sparse rows in
// a batch never raise spurious "required" errors. Dates are YYYY-MM-DD
// strings.
type FactureInput struct {
	// ID is set when the row updates an existing facture.
	ID        *string `json:"id,omitempty" validate:"omitempty,uuid"`
	Supprimer bool    `json:"supprimer,omitempty"`

	FournisseurIF            *string `json:"fournisseur_if,omitempty"`
	FournisseurICE           *string `json:"fournisseur_ice,omitempty"`
	FournisseurRaisonSociale *string `json:"fournisseur_raison_sociale,omitempty"`
	FournisseurRC            *string `json:"fournisseur_rc,omitempty"`
	FournisseurAdresse       *string `json:"fournisseur_adresse,omitempty"`
	FournisseurVilleRC       *string `json:"fournisseur_ville_rc,omitempty"`

	NumeroFacture       *string          `json:"numero_facture,omitempty"`
	DateEmissionFacture *string          `json:"date_emission_facture,omitempty"`
	NaturePrestation    *string          `json:"nature_prestation,omitempty"`
	MontantTTC          *decimal.Decimal `json:"montant_ttc,omitempty"`

	DateLivraison           *string `json:"date_livraison,omitempty"`
	MoisTransaction         *int    `json:"mois_transaction,omitempty" validate:"omitempty,min=1,max=12"`
	AnneeTransaction        *int    `json:"annee_transaction,omitempty"`
	DateConstatationService *string `json:"date_constatation_service,omitempty"`

	DatePaiementPrevue        *string `json:"date_paiement_prevue,omitempty"`
	DatePaiementConvenue      *string `json:"date_paiement_convenue,omitempty"`
	DelaiPaiementSecteur      *string `json:"delai_paiement_secteur,omitempty"`
	DatePaiementPrevueSecteur *string `json:"date_paiement_prevue_secteur,omitempty"`

	MontantNonPaye        *decimal.Decimal `json:"montant_non_paye,omitempty"`
	MontantPayeHorsDelai  *decimal.Decimal `json:"montant_paye_hors_delai,omitempty"`
	DatePaiementHorsDelai *string          `json:"date_paiement_hors_delai,omitempty"`

	MontantObjetLitige     *decimal.Decimal `json:"montant_objet_litige,omitempty"`
	DateRecoursJudiciaire  *string          `json:"date_recours_judiciaire,omitempty"`
	MontantDuApresJugement *decimal.Decimal `json:"montant_du_apres_jugement,omitempty"`
	DateJugementDefinitif  *string          `json:"date_jugement_definitif,omitempty"`

	MoisSuspensionAmende *int `json:"mois_suspension_amende,omitempty" validate:"omitempty,min=0"`

	ModePaiement      *string `json:"mode_paiement,omitempty" validate:"omitempty,oneof=1 2 3 4 5 6 7"`
	ReferencePaiement *string `json:"reference_paiement,omitempty"`
}

// Normaliser maps blank / whitespace-only strings to nil so that "" and
// "not provided" mean the same thing to the validator.
func (f *FactureInput) Normaliser() {
	for _, p := range []**string{
		&f.FournisseurIF, &f.FournisseurICE, &f.FournisseurRaisonSociale,
		&f.FournisseurRC, &f.FournisseurAdresse, &f.FournisseurVilleRC,
		&f.NumeroFacture, &f.DateEmissionFacture, &f.NaturePrestation,
		&f.DateLivraison, &f.DateConstatationService,
		&f.DatePaiementPrevue, &f.DatePaiementConvenue,
		&f.DelaiPaiementSecteur, &f.DatePaiementPrevueSecteur,
		&f.DatePaiementHorsDelai, &f.DateRecoursJudiciaire,
		&f.DateJugementDefinitif, &f.ModePaiement, &f.ReferencePaiement,
	} {
		if *p != nil && strings.TrimSpace(**p) == "" {
			*p = nil
		}
	}
}

// EstVide reports whether no field was touched — the "has any field changed
// from blank" flag for new rows. An untouched row is accepted vacuously.
func (f *FactureInput) EstVide() bool {
	f.Normaliser()
	return f.FournisseurIF == nil && f.FournisseurICE == nil &&
		f.FournisseurRaisonSociale == nil && f.FournisseurRC == nil &&
		f.FournisseurAdresse == nil && f.FournisseurVilleRC == nil &&
		f.NumeroFacture == nil && f.DateEmissionFacture == nil &&
		f.NaturePrestation == nil && f.MontantTTC == nil &&
		f.DateLivraison == nil && f.MoisTransaction == nil &&
		f.AnneeTransaction == nil && f.DateConstatationService == nil &&
		f.DatePaiementPrevue == nil && f.DatePaiementConvenue == nil &&
		f.DelaiPaiementSecteur == nil && f.DatePaiementPrevueSecteur == nil &&
		f.MontantNonPaye == nil && f.MontantPayeHorsDelai == nil &&
		f.DatePaiementHorsDelai == nil && f.MontantObjetLitige == nil &&
		f.DateRecoursJudiciaire == nil && f.MontantDuApresJugement == nil &&
		f.DateJugementDefinitif == nil && f.MoisSuspensionAmende == nil &&
		f.ModePaiement == nil && f.ReferencePaiement == nil
}

// FactureResponse mirrors one persisted facture line.
type FactureResponse struct {
	ID string `json:"id"`

	FournisseurIF            *string `json:"fournisseur_if,omitempty"`
	FournisseurICE           *string `json:"fournisseur_ice,omitempty"`
	FournisseurRaisonSociale *string `json:"fournisseur_raison_sociale,omitempty"`
	FournisseurRC            *string `json:"fournisseur_rc,omitempty"`
	FournisseurAdresse       *string `json:"fournisseur_adresse,omitempty"`
	FournisseurVilleRC       *string `json:"fournisseur_ville_rc,omitempty"`

	NumeroFacture       *string         `json:"numero_facture,omitempty"`
	DateEmissionFacture *string         `json:"date_emission_facture,omitempty"`
	NaturePrestation    *string         `json:"nature_prestation,omitempty"`
	MontantTTC          decimal.Decimal `json:"montant_ttc"`

	DateLivraison           *string `json:"date_livraison,omitempty"`
	MoisTransaction         *int    `json:"mois_transaction,omitempty"`
	AnneeTransaction        *int    `json:"annee_transaction,omitempty"`
	DateConstatationService *string `json:"date_constatation_service,omitempty"`

	DatePaiementPrevue        *string `json:"date_paiement_prevue,omitempty"`
	DatePaiementConvenue      *string `json:"date_paiement_convenue,omitempty"`
	DelaiPaiementSecteur      *string `json:"delai_paiement_secteur,omitempty"`
	DatePaiementPrevueSecteur *string `json:"date_paiement_prevue_secteur,omitempty"`

	MontantNonPaye        *decimal.Decimal `json:"montant_non_paye,omitempty"`
	MontantPayeHorsDelai  *decimal.Decimal `json:"montant_paye_hors_delai,omitempty"`
	DatePaiementHorsDelai *string          `json:"date_paiement_hors_delai,omitempty"`

	MontantObjetLitige     *decimal.Decimal `json:"montant_objet_litige,omitempty"`
	DateRecoursJudiciaire  *string          `json:"date_recours_judiciaire,omitempty"`
	MontantDuApresJugement *decimal.Decimal `json:"montant_du_apres_jugement,omitempty"`
	DateJugementDefinitif  *string          `json:"date_jugement_definitif,omitempty"`

	MoisSuspensionAmende *int `json:"mois_suspension_amende,omitempty"`

	ModePaiement      *string `json:"mode_paiement,omitempty"`
	ReferencePaiement *string `json:"reference_paiement,omitempty"`

	NombreMoisRetard *int             `json:"nombre_mois_retard,omitempty"`
	Amende           *decimal.Decimal `json:"amende,omitempty"`
}

// LigneErreur pairs a rejected row's index with its collected errors, so
// each invalid row reports independently and valid rows are unaffected.
type LigneErreur struct {
	Index    int               `json:"index"`
	Fields   map[string]string `json:"fields,omitempty"`
	NonField []string          `json:"non_field,omitempty"`
}

// EnregistrerFacturesRequest is the all-or-nothing batch save payload.
type EnregistrerFacturesRequest struct {
	Factures []FactureInput `json:"factures"`
	// Soumettre requests the DRAFT → SUBMITTED transition after a
	// successful save.
	Soumettre bool `json:"soumettre,omitempty"`
}
