package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment mode codes dictated by the regulator format.
const (
	ModeEspeces      = "1"
	ModeCheque       = "2"
	ModePrelevement  = "3"
	ModeVirement     = "4"
	ModeEffets       = "5"
	ModeCompensation = "6"
	ModeAutres       = "7"
)

// ModesPaiement maps each payment mode code to its display label.
var ModesPaiement = map[string]string{
	ModeEspeces:      "Espèces",
	ModeCheque:       "Chèque",
	ModePrelevement:  "Prélèvement",
	ModeVirement:     "Virement",
	ModeEffets:       "Effets",
	ModeCompensation: "Compensation",
	ModeAutres:       "Autres",
}

// Facture is one supplier invoice line inside a declaration.
//
// Optional fields are pointers: nil means "not provided", which is distinct
// from a zero value everywhere the validation rules care (amounts, dates).
// Exactly-one-of group membership is enforced by the validator, not the
// schema. NombreMoisRetard and Amende are derived by the penalty calculator
// and persisted alongside the user-supplied fields so exports reflect what
// was actually filed.
type Facture struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	DeclarationID uuid.UUID `gorm:"type:uuid;index;not null"`

	// Supplier identity
	FournisseurIF            *string `gorm:"type:varchar(20);column:fournisseur_if"`
	FournisseurICE           *string `gorm:"type:varchar(30);column:fournisseur_ice"`
	FournisseurRaisonSociale *string
	FournisseurRC            *string `gorm:"type:varchar(50);column:fournisseur_rc"`
	FournisseurAdresse       *string
	FournisseurVilleRC       *string `gorm:"type:varchar(100);column:fournisseur_ville_rc"`

	// Invoice
	NumeroFacture       *string    `gorm:"type:varchar(100)"`
	DateEmissionFacture *time.Time `gorm:"type:date"`
	NaturePrestation    *string
	MontantTTC          decimal.Decimal `gorm:"type:decimal(15,2);not null;column:montant_ttc"`

	// Delivery-reference group: exactly one of date | month+year pair | constatation
	DateLivraison            *time.Time `gorm:"type:date"`
	MoisTransaction          *int
	AnneeTransaction         *int
	DateConstatationService  *time.Time `gorm:"type:date"`

	// Payment-due group: exactly one of expected | agreed | sector pair
	DatePaiementPrevue        *time.Time `gorm:"type:date"`
	DatePaiementConvenue      *time.Time `gorm:"type:date"`
	DelaiPaiementSecteur      *string    `gorm:"type:varchar(50)"`
	DatePaiementPrevueSecteur *time.Time `gorm:"type:date"`

	// Outstanding-amount group: exactly one of unpaid | late-paid
	MontantNonPaye        *decimal.Decimal `gorm:"type:decimal(15,2)"`
	MontantPayeHorsDelai  *decimal.Decimal `gorm:"type:decimal(15,2)"`
	DatePaiementHorsDelai *time.Time       `gorm:"type:date"`

	// Litige sub-group — all required once MontantObjetLitige > 0
	MontantObjetLitige    *decimal.Decimal `gorm:"type:decimal(15,2)"`
	DateRecoursJudiciaire *time.Time       `gorm:"type:date"`
	MontantDuApresJugement *decimal.Decimal `gorm:"type:decimal(15,2)"`
	DateJugementDefinitif *time.Time       `gorm:"type:date"`

	MoisSuspensionAmende *int

	// Required once MontantPayeHorsDelai is present
	ModePaiement      *string `gorm:"type:varchar(2)"`
	ReferencePaiement *string `gorm:"type:varchar(100)"`

	// Derived by the penalty calculator — never user-supplied.
	NombreMoisRetard *int
	Amende           *decimal.Decimal `gorm:"type:decimal(15,2)"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// MontantDeBase returns the amount the fine is computed on: the unpaid
// amount or the late-paid amount, whichever group is filled.
func (f *Facture) MontantDeBase() decimal.Decimal {
	if f.MontantNonPaye != nil {
		return *f.MontantNonPaye
	}
	if f.MontantPayeHorsDelai != nil {
		return *f.MontantPayeHorsDelai
	}
	return decimal.Zero
}

// EstHorsDelai reports whether the line carries a positive months-late
// count — the eligibility test for the regulator's filtered XML export.
func (f *Facture) EstHorsDelai() bool {
	return f.NombreMoisRetard != nil && *f.NombreMoisRetard > 0
}
