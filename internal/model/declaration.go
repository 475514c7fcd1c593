package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Declaration types and lifecycle states.
const (
	TypeTrimestriel = "TRIMESTRIEL"
	TypeAnnuel      = "ANNUEL"

	StatutDraft     = "DRAFT"
	StatutSubmitted = "SUBMITTED"
)

// PeriodeAnnuelle is the sentinel the regulator expects in <periode> for
// annual declarations (quarters are 1..4).
const PeriodeAnnuelle = 5

// Declaration is one period-bound payment-delay filing for one client.
// The tuple (client, type, periode, annee) is unique; Periode is nil for
// annual declarations and 1..4 for quarterly ones.
type Declaration struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ClientID uuid.UUID `gorm:"type:uuid;index;not null;uniqueIndex:idx_declaration_unique"`
	// CollaborateurID is NULLed when the owning user is removed.
	CollaborateurID *uuid.UUID `gorm:"type:uuid;index"`

	TypeDeclaration string `gorm:"type:varchar(12);not null;default:'TRIMESTRIEL';uniqueIndex:idx_declaration_unique"`
	Periode         *int   `gorm:"uniqueIndex:idx_declaration_unique"`
	Annee           int    `gorm:"not null;uniqueIndex:idx_declaration_unique"`

	// ChiffreAffairesN1 is the prior-year revenue; the XML export truncates
	// it to an integer.
	ChiffreAffairesN1 decimal.Decimal `gorm:"type:decimal(15,2);not null;column:chiffre_affaires_n1"`
	// TauxDirecteur is the annual rate (%) used by the fine computation.
	TauxDirecteur *decimal.Decimal `gorm:"type:decimal(5,2)"`

	Statut    string `gorm:"type:varchar(10);not null;default:'DRAFT'"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Client        *Client        `gorm:"foreignKey:ClientID"`
	Collaborateur *Collaborateur `gorm:"foreignKey:CollaborateurID"`
	Factures      []Facture      `gorm:"constraint:OnDelete:CASCADE"`
}

// EstVerrouillee reports whether the declaration (and its factures) are
// immutable to ordinary edit operations.
func (d *Declaration) EstVerrouillee() bool {
	return d.Statut == StatutSubmitted
}

// PeriodeExport returns the value serialized in the <periode> leaf:
// the quarter for quarterly filings, the sentinel 5 for annual ones.
func (d *Declaration) PeriodeExport() int {
	if d.TypeDeclaration == TypeAnnuel || d.Periode == nil {
		return PeriodeAnnuelle
	}
	return *d.Periode
}
