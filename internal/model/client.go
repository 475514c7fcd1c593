package model

import (
	"time"

	"github.com/google/uuid"
)

// Client is a legal entity declaring payment delays.
// RaisonSociale and NumeroIF are unique; both are treated as immutable
// identity fields after creation (by convention, not by constraint).
type Client struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	RaisonSociale string    `gorm:"uniqueIndex;not null"`
	// NumeroIF is the identifiant fiscal reported as <identifiantFiscal> in
	// the regulator export.
	NumeroIF  string  `gorm:"type:varchar(20);uniqueIndex;not null;column:numero_if"`
	NumeroICE *string `gorm:"type:varchar(30);column:numero_ice"`
	Adresse   *string
	CreatedAt time.Time
	UpdatedAt time.Time

	// Collaborateurs assigned to this client (visibility scope).
	Collaborateurs []Collaborateur `gorm:"many2many:client_collaborateurs"`
	Declarations   []Declaration   `gorm:"constraint:OnDelete:CASCADE"`
}
