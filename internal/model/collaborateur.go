package model

import (
	"time"

	"github.com/google/uuid"
)

// Roles.
const (
	RoleAdmin         = "admin"
	RoleCollaborateur = "collaborateur"
)

// Registration statuses. A self-registered collaborateur stays EN_ATTENTE
// (and inactive) until an admin validates or rejects the request.
const (
	InscriptionEnAttente = "EN_ATTENTE"
	InscriptionValidee   = "VALIDE"
	InscriptionRejetee   = "REJETE"
)

// Collaborateur stores system users with role-based access.
// Admins see every client; collaborateurs only see assigned ones.
type Collaborateur struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Username     string    `gorm:"uniqueIndex;not null"`
	Email        string    `gorm:"uniqueIndex;not null"`
	Nom          string    `gorm:"not null"`
	PasswordHash string    `gorm:"not null"`
	Role         string    `gorm:"type:varchar(20);not null;default:'collaborateur'"`

	// Registration workflow
	StatutInscription string     `gorm:"type:varchar(20);not null;default:'EN_ATTENTE'"`
	NotesInscription  *string
	NotesAdmin        *string
	ValidationDate    *time.Time

	Actif     bool `gorm:"not null;default:false"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Clients []Client `gorm:"many2many:client_collaborateurs"`
}
