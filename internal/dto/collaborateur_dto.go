package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreerCollaborateurRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email"    validate:"required,email"`
	Nom      string `json:"nom"      validate:"required,max=255"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role"     validate:"required,oneof=admin collaborateur"`
}

type ModifierCollaborateurRequest struct {
	Email *string `json:"email,omitempty" validate:"omitempty,email"`
	Nom   *string `json:"nom,omitempty"   validate:"omitempty,max=255"`
	Role  *string `json:"role,omitempty"  validate:"omitempty,oneof=admin collaborateur"`
}

// ValiderInscriptionRequest carries the admin decision on a pending
// registration: validate (with optional client assignments) or reject.
type ValiderInscriptionRequest struct {
	Action     string   `json:"action" validate:"required,oneof=validate reject"`
	ClientIDs  []string `json:"client_ids,omitempty" validate:"omitempty,dive,uuid"`
	NotesAdmin *string  `json:"notes_admin,omitempty"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type CollaborateurResponse struct {
	ID                string  `json:"id"`
	Username          string  `json:"username"`
	Email             string  `json:"email"`
	Nom               string  `json:"nom"`
	Role              string  `json:"role"`
	StatutInscription string  `json:"statut_inscription"`
	NotesInscription  *string `json:"notes_inscription,omitempty"`
	ValidationDate    *string `json:"validation_date,omitempty"`
	Actif             bool    `json:"actif"`
}
