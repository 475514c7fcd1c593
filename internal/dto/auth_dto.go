package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// SInscrireRequest is the self-registration payload. The resulting account
// stays inactive until an admin validates the request.
type SInscrireRequest struct {
	Username         string  `json:"username" validate:"required,min=3,max=50"`
	Email            string  `json:"email"    validate:"required,email"`
	Nom              string  `json:"nom"      validate:"required,max=255"`
	Password         string  `json:"password" validate:"required,min=8"`
	NotesInscription *string `json:"notes_inscription,omitempty"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type LoginResponse struct {
	AccessToken  string                `json:"access_token"`
	RefreshToken string                `json:"refresh_token"`
	TokenType    string                `json:"token_type"`
	ExpiresIn    int                   `json:"expires_in"`
	User         CollaborateurResponse `json:"user"`
}
