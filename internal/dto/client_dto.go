package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreerClientRequest struct {
	RaisonSociale string  `json:"raison_sociale" validate:"required,max=255"`
	NumeroIF      string  `json:"numero_if"      validate:"required,max=20"`
	NumeroICE     *string `json:"numero_ice,omitempty" validate:"omitempty,max=30"`
	Adresse       *string `json:"adresse,omitempty"`
}

type ModifierClientRequest struct {
	RaisonSociale *string `json:"raison_sociale,omitempty" validate:"omitempty,max=255"`
	NumeroICE     *string `json:"numero_ice,omitempty"     validate:"omitempty,max=30"`
	Adresse       *string `json:"adresse,omitempty"`
}

type AssignerCollaborateursRequest struct {
	CollaborateurIDs []string `json:"collaborateur_ids" validate:"required,dive,uuid"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ClientResponse struct {
	ID            string  `json:"id"`
	RaisonSociale string  `json:"raison_sociale"`
	NumeroIF      string  `json:"numero_if"`
	NumeroICE     *string `json:"numero_ice,omitempty"`
	Adresse       *string `json:"adresse,omitempty"`
	// Collaborateurs lists the usernames assigned to this client.
	Collaborateurs []string `json:"collaborateurs,omitempty"`
}

type ClientListResponse struct {
	Data  []ClientResponse `json:"data"`
	Total int64            `json:"total"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
}
