package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreerDeclarationRequest struct {
	ClientID        string `json:"client_id"        validate:"required,uuid"`
	TypeDeclaration string `json:"type_declaration" validate:"required,oneof=TRIMESTRIEL ANNUEL"`
	// Periode is required iff TypeDeclaration is TRIMESTRIEL; the service
	// enforces the conditional, not a validator tag.
	Periode           *int             `json:"periode,omitempty"`
	Annee             int              `json:"annee"               validate:"required,min=2000,max=2100"`
	ChiffreAffairesN1 decimal.Decimal  `json:"chiffre_affaires_n1" validate:"required"`
	TauxDirecteur     *decimal.Decimal `json:"taux_directeur,omitempty"`
}

type ModifierDeclarationRequest struct {
	ChiffreAffairesN1 *decimal.Decimal `json:"chiffre_affaires_n1,omitempty"`
	TauxDirecteur     *decimal.Decimal `json:"taux_directeur,omitempty"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type DeclarationResponse struct {
	ID                string            `json:"id"`
	ClientID          string            `json:"client_id"`
	ClientNom         string            `json:"client_nom,omitempty"`
	CollaborateurID   *string           `json:"collaborateur_id,omitempty"`
	TypeDeclaration   string            `json:"type_declaration"`
	Periode           *int              `json:"periode,omitempty"`
	Annee             int               `json:"annee"`
	ChiffreAffairesN1 decimal.Decimal   `json:"chiffre_affaires_n1"`
	TauxDirecteur     *decimal.Decimal  `json:"taux_directeur,omitempty"`
	Statut            string            `json:"statut"`
	Factures          []FactureResponse `json:"factures,omitempty"`
	CreatedAt         string            `json:"created_at"`
	UpdatedAt         string            `json:"updated_at"`
}

// CreerDeclarationResponse reports whether the declaration was created or an
// existing one was returned, so the caller can redirect instead of duplicate.
type CreerDeclarationResponse struct {
	Declaration DeclarationResponse `json:"declaration"`
	Created     bool                `json:"created"`
}

type DeclarationListResponse struct {
	Data  []DeclarationResponse `json:"data"`
	Total int64                 `json:"total"`
	Page  int                   `json:"page"`
	Limit int                   `json:"limit"`
}

// DeclarationFilter narrows declaration listings.
type DeclarationFilter struct {
	ClientID string `form:"client_id"`
	Statut   string `form:"statut"`
	Annee    int    `form:"annee"`
	Page     int    `form:"page"`
	Limit    int    `form:"limit"`
}
