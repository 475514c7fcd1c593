// Package apierror provides standardized error response structures for the API.
// All errors returned to clients go through this package to ensure consistency
// and to prevent leaking internal details (stack traces, DB errors, etc.).
package apierror

import "errors"

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// ValidationError carries per-field errors plus whole-record errors that are
// not attributable to a single field (mutually-exclusive group violations).
// Both maps are user-correctable and never fatal to the batch.
type ValidationError struct {
	Detail   string            `json:"detail"`
	Fields   map[string]string `json:"fields,omitempty"`
	NonField []string          `json:"non_field,omitempty"`
}

func (e *ValidationError) Error() string { return e.Detail }

// HasErrors reports whether any field or whole-record error was collected.
func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) > 0 || len(e.NonField) > 0
}

// AddField records a field-scoped error. The first message per field wins,
// matching the display behavior of the declaration form.
func (e *ValidationError) AddField(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	if _, dup := e.Fields[field]; !dup {
		e.Fields[field] = msg
	}
}

// AddNonField records a whole-record error.
func (e *ValidationError) AddNonField(msg string) {
	e.NonField = append(e.NonField, msg)
}

func NewValidation() *ValidationError {
	return &ValidationError{Detail: "Erreur de validation"}
}

// State errors: operations attempted on a locked record, missing records,
// and visibility refusals. Handlers map each to its HTTP status.
var (
	// ErrDeclarationVerrouillee is returned for any mutation attempted on a
	// SUBMITTED declaration. Never silently ignored.
	ErrDeclarationVerrouillee = errors.New("cette déclaration est déjà soumise et ne peut plus être modifiée")

	// ErrIntrouvable is the generic not-found condition for referenced
	// clients / declarations / factures.
	ErrIntrouvable = errors.New("enregistrement introuvable")

	// ErrAccesRefuse is returned when the acting collaborateur is not
	// assigned to the client owning the requested record.
	ErrAccesRefuse = errors.New("accès refusé à ce client")
)
