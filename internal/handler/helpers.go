package handler

import (
	"errors"
	"net/http"
	"reflect"

	"auditex/internal/apierror"
	"auditex/internal/middleware"
	"auditex/internal/model"
	"auditex/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails —
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("JSON invalide: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		ve := apierror.NewValidation()
		for _, fe := range err.(validator.ValidationErrors) {
			ve.AddField(fe.Field(), fe.Tag())
		}
		c.JSON(http.StatusUnprocessableEntity, ve)
		return false
	}
	return true
}

// identite maps the JWT claims to the acting identity consumed by services.
func identite(c *gin.Context) service.Identite {
	claims := middleware.GetClaims(c)
	if claims == nil {
		return service.Identite{}
	}
	id, _ := uuid.Parse(claims.UserID)
	return service.Identite{
		CollaborateurID: id,
		NonRestreint:    claims.Role == model.RoleAdmin,
	}
}

// repondreErreurEtat translates the shared state errors to their HTTP status.
// Returns false when err was not one of them (caller handles it).
func repondreErreurEtat(c *gin.Context, err error) bool {
	switch {
	case errors.Is(err, apierror.ErrIntrouvable):
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
	case errors.Is(err, apierror.ErrAccesRefuse):
		c.JSON(http.StatusForbidden, apierror.New(err.Error()))
	case errors.Is(err, apierror.ErrDeclarationVerrouillee):
		c.JSON(http.StatusConflict, apierror.New(err.Error()))
	default:
		return false
	}
	return true
}
