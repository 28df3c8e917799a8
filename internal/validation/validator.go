package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/controlly-api/internal/models"
	"github.com/go-playground/validator/v10"
)

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

// Validator checks request payloads for type shape: required fields and enum membership.
// Values are otherwise trusted, so negative seats or limits pass.
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	v := validator.New()

	// Report JSON field names rather than Go struct names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Validator{validate: v}
}

// ValidateNewUser validates a staff creation payload
func (v *Validator) ValidateNewUser(input *models.NewUser) []ValidationError {
	return v.check(input)
}

// ValidateUserPatch validates a staff patch
func (v *Validator) ValidateUserPatch(patch *models.UserPatch) []ValidationError {
	return v.check(patch)
}

// ValidateCustomerPatch validates a customer patch
func (v *Validator) ValidateCustomerPatch(patch *models.CustomerPatch) []ValidationError {
	return v.check(patch)
}

// ValidatePlan validates a tier name given as a query filter; empty is allowed
func (v *Validator) ValidatePlan(plan string) []ValidationError {
	if err := v.validate.Var(plan, "omitempty,oneof=Free Pro Business"); err != nil {
		return []ValidationError{{Field: "plan", Message: "invalid plan, must be one of: Free, Pro, Business", Value: plan}}
	}
	return nil
}

func (v *Validator) check(s interface{}) []ValidationError {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []ValidationError{{Message: err.Error()}}
	}

	errs := make([]ValidationError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		errs = append(errs, ValidationError{
			Field:   fe.Field(),
			Message: message(fe),
			Value:   fe.Value(),
		})
	}
	return errs
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "oneof":
		return fmt.Sprintf("invalid %s, must be one of: %s", fe.Field(), strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
	}
}
