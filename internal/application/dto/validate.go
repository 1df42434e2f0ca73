package dto

import (
	"github.com/jhoicas/boutique-ledger/internal/domain"
	"github.com/jhoicas/boutique-ledger/pkg/validator"
)

// Validate aplica los tags `validate` de in y devuelve *domain.ValidationError si algún campo falla.
func Validate(in any) error {
	errs := validator.ValidateStruct(in)
	if len(errs) == 0 {
		return nil
	}
	ve := &domain.ValidationError{}
	for _, e := range errs {
		ve.Fields = append(ve.Fields, domain.FieldError{Field: e.FailedField, Rule: e.Tag, Param: e.Value})
	}
	return ve
}
