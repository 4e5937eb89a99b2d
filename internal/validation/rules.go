package validation

import (
	"context"
	"fmt"
	"strings"

	"github.com/tbourn/go-clientes-api/internal/domain"
)

// MsgEmailTaken is reported when another cliente already owns the email.
const MsgEmailTaken = "Este email ya está registrado en el sistema"

// EmailLookup finds the cliente owning an email. It returns (nil, nil) when
// no cliente has it.
type EmailLookup interface {
	FindByEmail(ctx context.Context, email string) (*domain.Cliente, error)
}

// DuplicateError is returned by CheckRules when email uniqueness is the only
// rule that failed.
type DuplicateError struct {
	Fields Errors
}

func (e *DuplicateError) Error() string { return "duplicate: " + e.Fields.Error() }

// CheckRules runs the cross-field and uniqueness rules on already
// field-valid input. selfID is the id of the record being updated, nil on
// create.
//
// The result is nil, Errors (blank name, possibly alongside a duplicate),
// *DuplicateError (duplicate only), or a wrapped lookup failure.
func CheckRules(ctx context.Context, lookup EmailLookup, f Fields, selfID *uint64) error {
	errs := Errors{}
	blank := false

	if f.Nombre != nil && strings.TrimSpace(*f.Nombre) == "" {
		errs.Add("nombre", MsgNombreBlank)
		blank = true
	}

	if f.Email != nil && *f.Email != "" {
		owner, err := lookup.FindByEmail(ctx, *f.Email)
		if err != nil {
			return fmt.Errorf("email lookup: %w", err)
		}
		if owner != nil && (selfID == nil || owner.ID != *selfID) {
			errs.Add("email", MsgEmailTaken)
		}
	}

	switch {
	case len(errs) == 0:
		return nil
	case blank:
		return errs
	default:
		return &DuplicateError{Fields: errs}
	}
}
