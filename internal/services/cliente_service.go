// Package services – ClienteService
//
// This file implements the ClienteService, the resource controller for
// clientes. It runs field and cross-field validation, delegates persistence
// to a transactional Store, and classifies every outcome as an *apperr.Error
// so handlers can render the uniform envelope with a single mapping step.
//
// Observability: all public methods are OpenTelemetry-instrumented; spans
// are named after the operation under the "services/ClienteService" tracer.
package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/samber/lo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tbourn/go-clientes-api/internal/apperr"
	"github.com/tbourn/go-clientes-api/internal/domain"
	"github.com/tbourn/go-clientes-api/internal/repo"
	"github.com/tbourn/go-clientes-api/internal/utils"
	"github.com/tbourn/go-clientes-api/internal/validation"
)

// Pagination bounds for List.
const (
	DefaultPage    = 1
	DefaultPerPage = 10
	MaxPerPage     = 100
)

// Store defines the persistence contract required by ClienteService. Each
// call is one transaction. Implementations return repo.ErrNotFound for
// missing rows and repo.ErrDuplicate for email unique violations.
type Store interface {
	// Get fetches a cliente by id.
	Get(ctx context.Context, id uint64) (*domain.Cliente, error)
	// FindByEmail returns the owner of email, or (nil, nil).
	FindByEmail(ctx context.Context, email string) (*domain.Cliente, error)
	// ListPage returns one page ordered by id and the filtered total.
	ListPage(ctx context.Context, estado string, page, perPage int) ([]domain.Cliente, int64, error)
	// InsertAll inserts all records or none.
	InsertAll(ctx context.Context, records []*domain.Cliente) error
	// Update persists the mutable fields of a record.
	Update(ctx context.Context, c *domain.Cliente) error
	// Delete hard-deletes a record.
	Delete(ctx context.Context, id uint64) error
}

// statsStore is implemented by stores that can summarize a listing cheaply.
type statsStore interface {
	Stats(ctx context.Context, estado string) (int64, *time.Time, error)
}

// ListQuery carries already-parsed list parameters.
type ListQuery struct {
	Page    int
	PerPage int
	Estado  string
}

// Validate checks the pagination bounds and the estado filter.
func (q ListQuery) Validate() *apperr.Error {
	switch {
	case q.Page < 1:
		return apperr.InvalidInput(MsgInvalidPage)
	case q.PerPage < 1 || q.PerPage > MaxPerPage:
		return apperr.InvalidInput(MsgInvalidLimit)
	case q.Estado != "" && !domain.ValidEstado(q.Estado):
		return apperr.InvalidInput(MsgInvalidState)
	}
	return nil
}

// ListResult is one page of clientes plus pagination metadata.
type ListResult struct {
	Items   []domain.Cliente
	Page    int
	PerPage int
	Total   int64
	Pages   int
}

// ClienteService provides create, list, get, update and delete for clientes.
type ClienteService struct {
	// Store is the transactional persistence backend.
	Store Store
	// Validator applies field rules.
	Validator *validation.Validator
	// Now returns the commit clock; defaults to time.Now.
	Now func() time.Time
}

// NewClienteService constructs a ClienteService.
func NewClienteService(store Store, v *validation.Validator) *ClienteService {
	return &ClienteService{Store: store, Validator: v, Now: time.Now}
}

func (s *ClienteService) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}

func tracer() trace.Tracer { return otel.Tracer("services/ClienteService") }

func notFound(id uint64) *apperr.Error {
	return apperr.NotFound(fmt.Sprintf(MsgNotFoundFmt, id))
}

// itemOutcome is the validation result of one create candidate. invalid
// holds field or blank-name violations; dup holds uniqueness-only ones.
type itemOutcome struct {
	fields  validation.Fields
	invalid validation.Errors
	dup     validation.Errors
}

func addOnce(errs validation.Errors, field, msg string) {
	if !lo.Contains(errs[field], msg) {
		errs.Add(field, msg)
	}
}

// Create validates items and inserts them atomically. batch reports whether
// the request carried an array; it selects the empty-input message and keys
// error details by zero-based item index.
//
// A later batch item repeating an earlier item's email is reported as a
// duplicate. If any item fails, nothing is written.
func (s *ClienteService) Create(ctx context.Context, items []validation.Payload, batch bool) ([]*domain.Cliente, error) {
	ctx, span := tracer().Start(ctx, "Create",
		trace.WithAttributes(
			attribute.Int("items", len(items)),
			attribute.Bool("batch", batch),
		),
	)
	defer span.End()

	if len(items) == 0 {
		return nil, apperr.InvalidInput(lo.Ternary(batch, MsgEmptyList, MsgNoInput))
	}
	if !batch && len(items[0]) == 0 {
		return nil, apperr.InvalidInput(MsgNoInput)
	}

	outcomes := make([]itemOutcome, len(items))
	firstByEmail := map[string]int{}
	for i, p := range items {
		o := &outcomes[i]
		fields, errs := s.Validator.Fields(p, validation.ModeCreate)
		if errs != nil {
			o.invalid = errs
			continue
		}
		o.fields = fields

		err := validation.CheckRules(ctx, s.Store, fields, nil)
		var (
			ruleErrs validation.Errors
			dupErr   *validation.DuplicateError
		)
		switch {
		case err == nil:
		case errors.As(err, &ruleErrs):
			o.invalid = ruleErrs
		case errors.As(err, &dupErr):
			o.dup = dupErr.Fields
		default:
			return nil, apperr.Internal(apperr.MsgInternal, err)
		}

		email := *fields.Email
		if _, seen := firstByEmail[email]; !seen {
			firstByEmail[email] = i
			continue
		}
		switch {
		case o.invalid != nil:
			addOnce(o.invalid, "email", validation.MsgEmailTaken)
		case o.dup != nil:
			addOnce(o.dup, "email", validation.MsgEmailTaken)
		default:
			o.dup = validation.Errors{"email": {validation.MsgEmailTaken}}
		}
	}

	if aerr := classifyCreate(outcomes, batch); aerr != nil {
		return nil, aerr
	}

	now := s.now()
	records := lo.Map(outcomes, func(o itemOutcome, _ int) *domain.Cliente {
		return &domain.Cliente{
			Nombre:             lo.FromPtr(o.fields.Nombre),
			Email:              lo.FromPtr(o.fields.Email),
			Telefono:           o.fields.Telefono,
			Estado:             lo.FromPtrOr(o.fields.Estado, domain.EstadoActivo),
			FechaCreacion:      now,
			FechaActualizacion: now,
		}
	})

	if err := s.Store.InsertAll(ctx, records); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, apperr.Conflict(MsgEmailExists, nil)
		}
		return nil, apperr.Internal(apperr.MsgInternal, err)
	}
	span.SetAttributes(attribute.Int("created", len(records)))
	return records, nil
}

// classifyCreate folds per-item outcomes into one error, or nil when every
// item passed. Field/blank violations outrank uniqueness.
func classifyCreate(outcomes []itemOutcome, batch bool) *apperr.Error {
	var (
		anyInvalid bool
		anyDup     bool
		details    = apperr.Details{}
	)
	for i, o := range outcomes {
		var errs validation.Errors
		switch {
		case o.invalid != nil:
			anyInvalid = true
			errs = o.invalid
		case o.dup != nil:
			anyDup = true
			errs = o.dup
		default:
			continue
		}
		if batch {
			details[strconv.Itoa(i)] = errs
		} else {
			details = errs.Details()
		}
	}
	switch {
	case anyInvalid:
		return apperr.Validation(MsgValidation, details)
	case anyDup:
		return apperr.Conflict(MsgEmailExists, details)
	default:
		return nil
	}
}

// List returns one page of clientes ordered by id ascending. A page beyond
// the data yields an empty slice, not an error.
func (s *ClienteService) List(ctx context.Context, q ListQuery) (*ListResult, error) {
	ctx, span := tracer().Start(ctx, "List",
		trace.WithAttributes(
			attribute.Int("page", q.Page),
			attribute.Int("per_page", q.PerPage),
			attribute.String("estado", q.Estado),
		),
	)
	defer span.End()

	if aerr := q.Validate(); aerr != nil {
		return nil, aerr
	}

	items, total, err := s.Store.ListPage(ctx, q.Estado, q.Page, q.PerPage)
	if err != nil {
		return nil, apperr.Internal(apperr.MsgInternal, err)
	}
	if items == nil {
		items = []domain.Cliente{}
	}
	return &ListResult{
		Items:   items,
		Page:    q.Page,
		PerPage: q.PerPage,
		Total:   total,
		Pages:   utils.PageCount(total, q.PerPage),
	}, nil
}

// ListStamp summarizes the listing for estado (count and latest update) so
// callers can build a validator such as an ETag. ok is false when the store
// cannot provide it.
func (s *ClienteService) ListStamp(ctx context.Context, estado string) (count int64, latest *time.Time, ok bool, err error) {
	st, isStats := s.Store.(statsStore)
	if !isStats {
		return 0, nil, false, nil
	}
	count, latest, err = st.Stats(ctx, estado)
	return count, latest, err == nil, err
}

// Get returns the cliente with id.
func (s *ClienteService) Get(ctx context.Context, id uint64) (*domain.Cliente, error) {
	ctx, span := tracer().Start(ctx, "Get",
		trace.WithAttributes(attribute.Int64("cliente.id", int64(id))),
	)
	defer span.End()

	c, err := s.Store.Get(ctx, id)
	switch {
	case errors.Is(err, repo.ErrNotFound):
		return nil, notFound(id)
	case err != nil:
		return nil, apperr.Internal(apperr.MsgInternal, err)
	}
	return c, nil
}

// Update applies a partial update to the cliente with id. Only supplied
// fields change; fecha_actualizacion never moves backwards.
//
// The target is looked up first, so a missing id is NOT_FOUND whatever the
// payload. Then come the empty-payload check, field rules and cross-field
// rules (with id as self).
func (s *ClienteService) Update(ctx context.Context, id uint64, p validation.Payload) (*domain.Cliente, error) {
	ctx, span := tracer().Start(ctx, "Update",
		trace.WithAttributes(
			attribute.Int64("cliente.id", int64(id)),
			attribute.Int("fields", len(p)),
		),
	)
	defer span.End()

	current, err := s.Store.Get(ctx, id)
	switch {
	case errors.Is(err, repo.ErrNotFound):
		return nil, notFound(id)
	case err != nil:
		return nil, apperr.Internal(apperr.MsgInternal, err)
	}

	if len(p) == 0 {
		return nil, apperr.InvalidInput(MsgNoInput)
	}

	fields, errs := s.Validator.Fields(p, validation.ModeUpdate)
	if errs != nil {
		return nil, apperr.Validation(MsgValidation, errs.Details())
	}

	if err := validation.CheckRules(ctx, s.Store, fields, &id); err != nil {
		var (
			ruleErrs validation.Errors
			dupErr   *validation.DuplicateError
		)
		switch {
		case errors.As(err, &ruleErrs):
			return nil, apperr.Validation(MsgValidation, ruleErrs.Details())
		case errors.As(err, &dupErr):
			return nil, apperr.Conflict(MsgEmailExists, dupErr.Fields.Details())
		default:
			return nil, apperr.Internal(apperr.MsgInternal, err)
		}
	}

	current.ApplyPartialUpdate(fields.Patch())
	now := s.now()
	if now.Before(current.FechaActualizacion) {
		now = current.FechaActualizacion
	}
	current.FechaActualizacion = now

	if err := s.Store.Update(ctx, current); err != nil {
		switch {
		case errors.Is(err, repo.ErrDuplicate):
			return nil, apperr.Conflict(MsgEmailExists, nil)
		case errors.Is(err, repo.ErrNotFound):
			return nil, notFound(id)
		default:
			return nil, apperr.Internal(apperr.MsgInternal, err)
		}
	}
	return current, nil
}

// Delete hard-deletes the cliente with id. A concurrent delete that wins the
// race surfaces as NOT_FOUND.
func (s *ClienteService) Delete(ctx context.Context, id uint64) error {
	ctx, span := tracer().Start(ctx, "Delete",
		trace.WithAttributes(attribute.Int64("cliente.id", int64(id))),
	)
	defer span.End()

	if _, err := s.Store.Get(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return notFound(id)
		}
		return apperr.Internal(apperr.MsgInternal, err)
	}

	if err := s.Store.Delete(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return notFound(id)
		}
		return apperr.Internal(MsgDeleteFailed, err)
	}
	return nil
}
