// Cliente HTTP handlers.
//
// This file exposes REST endpoints for the cliente resource:
//   - POST   /clientes        (create one, or a batch from a JSON array)
//   - GET    /clientes        (list, paginated, optional estado filter, ETag)
//   - GET    /clientes/{id}   (read)
//   - PUT    /clientes/{id}   (partial update; PATCH is an alias)
//   - DELETE /clientes/{id}   (hard delete)
//
// Handlers are transport-thin: they decode the body shape, parse path and
// query parameters, call ClienteService and render the envelope. Field
// validation happens in the service so the error priority stays in one place.
//
// Idempotency:
// When POST carries a valid Idempotency-Key and a response was already
// recorded for it, that response is replayed byte for byte with
// `Idempotent-Replayed: true`. Only 201 responses are recorded.
package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"github.com/tbourn/go-clientes-api/internal/apperr"
	"github.com/tbourn/go-clientes-api/internal/domain"
	"github.com/tbourn/go-clientes-api/internal/http/middleware"
	"github.com/tbourn/go-clientes-api/internal/services"
	"github.com/tbourn/go-clientes-api/internal/utils"
	"github.com/tbourn/go-clientes-api/internal/validation"
)

//
// Service contracts (context-aware)
//

// ClienteService defines the cliente operations consumed by HTTP handlers.
//
// Implementations must be safe for concurrent use and return *apperr.Error
// values for every failure they expect clients to see.
type ClienteService interface {
	Create(ctx context.Context, items []validation.Payload, batch bool) ([]*domain.Cliente, error)
	List(ctx context.Context, q services.ListQuery) (*services.ListResult, error)
	// ListStamp summarizes a listing for conditional GETs; ok=false disables ETags.
	ListStamp(ctx context.Context, estado string) (count int64, latest *time.Time, ok bool, err error)
	Get(ctx context.Context, id uint64) (*domain.Cliente, error)
	Update(ctx context.Context, id uint64, p validation.Payload) (*domain.Cliente, error)
	Delete(ctx context.Context, id uint64) error
}

// IdempotencyStore records and replays POST responses.
type IdempotencyStore interface {
	// Lookup returns the live record for (scope, key), or (nil, nil).
	Lookup(ctx context.Context, scope, key string) (*domain.Idempotency, error)
	Save(ctx context.Context, scope, key string, status int, body []byte) error
}

//
// Handler wiring
//

// Handlers groups the cliente endpoints.
type Handlers struct {
	svc  ClienteService
	idem IdempotencyStore
}

// New constructs Handlers. idem may be nil, which disables replay.
func New(svc ClienteService, idem IdempotencyStore) *Handlers {
	return &Handlers{svc: svc, idem: idem}
}

//
// DTOs (documentation only)
//

// ClienteInput documents the create/update body. Create requires nombre and
// email; update accepts any subset. Unknown keys are rejected.
type ClienteInput struct {
	Nombre   string  `json:"nombre" example:"María García"`
	Email    string  `json:"email" example:"maria@empresa.com"`
	Telefono *string `json:"telefono,omitempty" example:"+507 6123-4567"`
	Estado   string  `json:"estado,omitempty" enums:"activo,inactivo" example:"activo"`
}

// ClienteResponse is the envelope for a single cliente.
type ClienteResponse struct {
	Success bool               `json:"success" example:"true"`
	Message string             `json:"message" example:"Cliente obtenido exitosamente"`
	Data    domain.ClienteView `json:"data"`
}

// ClientesResponse is the envelope for a created batch.
type ClientesResponse struct {
	Success bool                 `json:"success" example:"true"`
	Message string               `json:"message" example:"Se crearon 2 clientes exitosamente"`
	Data    []domain.ClienteView `json:"data"`
}

// ListClientesResponse is the envelope for one page of clientes.
type ListClientesResponse struct {
	Success    bool                 `json:"success" example:"true"`
	Message    string               `json:"message" example:"Listado de clientes obtenido"`
	Pagination Pagination           `json:"pagination"`
	Data       []domain.ClienteView `json:"data"`
}

// MessageResponse is the envelope for operations without data.
type MessageResponse struct {
	Success bool   `json:"success" example:"true"`
	Message string `json:"message" example:"Cliente eliminado exitosamente"`
}

//
// Helpers
//

// readBody reads the request body. A body over the configured limit is
// INVALID_INPUT.
func readBody(c *gin.Context) ([]byte, error) {
	if c.Request.Body == nil {
		return nil, nil
	}
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, apperr.InvalidInput(MsgBodyTooLarge)
		}
		return nil, apperr.InvalidInput(MsgBadRequest)
	}
	return bytes.TrimSpace(raw), nil
}

// decodeObject decodes a JSON object into a payload.
func decodeObject(raw []byte) (validation.Payload, error) {
	var p validation.Payload
	if len(raw) == 0 || raw[0] != '{' {
		return nil, apperr.InvalidInput(MsgBadRequest)
	}
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, apperr.InvalidInput(MsgBadRequest)
	}
	return p, nil
}

// decodeCreate detects the body shape: an object is one cliente, an array a
// batch. Absent or null bodies carry no input.
func decodeCreate(raw []byte) (items []validation.Payload, batch bool, err error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, false, apperr.InvalidInput(services.MsgNoInput)
	}
	switch raw[0] {
	case '{':
		p, err := decodeObject(raw)
		if err != nil {
			return nil, false, err
		}
		return []validation.Payload{p}, false, nil
	case '[':
		var elems []json.RawMessage
		if err := json.Unmarshal(raw, &elems); err != nil {
			return nil, true, apperr.InvalidInput(MsgBadRequest)
		}
		items = make([]validation.Payload, 0, len(elems))
		for _, e := range elems {
			p, err := decodeObject(bytes.TrimSpace(e))
			if err != nil {
				return nil, true, err
			}
			items = append(items, p)
		}
		return items, true, nil
	default:
		return nil, false, apperr.InvalidInput(MsgBadRequest)
	}
}

// parseID parses the {id} path parameter as a positive integer.
func parseID(c *gin.Context) (uint64, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(c.Param("id")), 10, 64)
	if err != nil || id == 0 {
		return 0, apperr.InvalidInput(MsgInvalidID)
	}
	return id, nil
}

// listQuery reads page, per_page and estado. Unparseable numbers fall back
// to the defaults; range checks happen in ListQuery.Validate.
func listQuery(c *gin.Context) services.ListQuery {
	return services.ListQuery{
		Page:    utils.AtoiDefault(c.Query("page"), services.DefaultPage),
		PerPage: utils.AtoiDefault(c.Query("per_page"), services.DefaultPerPage),
		Estado:  c.Query("estado"),
	}
}

// listETag builds a weak validator from the filter, page window, row count
// and latest update.
func listETag(q services.ListQuery, count int64, latest *time.Time) string {
	var ts int64
	if latest != nil {
		ts = latest.UnixNano()
	}
	return fmt.Sprintf(`W/"clientes:%s:%d:%d:%d:%d"`,
		lo.Ternary(q.Estado == "", "all", q.Estado), q.Page, q.PerPage, count, ts)
}

func serializeAll(cs []*domain.Cliente) []domain.ClienteView {
	return lo.Map(cs, func(c *domain.Cliente, _ int) domain.ClienteView { return c.Serialize(true) })
}

// replay writes a recorded response when the idempotency key has one.
// It reports whether the request was answered.
func (h *Handlers) replay(c *gin.Context, scope, key string) bool {
	if h.idem == nil || key == "" {
		return false
	}
	rec, err := h.idem.Lookup(c.Request.Context(), scope, key)
	if err != nil {
		middleware.LoggerFrom(c).Warn().Err(err).Msg("idempotency lookup failed")
		return false
	}
	if rec == nil {
		return false
	}
	c.Header(middleware.HeaderIdempotentReplayed, "true")
	c.Data(rec.Status, "application/json; charset=utf-8", rec.Body)
	return true
}

// record stores a response body for later replay. Failures are logged; the
// client already has its answer.
func (h *Handlers) record(c *gin.Context, scope, key string, status int, body []byte) {
	if h.idem == nil || key == "" {
		return
	}
	if err := h.idem.Save(c.Request.Context(), scope, key, status, body); err != nil {
		middleware.LoggerFrom(c).Warn().Err(err).Str("scope", scope).Msg("idempotency record failed")
	}
}

//
// Handlers
//

// CreateClientes godoc
// @ID          createClientes
// @Summary     Create one cliente or a batch
// @Description A JSON object creates one cliente; a JSON array creates all items atomically or none.
// @Description Supports idempotent retries via the Idempotency-Key header.
// @Tags        Clientes
// @Accept      json
// @Produce     json
//
// @Param       Idempotency-Key  header  string  false "Idempotency key for safe retries"  example(7a8d9f4c-1b2a-4c3d-8e9f-0123456789ab)
// @Param       body             body    handlers.ClienteInput  true  "Cliente, or an array of clientes"
//
// @Success     201  {object}  handlers.ClienteResponse   "Created (single)"
// @Success     201  {object}  handlers.ClientesResponse  "Created (batch)"
// @Failure     400  {object}  handlers.ErrorResponse     "Invalid input"
// @Failure     409  {object}  handlers.ErrorResponse     "Email already exists"
// @Failure     422  {object}  handlers.ErrorResponse     "Validation error"
// @Failure     500  {object}  handlers.ErrorResponse     "Internal error"
// @Router      /clientes [post]
func (h *Handlers) CreateClientes(c *gin.Context) {
	ctx := c.Request.Context()
	scope := middleware.IdempotencyScope(c)
	key, _ := middleware.GetIdempotencyKey(c)

	if h.replay(c, scope, key) {
		return
	}

	raw, err := readBody(c)
	if err != nil {
		fail(c, err)
		return
	}
	items, batch, err := decodeCreate(raw)
	if err != nil {
		fail(c, err)
		return
	}

	created, err := h.svc.Create(ctx, items, batch)
	if err != nil {
		fail(c, err)
		return
	}

	env := Envelope{Success: true}
	if batch {
		env.Message = fmt.Sprintf(services.MsgCreatedManyFmt, len(created))
		env.Data = serializeAll(created)
	} else {
		env.Message = services.MsgCreated
		env.Data = created[0].Serialize(true)
	}
	body, err := json.Marshal(env)
	if err != nil {
		fail(c, apperr.Internal(apperr.MsgInternal, err))
		return
	}
	h.record(c, scope, key, http.StatusCreated, body)
	c.Data(http.StatusCreated, "application/json; charset=utf-8", body)
}

// ListClientes godoc
// @ID          listClientes
// @Summary     List clientes (paginated)
// @Description Returns clientes ordered by id. Supports weak ETag via If-None-Match and may return 304.
// @Tags        Clientes
// @Produce     json
//
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"
// @Param       page           query   int     false "Page number"     minimum(1) default(1)
// @Param       per_page       query   int     false "Items per page"  minimum(1) maximum(100) default(10)
// @Param       estado         query   string  false "Estado filter"   Enums(activo, inactivo)
//
// @Success     200  {object} handlers.ListClientesResponse
// @Header      200  {string} ETag  "Weak ETag for current result"
// @Success     304  {string} string "Not Modified"
// @Failure     400  {object} handlers.ErrorResponse "Invalid query parameters"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /clientes [get]
func (h *Handlers) ListClientes(c *gin.Context) {
	ctx := c.Request.Context()
	q := listQuery(c)
	if aerr := q.Validate(); aerr != nil {
		fail(c, aerr)
		return
	}

	// ETag pre-check (best effort).
	if count, latest, stamped, err := h.svc.ListStamp(ctx, q.Estado); stamped {
		etag := listETag(q, count, latest)
		c.Header("ETag", etag)
		if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
			c.Status(http.StatusNotModified)
			return
		}
	} else if err != nil {
		middleware.LoggerFrom(c).Debug().Err(err).Msg("list stamp unavailable")
	}

	res, err := h.svc.List(ctx, q)
	if err != nil {
		fail(c, err)
		return
	}
	data := lo.Map(res.Items, func(cl domain.Cliente, _ int) domain.ClienteView { return cl.Serialize(true) })
	okPage(c, services.MsgListed, data, Pagination{
		Page:    res.Page,
		PerPage: res.PerPage,
		Total:   res.Total,
		Pages:   res.Pages,
	})
}

// GetCliente godoc
// @ID          getCliente
// @Summary     Get a cliente
// @Tags        Clientes
// @Produce     json
// @Param       id   path  int  true  "Cliente ID"  minimum(1)
// @Success     200  {object} handlers.ClienteResponse
// @Failure     400  {object} handlers.ErrorResponse "Invalid id"
// @Failure     404  {object} handlers.ErrorResponse "Cliente not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /clientes/{id} [get]
func (h *Handlers) GetCliente(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		fail(c, err)
		return
	}
	cl, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, services.MsgFetched, cl.Serialize(true))
}

// UpdateCliente godoc
// @ID          updateCliente
// @Summary     Update a cliente
// @Description Only the supplied fields change; telefono null clears it. PATCH behaves the same as PUT.
// @Tags        Clientes
// @Accept      json
// @Produce     json
// @Param       id    path  int                    true  "Cliente ID"  minimum(1)
// @Param       body  body  handlers.ClienteInput  true  "Fields to change"
// @Success     200  {object} handlers.ClienteResponse
// @Failure     400  {object} handlers.ErrorResponse "Invalid input"
// @Failure     404  {object} handlers.ErrorResponse "Cliente not found"
// @Failure     409  {object} handlers.ErrorResponse "Email already exists"
// @Failure     422  {object} handlers.ErrorResponse "Validation error"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /clientes/{id} [put]
// @Router      /clientes/{id} [patch]
func (h *Handlers) UpdateCliente(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		fail(c, err)
		return
	}
	raw, err := readBody(c)
	if err != nil {
		fail(c, err)
		return
	}
	// Absent or null bodies reach the service as an empty payload so a
	// missing id still answers NOT_FOUND.
	var p validation.Payload
	if len(raw) != 0 && string(raw) != "null" {
		if p, err = decodeObject(raw); err != nil {
			fail(c, err)
			return
		}
	}

	cl, err := h.svc.Update(c.Request.Context(), id, p)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, services.MsgUpdated, cl.Serialize(true))
}

// DeleteCliente godoc
// @ID          deleteCliente
// @Summary     Delete a cliente
// @Tags        Clientes
// @Produce     json
// @Param       id   path  int  true  "Cliente ID"  minimum(1)
// @Success     200  {object} handlers.MessageResponse
// @Failure     400  {object} handlers.ErrorResponse "Invalid id"
// @Failure     404  {object} handlers.ErrorResponse "Cliente not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /clientes/{id} [delete]
func (h *Handlers) DeleteCliente(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		fail(c, err)
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, services.MsgDeleted, nil)
}
