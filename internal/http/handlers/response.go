// Package handlers provides HTTP handler implementations for the public API.
//
// This file defines the response envelope shared by every endpoint and the
// helpers that write it. Success and failure use the same top-level shape so
// clients can branch on `success` alone.
//
// Conventions:
//   - Every failure goes through `fail()`, which classifies the error with
//     apperr.From, logs INTERNAL causes with the request-scoped logger and
//     counts the error type.
//   - `ok()` writes a success envelope; list responses add `pagination`.
//
// Example error response:
//
//	HTTP/1.1 422 Unprocessable Entity
//	{
//	  "success": false,
//	  "error": {
//	    "type": "VALIDATION_ERROR",
//	    "message": "Error en la validación de datos",
//	    "details": {"email": ["El formato del email no es válido"]}
//	  }
//	}
//
// Example success response:
//
//	HTTP/1.1 200 OK
//	{ "success": true, "message": "Cliente obtenido exitosamente", "data": {...} }
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-clientes-api/internal/apperr"
	"github.com/tbourn/go-clientes-api/internal/http/middleware"
)

// Envelope is the body of every API response.
type Envelope struct {
	Success    bool        `json:"success" example:"true"`
	Message    string      `json:"message,omitempty" example:"Cliente obtenido exitosamente"`
	Data       any         `json:"data,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
	Error      *ErrorBody  `json:"error,omitempty"`
}

// ErrorBody describes a failure. Details is omitted when empty.
type ErrorBody struct {
	// One of INVALID_INPUT, VALIDATION_ERROR, CONFLICT, NOT_FOUND, INTERNAL,
	// RATE_LIMITED, METHOD_NOT_ALLOWED
	Type    string         `json:"type" example:"NOT_FOUND"`
	Message string         `json:"message" example:"No se encontró cliente con ID 42"`
	Details apperr.Details `json:"details,omitempty" swaggertype:"object"`
}

// ErrorResponse is the failure envelope as documented in OpenAPI.
type ErrorResponse struct {
	Success bool      `json:"success" example:"false"`
	Error   ErrorBody `json:"error"`
}

// Pagination carries list metadata. Pages is 0 when Total is 0.
type Pagination struct {
	Page    int   `json:"page" example:"1"`
	PerPage int   `json:"per_page" example:"10"`
	Total   int64 `json:"total" example:"42"`
	Pages   int   `json:"pages" example:"5"`
}

// errorEnvelope builds the failure body for e.
func errorEnvelope(e *apperr.Error) Envelope {
	body := &ErrorBody{Type: string(e.Kind), Message: e.Message}
	if len(e.Details) > 0 {
		body.Details = e.Details
	}
	return Envelope{Success: false, Error: body}
}

// fail aborts the request with the envelope for err. Errors that are not
// *apperr.Error become INTERNAL with the generic message. INTERNAL causes are
// logged and never serialized.
func fail(c *gin.Context, err error) {
	e := apperr.From(err)
	if e.Kind == apperr.KindInternal {
		ev := middleware.LoggerFrom(c).Error().
			Int("status", e.Status()).
			Str("type", string(e.Kind))
		if e.Cause != nil {
			ev = ev.Err(e.Cause)
		}
		ev.Msg(e.Message)
	}
	middleware.CountAPIError(string(e.Kind))
	c.AbortWithStatusJSON(e.Status(), errorEnvelope(e))
}

// Fail is the exported variant of fail(), used by the router for its
// fallback handlers.
func Fail(c *gin.Context, err error) { fail(c, err) }

// ok writes a success envelope.
func ok(c *gin.Context, status int, msg string, data any) {
	c.JSON(status, Envelope{Success: true, Message: msg, Data: data})
}

// okPage writes a success envelope with pagination metadata.
func okPage(c *gin.Context, msg string, data any, p Pagination) {
	c.JSON(http.StatusOK, Envelope{Success: true, Message: msg, Data: data, Pagination: &p})
}
