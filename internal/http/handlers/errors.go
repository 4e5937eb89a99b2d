// Package handlers defines the transport-level messages used when a request
// fails before it reaches the service layer.
//
// Domain outcomes (validation, conflicts, missing records) carry their own
// messages from the services package; the ones below cover malformed
// requests and router fallbacks. All of them render through `fail()` with the
// INVALID_INPUT or NOT_FOUND type.

package handlers

const (
	// MsgBadRequest covers bodies that are not JSON or have the wrong shape.
	MsgBadRequest = "La solicitud contiene datos inválidos o mal formados."
	// MsgRouteNotFound is returned for unknown routes.
	MsgRouteNotFound = "El recurso solicitado no existe."
	// MsgMethodNotAllowed is returned when the route exists under another method.
	MsgMethodNotAllowed = "Método no permitido para este recurso."
	// MsgInvalidID is returned when the path id is not a positive integer.
	MsgInvalidID = "El ID del cliente debe ser un entero positivo"
	// MsgBodyTooLarge is returned when the body exceeds the configured limit.
	MsgBodyTooLarge = "El cuerpo de la solicitud excede el tamaño permitido"
)
