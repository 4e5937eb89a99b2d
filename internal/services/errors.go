// Package services defines the business logic for clientes.
// This file centralizes the client-facing messages the service layer attaches
// to *apperr.Error values so that handlers and tests share one catalogue.
package services

// Request-shape messages (INVALID_INPUT).
const (
	MsgNoInput      = "No se proporcionaron datos de entrada"
	MsgEmptyList    = "La lista de clientes no puede estar vacía"
	MsgInvalidPage  = "El número de página debe ser mayor a 0"
	MsgInvalidLimit = "El número de resultados debe estar entre 1 y 100"
	MsgInvalidState = "El estado debe ser 'activo' o 'inactivo'"
)

// Outcome messages.
const (
	MsgValidation     = "Error en la validación de datos"
	MsgEmailExists    = "El email ya existe en el sistema"
	MsgNotFoundFmt    = "No se encontró cliente con ID %d"
	MsgDeleteFailed   = "Error al eliminar el cliente"
	MsgCreated        = "Cliente creado exitosamente"
	MsgCreatedManyFmt = "Se crearon %d clientes exitosamente"
	MsgListed         = "Listado de clientes obtenido"
	MsgFetched        = "Cliente obtenido exitosamente"
	MsgUpdated        = "Cliente actualizado exitosamente"
	MsgDeleted        = "Cliente eliminado exitosamente"
)
