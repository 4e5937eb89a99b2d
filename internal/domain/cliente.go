// Package domain defines the persistence model for clientes. The types are
// mapped with GORM and form the core data layer of the API; wire-format
// validation lives in the validation package and never touches these tags.
package domain

import (
	"time"
)

// Estado values accepted for Cliente.Estado.
const (
	EstadoActivo   = "activo"
	EstadoInactivo = "inactivo"
)

// ValidEstado reports whether s is one of the accepted estado values.
func ValidEstado(s string) bool {
	return s == EstadoActivo || s == EstadoInactivo
}

// Cliente is the only resource exposed by the API.
//
// Fields:
//   - ID: autoincrement primary key, assigned by the store and never reused.
//   - Nombre: display name (1–100 runes, never blank).
//   - Email: contact address; globally unique (unique index is authoritative).
//   - Telefono: optional phone number (≤ 20 runes).
//   - Estado: "activo" or "inactivo".
//   - FechaCreacion: creation time (UTC), immutable.
//   - FechaActualizacion: last successful mutation (UTC), ≥ FechaCreacion.
type Cliente struct {
	ID                 uint64    `gorm:"column:id;primaryKey;autoIncrement"`
	Nombre             string    `gorm:"column:nombre;type:varchar(100);not null;index:idx_clientes_nombre"`
	Email              string    `gorm:"column:email;type:varchar(120);not null;uniqueIndex:ux_clientes_email"`
	Telefono           *string   `gorm:"column:telefono;type:varchar(20)"`
	Estado             string    `gorm:"column:estado;type:varchar(20);not null;default:'activo';index:idx_clientes_estado"`
	FechaCreacion      time.Time `gorm:"column:fecha_creacion;not null"`
	FechaActualizacion time.Time `gorm:"column:fecha_actualizacion;not null"`
}

// TableName returns the database table name for Cliente.
func (Cliente) TableName() string { return "clientes" }

// ClienteView is the serialized (wire) form of a Cliente. Telefono is always
// present (null when unset); timestamps are omitted when not requested.
type ClienteView struct {
	ID                 uint64  `json:"id"`
	Nombre             string  `json:"nombre"`
	Email              string  `json:"email"`
	Telefono           *string `json:"telefono"`
	Estado             string  `json:"estado"`
	FechaCreacion      *string `json:"fecha_creacion,omitempty"`
	FechaActualizacion *string `json:"fecha_actualizacion,omitempty"`
}

// TimestampLayout is the ISO-8601 layout used for serialized timestamps.
const TimestampLayout = time.RFC3339Nano

// Serialize converts c to its wire form. When includeTimestamps is false the
// fecha_* keys are left out entirely.
func (c *Cliente) Serialize(includeTimestamps bool) ClienteView {
	v := ClienteView{
		ID:     c.ID,
		Nombre: c.Nombre,
		Email:  c.Email,
		Estado: c.Estado,
	}
	if c.Telefono != nil {
		tel := *c.Telefono
		v.Telefono = &tel
	}
	if includeTimestamps {
		fc := c.FechaCreacion.UTC().Format(TimestampLayout)
		fa := c.FechaActualizacion.UTC().Format(TimestampLayout)
		v.FechaCreacion = &fc
		v.FechaActualizacion = &fa
	}
	return v
}

// ClientePatch carries the mutable fields of a partial update. A nil field
// means "not supplied" and leaves the stored value untouched. ClearTelefono
// removes the stored telefono.
type ClientePatch struct {
	Nombre   *string
	Email    *string
	Telefono *string
	Estado   *string

	ClearTelefono bool
}

// Empty reports whether the patch changes nothing.
func (p ClientePatch) Empty() bool {
	return p.Nombre == nil && p.Email == nil && p.Telefono == nil && p.Estado == nil && !p.ClearTelefono
}

// ApplyPartialUpdate overwrites only the supplied (non-nil) fields. ID and
// FechaCreacion are never modified; FechaActualizacion is the caller's job
// because it depends on the commit clock.
func (c *Cliente) ApplyPartialUpdate(p ClientePatch) {
	if p.Nombre != nil {
		c.Nombre = *p.Nombre
	}
	if p.Email != nil {
		c.Email = *p.Email
	}
	switch {
	case p.Telefono != nil:
		tel := *p.Telefono
		c.Telefono = &tel
	case p.ClearTelefono:
		c.Telefono = nil
	}
	if p.Estado != nil {
		c.Estado = *p.Estado
	}
}
