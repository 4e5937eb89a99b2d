package domain

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func strp(s string) *string { return &s }

func TestValidEstado(t *testing.T) {
	for _, s := range []string{EstadoActivo, EstadoInactivo} {
		if !ValidEstado(s) {
			t.Fatalf("ValidEstado(%q) = false", s)
		}
	}
	for _, s := range []string{"", "ACTIVO", "suspendido", " activo"} {
		if ValidEstado(s) {
			t.Fatalf("ValidEstado(%q) = true", s)
		}
	}
}

func TestCliente_Serialize(t *testing.T) {
	loc := time.FixedZone("PA", -5*3600)
	c := Cliente{
		ID:                 7,
		Nombre:             "Ana",
		Email:              "ana@example.com",
		Estado:             EstadoActivo,
		FechaCreacion:      time.Date(2024, 5, 1, 7, 0, 0, 0, loc),
		FechaActualizacion: time.Date(2024, 5, 1, 8, 30, 0, 0, loc),
	}

	b, err := json.Marshal(c.Serialize(false))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"id":7,"nombre":"Ana","email":"ana@example.com","telefono":null,"estado":"activo"}`
	if string(b) != want {
		t.Fatalf("no timestamps:\n got %s\nwant %s", b, want)
	}

	c.Telefono = strp("+507 6000-0000")
	v := c.Serialize(true)
	if v.FechaCreacion == nil || *v.FechaCreacion != "2024-05-01T12:00:00Z" {
		t.Fatalf("fecha_creacion = %v", v.FechaCreacion)
	}
	if v.FechaActualizacion == nil || *v.FechaActualizacion != "2024-05-01T13:30:00Z" {
		t.Fatalf("fecha_actualizacion = %v", v.FechaActualizacion)
	}
	if v.Telefono == nil || *v.Telefono != "+507 6000-0000" {
		t.Fatalf("telefono = %v", v.Telefono)
	}

	// the view must not alias the model
	*v.Telefono = "changed"
	if *c.Telefono != "+507 6000-0000" {
		t.Fatalf("Serialize aliased telefono")
	}
}

func TestClientePatch_EmptyAndApply(t *testing.T) {
	if !(ClientePatch{}).Empty() {
		t.Fatalf("zero patch should be empty")
	}
	if (ClientePatch{Estado: strp(EstadoInactivo)}).Empty() {
		t.Fatalf("patch with estado should not be empty")
	}

	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := Cliente{ID: 1, Nombre: "Ana", Email: "ana@example.com", Estado: EstadoActivo, FechaCreacion: created, FechaActualizacion: created}

	tel := "123"
	c.ApplyPartialUpdate(ClientePatch{Telefono: &tel, Estado: strp(EstadoInactivo)})
	tel = "mutated"

	if c.Nombre != "Ana" || c.Email != "ana@example.com" {
		t.Fatalf("untouched fields changed: %+v", c)
	}
	if c.Telefono == nil || *c.Telefono != "123" || c.Estado != EstadoInactivo {
		t.Fatalf("patched fields wrong: %+v", c)
	}
	if c.ID != 1 || !c.FechaCreacion.Equal(created) || !c.FechaActualizacion.Equal(created) {
		t.Fatalf("ID or timestamps modified: %+v", c)
	}

	c.ApplyPartialUpdate(ClientePatch{Nombre: strp("Ana María"), Email: strp("am@example.com")})
	if c.Nombre != "Ana María" || c.Email != "am@example.com" || *c.Telefono != "123" {
		t.Fatalf("second patch wrong: %+v", c)
	}

	if (ClientePatch{ClearTelefono: true}).Empty() {
		t.Fatalf("clearing telefono is a change")
	}
	c.ApplyPartialUpdate(ClientePatch{ClearTelefono: true})
	if c.Telefono != nil || c.Nombre != "Ana María" {
		t.Fatalf("clear telefono wrong: %+v", c)
	}
}

func TestCliente_Migration_EmailUnique(t *testing.T) {
	db := newTestDB(t)
	if err := db.AutoMigrate(&Cliente{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	if !db.Migrator().HasIndex(&Cliente{}, "ux_clientes_email") {
		t.Fatalf("unique email index missing")
	}

	now := time.Now().UTC()
	a := Cliente{Nombre: "A", Email: "same@example.com", Estado: EstadoActivo, FechaCreacion: now, FechaActualizacion: now}
	if err := db.Create(&a).Error; err != nil {
		t.Fatalf("insert: %v", err)
	}
	if a.ID == 0 {
		t.Fatalf("ID not assigned")
	}
	b := Cliente{Nombre: "B", Email: "same@example.com", Estado: EstadoActivo, FechaCreacion: now, FechaActualizacion: now}
	err := db.Create(&b).Error
	if err == nil || !strings.Contains(strings.ToLower(err.Error()), "unique") {
		t.Fatalf("expected unique violation, got %v", err)
	}
}
