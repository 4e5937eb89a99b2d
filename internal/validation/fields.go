// Package validation turns raw request payloads into normalized cliente
// fields. Field rules run on go-playground/validator with Spanish messages;
// cross-field and uniqueness rules live in rules.go.
package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/locales/es"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	esTranslations "github.com/go-playground/validator/v10/translations/es"
	"golang.org/x/text/unicode/norm"

	"github.com/tbourn/go-clientes-api/internal/domain"
)

// Messages shared with the service layer.
const (
	MsgUnknownField = "Campo desconocido"
	MsgNotString    = "Debe ser una cadena de texto"
)

// ErrTranslatorNotFound indicates the Spanish translator is unavailable.
var ErrTranslatorNotFound = errors.New("translator not found")

// Mode selects full (create) or partial (update) validation.
type Mode int

const (
	ModeCreate Mode = iota
	ModeUpdate
)

// Payload is a single decoded JSON object, values kept raw until validated.
type Payload map[string]json.RawMessage

// Fields holds normalized candidate values. A nil pointer means the field
// was not supplied. ClearTelefono is set when an update sends telefono as
// JSON null.
type Fields struct {
	Nombre   *string
	Email    *string
	Telefono *string
	Estado   *string

	ClearTelefono bool
}

// Patch converts f into a domain partial update.
func (f Fields) Patch() domain.ClientePatch {
	return domain.ClientePatch{
		Nombre:   f.Nombre,
		Email:    f.Email,
		Telefono: f.Telefono,
		Estado:   f.Estado,

		ClearTelefono: f.ClearTelefono,
	}
}

// Errors maps a field name to its violation messages.
type Errors map[string][]string

// Add appends msg under field.
func (e Errors) Add(field, msg string) { e[field] = append(e[field], msg) }

// Merge appends every message of other into e.
func (e Errors) Merge(other Errors) {
	for f, msgs := range other {
		for _, m := range msgs {
			e.Add(f, m)
		}
	}
}

// Error implements the error interface.
func (e Errors) Error() string {
	if len(e) == 0 {
		return "validation error"
	}
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(e[k], "; "))
	}
	return "validation error: " + strings.Join(parts, ", ")
}

// Details returns e as a generic map suitable for an error envelope.
func (e Errors) Details() map[string]any {
	out := make(map[string]any, len(e))
	for k, v := range e {
		out[k] = v
	}
	return out
}

var allowedFields = map[string]bool{
	"nombre":   true,
	"email":    true,
	"telefono": true,
	"estado":   true,
}

var labels = map[string]string{
	"nombre":   "El nombre",
	"email":    "El email",
	"telefono": "El teléfono",
	"estado":   "El estado",
}

type createInput struct {
	Nombre   *string `json:"nombre" validate:"required,nombrelen,notblank"`
	Email    *string `json:"email" validate:"required,max=120,email"`
	Telefono *string `json:"telefono" validate:"omitempty,max=20"`
	Estado   *string `json:"estado" validate:"omitempty,oneof=activo inactivo"`
}

type updateInput struct {
	Nombre   *string `json:"nombre" validate:"omitempty,nombrelen,notblank"`
	Email    *string `json:"email" validate:"omitempty,max=120,email"`
	Telefono *string `json:"telefono" validate:"omitempty,max=20"`
	Estado   *string `json:"estado" validate:"omitempty,oneof=activo inactivo"`
}

// Validator applies field rules and renders Spanish messages.
type Validator struct {
	validate   *validator.Validate
	translator ut.Translator
}

// New builds a Validator with Spanish translations and the custom rules.
func New() (*Validator, error) {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	esLang := es.New()
	uni := ut.New(esLang, esLang)
	trans, ok := uni.GetTranslator("es")
	if !ok {
		return nil, ErrTranslatorNotFound
	}
	if err := esTranslations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}
	if err := registerRules(validate, trans); err != nil {
		return nil, err
	}
	return &Validator{validate: validate, translator: trans}, nil
}

// MustNew is like New but panics on error.
func MustNew() *Validator {
	v, err := New()
	if err != nil {
		panic(fmt.Errorf("validation: %w", err))
	}
	return v
}

// Fields validates a single payload. Every field is checked; the returned
// Errors is nil when the payload is valid. On create a missing estado
// defaults to "activo".
func (v *Validator) Fields(p Payload, mode Mode) (Fields, Errors) {
	errs := Errors{}
	var out Fields
	skip := map[string]bool{}

	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if !allowedFields[k] {
			errs.Add(k, MsgUnknownField)
			continue
		}
		val, present, err := decodeString(p[k])
		if err != nil {
			errs.Add(k, MsgNotString)
			skip[k] = true
			continue
		}
		if !present {
			// telefono is the only optional field, so null on update unsets it.
			if k == "telefono" && mode == ModeUpdate {
				out.ClearTelefono = true
			}
			continue
		}
		s := normalize(val)
		switch k {
		case "nombre":
			out.Nombre = &s
		case "email":
			out.Email = &s
		case "telefono":
			out.Telefono = &s
		case "estado":
			out.Estado = &s
		}
	}

	var target any
	if mode == ModeCreate {
		target = &createInput{Nombre: out.Nombre, Email: out.Email, Telefono: out.Telefono, Estado: out.Estado}
	} else {
		target = &updateInput{Nombre: out.Nombre, Email: out.Email, Telefono: out.Telefono, Estado: out.Estado}
	}

	if err := v.validate.Struct(target); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			errs.Add("_schema", err.Error())
		}
		for _, fe := range verrs {
			if skip[fe.Field()] {
				continue
			}
			errs.Add(fe.Field(), fe.Translate(v.translator))
		}
	}

	if len(errs) > 0 {
		return Fields{}, errs
	}

	if mode == ModeCreate && out.Estado == nil {
		def := domain.EstadoActivo
		out.Estado = &def
	}
	if out.Nombre != nil {
		t := strings.TrimSpace(*out.Nombre)
		out.Nombre = &t
	}
	return out, nil
}

// decodeString reads a JSON string. JSON null reports present=false.
func decodeString(raw json.RawMessage) (string, bool, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return "", false, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false, err
	}
	return s, true, nil
}

// normalize applies NFC and trims surrounding whitespace. A whitespace-only
// value is kept as is so the blank rule can tell it apart from an empty one.
func normalize(s string) string {
	s = norm.NFC.String(s)
	if t := strings.TrimSpace(s); t != "" {
		return t
	}
	return s
}
