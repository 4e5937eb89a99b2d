package validation

import (
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
)

const (
	MsgNombreRequired = "El nombre es requerido"
	MsgNombreBlank    = "El nombre no puede contener solo espacios en blanco"
	MsgNombreLength   = "El nombre debe tener entre 1 y 100 caracteres"
	MsgEmailRequired  = "El email es requerido"
	MsgEmailLength    = "El email no puede exceder 120 caracteres"
	MsgEmailFormat    = "El formato del email no es válido"
	MsgTelefonoLength = "El teléfono no puede exceder 20 caracteres"
	MsgEstadoEnum     = "El estado debe ser 'activo' o 'inactivo'"
)

func label(field string) string {
	if l, ok := labels[field]; ok {
		return l
	}
	return field
}

// registerRules installs the custom tags and overrides the Spanish
// translations of every tag used by the input structs.
func registerRules(validate *validator.Validate, trans ut.Translator) error {
	if err := validate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	}); err != nil {
		return err
	}
	validate.RegisterAlias("nombrelen", "min=1,max=100")

	simple := map[string]string{
		"required":  "{0} es requerido",
		"notblank":  "{0} no puede contener solo espacios en blanco",
		"nombrelen": "{0} debe tener entre 1 y 100 caracteres",
		"email":     MsgEmailFormat,
	}
	for tag, text := range simple {
		tag, text := tag, text
		if err := validate.RegisterTranslation(tag, trans,
			func(ut ut.Translator) error {
				return ut.Add(tag, text, true)
			},
			func(ut ut.Translator, fe validator.FieldError) string {
				t, err := ut.T(fe.Tag(), label(fe.Field()))
				if err != nil {
					return fe.Error()
				}
				return t
			},
		); err != nil {
			return err
		}
	}

	if err := validate.RegisterTranslation("max", trans,
		func(ut ut.Translator) error {
			return ut.Add("max", "{0} no puede exceder {1} caracteres", true)
		},
		func(ut ut.Translator, fe validator.FieldError) string {
			t, err := ut.T("max", label(fe.Field()), fe.Param())
			if err != nil {
				return fe.Error()
			}
			return t
		},
	); err != nil {
		return err
	}

	return validate.RegisterTranslation("oneof", trans,
		func(ut ut.Translator) error {
			return ut.Add("oneof", "{0} debe ser {1}", true)
		},
		func(ut ut.Translator, fe validator.FieldError) string {
			t, err := ut.T("oneof", label(fe.Field()), choices(fe.Param()))
			if err != nil {
				return fe.Error()
			}
			return t
		},
	)
}

// choices renders "a b c" as "'a', 'b' o 'c'".
func choices(param string) string {
	opts := strings.Fields(param)
	for i, o := range opts {
		opts[i] = "'" + o + "'"
	}
	switch len(opts) {
	case 0:
		return ""
	case 1:
		return opts[0]
	default:
		return strings.Join(opts[:len(opts)-1], ", ") + " o " + opts[len(opts)-1]
	}
}
