package util

import (
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// PlotFormats are the image formats gonum/plot can save to by file extension.
var PlotFormats = []string{"png", "svg", "pdf"}

// Validator wraps validator.Validate with an English translator, so that
// violations read as sentences rather than as struct tags. translator is nil
// when the translations could not be registered.
type Validator struct {
	*validator.Validate

	translator ut.Translator
}

func NewValidator() *Validator {
	validate := validator.New()
	if err := validate.RegisterValidation("plotformat", plotFormat); err != nil {
		panic(err)
	}

	english := en.New()
	translator, _ := ut.New(english, english).GetTranslator("en")
	if err := enTranslations.RegisterDefaultTranslations(validate, translator); err != nil {
		log.Warn().Err(err).Str("locale", "en").Msg("could not register translation")
		return &Validator{Validate: validate}
	}

	err := validate.RegisterTranslation("plotformat", translator, func(ut ut.Translator) error {
		return ut.Add("plotformat", "{0} must be one of "+strings.Join(PlotFormats, ", "), true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T("plotformat", fe.Field())
		return t
	})
	if err != nil {
		log.Warn().Err(err).Str("locale", "en").Msg("could not register translation for function plotformat")
	}

	return &Validator{
		Validate:   validate,
		translator: translator,
	}
}

// Struct validates s and joins every violation into a single readable error.
func (v *Validator) Struct(s interface{}) error {
	err := v.Validate.Struct(s)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if v.translator == nil || !errors.As(err, &ve) {
		return err
	}

	messages := make([]string, 0, len(ve))
	for _, fe := range ve {
		messages = append(messages, fe.Translate(v.translator))
	}
	return errors.New(strings.Join(messages, "; "))
}

func plotFormat(fl validator.FieldLevel) bool {
	val := strings.ToLower(fl.Field().String())
	for _, f := range PlotFormats {
		if val == f {
			return true
		}
	}
	return false
}
