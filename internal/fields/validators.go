package fields

import (
	"strings"

	"github.com/goliatone/go-formmigrate/pkg/model"
)

// requiredIfNonePrefix marks the legacy "value must not be None" expression.
const requiredIfNonePrefix = "python: test(value==None, False"

var validatorRewrites = map[string]func(*model.Field){
	"isEmail":      setEmail,
	"isValidEmail": setEmail,
	"isInternationalPhoneNumber": func(field *model.Field) {
		field.Factory = model.FactoryPhone
	},
	"isDecimal": func(field *model.Field) {
		field.Factory = model.FactoryNumber
		field.Type = model.FieldTypeNumber
	},
	"python:False": func(*model.Field) {},
	"isChecked":    setRequired,
}

func setEmail(field *model.Field) {
	field.Factory = model.FactoryEmail
	field.Widget = model.WidgetEmail
}

func setRequired(field *model.Field) {
	field.Required = true
}

func applyValidator(p *Parser, field *model.Field, value string) {
	if rewrite, ok := validatorRewrites[value]; ok {
		rewrite(field)
		return
	}
	if strings.HasPrefix(value, requiredIfNonePrefix) {
		setRequired(field)
		return
	}
	p.logger.Warn("fields: unsupported validator", "field", field.ID, "validator", value)
}
