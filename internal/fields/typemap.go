package fields

import "github.com/goliatone/go-formmigrate/pkg/model"

// Legacy field type identifiers.
const (
	TypeLabel     = "collective.easyform.fields.Label"
	TypeRichLabel = "collective.easyform.fields.RichLabel"
	TypeFile      = "plone.namedfile.field.NamedBlobFile"
	TypeImage     = "plone.namedfile.field.NamedBlobImage"
	TypeURI       = "zope.schema.URI"
	TypePassword  = "zope.schema.Password"
	TypeEmail     = "plone.schema.email.Email"
	TypeBool      = "zope.schema.Bool"
	TypeChoice    = "zope.schema.Choice"
	TypeSet       = "zope.schema.Set"
	TypeDate      = "zope.schema.Date"
	TypeDatetime  = "zope.schema.Datetime"
	TypeText      = "zope.schema.Text"
	TypeTextLine  = "zope.schema.TextLine"
	TypeInt       = "zope.schema.Int"
)

type typeMapping struct {
	factory     string
	widget      string
	kind        model.FieldType
	notRequired bool
}

var fallbackMapping = typeMapping{factory: model.FactoryTextLine, kind: model.FieldTypeString}

var legacyTypes = map[string]typeMapping{
	TypeLabel:     {factory: model.FactoryStaticText, widget: model.WidgetStaticText, kind: model.FieldTypeObject, notRequired: true},
	TypeRichLabel: {factory: model.FactoryStaticText, widget: model.WidgetStaticText, kind: model.FieldTypeObject, notRequired: true},
	TypeFile:      {factory: model.FactoryFileUpload, kind: model.FieldTypeObject},
	TypeImage:     {factory: model.FactoryFileUpload, kind: model.FieldTypeObject},
	TypeURI:       {factory: model.FactoryHidden, widget: model.WidgetHidden, kind: model.FieldTypeString},
	TypePassword:  {factory: model.FactoryTextLine, kind: model.FieldTypeString},
	TypeEmail:     {factory: model.FactoryEmail, widget: model.WidgetEmail, kind: model.FieldTypeString},
	TypeBool:      {factory: model.FactoryBoolean, kind: model.FieldTypeBoolean},
	TypeChoice:    {factory: model.FactoryChoice, kind: model.FieldTypeString},
	TypeSet:       {factory: model.FactoryCheckboxGroup, widget: model.WidgetCheckboxGroup, kind: model.FieldTypeArray},
	TypeDate:      {factory: model.FactoryDate, widget: model.WidgetDate, kind: model.FieldTypeString},
	TypeDatetime:  {factory: model.FactoryDatetime, widget: model.WidgetDatetime, kind: model.FieldTypeString},
	TypeText:      {factory: model.FactoryTextarea, widget: model.WidgetTextarea, kind: model.FieldTypeString},
	TypeTextLine:  {factory: model.FactoryTextLine, kind: model.FieldTypeString},
	TypeInt:       {factory: model.FactoryNumber, kind: model.FieldTypeNumber},
}

func (p *Parser) applyType(field *model.Field, legacyType string) {
	mapping, ok := legacyTypes[legacyType]
	if !ok {
		p.logger.Warn("fields: unsupported field type, using label_text_field", "field", field.ID, "type", legacyType)
		mapping = fallbackMapping
	}
	field.Factory = mapping.factory
	if mapping.widget != "" {
		field.Widget = mapping.widget
	}
	field.Type = mapping.kind
	if mapping.notRequired {
		field.Required = false
	}
}
