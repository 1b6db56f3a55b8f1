package fields

import (
	"regexp"
	"strconv"
	"strings"

	"aqwari.net/xml/xmltree"

	"github.com/goliatone/go-formmigrate/internal/legacyxml"
	"github.com/goliatone/go-formmigrate/pkg/model"
)

var (
	attrName = legacyxml.Name{Local: "name"}
	attrType = legacyxml.Name{Local: "type"}
)

type attributeHandler func(p *Parser, field *model.Field, value string)

type childHandler func(p *Parser, field *model.Field, el *xmltree.Element)

// attributeHandlers run in document order after the type mapping.
var attributeHandlers = map[legacyxml.Name]attributeHandler{
	legacyxml.EasyForm("THidden"):    applyHidden,
	legacyxml.EasyForm("serverSide"): applyHidden,
	legacyxml.EasyForm("validators"): applyValidator,
	legacyxml.EasyForm("TValidator"): applyValidator,
	legacyxml.EasyForm("TDefault"):   applyDefaultExpression,
}

// childHandlers run after every attribute, so child elements win conflicts.
var childHandlers = map[legacyxml.Name]childHandler{
	legacyxml.Schema("title"):       applyTitle,
	legacyxml.Schema("description"): applyDescription,
	legacyxml.Schema("required"):    applyRequired,
	legacyxml.Schema("default"):     applyDefault,
	legacyxml.Schema("min"):         applyMinimum,
	legacyxml.Schema("max"):         applyMaximum,
	legacyxml.Schema("min_length"):  applyMinLength,
	legacyxml.Schema("max_length"):  applyMaxLength,
	legacyxml.Schema("values"):      applyValues,
	legacyxml.Schema("rich_label"):  applyRichLabel,
	legacyxml.Schema("value_type"):  applyValueType,
	legacyxml.Form("widget"):        applyWidget,
}

// ConvertField maps one <field name="..." type="..."> element onto a field
// descriptor. It returns false when the element has no name.
func (p *Parser) ConvertField(el *xmltree.Element) (model.Field, bool) {
	name, _ := legacyxml.Attr(el, attrName)
	if name == "" {
		p.logger.Warn("fields: skipping field without name")
		return model.Field{}, false
	}
	legacyType, _ := legacyxml.Attr(el, attrType)

	field := model.Field{
		ID:                 name,
		Title:              name,
		Type:               model.FieldTypeString,
		Required:           true,
		QueryParameterName: name,
	}
	p.applyType(&field, legacyType)

	for _, attr := range el.StartElement.Attr {
		key := legacyxml.NameOf(attr.Name)
		if legacyxml.IsNamespaceDecl(attr) || key == attrName || key == attrType {
			continue
		}
		handler, ok := attributeHandlers[key]
		if !ok {
			p.logger.Warn("fields: unsupported field attribute", "field", name, "attribute", key.String())
			continue
		}
		handler(p, &field, attr.Value)
	}

	for i := range el.Children {
		child := &el.Children[i]
		key := legacyxml.TagOf(child)
		handler, ok := childHandlers[key]
		if !ok {
			p.logger.Warn("fields: unsupported field tag", "field", name, "tag", key.String())
			continue
		}
		handler(p, &field, child)
	}

	return field, true
}

func applyHidden(_ *Parser, field *model.Field, value string) {
	if value != "True" {
		return
	}
	field.Factory = model.FactoryHidden
	field.Widget = model.WidgetHidden
}

const (
	requestGetPrefix = "python:request.get("
	pythonPrefix     = "python:"
	stringPrefix     = "string:"
)

var requestGetPattern = regexp.MustCompile(`request\.get\(\s*['"]([^'"]+)['"]`)

// applyDefaultExpression handles TDefault. A request.get('X') expression
// binds the field to query parameter X instead of a literal default.
func applyDefaultExpression(p *Parser, field *model.Field, value string) {
	switch {
	case strings.HasPrefix(value, requestGetPrefix):
		match := requestGetPattern.FindStringSubmatch(value)
		if match == nil {
			p.logger.Warn("fields: unsupported default value", "field", field.ID, "value", value)
			return
		}
		field.QueryParameterName = match[1]
	case strings.HasPrefix(value, pythonPrefix):
		p.logger.Warn("fields: unsupported default value", "field", field.ID, "value", value)
	case strings.HasPrefix(value, stringPrefix):
		field.Default = strings.TrimSpace(strings.TrimPrefix(value, stringPrefix))
	default:
		field.Default = value
	}
}

func applyTitle(_ *Parser, field *model.Field, el *xmltree.Element) {
	if text := legacyxml.Text(el); text != "" {
		field.Title = text
	}
}

// applyDescription stores the description, except on boolean fields where
// the legacy description is the checkbox label and becomes the default.
func applyDescription(_ *Parser, field *model.Field, el *xmltree.Element) {
	text := legacyxml.Text(el)
	if text == "" {
		return
	}
	if field.Factory == model.FactoryBoolean {
		field.Default = text
		field.Description = ""
		return
	}
	field.Description = text
}

func applyRequired(_ *Parser, field *model.Field, el *xmltree.Element) {
	field.Required = legacyxml.Text(el) != "False"
}

func applyDefault(_ *Parser, field *model.Field, el *xmltree.Element) {
	if text := legacyxml.Text(el); text != "" {
		field.Default = text
	}
}

func applyMinimum(_ *Parser, field *model.Field, el *xmltree.Element) {
	field.Minimum = legacyxml.Text(el)
}

func applyMaximum(_ *Parser, field *model.Field, el *xmltree.Element) {
	field.Maximum = legacyxml.Text(el)
}

func applyMinLength(p *Parser, field *model.Field, el *xmltree.Element) {
	if n, ok := p.parseLength(field, el); ok {
		field.MinLength = &n
	}
}

func applyMaxLength(p *Parser, field *model.Field, el *xmltree.Element) {
	if n, ok := p.parseLength(field, el); ok {
		field.MaxLength = &n
	}
}

func (p *Parser) parseLength(field *model.Field, el *xmltree.Element) (int, bool) {
	text := strings.TrimSpace(legacyxml.Text(el))
	if text == "" {
		return 0, false
	}
	n, err := strconv.Atoi(text)
	if err != nil {
		p.logger.Warn("fields: invalid length bound", "field", field.ID, "tag", legacyxml.TagOf(el).Local, "value", text)
		return 0, false
	}
	return n, true
}

func applyValues(_ *Parser, field *model.Field, el *xmltree.Element) {
	setChoices(field, el)
	if field.Factory == "" {
		field.Factory = model.FactoryChoice
	}
}

// applyValueType reads the vocabulary of a multi-choice (set) field.
func applyValueType(_ *Parser, field *model.Field, el *xmltree.Element) {
	if values := legacyxml.Child(el, legacyxml.Schema("values")); values != nil {
		setChoices(field, values)
	}
}

func setChoices(field *model.Field, values *xmltree.Element) {
	choices := []model.Choice{}
	for _, element := range legacyxml.Children(values, legacyxml.Schema("element")) {
		if text := legacyxml.Text(element); text != "" {
			choices = append(choices, model.Choice{text, text})
		}
	}
	field.Choices = choices
	field.Values = make([]string, 0, len(choices))
	for _, choice := range choices {
		field.Values = append(field.Values, choice[0])
	}
}

func applyRichLabel(_ *Parser, field *model.Field, el *xmltree.Element) {
	if field.Factory != model.FactoryStaticText {
		return
	}
	field.Default = model.RichText{Data: legacyxml.Text(el)}
}

func applyWidget(p *Parser, field *model.Field, el *xmltree.Element) {
	widgetType, _ := legacyxml.Attr(el, attrType)
	if field.Factory == model.FactoryHidden {
		p.logger.Warn("fields: unsupported widget for hidden field", "field", field.ID, "widget", widgetType)
		return
	}
	if _, ok := p.widgets.Apply(widgetType, field); !ok {
		p.logger.Warn("fields: unsupported widget type", "field", field.ID, "widget", widgetType)
	}
}
