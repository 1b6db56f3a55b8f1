// Package fields converts a legacy supermodel field schema into the
// block-based form schema.
package fields

import (
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/goliatone/go-formmigrate/internal/legacyxml"
	"github.com/goliatone/go-formmigrate/pkg/model"
	"github.com/goliatone/go-formmigrate/pkg/widgets"
)

const separatorPrefix = "fieldset-separator-"

var (
	tagFieldset = legacyxml.Schema("fieldset")
	tagField    = legacyxml.Schema("field")
)

// Option configures a Parser.
type Option func(*Parser)

// WithLogger sets the logger receiving conversion warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Parser) {
		p.logger = logger
	}
}

// WithWidgetRegistry overrides the widget-type override table.
func WithWidgetRegistry(reg *widgets.Registry) Option {
	return func(p *Parser) {
		p.widgets = reg
	}
}

// WithIDGenerator overrides the generator used for fieldset separator ids.
func WithIDGenerator(fn func() string) Option {
	return func(p *Parser) {
		p.newID = fn
	}
}

// Parser turns field schema documents into model.Schema values. It never
// fails: malformed documents and unsupported constructs are logged and
// skipped.
type Parser struct {
	logger  *slog.Logger
	widgets *widgets.Registry
	newID   func() string
}

// New constructs a Parser with defaults for every unset dependency.
func New(options ...Option) *Parser {
	p := &Parser{}
	for _, opt := range options {
		if opt != nil {
			opt(p)
		}
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	if p.widgets == nil {
		p.widgets = widgets.NewRegistry()
	}
	if p.newID == nil {
		p.newID = uuid.NewString
	}
	return p
}

// Parse converts doc into a schema with a single "default" fieldset. Fields
// keep their document order; fieldset labels become static-text separators at
// the position of their fieldset.
func (p *Parser) Parse(doc string) model.Schema {
	schema := model.NewSchema()

	node, err := legacyxml.SchemaNode(doc)
	if err != nil {
		p.logger.Error("fields: error parsing fields model", "error", err)
		return schema
	}
	if node == nil {
		return schema
	}

	acc := newAccumulator(&schema, p.logger)
	for i := range node.Children {
		el := &node.Children[i]
		switch legacyxml.TagOf(el) {
		case tagFieldset:
			label, _ := legacyxml.Attr(el, legacyxml.Name{Local: "label"})
			if label = strings.TrimSpace(label); label != "" {
				acc.add(p.separator(label))
			}
			for _, fieldEl := range legacyxml.Descendants(el, tagField) {
				if field, ok := p.ConvertField(fieldEl); ok {
					acc.add(field)
				}
			}
		case tagField:
			if field, ok := p.ConvertField(el); ok {
				acc.add(field)
			}
		default:
			p.logger.Warn("fields: unexpected tag in schema", "tag", legacyxml.TagOf(el).String())
		}
	}
	acc.finish()

	return schema
}

func (p *Parser) separator(label string) model.Field {
	return model.Field{
		ID:      separatorPrefix + shortID(p.newID()),
		Title:   label,
		Type:    model.FieldTypeObject,
		Factory: model.FactoryStaticText,
		Widget:  model.WidgetStaticText,
		Value:   label,
	}
}

// shortID keeps the first 6 hex digits of generated uuids. Ids from other
// generators are used unchanged so their uniqueness survives.
func shortID(raw string) string {
	if _, err := uuid.Parse(raw); err != nil {
		return raw
	}
	return strings.ReplaceAll(raw, "-", "")[:6]
}

// accumulator collects fields into the default fieldset and projects the
// per-field required flag into the schema's required list.
type accumulator struct {
	schema   *model.Schema
	logger   *slog.Logger
	required map[string]bool
}

func newAccumulator(schema *model.Schema, logger *slog.Logger) *accumulator {
	return &accumulator{
		schema:   schema,
		logger:   logger,
		required: make(map[string]bool),
	}
}

func (a *accumulator) add(field model.Field) {
	fieldset := &a.schema.Fieldsets[0]
	if _, exists := a.schema.Properties[field.ID]; exists {
		a.logger.Warn("fields: duplicate field id, keeping the last definition", "field", field.ID)
	} else {
		fieldset.Fields = append(fieldset.Fields, field.ID)
	}
	a.schema.Properties[field.ID] = field
	a.required[field.ID] = field.Required
}

func (a *accumulator) finish() {
	required := make([]string, 0, len(a.required))
	for _, id := range a.schema.Fieldsets[0].Fields {
		if a.required[id] {
			required = append(required, id)
		}
		field := a.schema.Properties[id]
		field.Required = false
		a.schema.Properties[id] = field
	}
	a.schema.Required = required
}
