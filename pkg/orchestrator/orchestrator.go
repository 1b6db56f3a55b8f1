package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/goliatone/go-formmigrate/internal/actions"
	"github.com/goliatone/go-formmigrate/internal/fields"
	"github.com/goliatone/go-formmigrate/pkg/blocks"
	"github.com/goliatone/go-formmigrate/pkg/config"
	"github.com/goliatone/go-formmigrate/pkg/mailer"
	"github.com/goliatone/go-formmigrate/pkg/model"
	"github.com/goliatone/go-formmigrate/pkg/richtext"
	"github.com/goliatone/go-formmigrate/pkg/tiles"
	"github.com/goliatone/go-formmigrate/pkg/widgets"
)

// ErrFormIDMissing is returned when form data is converted without the id of
// the content item that owns it.
var ErrFormIDMissing = errors.New("orchestrator: form id is required")

// ErrTransformFailed wraps errors returned by the configured Transformer.
var ErrTransformFailed = errors.New("orchestrator: transform form")

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithConfig replaces the default configuration.
func WithConfig(cfg config.Config) Option {
	return func(o *Orchestrator) {
		o.config = cfg
	}
}

// WithLogger sets the logger shared by every pipeline stage.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// WithConverter injects the HTML conversion service client.
func WithConverter(converter richtext.Converter) Option {
	return func(o *Orchestrator) {
		o.converter = converter
	}
}

// WithIDGenerator overrides the generator used for block keys and fieldset
// separator ids.
func WithIDGenerator(fn func() string) Option {
	return func(o *Orchestrator) {
		o.newID = fn
	}
}

// WithTileRegistry injects the tile converters used for non-form pages.
func WithTileRegistry(registry *tiles.Registry) Option {
	return func(o *Orchestrator) {
		o.tiles = registry
	}
}

// WithWidgetRegistry injects the widget-type overrides used by the field
// parser.
func WithWidgetRegistry(registry *widgets.Registry) Option {
	return func(o *Orchestrator) {
		o.widgets = registry
	}
}

// WithSchemaTransformer registers a Transformer that can patch the form block
// after it was assembled and before it is placed on the page.
func WithSchemaTransformer(t Transformer) Option {
	return func(o *Orchestrator) {
		o.transformer = t
	}
}

// Orchestrator wires field parsing, action parsing, mailer resolution and
// block assembly, and lays the resulting blocks out on a page.
type Orchestrator struct {
	config      config.Config
	logger      *slog.Logger
	converter   richtext.Converter
	newID       func() string
	tiles       *tiles.Registry
	widgets     *widgets.Registry
	transformer Transformer

	fields   *fields.Parser
	resolver *mailer.Resolver
}

// New constructs an Orchestrator applying any provided options. Missing
// dependencies are built from the configuration.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{config: config.Default()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

func (o *Orchestrator) applyDefaults() {
	cfg := o.config

	if o.logger == nil {
		o.logger = slog.Default()
	}
	if o.newID == nil {
		o.newID = uuid.NewString
	}
	if o.converter == nil {
		opts := []richtext.Option{
			richtext.WithTimeout(cfg.Converter.Timeout),
			richtext.WithSlate(cfg.Converter.Slate),
		}
		if cfg.Converter.Sanitize {
			opts = append(opts, richtext.WithUGCSanitizer())
		}
		o.converter = richtext.NewHTTPConverter(cfg.Converter.URL, opts...)
	}
	if o.tiles == nil {
		o.tiles = tiles.NewRegistry(
			tiles.WithLogger(o.logger),
			tiles.WithLinkListType(cfg.Tiles.LinkListType),
		)
	}
	if o.widgets == nil {
		o.widgets = widgets.NewRegistry()
	}

	o.fields = fields.New(
		fields.WithLogger(o.logger),
		fields.WithWidgetRegistry(o.widgets),
		fields.WithIDGenerator(o.newID),
	)
	o.resolver = mailer.NewResolver(
		mailer.WithLogger(o.logger),
		mailer.WithPlaceholders(cfg.Mail.SenderPlaceholder, cfg.Mail.SenderNamePlaceholder),
	)
}

// Config returns the configuration in effect.
func (o *Orchestrator) Config() config.Config {
	return o.config
}

// FormRequest carries the exported form data of one content item.
type FormRequest struct {
	// ID is the content id of the form; it becomes the data collection id.
	ID string `json:"id"`

	// Description is the HTML description of the content item, rendered
	// above the form.
	Description string `json:"description,omitempty"`

	// FormData holds the legacy form settings including the fields and
	// actions documents.
	FormData map[string]any `json:"form_data"`
}

// PageRequest carries one content item whose blocks are rebuilt. FormData
// takes precedence over Tiles.
type PageRequest struct {
	ID          string         `json:"id"`
	Description string         `json:"description,omitempty"`
	FormData    map[string]any `json:"form_data,omitempty"`
	Tiles       []tiles.Tile   `json:"tiles,omitempty"`
}

// BuildFormBlock converts the legacy form data into the schemaForm block,
// including the composed thank-you text.
func (o *Orchestrator) BuildFormBlock(ctx context.Context, id string, data map[string]any) (model.SchemaFormBlock, error) {
	if ctx == nil {
		return model.SchemaFormBlock{}, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return model.SchemaFormBlock{}, err
	}
	if strings.TrimSpace(id) == "" {
		return model.SchemaFormBlock{}, ErrFormIDMissing
	}

	schema := o.fields.Parse(blocks.String(data, blocks.KeyFieldsModel, ""))
	mailSettings := o.resolver.Resolve(actions.Parse(blocks.String(data, blocks.KeyActionsModel, ""), o.logger))
	form := blocks.ParseFormSettings(data, o.config)

	block := blocks.BuildSchemaBlock(id, schema, form, mailSettings, o.config)
	block.ThankYou = ThankYouMessage(data)

	if o.transformer != nil {
		if err := o.transformer.Transform(ctx, &block); err != nil {
			return model.SchemaFormBlock{}, fmt.Errorf("%w: %w", ErrTransformFailed, err)
		}
	}
	return block, nil
}

// ConvertForm lays out a form page: the fixed title, the converted
// description and prologue, the form block and the converted epilogue.
// Empty form data yields an empty page.
func (o *Orchestrator) ConvertForm(ctx context.Context, req FormRequest) (model.Page, error) {
	page := model.NewPage()
	if len(req.FormData) == 0 {
		return page, nil
	}

	block, err := o.BuildFormBlock(ctx, req.ID, req.FormData)
	if err != nil {
		return model.Page{}, err
	}

	page.Append(o.newID(), blocks.Title())

	if req.Description != "" {
		if err := o.appendHTML(ctx, &page, req.Description); err != nil {
			return model.Page{}, err
		}
	}
	if prologue := blocks.RichData(req.FormData, blocks.KeyFormPrologue); prologue != "" {
		if err := o.appendHTML(ctx, &page, prologue); err != nil {
			return model.Page{}, err
		}
	}

	page.Append(o.newID(), block)

	if epilogue := blocks.RichData(req.FormData, blocks.KeyFormEpilogue); epilogue != "" {
		if err := o.appendHTML(ctx, &page, epilogue); err != nil {
			return model.Page{}, err
		}
	}

	o.logger.Debug("orchestrator: converted form",
		"id", req.ID,
		"fields", len(block.Schema.Properties),
		"blocks", page.Len(),
	)
	return page, nil
}

// ConvertPage rebuilds the blocks of a content item. Items carrying form data
// become form pages; everything else gets an optional description block
// followed by one conversion per tile.
func (o *Orchestrator) ConvertPage(ctx context.Context, req PageRequest) (model.Page, error) {
	if len(req.FormData) > 0 {
		return o.ConvertForm(ctx, FormRequest{
			ID:          req.ID,
			Description: req.Description,
			FormData:    req.FormData,
		})
	}

	page := model.NewPage()
	if req.Description != "" {
		page.Append(o.newID(), blocks.Description())
	}

	for _, tile := range req.Tiles {
		if err := ctx.Err(); err != nil {
			return model.Page{}, err
		}
		converted, err := o.tiles.Convert(ctx, tile, o.converter)
		if err != nil {
			return model.Page{}, fmt.Errorf("orchestrator: page %s: %w", req.ID, err)
		}
		for _, block := range converted {
			page.Append(o.newID(), block)
		}
	}

	o.logger.Debug("orchestrator: converted page",
		"id", req.ID,
		"tiles", len(req.Tiles),
		"blocks", page.Len(),
	)
	return page, nil
}

func (o *Orchestrator) appendHTML(ctx context.Context, page *model.Page, html string) error {
	converted, err := o.converter.Convert(ctx, html)
	if err != nil {
		return fmt.Errorf("orchestrator: convert rich text: %w", err)
	}
	for _, block := range converted {
		page.Append(o.newID(), block)
	}
	return nil
}

// ThankYouMessage composes the text shown after submission: the thank-you
// description, the thanks prologue, the submitted fields placeholder and the
// thanks epilogue.
func ThankYouMessage(data map[string]any) string {
	var sb strings.Builder
	if description := blocks.String(data, blocks.KeyThanksDescription, ""); description != "" {
		sb.WriteString(description)
		sb.WriteString("\n")
	}
	if prologue := blocks.RichData(data, blocks.KeyThanksPrologue); prologue != "" {
		sb.WriteString(prologue)
		sb.WriteString("\n")
	}
	sb.WriteString("${formfields}\n")
	sb.WriteString(blocks.RichData(data, blocks.KeyThanksEpilogue))
	return sb.String()
}
