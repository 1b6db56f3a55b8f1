// Package formmigrate converts exported legacy forms and tile layouts into
// block-based page content. The root package re-exports the most common entry
// points; see pkg/orchestrator for the full API.
package formmigrate

import (
	"context"

	"github.com/goliatone/go-formmigrate/pkg/model"
	"github.com/goliatone/go-formmigrate/pkg/orchestrator"
)

// FormRequest aliases orchestrator.FormRequest.
type FormRequest = orchestrator.FormRequest

// PageRequest aliases orchestrator.PageRequest.
type PageRequest = orchestrator.PageRequest

// Page aliases model.Page.
type Page = model.Page

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// ConvertForm builds the blocks of one exported form page.
func ConvertForm(ctx context.Context, req FormRequest, options ...orchestrator.Option) (Page, error) {
	return orchestrator.New(options...).ConvertForm(ctx, req)
}

// ConvertPage builds the blocks of one exported content item, form or tile
// based.
func ConvertPage(ctx context.Context, req PageRequest, options ...orchestrator.Option) (Page, error) {
	return orchestrator.New(options...).ConvertPage(ctx, req)
}

// BuildFormBlock converts legacy form data into the schemaForm block alone.
func BuildFormBlock(ctx context.Context, id string, formData map[string]any, options ...orchestrator.Option) (model.SchemaFormBlock, error) {
	return orchestrator.New(options...).BuildFormBlock(ctx, id, formData)
}
