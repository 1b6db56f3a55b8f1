// Package richtext turns legacy HTML fragments into editor blocks by calling
// an external conversion service.
package richtext

import (
	"context"
	"fmt"

	"github.com/goliatone/go-formmigrate/pkg/model"
)

// Converter turns an HTML fragment into an ordered list of blocks.
type Converter interface {
	Convert(ctx context.Context, html string) ([]model.Block, error)
}

// ConverterFunc adapts a function to Converter.
type ConverterFunc func(ctx context.Context, html string) ([]model.Block, error)

// Convert implements Converter.
func (fn ConverterFunc) Convert(ctx context.Context, html string) ([]model.Block, error) {
	return fn(ctx, html)
}

// StatusError reports a non-2xx answer from the conversion service.
type StatusError struct {
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("richtext: unexpected status %s", e.Status)
}
