package orchestrator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/goliatone/go-formmigrate/pkg/model"
)

// Transformer mutates a converted form block before it is placed on the page.
// Implementations can relabel fields, rename ids, or rewrite block settings.
type Transformer interface {
	Transform(ctx context.Context, block *model.SchemaFormBlock) error
}

// TransformerFunc adapts plain functions to the Transformer interface.
type TransformerFunc func(ctx context.Context, block *model.SchemaFormBlock) error

// Transform executes the wrapped function when non-nil.
func (fn TransformerFunc) Transform(ctx context.Context, block *model.SchemaFormBlock) error {
	if fn == nil {
		return nil
	}
	return fn(ctx, block)
}

// JSONPresetTransformer applies declarative overrides loaded from a JSON file.
// The document shape supports block-level labels and per-field patches:
//
//	{
//	  "submit_label": "Send",
//	  "success": "Thank you!",
//	  "fields": {
//	    "replyto": {"title": "E-Mail", "rename": "email"}
//	  }
//	}
type JSONPresetTransformer struct {
	document jsonTransformDocument
}

type jsonTransformDocument struct {
	SubmitLabel string                    `json:"submit_label"`
	CancelLabel string                    `json:"cancel_label"`
	Success     string                    `json:"success"`
	Fields      map[string]jsonFieldPatch `json:"fields"`
}

type jsonFieldPatch struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Rename      string `json:"rename"`
}

// NewJSONPresetTransformer constructs a transformer from raw JSON bytes.
func NewJSONPresetTransformer(data []byte) (*JSONPresetTransformer, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("json preset transformer: document is empty")
	}
	var document jsonTransformDocument
	if err := json.Unmarshal(data, &document); err != nil {
		return nil, fmt.Errorf("json preset transformer: parse document: %w", err)
	}
	return &JSONPresetTransformer{document: document}, nil
}

// NewJSONPresetTransformerFromFS loads a JSON transformer document from the
// provided filesystem path.
func NewJSONPresetTransformerFromFS(fsys fs.FS, path string) (*JSONPresetTransformer, error) {
	if fsys == nil {
		return nil, errors.New("json preset transformer: filesystem is nil")
	}
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("json preset transformer: path is required")
	}
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("json preset transformer: read %s: %w", path, err)
	}
	return NewJSONPresetTransformer(data)
}

// Transform applies the declarative patches onto the supplied block. Patches
// naming a field the schema does not define are an error.
func (t *JSONPresetTransformer) Transform(ctx context.Context, block *model.SchemaFormBlock) error {
	if block == nil {
		return errors.New("json preset transformer: block is nil")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if t.document.SubmitLabel != "" {
		block.SubmitLabel = t.document.SubmitLabel
	}
	if t.document.CancelLabel != "" {
		block.CancelLabel = t.document.CancelLabel
	}
	if t.document.Success != "" {
		block.Success = t.document.Success
	}

	ids := make([]string, 0, len(t.document.Fields))
	for id := range t.document.Fields {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, ok := block.Schema.Properties[id]; !ok {
			return fmt.Errorf("json preset transformer: field %q not found", id)
		}
		if err := applyFieldPatch(&block.Schema, id, t.document.Fields[id]); err != nil {
			return err
		}
	}
	return nil
}

func applyFieldPatch(schema *model.Schema, id string, patch jsonFieldPatch) error {
	field := schema.Properties[id]
	if patch.Title != "" {
		field.Title = patch.Title
	}
	if patch.Description != "" {
		field.Description = patch.Description
	}

	rename := strings.TrimSpace(patch.Rename)
	if rename == "" || rename == id {
		schema.Properties[id] = field
		return nil
	}
	if _, taken := schema.Properties[rename]; taken {
		return fmt.Errorf("json preset transformer: cannot rename %q to existing field %q", id, rename)
	}

	delete(schema.Properties, id)
	field.ID = rename
	if field.QueryParameterName == id {
		field.QueryParameterName = rename
	}
	schema.Properties[rename] = field
	for idx := range schema.Fieldsets {
		replaceID(schema.Fieldsets[idx].Fields, id, rename)
	}
	replaceID(schema.Required, id, rename)
	return nil
}

func replaceID(ids []string, from, to string) {
	for idx, id := range ids {
		if id == from {
			ids[idx] = to
		}
	}
}
