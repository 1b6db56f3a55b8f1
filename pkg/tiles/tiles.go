// Package tiles converts legacy layout tiles into editor blocks.
package tiles

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/goliatone/go-formmigrate/pkg/blocks"
	"github.com/goliatone/go-formmigrate/pkg/model"
	"github.com/goliatone/go-formmigrate/pkg/richtext"
)

// Built-in tile types.
const (
	TypeHTML     = "plone.app.standardtiles.html"
	TypeLinkList = "my.custom.list.tile"
)

// Tile is one deferred tile reference: the tile id, whose prefix up to "__"
// names the tile type, and its stored data.
type Tile struct {
	ID   string         `json:"id"`
	Data map[string]any `json:"data"`
}

// Type returns the tile type encoded in the id.
func (t Tile) Type() string {
	tileType, _, _ := strings.Cut(t.ID, "__")
	return tileType
}

// UnmarshalJSON accepts both the exported [id, data] pair and an object with
// id and data members.
func (t *Tile) UnmarshalJSON(raw []byte) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var pair []json.RawMessage
		if err := json.Unmarshal(trimmed, &pair); err != nil {
			return fmt.Errorf("tiles: decode tile pair: %w", err)
		}
		if len(pair) != 2 {
			return fmt.Errorf("tiles: expected [id, data] pair, got %d items", len(pair))
		}
		var tile Tile
		if err := json.Unmarshal(pair[0], &tile.ID); err != nil {
			return fmt.Errorf("tiles: decode tile id: %w", err)
		}
		if err := json.Unmarshal(pair[1], &tile.Data); err != nil {
			return fmt.Errorf("tiles: decode tile data: %w", err)
		}
		*t = tile
		return nil
	}

	type plain Tile
	var tile plain
	if err := json.Unmarshal(trimmed, &tile); err != nil {
		return fmt.Errorf("tiles: decode tile: %w", err)
	}
	*t = Tile(tile)
	return nil
}

// ConvertFunc turns the data of one tile into ordered blocks. html converts
// rich text through the conversion service.
type ConvertFunc func(ctx context.Context, data map[string]any, html richtext.Converter) ([]model.Block, error)

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger receiving missing-tile warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		r.logger = logger
	}
}

// WithLinkListType registers the link-list converter under tileType instead
// of TypeLinkList.
func WithLinkListType(tileType string) Option {
	return func(r *Registry) {
		if tileType != "" {
			r.linkListType = tileType
		}
	}
}

// Registry maps tile types to converters.
type Registry struct {
	logger       *slog.Logger
	linkListType string
	converters   map[string]ConvertFunc
}

// ErrNilConverter is returned when registering a nil ConvertFunc.
var ErrNilConverter = errors.New("tiles: converter is nil")

// NewRegistry returns a registry holding the built-in converters.
func NewRegistry(options ...Option) *Registry {
	r := &Registry{
		linkListType: TypeLinkList,
		converters:   make(map[string]ConvertFunc),
	}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	r.converters[TypeHTML] = ConvertHTML
	r.converters[r.linkListType] = ConvertLinkList
	return r
}

// Register binds fn to tileType, replacing any previous converter.
func (r *Registry) Register(tileType string, fn ConvertFunc) error {
	if fn == nil {
		return ErrNilConverter
	}
	r.converters[tileType] = fn
	return nil
}

// Types lists the registered tile types in sorted order.
func (r *Registry) Types() []string {
	out := make([]string, 0, len(r.converters))
	for tileType := range r.converters {
		out = append(out, tileType)
	}
	sort.Strings(out)
	return out
}

// Convert runs the converter registered for the tile's type. Tiles without a
// converter become a visible "Missing block" heading.
func (r *Registry) Convert(ctx context.Context, tile Tile, html richtext.Converter) ([]model.Block, error) {
	tileType := tile.Type()
	fn, ok := r.converters[tileType]
	if !ok {
		r.logger.Warn("tiles: missing tile converter", "type", tileType, "tile", tile.ID)
		return []model.Block{blocks.Missing(tileType)}, nil
	}
	out, err := fn(ctx, tile.Data, html)
	if err != nil {
		return nil, fmt.Errorf("tiles: convert %s: %w", tileType, err)
	}
	return out, nil
}
