package tiles

import (
	"context"
	"slices"
	"strings"

	"github.com/goliatone/go-formmigrate/pkg/blocks"
	"github.com/goliatone/go-formmigrate/pkg/model"
	"github.com/goliatone/go-formmigrate/pkg/richtext"
)

// ConvertHTML emits an optional heading from the tile title followed by the
// blocks converted from the tile HTML.
func ConvertHTML(ctx context.Context, data map[string]any, html richtext.Converter) ([]model.Block, error) {
	var out []model.Block

	title := blocks.String(data, "tile_title", "")
	if strings.TrimSpace(title) != "" && blocks.Bool(data, "show_title", false) {
		out = append(out, blocks.Heading(title))
	}

	content := blocks.String(data, "content", blocks.String(data, "html_snippet", ""))
	converted, err := html.Convert(ctx, content)
	if err != nil {
		return nil, err
	}
	return append(out, converted...), nil
}

// ConvertLinkList maps a link-list tile onto a listing block, preceded by a
// heading and a description when the tile carries them.
func ConvertLinkList(_ context.Context, data map[string]any, _ richtext.Converter) ([]model.Block, error) {
	visible := stringList(data["visible_fields"])
	additional := stringList(data["additional_visible_fields"])

	opts := blocks.ListingOptions{
		Variation:         "list",
		ShowTeaserImage:   len(visible) == 0 || slices.Contains(visible, "img"),
		ShowTeaserText:    len(visible) == 0 || slices.Contains(visible, "entryText"),
		ShowTeaserHeading: len(additional) > 0 && slices.Contains(additional, "dateline"),
		ButtonLink:        []any{},
	}
	query := blocks.ListingQuery{
		Query:        data["query"],
		SortReversed: blocks.Bool(data, "sort_reversed", false),
		SortOn:       blocks.String(data, "sort_on", ""),
	}
	if limit := blocks.String(data, "limit", ""); limit != "" && limit != "0" {
		query.Limit = limit
	}
	if items, ok := query.Query.([]any); ok && len(items) == 0 {
		query.Query = nil
	}

	var out []model.Block
	if title := blocks.String(data, "title", ""); strings.TrimSpace(title) != "" {
		out = append(out, blocks.Heading(title))
	}
	if description := blocks.String(data, "description", ""); strings.TrimSpace(description) != "" {
		out = append(out, blocks.Slate(description))
	}
	return append(out, blocks.Listing(opts, query)), nil
}

func stringList(value any) []string {
	switch v := value.(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case string:
		if v == "" {
			return nil
		}
		return []string{v}
	}
	return nil
}
