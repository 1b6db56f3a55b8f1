// Package blocks builds the block payloads of a migrated page: the schemaForm
// block plus the small structural blocks placed around it.
package blocks

import "github.com/goliatone/go-formmigrate/pkg/model"

// Title returns the fixed title block placed at the top of a form page.
func Title() model.Block {
	return model.Block{"@type": "title", "fixed": true, "required": true}
}

// Description returns the fixed description block.
func Description() model.Block {
	return model.Block{"@type": "description", "fixed": true, "required": true}
}

// Heading returns an h2 heading block.
func Heading(text string) model.Block {
	return model.Block{"@type": "heading", "heading": text, "tag": "h2"}
}

// Slate returns a rich text block holding a single paragraph.
func Slate(text string) model.Block {
	return model.Block{
		"@type": "slate",
		"value": []any{
			map[string]any{
				"type":     "p",
				"children": []any{map[string]any{"text": text}},
			},
		},
	}
}

// Missing flags a legacy tile without a converter so editors spot it.
func Missing(tileType string) model.Block {
	return Heading("Missing block: " + tileType)
}

// ListingOptions are the display flags of a listing block.
type ListingOptions struct {
	Variation         string
	ShowTeaserImage   bool
	ShowTeaserText    bool
	ShowTeaserHeading bool
	ShowExtendedInfo  bool
	ButtonText        string
	ButtonLink        []any
}

// DefaultListingOptions mirrors the plain list rendering.
func DefaultListingOptions() ListingOptions {
	return ListingOptions{
		Variation:         "list",
		ShowTeaserImage:   true,
		ShowTeaserText:    true,
		ShowTeaserHeading: true,
	}
}

// ListingQuery selects and orders the items of a listing block.
type ListingQuery struct {
	Query        any
	SortReversed bool
	Limit        string
	SortOn       string
}

// Listing returns a listing block for opts and query.
func Listing(opts ListingOptions, query ListingQuery) model.Block {
	buttonLink := opts.ButtonLink
	if buttonLink == nil {
		buttonLink = []any{}
	}

	order := "ascending"
	if query.SortReversed {
		order = "descending"
	}

	querystring := map[string]any{
		"sort_order_boolean": query.SortReversed,
		"sort_order":         order,
	}
	if query.Query != nil {
		querystring["query"] = query.Query
	}
	if query.Limit != "" {
		querystring["limit"] = query.Limit
	}
	if query.SortOn != "" {
		querystring["sort_on"] = query.SortOn
	}

	return model.Block{
		"@type":             "listing",
		"variation":         opts.Variation,
		"headlineTag":       "h2",
		"showTeaserImage":   opts.ShowTeaserImage,
		"showTeaserText":    opts.ShowTeaserText,
		"showTeaserHeading": opts.ShowTeaserHeading,
		"showExtendedInfo":  opts.ShowExtendedInfo,
		"buttonText":        opts.ButtonText,
		"buttonLink":        buttonLink,
		"sort_order":        order,
		"querystring":       querystring,
	}
}
