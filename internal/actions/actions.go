// Package actions reads the legacy actions document of a form into a flat
// list of attribute mappings.
package actions

import (
	"log/slog"

	"github.com/goliatone/go-formmigrate/internal/legacyxml"
	"github.com/goliatone/go-formmigrate/pkg/model"
)

var (
	attrName    = legacyxml.Name{Local: "name"}
	attrType    = legacyxml.Name{Local: "type"}
	tagRequired = legacyxml.Schema("required")
)

// Parse converts doc into actions in document order. Empty or malformed input
// yields no actions; actions explicitly marked <required>False</required> are
// dropped.
func Parse(doc string, logger *slog.Logger) []model.Action {
	if logger == nil {
		logger = slog.Default()
	}
	actions := []model.Action{}

	node, err := legacyxml.SchemaNode(doc)
	if err != nil {
		logger.Error("actions: error parsing actions model", "error", err)
		return actions
	}
	if node == nil {
		return actions
	}

	for i := range node.Children {
		el := &node.Children[i]
		actionType, _ := legacyxml.Attr(el, attrType)
		name, _ := legacyxml.Attr(el, attrName)

		if required := legacyxml.Child(el, tagRequired); required != nil && legacyxml.Text(required) == "False" {
			logger.Debug("actions: skipping disabled action", "action", name, "type", actionType)
			continue
		}

		action := model.Action{
			Name:       name,
			Type:       actionType,
			Attributes: make(map[string]string, len(el.Children)),
		}
		for j := range el.Children {
			child := &el.Children[j]
			action.Attributes[legacyxml.TagOf(child).Local] = legacyxml.Text(child)
		}
		actions = append(actions, action)
	}

	return actions
}
