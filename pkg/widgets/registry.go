package widgets

import (
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-formmigrate/pkg/model"
)

// Built-in widget override identifiers exposed by the registry.
const (
	WidgetRadio             = "radio"
	WidgetCollectionSelect  = "collection-select"
	WidgetChoiceDispatcher  = "choice-dispatcher"
	WidgetSingleCheckbox    = "single-checkbox"
	WidgetEmail             = "email"
	WidgetDate              = "date"
	singleCheckboxWidgetFQN = "plone.app.z3cform.widget.SingleCheckBoxBoolFieldWidget"
)

// Matcher decides whether an override handles the legacy widget type.
type Matcher func(widgetType string) bool

// Rewrite adjusts a field for a matched widget. Rewrites may decline to change
// anything, for instance when the field has no choices to render.
type Rewrite func(field *model.Field)

type rule struct {
	name     string
	priority int
	match    Matcher
	rewrite  Rewrite
	order    int
}

// Registry maps legacy widget type identifiers onto field rewrites. Higher
// priority wins; ties fall back to registration order. Only the first matching
// rule is applied.
type Registry struct {
	mu    sync.RWMutex
	rules []rule
}

// NewRegistry constructs a registry with the built-in overrides registered.
func NewRegistry() *Registry {
	reg := &Registry{}
	reg.registerBuiltins()
	return reg
}

// Register adds an override with the provided name and priority.
func (r *Registry) Register(name string, priority int, matcher Matcher, rewrite Rewrite) {
	if r == nil || matcher == nil || rewrite == nil {
		return
	}
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.rules = append(r.rules, rule{
		name:     trimmed,
		priority: priority,
		match:    matcher,
		rewrite:  rewrite,
		order:    len(r.rules),
	})
}

// Resolve returns the name of the override handling widgetType.
func (r *Registry) Resolve(widgetType string) (string, bool) {
	entry, ok := r.lookup(widgetType)
	if !ok {
		return "", false
	}
	return entry.name, true
}

// Apply rewrites field according to the override matching widgetType. It
// returns the override name and false when no override matched.
func (r *Registry) Apply(widgetType string, field *model.Field) (string, bool) {
	if field == nil {
		return "", false
	}
	entry, ok := r.lookup(widgetType)
	if !ok {
		return "", false
	}
	entry.rewrite(field)
	return entry.name, true
}

func (r *Registry) lookup(widgetType string) (rule, bool) {
	if r == nil {
		return rule{}, false
	}
	r.mu.RLock()
	if len(r.rules) == 0 {
		r.mu.RUnlock()
		return rule{}, false
	}
	rules := append([]rule(nil), r.rules...)
	r.mu.RUnlock()
	sort.SliceStable(rules, func(i, j int) bool {
		if rules[i].priority == rules[j].priority {
			return rules[i].order < rules[j].order
		}
		return rules[i].priority > rules[j].priority
	})
	for _, entry := range rules {
		if entry.match(widgetType) {
			return entry, true
		}
	}
	return rule{}, false
}

// Suffix matches widget types ending with suffix, which is how dotted legacy
// identifiers are compared.
func Suffix(suffix string) Matcher {
	return func(widgetType string) bool {
		return strings.HasSuffix(widgetType, suffix)
	}
}

func (r *Registry) registerBuiltins() {
	r.Register(WidgetRadio, 60, Suffix("RadioFieldWidget"), func(field *model.Field) {
		if !field.HasChoices() {
			return
		}
		field.Factory = model.FactoryRadioGroup
		field.Widget = model.WidgetRadioGroup
	})

	checkboxGroup := func(field *model.Field) {
		if !field.HasChoices() {
			return
		}
		field.Factory = model.FactoryCheckboxGroup
		field.Widget = model.WidgetCheckboxGroup
		field.Type = model.FieldTypeArray
	}
	r.Register(WidgetCollectionSelect, 50, Suffix("CollectionSelectFieldWidget"), checkboxGroup)
	r.Register(WidgetChoiceDispatcher, 40, Suffix("ChoiceWidgetDispatcher"), checkboxGroup)

	r.Register(WidgetSingleCheckbox, 30, Suffix(singleCheckboxWidgetFQN), func(field *model.Field) {
		field.Factory = model.FactoryBoolean
		field.Type = model.FieldTypeBoolean
	})

	r.Register(WidgetEmail, 20, Suffix("EmailFieldWidget"), func(field *model.Field) {
		field.Factory = model.FactoryEmail
		field.Widget = model.WidgetEmail
		field.Type = model.FieldTypeString
	})

	r.Register(WidgetDate, 10, Suffix("DateFieldWidget"), func(field *model.Field) {
		field.Factory = model.FactoryDate
		field.Widget = model.WidgetDate
		field.Type = model.FieldTypeString
	})
}
