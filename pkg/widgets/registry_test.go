package widgets

import (
	"testing"

	"github.com/goliatone/go-formmigrate/pkg/model"
)

func TestResolve_Builtins(t *testing.T) {
	reg := NewRegistry()

	cases := []struct {
		name       string
		widgetType string
		expect     string
	}{
		{name: "radio", widgetType: "z3c.form.browser.radio.RadioFieldWidget", expect: WidgetRadio},
		{name: "collection select", widgetType: "plone.app.z3cform.widget.CollectionSelectFieldWidget", expect: WidgetCollectionSelect},
		{name: "choice dispatcher", widgetType: "z3c.form.browser.select.ChoiceWidgetDispatcher", expect: WidgetChoiceDispatcher},
		{name: "single checkbox", widgetType: "plone.app.z3cform.widget.SingleCheckBoxBoolFieldWidget", expect: WidgetSingleCheckbox},
		{name: "email", widgetType: "plone.app.z3cform.widget.EmailFieldWidget", expect: WidgetEmail},
		{name: "date", widgetType: "plone.app.z3cform.widget.DateFieldWidget", expect: WidgetDate},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := reg.Resolve(tc.widgetType)
			if !ok || got != tc.expect {
				t.Fatalf("expected %q, got %q (ok=%v)", tc.expect, got, ok)
			}
		})
	}
}

func TestResolve_Unknown(t *testing.T) {
	reg := NewRegistry()
	if got, ok := reg.Resolve("z3c.form.browser.text.TextWidget"); ok {
		t.Fatalf("expected no override, got %q", got)
	}
	var nilReg *Registry
	if _, ok := nilReg.Resolve("RadioFieldWidget"); ok {
		t.Fatalf("nil registry should not resolve")
	}
}

func TestApply_RadioRequiresChoices(t *testing.T) {
	reg := NewRegistry()

	field := model.Field{Factory: model.FactoryChoice, Type: model.FieldTypeString}
	if _, ok := reg.Apply("RadioFieldWidget", &field); !ok {
		t.Fatalf("expected radio override to match")
	}
	if field.Factory != model.FactoryChoice {
		t.Fatalf("radio without choices must keep factory, got %q", field.Factory)
	}

	field.Choices = []model.Choice{{"a", "a"}}
	reg.Apply("RadioFieldWidget", &field)
	if field.Factory != model.FactoryRadioGroup || field.Widget != model.WidgetRadioGroup {
		t.Fatalf("expected radio group, got %q/%q", field.Factory, field.Widget)
	}
}

func TestApply_CheckboxGroupSwitchesToArray(t *testing.T) {
	reg := NewRegistry()
	field := model.Field{
		Factory: model.FactoryChoice,
		Type:    model.FieldTypeString,
		Choices: []model.Choice{{"x", "x"}, {"y", "y"}},
	}
	reg.Apply("CollectionSelectFieldWidget", &field)
	if field.Type != model.FieldTypeArray || field.Factory != model.FactoryCheckboxGroup {
		t.Fatalf("expected checkbox group array, got %q/%q", field.Factory, field.Type)
	}
}

func TestRegister_PriorityWins(t *testing.T) {
	reg := &Registry{}
	reg.Register("low", 1, Suffix("Widget"), func(f *model.Field) { f.Widget = "low" })
	reg.Register("high", 5, Suffix("Widget"), func(f *model.Field) { f.Widget = "high" })

	field := model.Field{}
	name, ok := reg.Apply("AnyWidget", &field)
	if !ok || name != "high" || field.Widget != "high" {
		t.Fatalf("expected high priority override, got %q (%q)", name, field.Widget)
	}
}
