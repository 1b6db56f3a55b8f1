package orchestrator_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formmigrate/pkg/model"
	"github.com/goliatone/go-formmigrate/pkg/orchestrator"
	"github.com/goliatone/go-formmigrate/pkg/testsupport"
)

func TestOrchestrator_AppliesTransformer(t *testing.T) {
	var req orchestrator.FormRequest
	testsupport.MustLoadJSON(t, "testdata/contact_form.json", &req)

	transformCalled := false
	transformer := orchestrator.TransformerFunc(func(ctx context.Context, block *model.SchemaFormBlock) error {
		transformCalled = true
		block.Captcha = "honeypot"
		return nil
	})

	orch := newTestOrchestrator(t, &testsupport.StubConverter{}, orchestrator.WithSchemaTransformer(transformer))
	block, err := orch.BuildFormBlock(testsupport.Context(), req.ID, req.FormData)
	if err != nil {
		t.Fatalf("build form block: %v", err)
	}
	if !transformCalled {
		t.Fatalf("expected transformer to be invoked")
	}
	if block.Captcha != "honeypot" {
		t.Fatalf("transformer mutation missing: %#v", block.Captcha)
	}
}

func TestJSONPresetTransformerFromFS(t *testing.T) {
	var req orchestrator.FormRequest
	testsupport.MustLoadJSON(t, "testdata/contact_form.json", &req)

	block, err := newTestOrchestrator(t, &testsupport.StubConverter{}).BuildFormBlock(testsupport.Context(), req.ID, req.FormData)
	if err != nil {
		t.Fatalf("build form block: %v", err)
	}

	transformer, err := orchestrator.NewJSONPresetTransformerFromFS(os.DirFS("testdata"), "preset.json")
	if err != nil {
		t.Fatalf("new json transformer: %v", err)
	}
	if err := transformer.Transform(context.Background(), &block); err != nil {
		t.Fatalf("apply transformer: %v", err)
	}

	if block.SubmitLabel != "Submit" || block.Success != "Thank you!" {
		t.Fatalf("block labels not updated: %q %q", block.SubmitLabel, block.Success)
	}
	if _, ok := block.Schema.Properties["replyto"]; ok {
		t.Fatalf("renamed field still present")
	}
	email, ok := block.Schema.Properties["email"]
	if !ok || email.ID != "email" || email.Title != "Your e-mail" || email.QueryParameterName != "email" {
		t.Fatalf("rename not applied: %#v", email)
	}
	if diff := cmp.Diff([]string{"email"}, block.Schema.Required); diff != "" {
		t.Fatalf("required mismatch (-want +got):\n%s", diff)
	}
	fields := block.Schema.Fieldsets[0].Fields
	if fields[1] != "email" {
		t.Fatalf("fieldset order not preserved: %v", fields)
	}
	if block.Schema.Properties["message"].Description != "Keep it short" {
		t.Fatalf("description patch missing: %#v", block.Schema.Properties["message"])
	}
}

func TestJSONPresetTransformer_Errors(t *testing.T) {
	if _, err := orchestrator.NewJSONPresetTransformer([]byte("  ")); err == nil {
		t.Fatalf("expected error for empty document")
	}
	if _, err := orchestrator.NewJSONPresetTransformer([]byte("{")); err == nil {
		t.Fatalf("expected error for invalid json")
	}
	if _, err := orchestrator.NewJSONPresetTransformerFromFS(nil, "preset.json"); err == nil {
		t.Fatalf("expected error for nil filesystem")
	}

	schema := model.NewSchema()
	schema.Properties["a"] = model.Field{ID: "a"}
	schema.Properties["b"] = model.Field{ID: "b"}
	schema.Fieldsets[0].Fields = []string{"a", "b"}

	cases := map[string]string{
		"unknown field":   `{"fields": {"missing": {"title": "x"}}}`,
		"rename conflict": `{"fields": {"a": {"rename": "b"}}}`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			transformer, err := orchestrator.NewJSONPresetTransformer([]byte(doc))
			if err != nil {
				t.Fatalf("new transformer: %v", err)
			}
			block := model.SchemaFormBlock{Schema: schema}
			if err := transformer.Transform(context.Background(), &block); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestOrchestrator_TransformerErrorAborts(t *testing.T) {
	var req orchestrator.FormRequest
	testsupport.MustLoadJSON(t, "testdata/contact_form.json", &req)

	transformer := orchestrator.TransformerFunc(func(context.Context, *model.SchemaFormBlock) error {
		return fmt.Errorf("boom")
	})
	stub := &testsupport.StubConverter{}
	orch := newTestOrchestrator(t, stub, orchestrator.WithSchemaTransformer(transformer))

	_, err := orch.ConvertForm(testsupport.Context(), req)
	if err == nil || !strings.Contains(err.Error(), "boom") {
		t.Fatalf("expected transformer error, got %v", err)
	}
	if !errors.Is(err, orchestrator.ErrTransformFailed) {
		t.Fatalf("expected ErrTransformFailed, got %v", err)
	}
	if len(stub.Calls) != 0 {
		t.Fatalf("no rich text should be converted after a failed form build, got %v", stub.Calls)
	}
}
