package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goliatone/go-formmigrate/pkg/model"
	"github.com/goliatone/go-formmigrate/pkg/orchestrator"
	"github.com/goliatone/go-formmigrate/pkg/richtext"
	"github.com/goliatone/go-formmigrate/pkg/testsupport"
)

func newTestServer(t *testing.T, conv richtext.Converter, extra ...orchestrator.Option) *httptest.Server {
	t.Helper()
	logger, _ := testsupport.NewLogger()
	options := []orchestrator.Option{
		orchestrator.WithLogger(logger),
		orchestrator.WithConverter(conv),
		orchestrator.WithIDGenerator(testsupport.SequentialIDs("id")),
	}
	orch := orchestrator.New(append(options, extra...)...)
	srv := httptest.NewServer(NewRouter(orch, logger))
	t.Cleanup(srv.Close)
	return srv
}

func post(t *testing.T, url, body string) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("post %s: %v", url, err)
	}
	defer resp.Body.Close()

	var decoded map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp, decoded
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, &testsupport.StubConverter{})
	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}

func TestFormConvert(t *testing.T) {
	srv := newTestServer(t, &testsupport.StubConverter{})
	resp, body := post(t, srv.URL+"/v1/forms/convert", `{"id":"contact","form_data":{"submitLabel":"Send"}}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %v", resp.StatusCode, body)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Fatalf("unexpected content type %q", ct)
	}

	layout := body["blocks_layout"].(map[string]any)["items"].([]any)
	if len(layout) != 2 {
		t.Fatalf("expected title and form blocks, got %v", layout)
	}
	form := body["blocks"].(map[string]any)[layout[1].(string)].(map[string]any)
	if form["@type"] != model.SchemaFormBlockType || form["submit_label"] != "Send" || form["dataCollectionId"] != "contact" {
		t.Fatalf("unexpected form block %v", form)
	}
}

func TestPageConvert(t *testing.T) {
	srv := newTestServer(t, &testsupport.StubConverter{})
	resp, body := post(t, srv.URL+"/v1/pages/convert",
		`{"id":"home","description":"d","tiles":[["plone.app.standardtiles.html__1",{"content":"<p>x</p>"}]]}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %v", resp.StatusCode, body)
	}
	layout := body["blocks_layout"].(map[string]any)["items"].([]any)
	if len(layout) != 2 {
		t.Fatalf("expected description and slate blocks, got %v", layout)
	}
}

func TestErrors(t *testing.T) {
	failing := richtext.ConverterFunc(func(context.Context, string) ([]model.Block, error) {
		return nil, &richtext.StatusError{StatusCode: http.StatusServiceUnavailable, Status: "503 Service Unavailable"}
	})

	failWith := func(err error) richtext.Converter {
		return richtext.ConverterFunc(func(context.Context, string) ([]model.Block, error) {
			return nil, err
		})
	}
	rejectAll := orchestrator.WithSchemaTransformer(orchestrator.TransformerFunc(func(context.Context, *model.SchemaFormBlock) error {
		return errors.New("field \"x\" not found")
	}))
	tileBody := `{"tiles":[["plone.app.standardtiles.html__1",{"content":"<p>x</p>"}]]}`

	cases := []struct {
		name string
		conv richtext.Converter
		opts []orchestrator.Option
		path string
		body string
		want int
	}{
		{name: "invalid json", conv: &testsupport.StubConverter{}, path: "/v1/forms/convert", body: `{`, want: http.StatusBadRequest},
		{name: "missing id", conv: &testsupport.StubConverter{}, path: "/v1/forms/convert", body: `{"form_data":{"a":1}}`, want: http.StatusBadRequest},
		{name: "bad tile", conv: &testsupport.StubConverter{}, path: "/v1/pages/convert", body: `{"tiles":[["only"]]}`, want: http.StatusBadRequest},
		{
			name: "conversion service down",
			conv: failing,
			path: "/v1/pages/convert",
			body: `{"tiles":[["plone.app.standardtiles.html__1",{"content":"<p>x</p>"}]]}`,
			want: http.StatusBadGateway,
		},
		{
			name: "transform rejected",
			conv: &testsupport.StubConverter{},
			opts: []orchestrator.Option{rejectAll},
			path: "/v1/forms/convert",
			body: `{"id":"contact","form_data":{"submitLabel":"Go"}}`,
			want: http.StatusUnprocessableEntity,
		},
		{name: "conversion timed out", conv: failWith(context.DeadlineExceeded), path: "/v1/pages/convert", body: tileBody, want: http.StatusGatewayTimeout},
		{name: "conversion cancelled", conv: failWith(context.Canceled), path: "/v1/pages/convert", body: tileBody, want: statusClientClosedRequest},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := newTestServer(t, tc.conv, tc.opts...)
			resp, body := post(t, srv.URL+tc.path, tc.body)
			if resp.StatusCode != tc.want {
				t.Fatalf("expected %d, got %d: %v", tc.want, resp.StatusCode, body)
			}
			if msg, _ := body["error"].(string); msg == "" {
				t.Fatalf("expected error message, got %v", body)
			}
		})
	}
}
