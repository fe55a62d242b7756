package passthrough

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/codr1/wfxconsole/internal/testutil/clienttest"
)

func TestPlayground(t *testing.T) {
	tests := []struct {
		name      string
		widget    string
		props     string
		wantError string
		wantHTML  string
	}{
		{name: "default", widget: "wfx-button", props: defaultProps, wantHTML: `label="Hello" severity="success" raised="true"`},
		{name: "json prop", widget: "wfx-button", props: `pt={"root":{"class":"x"}}`, wantHTML: `pt="{&#34;root&#34;:{&#34;class&#34;:&#34;x&#34;}}"`},
		{name: "default omitted", widget: "wfx-button", props: "iconPos=left&label=A", wantHTML: `<p-button data-wrapper="wfx-button" label="A"></p-button>`},
		{name: "unknown widget", widget: "wfx-slider", wantError: `Unknown widget "wfx-slider"`},
		{name: "unknown prop", widget: "wfx-button", props: "colour=red", wantError: "unknown property"},
		{name: "wrong kind", widget: "wfx-button", props: "raised=very", wantError: "wrong kind"},
		{name: "bad json", widget: "wfx-button", props: "pt={", wantError: "wrong kind"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			panel := Playground(tt.widget, tt.props)
			if tt.wantError != "" {
				if !strings.Contains(panel.Error, tt.wantError) {
					t.Fatalf("Error = %q, want containing %q", panel.Error, tt.wantError)
				}
				if panel.Result != nil {
					t.Fatal("Result set despite error")
				}
				return
			}
			if panel.Error != "" {
				t.Fatalf("Error = %q, want none", panel.Error)
			}
			var b strings.Builder
			if err := panel.Result.Render(context.Background(), &b); err != nil {
				t.Fatalf("Render() error = %v", err)
			}
			if !strings.Contains(b.String(), tt.wantHTML) {
				t.Fatalf("Render() = %s, want containing %s", b.String(), tt.wantHTML)
			}
		})
	}
}

func TestHandleRender(t *testing.T) {
	q := url.Values{"widget": {"ui-switch"}, "props": {"label=Dark&disabled=true"}}
	req := httptest.NewRequest(http.MethodGet, "/passthrough/render?"+q.Encode(), nil)
	rec := httptest.NewRecorder()
	HandleRender(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `id="playground"`) || !strings.Contains(body, `<p-toggleswitch data-wrapper="ui-switch"`) {
		t.Fatalf("body = %s, want rendered switch in playground", body)
	}
	if !strings.Contains(body, `<option value="ui-switch" selected>`) {
		t.Fatal("widget not selected in playground")
	}
}

func TestHandlePage(t *testing.T) {
	env := clienttest.New(t)
	rec := httptest.NewRecorder()
	HandlePage(rec, env.Request(httptest.NewRequest(http.MethodGet, "/passthrough", nil)))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if !strings.Contains(rec.Body.String(), "Pass-through styling") {
		t.Fatal("page missing demos")
	}
}

func TestDemos(t *testing.T) {
	got, err := demos()
	if err != nil {
		t.Fatalf("demos() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len(demos()) = %d, want 3", len(got))
	}
}
