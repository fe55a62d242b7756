package apiutil

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/a-h/templ"
)

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{name: "valid", body: `{"name":"a"}`},
		{name: "unknown field", body: `{"name":"a","extra":1}`, wantErr: true},
		{name: "trailing data", body: `{"name":"a"}{"name":"b"}`, wantErr: true},
		{name: "malformed", body: `{"name":`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			var dst struct {
				Name string `json:"name"`
			}
			err := DecodeJSON(r, &dst)
			if (err != nil) != tt.wantErr {
				t.Fatalf("DecodeJSON() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && dst.Name != "a" {
				t.Fatalf("Name = %q, want %q", dst.Name, "a")
			}
		})
	}
}

func TestIsJSONRequest(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		accept      string
		want        bool
	}{
		{name: "json body", contentType: "application/json; charset=utf-8", want: true},
		{name: "accept json", accept: "application/json", want: true},
		{name: "browser accept", accept: "text/html,application/json;q=0.9", want: false},
		{name: "form", contentType: "application/x-www-form-urlencoded", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.Header.Set("Content-Type", tt.contentType)
			r.Header.Set("Accept", tt.accept)
			if got := IsJSONRequest(r); got != tt.want {
				t.Fatalf("IsJSONRequest() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseBool(t *testing.T) {
	tests := map[string]bool{"": false, "on": true, "ON": true, "true": true, "0": false}
	for in, want := range tests {
		got, err := ParseBool(in)
		if err != nil || got != want {
			t.Fatalf("ParseBool(%q) = %v, %v, want %v", in, got, err, want)
		}
	}
	if _, err := ParseBool("maybe"); err == nil {
		t.Fatal("ParseBool(maybe) error = nil, want error")
	}
}

func TestParseOptionalIntField(t *testing.T) {
	if got, err := ParseOptionalIntField(" ", "page", 4); err != nil || got != 4 {
		t.Fatalf("ParseOptionalIntField(empty) = %d, %v, want 4", got, err)
	}
	if got, err := ParseOptionalIntField("12", "page", 4); err != nil || got != 12 {
		t.Fatalf("ParseOptionalIntField(12) = %d, %v, want 12", got, err)
	}
	_, err := ParseOptionalIntField("x", "page", 4)
	var ferr FieldError
	if !errors.As(err, &ferr) || ferr.Field != "page" {
		t.Fatalf("ParseOptionalIntField(x) error = %v, want FieldError on page", err)
	}
}

func TestRenderHTMLComponentStatus(t *testing.T) {
	ok := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, "<p>hi</p>")
		return err
	})
	rec := httptest.NewRecorder()
	if !RenderHTMLComponentStatus(context.Background(), rec, http.StatusAccepted, ok, map[string]string{"HX-Retarget": "#x"}, "log", "fail") {
		t.Fatal("RenderHTMLComponentStatus() = false, want true")
	}
	if rec.Code != http.StatusAccepted || rec.Body.String() != "<p>hi</p>" || rec.Header().Get("HX-Retarget") != "#x" {
		t.Fatalf("response = %d %q %v", rec.Code, rec.Body.String(), rec.Header())
	}

	broken := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, _ = io.WriteString(w, "<p>partial")
		return errors.New("boom")
	})
	rec = httptest.NewRecorder()
	if RenderHTMLComponent(context.Background(), rec, broken, nil, "log", "Failed to render") {
		t.Fatal("RenderHTMLComponent() = true, want false")
	}
	if rec.Code != http.StatusInternalServerError || strings.Contains(rec.Body.String(), "partial") {
		t.Fatalf("response = %d %q, want clean 500", rec.Code, rec.Body.String())
	}
}

func TestWriteError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		json     bool
		wantCode int
		wantBody string
	}{
		{name: "handler error", err: HandlerError{Status: http.StatusNotFound, Message: "Missing"}, wantCode: http.StatusNotFound, wantBody: "Missing\n"},
		{name: "wrapped json", err: HandlerError{Status: http.StatusConflict, Message: "Taken", Err: errors.New("dup")}, json: true, wantCode: http.StatusConflict, wantBody: `{"error":"Taken"}` + "\n"},
		{name: "plain error", err: errors.New("db down"), wantCode: http.StatusInternalServerError, wantBody: "Internal Server Error\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.json {
				r.Header.Set("Accept", "application/json")
			}
			rec := httptest.NewRecorder()
			WriteError(rec, r, tt.err)
			if rec.Code != tt.wantCode || rec.Body.String() != tt.wantBody {
				t.Fatalf("WriteError() = %d %q, want %d %q", rec.Code, rec.Body.String(), tt.wantCode, tt.wantBody)
			}
		})
	}
}
