package parser

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestNopLogger(t *testing.T) {
	var l Logger = NopLogger{}
	// None of these should panic
	l.Debug("debug", "k", "v")
	l.Info("info")
	l.Warn("warn", "k", 1)
	l.Error("error")
	if l.With("k", "v") == nil {
		t.Error("With should return a usable logger")
	}
}

func TestSlogAdapter(t *testing.T) {
	var buf bytes.Buffer
	handler := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	adapter := NewSlogAdapter(slog.New(handler))

	adapter.Debug("parsing started", "source", "api.yaml")
	adapter.Info("parsing finished", "duration", "12ms")
	adapter.Warn("validation issues", "count", 2)
	adapter.Error("parse failed", "err", "boom")

	out := buf.String()
	for _, want := range []string{"parsing started", "source=api.yaml", "parsing finished", "validation issues", "parse failed"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

func TestSlogAdapterWith(t *testing.T) {
	var buf bytes.Buffer
	handler := slog.NewTextHandler(&buf, nil)
	adapter := NewSlogAdapter(slog.New(handler))

	child := adapter.With("component", "parser")
	child.Info("ready")

	if !strings.Contains(buf.String(), "component=parser") {
		t.Errorf("With attributes missing from output:\n%s", buf.String())
	}
}

func TestNewSlogAdapterNilDefaults(t *testing.T) {
	if NewSlogAdapter(nil) == nil {
		t.Fatal("NewSlogAdapter(nil) should fall back to slog.Default()")
	}
}

func TestParserLogging(t *testing.T) {
	var buf bytes.Buffer
	handler := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})

	p := New()
	p.Logger = NewSlogAdapter(slog.New(handler))
	_, err := p.ParseBytes(minimalDoc, "logged")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	if !strings.Contains(buf.String(), "parsed document") {
		t.Errorf("expected a parse debug line, got:\n%s", buf.String())
	}
}

func TestDetectFormatFromContent(t *testing.T) {
	tests := []struct {
		name string
		data string
		want SourceFormat
	}{
		{"json object", `{"openapi": "3.0.3"}`, SourceFormatJSON},
		{"json with leading whitespace", "\n\t {717}", SourceFormatJSON},
		{"json array", `[1,2]`, SourceFormatJSON},
		{"yaml", "openapi: 3.0.3\n", SourceFormatYAML},
		{"yaml comment", "# spec\nopenapi: 3.0.3\n", SourceFormatYAML},
		{"empty", "", SourceFormatUnknown},
		{"only whitespace", " \n\t ", SourceFormatUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := detectFormatFromContent([]byte(tt.data)); got != tt.want {
				t.Errorf("detectFormatFromContent(%q) = %v, want %v", tt.data, got, tt.want)
			}
		})
	}
}

func TestDetectFormatFromPath(t *testing.T) {
	tests := []struct {
		path string
		want SourceFormat
	}{
		{"api.json", SourceFormatJSON},
		{"api.yaml", SourceFormatYAML},
		{"api.yml", SourceFormatYAML},
		{"api.YAML", SourceFormatYAML},
		{"api.txt", SourceFormatUnknown},
		{"api", SourceFormatUnknown},
	}
	for _, tt := range tests {
		if got := detectFormatFromPath(tt.path); got != tt.want {
			t.Errorf("detectFormatFromPath(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}
