package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/aryankumar/probectl/internal/util"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    Format
		wantErr bool
	}{
		{input: "", want: FormatTable},
		{input: "table", want: FormatTable},
		{input: "JSON", want: FormatJSON},
		{input: " yaml ", want: FormatYAML},
		{input: "xml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if tt.wantErr {
				if !errors.Is(err, util.ErrInvalidConfig) {
					t.Errorf("expected ErrInvalidConfig, got %v", err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, %v; want %q", tt.input, got, err, tt.want)
			}
		})
	}
}

func TestNewFormatter(t *testing.T) {
	tests := []struct {
		format Format
		check  func(Formatter) bool
	}{
		{FormatTable, func(f Formatter) bool { _, ok := f.(*TableFormatter); return ok }},
		{FormatJSON, func(f Formatter) bool { _, ok := f.(*JSONFormatter); return ok }},
		{FormatYAML, func(f Formatter) bool { _, ok := f.(*YAMLFormatter); return ok }},
		{Format("unknown"), func(f Formatter) bool { _, ok := f.(*TableFormatter); return ok }},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			if f := NewFormatter(tt.format); !tt.check(f) {
				t.Errorf("NewFormatter(%q) returned %T", tt.format, f)
			}
		})
	}
}

func TestOptions(t *testing.T) {
	f := NewFormatter(FormatTable, WithNoColor(true), WithNoHeaders(true), WithWide(true)).(*TableFormatter)
	if !f.options.NoColor || !f.options.NoHeaders || !f.options.Wide {
		t.Errorf("options not applied: %+v", f.options)
	}
}

func TestTableFormatter_FormatOutcomes(t *testing.T) {
	tests := []struct {
		name        string
		opts        *Options
		contains    []string
		notContains []string
	}{
		{
			name:        "default",
			opts:        &Options{NoColor: true},
			contains:    []string{"PROBE", "STATUS", "RETRIES", "DURATION", "network :: dns", "FATAL", "2s", "Summary: 2 succeeded, 2 failed"},
			notContains: []string{"MESSAGE", "connection refused"},
		},
		{
			name:        "wide shows the first message line",
			opts:        &Options{NoColor: true, Wide: true},
			contains:    []string{"MESSAGE", "connection refused", "timeout"},
			notContains: []string{"stack"},
		},
		{
			name:        "no headers",
			opts:        &Options{NoColor: true, NoHeaders: true},
			contains:    []string{"db :: ping"},
			notContains: []string{"PROBE"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := NewTableFormatter(tt.opts).FormatOutcomes(&buf, sampleOutcomes()); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			out := buf.String()
			for _, s := range tt.contains {
				if !strings.Contains(out, s) {
					t.Errorf("output missing %q:\n%s", s, out)
				}
			}
			for _, s := range tt.notContains {
				if strings.Contains(out, s) {
					t.Errorf("output should not contain %q:\n%s", s, out)
				}
			}
		})
	}
}

func TestTableFormatter_Empty(t *testing.T) {
	var buf bytes.Buffer
	_ = NewTableFormatter(nil).FormatOutcomes(&buf, nil)
	if strings.TrimSpace(buf.String()) != "No probes" {
		t.Errorf("output = %q", buf.String())
	}
}

func TestTableFormatter_Format(t *testing.T) {
	tests := []struct {
		name     string
		data     interface{}
		contains []string
	}{
		{
			name:     "map data",
			data:     map[string]interface{}{"name": "test", "value": 123},
			contains: []string{"KEY", "VALUE", "name", "test", "123"},
		},
		{
			name: "slice of maps",
			data: []map[string]interface{}{
				{"probe": "a :: b", "type": "dns"},
				{"probe": "a :: c", "type": "http"},
			},
			contains: []string{"PROBE", "TYPE", "a :: b", "http"},
		},
		{
			name:     "string data",
			data:     "simple string",
			contains: []string{"simple string"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := NewTableFormatter(&Options{NoColor: true}).Format(&buf, tt.data); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			for _, s := range tt.contains {
				if !strings.Contains(buf.String(), s) {
					t.Errorf("output missing %q:\n%s", s, buf.String())
				}
			}
		})
	}
}

func TestTableFormatter_SliceColumnsAreSorted(t *testing.T) {
	var buf bytes.Buffer
	data := []map[string]interface{}{{"zeta": 1, "alpha": 2, "mid": 3}}
	_ = NewTableFormatter(&Options{NoColor: true}).Format(&buf, data)

	header := strings.SplitN(buf.String(), "\n", 2)[0]
	a, m, z := strings.Index(header, "ALPHA"), strings.Index(header, "MID"), strings.Index(header, "ZETA")
	if !(a >= 0 && a < m && m < z) {
		t.Errorf("columns not sorted: %q", header)
	}
}

func TestJSONFormatter_FormatOutcomes(t *testing.T) {
	var buf bytes.Buffer
	if err := NewJSONFormatter(nil).FormatOutcomes(&buf, sampleOutcomes()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var doc reportDoc
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}
	if doc.Summary.Total != 4 || doc.Summary.Failed != 2 || doc.Summary.Success != 50 {
		t.Errorf("unexpected summary %+v", doc.Summary)
	}
	if len(doc.Probes) != 4 {
		t.Fatalf("expected 4 probes, got %d", len(doc.Probes))
	}
	api := doc.Probes[1]
	if api.Name != "network :: api" || api.Status != "OK" || api.Retries != 2 || api.Duration != "2s" {
		t.Errorf("unexpected probe %+v", api)
	}
	if !strings.Contains(buf.String(), "\n  \"summary\"") {
		t.Errorf("expected two-space indentation:\n%s", buf.String())
	}
}

func TestYAMLFormatter_FormatOutcomes(t *testing.T) {
	var buf bytes.Buffer
	if err := NewYAMLFormatter(nil).FormatOutcomes(&buf, sampleOutcomes()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var doc reportDoc
	if err := yaml.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("invalid YAML: %v\n%s", err, buf.String())
	}
	if doc.Summary.Succeeded != 2 {
		t.Errorf("unexpected summary %+v", doc.Summary)
	}
	if doc.Probes[2].Status != "FATAL" || !strings.HasPrefix(doc.Probes[2].Message, "connection refused") {
		t.Errorf("unexpected probe %+v", doc.Probes[2])
	}
	if !strings.Contains(buf.String(), "status: FATAL") {
		t.Errorf("expected status labels in YAML:\n%s", buf.String())
	}
}
