package main

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/ga-ut/gh-db/pkg/core"
)

// buildPayload merges a JSON object from --data with --set assignments.
// Assignments win over keys from --data.
func buildPayload(raw string, sets []string) (core.Data, error) {
	data := core.Data{}
	if raw != "" {
		decoded, err := core.DecodeBody(raw, false)
		if err != nil {
			return nil, fmt.Errorf("invalid --data: %w", err)
		}
		data = decoded
	}
	for _, s := range sets {
		key, value, ok := strings.Cut(s, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --set %q: expected key=value", s)
		}
		data[key] = parseValue(value)
	}
	return data, nil
}

// parseValue maps "null" to nil and JSON number literals to a number.
// Anything else, including NaN, Inf and 1_000, stays a string.
func parseValue(s string) any {
	if s == "null" {
		return nil
	}
	if isNumberLiteral(s) {
		if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsInf(f, 0) {
			return f
		}
	}
	return s
}

func isNumberLiteral(s string) bool {
	if s == "" || (s[0] != '-' && (s[0] < '0' || s[0] > '9')) {
		return false
	}
	return json.Valid([]byte(s))
}

// project keeps the keys matching any of the glob patterns. "id" is always kept.
func project(m map[string]any, patterns []string) (map[string]any, error) {
	if len(patterns) == 0 {
		return m, nil
	}
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid --only pattern %q: %w", p, doublestar.ErrBadPattern)
		}
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		if k == "id" {
			out[k] = v
			continue
		}
		for _, p := range patterns {
			if ok, _ := doublestar.Match(p, k); ok {
				out[k] = v
				break
			}
		}
	}
	return out, nil
}

// render writes v as indented JSON, or YAML when asYAML is set.
func render(w io.Writer, v any, asYAML bool) error {
	if asYAML {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(plainNumbers(v)); err != nil {
			return err
		}
		return enc.Close()
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// plainNumbers converts json.Number values so YAML prints them unquoted.
func plainNumbers(v any) any {
	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = plainNumbers(e)
		}
		return out
	case []map[string]any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = plainNumbers(e)
		}
		return out
	}
	return v
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q: %w", s, core.ErrInvalidID)
	}
	return id, nil
}
