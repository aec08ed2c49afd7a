// Package ingest reads business snapshots from JSON, YAML, CSV and XLSX
// files and exports assessment summaries.
package ingest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/bizhealth/internal/model"
)

var validate = validator.New()

// ReadFile reads snapshots from path, choosing the format by extension.
func ReadFile(ctx context.Context, path string) ([]model.Business, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".xlsx" {
		return ReadXLSX(path, XLSXOptions{})
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "ingest: open %s", path)
	}
	defer f.Close() //nolint:errcheck

	switch ext {
	case ".json":
		return ReadJSON(f)
	case ".yaml", ".yml":
		return ReadYAML(f)
	case ".csv":
		return ReadCSV(ctx, f)
	default:
		return nil, eris.Errorf("ingest: unsupported file type %q", ext)
	}
}

// ReadJSON accepts a single object, an array of objects, or an object with
// a "businesses" array.
func ReadJSON(r io.Reader) ([]model.Business, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, eris.Wrap(err, "ingest: decode json")
	}
	return fromDocument(doc)
}

// ReadYAML accepts the same shapes as ReadJSON.
func ReadYAML(r io.Reader) ([]model.Business, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, eris.Wrap(err, "ingest: read yaml")
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, eris.Wrap(err, "ingest: decode yaml")
	}
	return fromDocument(doc)
}

func fromDocument(doc any) ([]model.Business, error) {
	var items []any
	switch v := doc.(type) {
	case nil:
		return nil, nil
	case []any:
		items = v
	default:
		m, ok := asMap(v)
		if !ok {
			return nil, eris.Errorf("ingest: expected object or array, got %T", doc)
		}
		if list, ok := m["businesses"].([]any); ok {
			items = list
		} else {
			items = []any{m}
		}
	}

	out := make([]model.Business, 0, len(items))
	for i, item := range items {
		m, ok := asMap(item)
		if !ok {
			return nil, eris.Errorf("ingest: record %d: expected object, got %T", i+1, item)
		}
		var b model.Business
		for k, v := range m {
			if err := setField(&b, k, stringify(v)); err != nil {
				return nil, eris.Wrapf(err, "ingest: record %d", i+1)
			}
		}
		if err := check(b, i+1); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

// fromRows maps a header row plus data rows onto snapshots. Blank rows are
// skipped. Row numbers in errors are 1-based and include the header.
func fromRows(header []string, rows [][]string) ([]model.Business, error) {
	var out []model.Business
	for i, row := range rows {
		if blank(row) {
			continue
		}
		var b model.Business
		for j, cell := range row {
			if j >= len(header) {
				break
			}
			if err := setField(&b, header[j], cell); err != nil {
				return nil, eris.Wrapf(err, "ingest: row %d", i+2)
			}
		}
		if err := check(b, i+2); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

func check(b model.Business, n int) error {
	if err := validate.Struct(b); err != nil {
		return eris.Wrapf(err, "ingest: record %d is invalid", n)
	}
	return nil
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			out[fmt.Sprint(k)] = val
		}
		return out, true
	}
	return nil, false
}

func stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case json.Number:
		return x.String()
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	case time.Time:
		return x.Format("2006-01-02")
	case []any:
		parts := make([]string, 0, len(x))
		for _, p := range x {
			parts = append(parts, stringify(p))
		}
		return strings.Join(parts, ";")
	default:
		return fmt.Sprint(x)
	}
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
