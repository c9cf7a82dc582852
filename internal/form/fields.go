package form

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/fadilmartias/jobapply/internal/model"
)

type segment struct {
	name  string
	index int
}

// cascade order: a parent location must be applied before its children so a reset
// does not wipe a child set in the same batch.
var applyRank = map[string]int{
	"address.country": 0,
	"address.state":   1,
	"address.city":    2,
}

// ApplyFields sets every path in fields and returns the applied paths in application order.
// On error the aggregate may be partially modified; callers discard it.
func ApplyFields(app *model.Application, fields map[string]any) ([]string, error) {
	paths := make([]string, 0, len(fields))
	for p := range fields {
		paths = append(paths, p)
	}
	sort.Slice(paths, func(i, j int) bool {
		ri, ok := applyRank[paths[i]]
		if !ok {
			ri = len(applyRank)
		}
		rj, ok := applyRank[paths[j]]
		if !ok {
			rj = len(applyRank)
		}
		if ri != rj {
			return ri < rj
		}
		return paths[i] < paths[j]
	})
	for _, p := range paths {
		if err := SetField(app, p, fields[p]); err != nil {
			return nil, err
		}
	}
	return paths, nil
}

// SetField assigns value to the field addressed by path, e.g. "firstName", "address.city",
// "workDetails[1].workCompany" or "referredBy".
func SetField(app *model.Application, path string, value any) error {
	segs, err := parsePath(path)
	if err != nil {
		return err
	}
	target := reflect.ValueOf(app).Elem()
	for _, seg := range segs {
		f, ok := fieldByJSONName(target, seg.name)
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownField, path)
		}
		if seg.index >= 0 {
			if f.Kind() != reflect.Slice || f.Type().Elem().Kind() != reflect.Struct {
				return fmt.Errorf("%w: %s", ErrUnknownField, path)
			}
			if seg.index >= f.Len() {
				return fmt.Errorf("%s: %w", path, model.ErrIndexOutOfRange)
			}
			f = f.Index(seg.index)
		}
		target = f
	}

	previous := ""
	if target.Kind() == reflect.String {
		previous = target.String()
	}
	if err := assign(target, value); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if target.Kind() == reflect.String && target.String() != previous {
		resetDependents(app, path)
	}
	return nil
}

func resetDependents(app *model.Application, path string) {
	switch path {
	case "address.country":
		app.Address.State = ""
		app.Address.City = ""
	case "address.state":
		app.Address.City = ""
	}
}

func parsePath(path string) ([]segment, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty path", ErrUnknownField)
	}
	parts := strings.Split(path, ".")
	segs := make([]segment, 0, len(parts))
	for _, part := range parts {
		seg := segment{name: part, index: -1}
		if open := strings.IndexByte(part, '['); open >= 0 {
			if !strings.HasSuffix(part, "]") {
				return nil, fmt.Errorf("%w: %s", ErrUnknownField, path)
			}
			idx, err := strconv.Atoi(part[open+1 : len(part)-1])
			if err != nil || idx < 0 {
				return nil, fmt.Errorf("%w: %s", ErrUnknownField, path)
			}
			seg.name = part[:open]
			seg.index = idx
		}
		if seg.name == "" {
			return nil, fmt.Errorf("%w: %s", ErrUnknownField, path)
		}
		segs = append(segs, seg)
	}
	return segs, nil
}

func fieldByJSONName(v reflect.Value, name string) (reflect.Value, bool) {
	if v.Kind() != reflect.Struct {
		return reflect.Value{}, false
	}
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if sf.Anonymous {
			if f, ok := fieldByJSONName(v.Field(i), name); ok {
				return f, true
			}
			continue
		}
		if strings.SplitN(sf.Tag.Get("json"), ",", 2)[0] == name {
			return v.Field(i), true
		}
	}
	return reflect.Value{}, false
}

// Only plain text and multi-select fields are bindable; lists and documents have their own operations.
func assign(dst reflect.Value, value any) error {
	switch {
	case dst.Kind() == reflect.String:
		s, err := scalarString(value)
		if err != nil {
			return err
		}
		dst.SetString(strings.TrimSpace(s))
		return nil
	case dst.Kind() == reflect.Slice && dst.Type().Elem().Kind() == reflect.String:
		items, err := stringList(value)
		if err != nil {
			return err
		}
		dst.Set(reflect.ValueOf(items))
		return nil
	}
	return fmt.Errorf("%w: not a bindable field", ErrUnknownField)
}

func scalarString(value any) (string, error) {
	switch v := value.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case json.Number:
		return v.String(), nil
	case int:
		return strconv.Itoa(v), nil
	}
	return "", fmt.Errorf("%w: expected text, got %T", ErrInvalidValue, value)
}

// stringList normalises a multi-select: trimmed, non-empty, first occurrence wins.
func stringList(value any) ([]string, error) {
	var raw []string
	switch v := value.(type) {
	case nil:
	case []string:
		raw = v
	case []any:
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%w: expected a list of text, got %T", ErrInvalidValue, item)
			}
			raw = append(raw, s)
		}
	default:
		return nil, fmt.Errorf("%w: expected a list, got %T", ErrInvalidValue, value)
	}
	out := make([]string, 0, len(raw))
	seen := make(map[string]bool, len(raw))
	for _, s := range raw {
		s = strings.TrimSpace(s)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out, nil
}
