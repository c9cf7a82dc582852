package form

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/fadilmartias/jobapply/internal/model"
)

var (
	ErrInvalidTransition = errors.New("invalid step transition")
	ErrUnknownField      = errors.New("unknown field")
	ErrInvalidValue      = errors.New("invalid value")
)

// FieldErrors maps a field path such as "workDetails[0].workCompany" to its message.
type FieldErrors map[string]string

func (e FieldErrors) Paths() []string {
	paths := make([]string, 0, len(e))
	for p := range e {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Visible keeps the errors whose field, or the list holding it, has been touched.
func (e FieldErrors) Visible(touched map[string]bool) FieldErrors {
	out := FieldErrors{}
	for path, msg := range e {
		if touched[path] || touched[listRoot(path)] {
			out[path] = msg
		}
	}
	return out
}

func (e FieldErrors) merge(other FieldErrors) FieldErrors {
	if e == nil {
		e = FieldErrors{}
	}
	for k, v := range other {
		if _, ok := e[k]; !ok {
			e[k] = v
		}
	}
	return e
}

type ValidationError struct {
	Step   model.Step
	Errors FieldErrors
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s step has %d invalid field(s): %s", e.Step, len(e.Errors), strings.Join(e.Errors.Paths(), ", "))
}

func listRoot(path string) string {
	if i := strings.IndexByte(path, '['); i >= 0 {
		return path[:i]
	}
	return path
}
