package model

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Draft is the server-side form state of one applicant session.
type Draft struct {
	ID        uuid.UUID       `json:"id"`
	Step      Step            `json:"step"`
	Values    Application     `json:"values"`
	Touched   map[string]bool `json:"touched"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

func NewDraft(now time.Time) *Draft {
	return &Draft{
		ID:        uuid.New(),
		Step:      FirstStep,
		Values:    NewApplication(),
		Touched:   map[string]bool{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (d *Draft) Touch(paths ...string) {
	if d.Touched == nil {
		d.Touched = map[string]bool{}
	}
	for _, p := range paths {
		d.Touched[p] = true
	}
}

func (d *Draft) IsTouched(path string) bool {
	return d.Touched[path]
}

func (d *Draft) TouchedPaths() []string {
	paths := make([]string, 0, len(d.Touched))
	for p := range d.Touched {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// ShiftTouched keeps touched paths aligned after entry removed was taken out of list.
func (d *Draft) ShiftTouched(list string, removed int) {
	prefix := list + "["
	shifted := make(map[string]bool, len(d.Touched))
	for path, v := range d.Touched {
		if !strings.HasPrefix(path, prefix) {
			shifted[path] = v
			continue
		}
		rest := path[len(prefix):]
		end := strings.IndexByte(rest, ']')
		if end < 0 {
			shifted[path] = v
			continue
		}
		idx, err := strconv.Atoi(rest[:end])
		if err != nil {
			shifted[path] = v
			continue
		}
		switch {
		case idx == removed:
			// dropped along with the entry
		case idx > removed:
			shifted[fmt.Sprintf("%s%d%s", prefix, idx-1, rest[end:])] = v
		default:
			shifted[path] = v
		}
	}
	d.Touched = shifted
}
