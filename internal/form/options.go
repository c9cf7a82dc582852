package form

import "sort"

var (
	Genders         = []string{"Male", "Female", "Other"}
	MaritalStatuses = []string{"Single", "Married"}
	Skills          = []string{"Frontend", "Backend"}
	ReferralSources = []string{"Walk-In", "Referrals", "Newspaper Ad", "Facebook", "Twitter", "LinkedIn", "Other"}
	JobRoles        = []string{"Developer", "Designer", "Manager"}
)

// country -> state -> cities
var locations = map[string]map[string][]string{
	"USA": {
		"California": {"Los Angeles", "San Francisco"},
		"Texas":      {"Houston", "Dallas"},
	},
	"Canada": {
		"Ontario": {"Toronto", "Ottawa"},
		"Quebec":  {"Montreal", "Quebec City"},
	},
}

// Options lists every closed choice the form offers.
type Options struct {
	Genders         []string `json:"genders"`
	MaritalStatuses []string `json:"maritalStatuses"`
	Skills          []string `json:"skills"`
	ReferralSources []string `json:"referralSources"`
	JobRoles        []string `json:"jobRoles"`
	Countries       []string `json:"countries"`
}

func AllOptions() Options {
	return Options{
		Genders:         Genders,
		MaritalStatuses: MaritalStatuses,
		Skills:          Skills,
		ReferralSources: ReferralSources,
		JobRoles:        JobRoles,
		Countries:       Countries(),
	}
}

func Countries() []string {
	out := make([]string, 0, len(locations))
	for c := range locations {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

func States(country string) ([]string, bool) {
	states, ok := locations[country]
	if !ok {
		return nil, false
	}
	out := make([]string, 0, len(states))
	for s := range states {
		out = append(out, s)
	}
	sort.Strings(out)
	return out, true
}

func Cities(country, state string) ([]string, bool) {
	states, ok := locations[country]
	if !ok {
		return nil, false
	}
	cities, ok := states[state]
	if !ok {
		return nil, false
	}
	return append([]string(nil), cities...), true
}

func isReferralSource(s string) bool {
	return contains(ReferralSources, s)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
