package statsguru

import (
	"fmt"
	"sort"
	"strings"
)

// Class is Statsguru's match-format discriminator, passed as the `class`
// query parameter.
type Class int

const (
	ClassUnset      Class = 0
	ClassTest       Class = 1
	ClassODI        Class = 2
	ClassT20I       Class = 3
	ClassFirstClass Class = 4
	ClassListA      Class = 5
	ClassT20        Class = 6
)

// QuerySpec identifies one statistics table request: a statistics type
// (batting, bowling, fielding), an optional view and an optional match
// format class.
type QuerySpec struct {
	Type  string
	View  string
	Class Class
	Extra map[string]string
}

// Key is the stable category label for a spec, used for csv filenames,
// sheet names and skip reporting.
func (s QuerySpec) Key() string {
	view := s.View
	if view == "" {
		view = "none"
	}
	class := "none"
	if s.Class != ClassUnset {
		class = fmt.Sprintf("%d", s.Class)
	}
	return fmt.Sprintf("type=%s__view=%s__class=%s", s.Type, view, class)
}

// Path builds the player page path with Statsguru's semicolon-delimited
// query string. The site expects `class` first when present, then
// template=results, type and view.
func (s QuerySpec) Path(playerID int) string {
	var params []string
	if s.Class != ClassUnset {
		params = append(params, fmt.Sprintf("class=%d", s.Class))
	}
	params = append(params, "template=results")
	params = append(params, fmt.Sprintf("type=%s", s.Type))
	if s.View != "" {
		params = append(params, fmt.Sprintf("view=%s", s.View))
	}
	if len(s.Extra) > 0 {
		keys := make([]string, 0, len(s.Extra))
		for k := range s.Extra {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			params = append(params, fmt.Sprintf("%s=%s", k, s.Extra[k]))
		}
	}
	return fmt.Sprintf("/ci/engine/player/%d.html?%s", playerID, strings.Join(params, ";"))
}

var allClasses = []Class{ClassTest, ClassODI, ClassT20I, ClassFirstClass, ClassListA, ClassT20}

// DefaultSpecs enumerates the statistics tables worth trying for a
// player: the core result tables per format, the fielding dismissal
// summary, and a few aggregate views. Unsupported combinations yield a
// page with no data table, which the pipeline treats as "nothing here",
// so over-asking is cheap.
func DefaultSpecs() []QuerySpec {
	var specs []QuerySpec

	for _, c := range allClasses {
		specs = append(specs,
			QuerySpec{Type: "batting", Class: c, View: "innings"},
			QuerySpec{Type: "batting", Class: c, View: "results"},
			QuerySpec{Type: "bowling", Class: c, View: "innings"},
			QuerySpec{Type: "bowling", Class: c, View: "results"},
			QuerySpec{Type: "fielding", Class: c, View: "results"},
			QuerySpec{Type: "fielding", Class: c, View: "dismissal_summary"},
		)
	}

	for _, c := range allClasses {
		for _, v := range []string{"career", "match", "series"} {
			specs = append(specs,
				QuerySpec{Type: "batting", Class: c, View: v},
				QuerySpec{Type: "bowling", Class: c, View: v},
				QuerySpec{Type: "fielding", Class: c, View: v},
			)
		}
	}

	seen := map[string]bool{}
	uniq := specs[:0]
	for _, s := range specs {
		if seen[s.Key()] {
			continue
		}
		seen[s.Key()] = true
		uniq = append(uniq, s)
	}
	return uniq
}
