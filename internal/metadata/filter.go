// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package metadata

import (
	"regexp"
	"strings"
	"time"

	"github.com/pdiddy/keyword-dataset/pkg/types"
)

// DefaultCutoff is the first-version creation time a paper must be newer than.
var DefaultCutoff = time.Date(2020, time.January, 1, 6, 0, 0, 0, time.UTC)

// csCategory matches computer-science subject classes such as "cs.LG".
var csCategory = regexp.MustCompile(`^cs\.\w\w$`)

// Filter selects computer-science papers first submitted after Cutoff.
type Filter struct {
	Cutoff time.Time
}

// DefaultFilter returns a Filter with DefaultCutoff.
func DefaultFilter() Filter {
	return Filter{Cutoff: DefaultCutoff}
}

// Keep reports whether m belongs in the dataset. Records without an id,
// without versions, or with an unparseable first-version date are dropped.
func (f Filter) Keep(m *types.ArxivMetadata) bool {
	if m.ID == nil || *m.ID == "" || len(m.Versions) == 0 {
		return false
	}
	created, err := m.Versions[0].CreatedAt()
	if err != nil || !created.After(f.Cutoff) {
		return false
	}
	return IsComputerScience(m)
}

// IsComputerScience reports whether any space-separated category is a cs.XX class.
func IsComputerScience(m *types.ArxivMetadata) bool {
	if m.Categories == nil {
		return false
	}
	for _, c := range strings.Fields(*m.Categories) {
		if csCategory.MatchString(c) {
			return true
		}
	}
	return false
}
