package recommender

import (
	"sort"
	"strings"

	"internship-recommender/internal/models"
)

// Filter returns records whose sector and location contain the given
// substrings, case-insensitively. Empty arguments match everything.
func (s *Snapshot) Filter(sector, location string) []models.InternshipRecord {
	sector = strings.ToLower(strings.TrimSpace(sector))
	location = strings.ToLower(strings.TrimSpace(location))

	out := make([]models.InternshipRecord, 0, len(s.Records))
	for _, r := range s.Records {
		if sector != "" && !strings.Contains(strings.ToLower(r.Sector), sector) {
			continue
		}
		if location != "" && !strings.Contains(strings.ToLower(r.Location), location) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// Sectors lists the distinct non-empty sectors, sorted.
func (s *Snapshot) Sectors() []string {
	return distinct(s.Records, func(r models.InternshipRecord) string { return r.Sector })
}

// Locations lists the distinct non-empty locations, sorted.
func (s *Snapshot) Locations() []string {
	return distinct(s.Records, func(r models.InternshipRecord) string { return r.Location })
}

func distinct(records []models.InternshipRecord, field func(models.InternshipRecord) string) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, r := range records {
		v := field(r)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
