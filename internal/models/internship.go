// internal/models/internship.go
package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

const DefaultDifficultyLevel = "Medium"

// ID is an internship key. Catalog sources and workflow variables carry it
// either as a JSON string or as a JSON number, so both decode to the same value.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("internship id must be a string or number: %w", err)
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string {
	return string(id)
}

// InternshipRecord is one catalog entry. Field tags follow the column names of
// the catalog sources (CSV header, table columns, document fields).
type InternshipRecord struct {
	ID              ID      `json:"id"`
	Title           string  `json:"title"`
	Company         string  `json:"company"`
	Location        string  `json:"location"`
	Sector          string  `json:"sector"`
	SkillsRequired  string  `json:"skills_required"`
	Stipend         float64 `json:"stipend"`
	DurationMonths  int     `json:"duration_months"`
	RemoteAvailable bool    `json:"remote_available"`
	DifficultyLevel string  `json:"difficulty_level"`
}

// CombinedText joins the text fields used for similarity matching.
func (r InternshipRecord) CombinedText() string {
	return strings.Join([]string{r.Title, r.Company, r.Location, r.Sector, r.SkillsRequired}, " ")
}

// WithDefaults fills fields that sources may leave empty.
func (r InternshipRecord) WithDefaults() InternshipRecord {
	if strings.TrimSpace(r.DifficultyLevel) == "" {
		r.DifficultyLevel = DefaultDifficultyLevel
	}
	return r
}
