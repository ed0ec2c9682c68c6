package catalog

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"internship-recommender/internal/models"
)

// textCleaner strips markup that crawled postings carry into the database
// stores, so tags and entities never reach the vectorizer.
type textCleaner struct {
	policy *bluemonday.Policy
}

func newTextCleaner() *textCleaner {
	policy := bluemonday.StrictPolicy()
	policy.AddSpaceWhenStrippingTag(true)
	return &textCleaner{policy: policy}
}

// Clean returns s as plain text. Values without markup are returned as is.
func (c *textCleaner) Clean(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return s
	}
	text := html.UnescapeString(c.policy.Sanitize(s))
	return strings.Join(strings.Fields(text), " ")
}

func (c *textCleaner) CleanRecord(r models.InternshipRecord) models.InternshipRecord {
	r.Title = c.Clean(r.Title)
	r.Company = c.Clean(r.Company)
	r.Location = c.Clean(r.Location)
	r.Sector = c.Clean(r.Sector)
	r.SkillsRequired = c.Clean(r.SkillsRequired)
	r.DifficultyLevel = c.Clean(r.DifficultyLevel)
	return r
}
