// internal/workers/catalog/reload-catalog/models.go
package reloadcatalog

// Input carries no fields; the catalog source comes from configuration.
type Input struct{}

type Output struct {
	Source          string `json:"source"`
	RecordCount     int    `json:"recordCount"`
	VocabularySize  int    `json:"vocabularySize"`
	CatalogVersion  string `json:"catalogVersion"`
	PreviousVersion string `json:"previousVersion,omitempty"`
	Changed         bool   `json:"changed"`
	LoadedAt        string `json:"loadedAt"`
}
