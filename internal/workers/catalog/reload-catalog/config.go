// internal/workers/catalog/reload-catalog/config.go
package reloadcatalog

import (
	"time"

	"internship-recommender/internal/common/config"
)

type Config struct {
	Timeout time.Duration
}

func LoadConfig(cfg *config.Config) *Config {
	return &Config{
		Timeout: config.GetDuration(config.GetWorkerConfig(cfg, TaskType).Timeout),
	}
}
