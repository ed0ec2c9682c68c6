// internal/workers/recommendation/analyze-skill-gap/config.go
package analyzeskillgap

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
