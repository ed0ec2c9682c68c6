// internal/workers/recommendation/recommend-internships/config.go
package recommendinternships

import (
	"time"

	"internship-recommender/internal/common/config"
)

type Config struct {
	Timeout time.Duration
}

func LoadConfig(cfg *config.Config) *Config {
	wc := config.GetWorkerConfig(cfg, TaskType)
	return &Config{
		Timeout: config.GetDuration(wc.Timeout),
	}
}
