// Package config loads application configuration from an optional
// config.yaml with environment overrides. Secrets (OPENAI_API_KEY)
// only ever come from the environment.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// ServerConfig configures the HTTP API process.
type ServerConfig struct {
	Port string `mapstructure:"port"`
}

// QdrantConfig holds index store connection details.
type QdrantConfig struct {
	Host       string `mapstructure:"host"`
	Port       int    `mapstructure:"port"`
	Collection string `mapstructure:"collection"`
}

// EmbeddingConfig configures the embedding client.
type EmbeddingConfig struct {
	BatchSize int `mapstructure:"batch_size"`
}

// DataConfig names the fixed set of tabular knowledge sources.
type DataConfig struct {
	Services string `mapstructure:"services"`
	Aliases  string `mapstructure:"aliases"`
	FAQ      string `mapstructure:"faq"`
	Policies string `mapstructure:"policies"`
	Hours    string `mapstructure:"hours"`
	Staff    string `mapstructure:"staff"`
}

// TrainingConfig configures the classifier training job.
type TrainingConfig struct {
	Dataset  string `mapstructure:"dataset"`
	ModelDir string `mapstructure:"model_dir"`
}

// Config is the root configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Qdrant    QdrantConfig    `mapstructure:"qdrant"`
	Embedding EmbeddingConfig `mapstructure:"embedding"`
	Data      DataConfig      `mapstructure:"data"`
	Training  TrainingConfig  `mapstructure:"training"`
}

// Load reads config.yaml from the working directory when present and
// applies environment overrides (PORT, QDRANT_HOST, QDRANT_PORT).
// A missing file yields pure defaults.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetDefault("server.port", "8080")
	v.SetDefault("qdrant.host", "localhost")
	v.SetDefault("qdrant.port", 6334)
	v.SetDefault("qdrant.collection", "salon_kb")
	v.SetDefault("embedding.batch_size", 0) // 0 means the embedder default
	v.SetDefault("data.services", "services_full_with_desc.csv")
	v.SetDefault("data.aliases", "")
	v.SetDefault("data.faq", "salon_kb_faq.csv")
	v.SetDefault("data.policies", "policies.csv")
	v.SetDefault("data.hours", "salon_kb_hours.csv")
	v.SetDefault("data.staff", "salon_kb_staffs.csv")
	v.SetDefault("training.dataset", "semantic_variants_expanded.csv")
	v.SetDefault("training.model_dir", "classifier_models")

	v.AutomaticEnv()
	v.BindEnv("server.port", "PORT")
	v.BindEnv("qdrant.host", "QDRANT_HOST")
	v.BindEnv("qdrant.port", "QDRANT_PORT")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}
