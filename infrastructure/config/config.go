// Package config loads application configuration from an optional YAML
// file with environment variable overrides on top.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var validate = validator.New()

// EngineConfig holds the relationship engine tunables
type EngineConfig struct {
	// SimilarityThreshold is the minimum composite score for a relationship
	SimilarityThreshold float64 `yaml:"similarity_threshold" validate:"gte=0,lte=1"`
	// ResultLimit caps related-content results per query
	ResultLimit int `yaml:"result_limit" validate:"gte=1,lte=100"`
	// GraphMaxDepth bounds graph traversal depth
	GraphMaxDepth int `yaml:"graph_max_depth" validate:"gte=1,lte=5"`
	// GraphMaxNodes bounds graph size
	GraphMaxNodes int `yaml:"graph_max_nodes" validate:"gte=1,lte=500"`
	// BatchSize is the number of items processed concurrently per batch chunk
	BatchSize int `yaml:"batch_size" validate:"gte=1,lte=100"`
	// Concurrency bounds candidate scoring parallelism
	Concurrency int `yaml:"concurrency" validate:"gte=1,lte=64"`
}

// AWSConfig holds DynamoDB connection settings
type AWSConfig struct {
	Region        string `yaml:"region" validate:"required"`
	DynamoDBTable string `yaml:"dynamodb_table" validate:"required"`
	IndexName     string `yaml:"index_name" validate:"required"`
	// Endpoint overrides the DynamoDB endpoint, used for local development
	Endpoint string `yaml:"endpoint"`
}

// Config holds all application configuration
type Config struct {
	Environment string `yaml:"environment" validate:"oneof=development staging production"`
	LogLevel    string `yaml:"log_level" validate:"oneof=debug info warn error"`

	AWS    AWSConfig    `yaml:"aws"`
	Engine EngineConfig `yaml:"engine"`

	EnableMetrics bool `yaml:"enable_metrics"`
	EnableTracing bool `yaml:"enable_tracing"`
}

// DefaultConfig returns the configuration used when no file or
// environment overrides exist
func DefaultConfig() *Config {
	return &Config{
		Environment: "development",
		LogLevel:    "info",
		AWS: AWSConfig{
			Region:        "us-west-2",
			DynamoDBTable: "curator-content",
			IndexName:     "ContentTypeIndex",
		},
		Engine: EngineConfig{
			SimilarityThreshold: 0.3,
			ResultLimit:         10,
			GraphMaxDepth:       2,
			GraphMaxNodes:       50,
			BatchSize:           10,
			Concurrency:         8,
		},
		EnableMetrics: true,
		EnableTracing: false,
	}
}

// Load builds the configuration: defaults, then the YAML file at path
// (skipped when path is empty), then environment variables on top.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	cfg.applyEnv()

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Environment = getEnv("ENVIRONMENT", c.Environment)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)

	c.AWS.Region = getEnv("AWS_REGION", c.AWS.Region)
	c.AWS.DynamoDBTable = getEnv("DYNAMODB_TABLE", c.AWS.DynamoDBTable)
	c.AWS.IndexName = getEnv("INDEX_NAME", c.AWS.IndexName)
	c.AWS.Endpoint = getEnv("DYNAMODB_ENDPOINT", c.AWS.Endpoint)

	c.Engine.SimilarityThreshold = getEnvFloat("SIMILARITY_THRESHOLD", c.Engine.SimilarityThreshold)
	c.Engine.ResultLimit = getEnvInt("RESULT_LIMIT", c.Engine.ResultLimit)
	c.Engine.GraphMaxDepth = getEnvInt("GRAPH_MAX_DEPTH", c.Engine.GraphMaxDepth)
	c.Engine.GraphMaxNodes = getEnvInt("GRAPH_MAX_NODES", c.Engine.GraphMaxNodes)
	c.Engine.BatchSize = getEnvInt("BATCH_SIZE", c.Engine.BatchSize)
	c.Engine.Concurrency = getEnvInt("CONCURRENCY", c.Engine.Concurrency)

	c.EnableMetrics = getEnvBool("ENABLE_METRICS", c.EnableMetrics)
	c.EnableTracing = getEnvBool("ENABLE_TRACING", c.EnableTracing)
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

// getEnvInt gets an integer environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvFloat gets a float environment variable with a default value
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}
