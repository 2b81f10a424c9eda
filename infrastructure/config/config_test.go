package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "curator.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 0.3, cfg.Engine.SimilarityThreshold)
	assert.Equal(t, 10, cfg.Engine.ResultLimit)
	assert.Equal(t, 2, cfg.Engine.GraphMaxDepth)
	assert.Equal(t, 50, cfg.Engine.GraphMaxNodes)
	assert.Equal(t, "curator-content", cfg.AWS.DynamoDBTable)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeConfigFile(t, `
environment: production
log_level: warn
aws:
  region: eu-central-1
  dynamodb_table: curator-prod
  index_name: ContentTypeIndex
engine:
  similarity_threshold: 0.5
  result_limit: 25
  graph_max_depth: 3
  graph_max_nodes: 100
  batch_size: 20
  concurrency: 16
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Environment)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "eu-central-1", cfg.AWS.Region)
	assert.Equal(t, 0.5, cfg.Engine.SimilarityThreshold)
	assert.Equal(t, 25, cfg.Engine.ResultLimit)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfigFile(t, `
engine:
  similarity_threshold: 0.5
`)
	t.Setenv("SIMILARITY_THRESHOLD", "0.7")
	t.Setenv("DYNAMODB_TABLE", "curator-env")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 0.7, cfg.Engine.SimilarityThreshold)
	assert.Equal(t, "curator-env", cfg.AWS.DynamoDBTable)
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	path := writeConfigFile(t, `
engine:
  similarity_threshold: 1.5
`)
	_, err := Load(path)
	require.Error(t, err)

	path = writeConfigFile(t, `
log_level: loud
`)
	_, err = Load(path)
	require.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}
