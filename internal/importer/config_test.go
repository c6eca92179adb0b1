package importer

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civicatlas/artcatalog/internal/common"
)

func TestNewConfig(t *testing.T) {
	defaults := common.ImportConfig{
		BatchSize:            100,
		AutoApprove:          false,
		SkipDuplicates:       true,
		CreateArtists:        true,
		DuplicateCheckRadius: 500,
		ImporterIdentity:     "art-import",
		StorageTimeout:       10 * time.Second,
	}

	config := NewConfig(defaults, "portland open data")

	assert.Equal(t, 100, config.BatchSize)
	assert.Equal(t, "portland open data", config.SourceName)
	assert.Equal(t, "art-import", config.ImporterIdentity)
	assert.True(t, config.SkipDuplicates)
	assert.Equal(t, 10*time.Second, config.StorageTimeout)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{
			name:   "valid",
			mutate: func(c *Config) {},
		},
		{
			name:    "zero batch size",
			mutate:  func(c *Config) { c.BatchSize = 0 },
			wantErr: "batch size",
		},
		{
			name:    "negative batch size",
			mutate:  func(c *Config) { c.BatchSize = -5 },
			wantErr: "batch size",
		},
		{
			name:    "zero radius with duplicate skipping on",
			mutate:  func(c *Config) { c.DuplicateCheckRadius = 0 },
			wantErr: "radius",
		},
		{
			name: "zero radius allowed when duplicate skipping is off",
			mutate: func(c *Config) {
				c.SkipDuplicates = false
				c.DuplicateCheckRadius = 0
			},
		},
		{
			name:    "blank importer identity",
			mutate:  func(c *Config) { c.ImporterIdentity = "  " },
			wantErr: "importer identity",
		},
		{
			name:    "blank source name",
			mutate:  func(c *Config) { c.SourceName = "" },
			wantErr: "source name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := testConfig()
			tt.mutate(&config)

			err := config.Validate()

			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, common.ErrConfiguration)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadJobFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "job.toml")
	content := `
source_name = "osm summer load"
source_type = "osm-import"
records_path = "nodes.json"
batch_size = 25
auto_approve = true
duplicate_check_radius_m = 250.0
storage_timeout_seconds = 30
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	job, err := LoadJobFile(path)

	require.NoError(t, err)
	assert.Equal(t, "osm summer load", job.SourceName)
	assert.Equal(t, "osm-import", job.SourceType)
	assert.Equal(t, "nodes.json", job.RecordsPath)
	require.NotNil(t, job.BatchSize)
	assert.Equal(t, 25, *job.BatchSize)
	require.NotNil(t, job.AutoApprove)
	assert.True(t, *job.AutoApprove)
	require.NotNil(t, job.DuplicateCheckRadiusM)
	assert.InDelta(t, 250.0, *job.DuplicateCheckRadiusM, 1e-9)
	assert.Nil(t, job.DryRun)
	assert.Nil(t, job.SkipDuplicates)
}

func TestLoadJobFileMissing(t *testing.T) {
	_, err := LoadJobFile(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}

func TestLoadJobFileMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "job.toml")
	require.NoError(t, os.WriteFile(path, []byte("batch_size = [not toml"), 0o600))

	_, err := LoadJobFile(path)
	assert.ErrorContains(t, err, "parse job file")
}

func TestJobFileApply(t *testing.T) {
	base := testConfig()

	batch := 10
	dryRun := true
	radius := 120.0
	timeout := 5
	job := &JobFile{
		SourceName:            "city archive",
		BatchSize:             &batch,
		DryRun:                &dryRun,
		DuplicateCheckRadiusM: &radius,
		StorageTimeoutSeconds: &timeout,
	}

	applied := job.Apply(base)

	assert.Equal(t, "city archive", applied.SourceName)
	assert.Equal(t, 10, applied.BatchSize)
	assert.True(t, applied.DryRun)
	assert.InDelta(t, 120.0, applied.DuplicateCheckRadius, 1e-9)
	assert.Equal(t, 5*time.Second, applied.StorageTimeout)

	// fields the job file never set keep the base values
	assert.Equal(t, base.ImporterIdentity, applied.ImporterIdentity)
	assert.Equal(t, base.AutoApprove, applied.AutoApprove)
	assert.Equal(t, base.SkipDuplicates, applied.SkipDuplicates)
	assert.Equal(t, base.CreateArtists, applied.CreateArtists)
}

func TestJobFileApplyEmptyKeepsBase(t *testing.T) {
	base := testConfig()
	applied := (&JobFile{}).Apply(base)
	assert.Equal(t, base, applied)
}
