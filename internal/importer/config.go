package importer

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/civicatlas/artcatalog/internal/common"
)

// Config controls one import session.
type Config struct {
	BatchSize            int
	AutoApprove          bool
	DuplicateCheckRadius float64
	ImporterIdentity     string
	DryRun               bool
	SourceName           string
	SkipDuplicates       bool
	CreateArtists        bool
	StorageTimeout       time.Duration
}

// NewConfig seeds a session config from the application defaults.
func NewConfig(defaults common.ImportConfig, sourceName string) Config {
	return Config{
		BatchSize:            defaults.BatchSize,
		AutoApprove:          defaults.AutoApprove,
		DuplicateCheckRadius: defaults.DuplicateCheckRadius,
		ImporterIdentity:     defaults.ImporterIdentity,
		SourceName:           sourceName,
		SkipDuplicates:       defaults.SkipDuplicates,
		CreateArtists:        defaults.CreateArtists,
		StorageTimeout:       defaults.StorageTimeout,
	}
}

// Validate reports the first fatal configuration problem. A session must
// never touch a record with an invalid config.
func (c Config) Validate() error {
	if c.BatchSize <= 0 {
		return common.NewConfigurationError("batch size must be positive")
	}
	if c.SkipDuplicates && c.DuplicateCheckRadius <= 0 {
		return common.NewConfigurationError("duplicate check radius must be positive when duplicate skipping is on")
	}
	if strings.TrimSpace(c.ImporterIdentity) == "" {
		return common.NewConfigurationError("importer identity is required")
	}
	if strings.TrimSpace(c.SourceName) == "" {
		return common.NewConfigurationError("source name is required")
	}
	return nil
}

// JobFile is the TOML shape of a saved import job. Pointer fields
// distinguish "not set" from an explicit zero.
type JobFile struct {
	SourceName            string   `toml:"source_name"`
	SourceType            string   `toml:"source_type"`
	RecordsPath           string   `toml:"records_path"`
	ImporterIdentity      string   `toml:"importer_identity"`
	BatchSize             *int     `toml:"batch_size"`
	AutoApprove           *bool    `toml:"auto_approve"`
	DryRun                *bool    `toml:"dry_run"`
	SkipDuplicates        *bool    `toml:"skip_duplicates"`
	CreateArtists         *bool    `toml:"create_artists"`
	DuplicateCheckRadiusM *float64 `toml:"duplicate_check_radius_m"`
	StorageTimeoutSeconds *int     `toml:"storage_timeout_seconds"`
}

// LoadJobFile reads a TOML job description from path.
func LoadJobFile(path string) (*JobFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open job file: %w", err)
	}
	defer f.Close()

	var job JobFile
	if err := toml.NewDecoder(f).Decode(&job); err != nil {
		return nil, fmt.Errorf("parse job file: %w", err)
	}
	return &job, nil
}

// Apply overlays the job file onto a config. Unset fields keep their
// current values.
func (j *JobFile) Apply(c Config) Config {
	if j.SourceName != "" {
		c.SourceName = j.SourceName
	}
	if j.ImporterIdentity != "" {
		c.ImporterIdentity = j.ImporterIdentity
	}
	if j.BatchSize != nil {
		c.BatchSize = *j.BatchSize
	}
	if j.AutoApprove != nil {
		c.AutoApprove = *j.AutoApprove
	}
	if j.DryRun != nil {
		c.DryRun = *j.DryRun
	}
	if j.SkipDuplicates != nil {
		c.SkipDuplicates = *j.SkipDuplicates
	}
	if j.CreateArtists != nil {
		c.CreateArtists = *j.CreateArtists
	}
	if j.DuplicateCheckRadiusM != nil {
		c.DuplicateCheckRadius = *j.DuplicateCheckRadiusM
	}
	if j.StorageTimeoutSeconds != nil {
		c.StorageTimeout = time.Duration(*j.StorageTimeoutSeconds) * time.Second
	}
	return c
}
