package config

// Config represents the full application configuration.
type Config struct {
	GitLab        GitLabConfig        `yaml:"gitlab"`
	Git           GitConfig           `yaml:"git"`
	Store         StoreConfig         `yaml:"store"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// GitLabConfig configures the glab CLI collaborator.
type GitLabConfig struct {
	// Binary is the glab executable to invoke.
	Binary string `yaml:"binary"`

	// Repo is the GitLab project path (group/project) passed to glab via -R.
	// When empty, the project is detected from the local git remote, and glab
	// falls back to its own detection if that fails too.
	Repo string `yaml:"repo"`
}

type GitConfig struct {
	RepositoryDir string `yaml:"repositoryDir"`
}

// StoreConfig configures the posted-comment ledger.
// When enabled, comments already posted in a previous run against the same
// MR are skipped instead of duplicated.
type StoreConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// ObservabilityConfig configures logging.
type ObservabilityConfig struct {
	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig configures diagnostic logging.
type LoggingConfig struct {
	Enabled bool   `yaml:"enabled"`
	Level   string `yaml:"level"`  // debug, info, error
	Format  string `yaml:"format"` // json, human
}
