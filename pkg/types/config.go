package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "sitegen/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// ScholarConfig holds settings for the metrics fetch stage.
type ScholarConfig struct {
	HTTPConfig `yaml:",inline"`

	// AuthorID is the Google Scholar author identifier (e.g. "gvb7W0IAAAAJ").
	AuthorID string `json:"author_id" yaml:"author_id"`

	// TopN is the number of most-cited publications to record (default 5,
	// capped at MaxTopPublications).
	TopN int `json:"top_n" yaml:"top_n"`

	// MetricsFile is the path of the scholar_metrics.json snapshot.
	MetricsFile string `json:"metrics_file" yaml:"metrics_file"`
}

// LattesConfig holds settings for the CV parse stage.
type LattesConfig struct {
	// DataFile is the path of the lattes_data.json document.
	DataFile string `json:"data_file" yaml:"data_file"`
}

// RenderConfig holds settings for the page generation stage.
type RenderConfig struct {
	// MetricsFile is the scholar metrics snapshot read by the home page
	// widget.
	MetricsFile string `json:"metrics_file" yaml:"metrics_file"`

	// DataFile is the Lattes data document read by the publications and
	// projects pages.
	DataFile string `json:"data_file" yaml:"data_file"`

	// TranslationsFile is the curated Portuguese-to-English project
	// translation table (YAML).
	TranslationsFile string `json:"translations_file" yaml:"translations_file"`

	// TeachingFile is the course history CSV for the teaching page.
	TeachingFile string `json:"teaching_file,omitempty" yaml:"teaching_file,omitempty"`

	// SiteDir is the directory holding the hand-authored pages; generated
	// pages are written alongside them.
	SiteDir string `json:"site_dir" yaml:"site_dir"`
}

// DeployConfig holds settings for snapshot assembly and the mirrored upload.
type DeployConfig struct {
	// Host and Port locate the SFTP endpoint.
	Host string `json:"host" yaml:"host"`
	Port int    `json:"port" yaml:"port"`

	// User is the SSH login name.
	User string `json:"user" yaml:"user"`

	// KeyFile is the path of the private key used for authentication. When
	// empty, the "deploy-password" secret is used instead.
	KeyFile string `json:"key_file,omitempty" yaml:"key_file,omitempty"`

	// RemotePath is the directory on the remote host that mirrors the
	// snapshot.
	RemotePath string `json:"remote_path" yaml:"remote_path"`

	// SiteDir is the local site tree to snapshot.
	SiteDir string `json:"site_dir" yaml:"site_dir"`

	// StagingDir is where the deployment snapshot is assembled.
	StagingDir string `json:"staging_dir" yaml:"staging_dir"`

	// DeleteExtraneous removes remote files absent from the snapshot.
	DeleteExtraneous bool `json:"delete_extraneous" yaml:"delete_extraneous"`

	// HistoryDB is the path of the SQLite deploy history ledger.
	HistoryDB string `json:"history_db,omitempty" yaml:"history_db,omitempty"`

	// DialTimeout bounds the SSH connection attempt.
	DialTimeout time.Duration `json:"dial_timeout" yaml:"dial_timeout"`
}

// PipelineConfig groups all stage configurations for the pipeline.
type PipelineConfig struct {
	Scholar ScholarConfig `json:"scholar" yaml:"scholar"`
	Lattes  LattesConfig  `json:"lattes" yaml:"lattes"`
	Render  RenderConfig  `json:"render" yaml:"render"`
	Deploy  DeployConfig  `json:"deploy" yaml:"deploy"`
}
