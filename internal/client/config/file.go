package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dmitrijs2005/docanchor/internal/timex"
	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"
)

// fileConfig is the on-disk shape. Pointer fields distinguish "absent" from
// zero so a partial file only overrides what it names.
type fileConfig struct {
	ServerURL      *string         `json:"server_url" yaml:"server_url"`
	UserID         *string         `json:"user_id" yaml:"user_id"`
	RequestTimeout *timex.Duration `json:"request_timeout" yaml:"request_timeout"`

	GeneralMaxSize  *ByteSize `json:"general_max_size" yaml:"general_max_size"`
	IdentityMaxSize *ByteSize `json:"identity_max_size" yaml:"identity_max_size"`
	StrictPDF       *bool     `json:"strict_pdf" yaml:"strict_pdf"`

	ProgressInterval    *timex.Duration `json:"progress_interval" yaml:"progress_interval"`
	ProgressStep        *int            `json:"progress_step" yaml:"progress_step"`
	GeneralProgressCap  *int            `json:"general_progress_cap" yaml:"general_progress_cap"`
	IdentityProgressCap *int            `json:"identity_progress_cap" yaml:"identity_progress_cap"`

	RefreshDelay       *timex.Duration `json:"refresh_delay" yaml:"refresh_delay"`
	RefreshMaxAttempts *uint64         `json:"refresh_max_attempts" yaml:"refresh_max_attempts"`
	RefreshBackoff     *timex.Duration `json:"refresh_backoff" yaml:"refresh_backoff"`

	ExplorerBaseURL *string `json:"explorer_base_url" yaml:"explorer_base_url"`
	Network         *string `json:"network" yaml:"network"`
	DigestAlgorithm *string `json:"digest_algorithm" yaml:"digest_algorithm"`

	FreeDocumentLimit  *int `json:"free_document_limit" yaml:"free_document_limit"`
	MaxParallelUploads *int `json:"max_parallel_uploads" yaml:"max_parallel_uploads"`

	LogLevel  *string `json:"log_level" yaml:"log_level"`
	LogFormat *string `json:"log_format" yaml:"log_format"`
}

// loadFile overlays cfg with the file at path. The format follows the
// extension: .yaml/.yml is YAML, anything else JSON.
func loadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	var fc fileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		err = json.Unmarshal(data, &fc)
	}
	if err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	fc.apply(cfg)
	return nil
}

func (fc *fileConfig) apply(cfg *Config) {
	set(&cfg.ServerBaseURL, fc.ServerURL)
	set(&cfg.UserID, fc.UserID)
	setDuration(&cfg.RequestTimeout, fc.RequestTimeout)

	if fc.GeneralMaxSize != nil {
		cfg.GeneralMaxSize = int64(*fc.GeneralMaxSize)
	}
	if fc.IdentityMaxSize != nil {
		cfg.IdentityMaxSize = int64(*fc.IdentityMaxSize)
	}
	set(&cfg.StrictPDF, fc.StrictPDF)

	setDuration(&cfg.ProgressInterval, fc.ProgressInterval)
	set(&cfg.ProgressStep, fc.ProgressStep)
	set(&cfg.GeneralProgressCap, fc.GeneralProgressCap)
	set(&cfg.IdentityProgressCap, fc.IdentityProgressCap)

	setDuration(&cfg.RefreshDelay, fc.RefreshDelay)
	set(&cfg.RefreshMaxAttempts, fc.RefreshMaxAttempts)
	setDuration(&cfg.RefreshBackoff, fc.RefreshBackoff)

	set(&cfg.ExplorerBaseURL, fc.ExplorerBaseURL)
	set(&cfg.Network, fc.Network)
	set(&cfg.DigestAlgorithm, fc.DigestAlgorithm)

	set(&cfg.FreeDocumentLimit, fc.FreeDocumentLimit)
	set(&cfg.MaxParallelUploads, fc.MaxParallelUploads)

	set(&cfg.LogLevel, fc.LogLevel)
	set(&cfg.LogFormat, fc.LogFormat)
}

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

func setDuration(dst *time.Duration, src *timex.Duration) {
	if src != nil {
		*dst = src.Duration
	}
}

// ByteSize accepts either a byte count or a human string such as "25 MiB".
type ByteSize int64

func (b *ByteSize) UnmarshalJSON(data []byte) error {
	var n int64
	if err := json.Unmarshal(data, &n); err == nil {
		*b = ByteSize(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("size must be a number or a string: %w", err)
	}
	return b.parse(s)
}

func (b *ByteSize) UnmarshalYAML(value *yaml.Node) error {
	var n int64
	if err := value.Decode(&n); err == nil {
		*b = ByteSize(n)
		return nil
	}
	return b.parse(value.Value)
}

func (b *ByteSize) parse(s string) error {
	n, err := humanize.ParseBytes(s)
	if err != nil {
		return fmt.Errorf("invalid size %q: %w", s, err)
	}
	*b = ByteSize(n)
	return nil
}
