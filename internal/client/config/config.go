package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/dmitrijs2005/docanchor/internal/cryptox"
)

// Config holds runtime settings for the docanchor CLI.
//
// Units: sizes are bytes, durations are time.Duration, progress values are
// percentages.
type Config struct {
	ServerBaseURL  string
	UserID         string
	RequestTimeout time.Duration

	GeneralMaxSize  int64
	IdentityMaxSize int64
	StrictPDF       bool

	ProgressInterval    time.Duration
	ProgressStep        int
	GeneralProgressCap  int
	IdentityProgressCap int

	RefreshDelay       time.Duration
	RefreshMaxAttempts uint64
	RefreshBackoff     time.Duration

	ExplorerBaseURL string
	Network         string
	DigestAlgorithm string

	FreeDocumentLimit  int
	MaxParallelUploads int

	LogLevel  string
	LogFormat string
}

// LoadDefaults populates c with the values the hosted service expects.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "https://backend-hedera.onrender.com/api/documents"
	c.UserID = ""
	c.RequestTimeout = 0

	c.GeneralMaxSize = 25 << 20
	c.IdentityMaxSize = 10 << 20
	c.StrictPDF = false

	c.ProgressInterval = 200 * time.Millisecond
	c.ProgressStep = 10
	c.GeneralProgressCap = 50
	c.IdentityProgressCap = 90

	c.RefreshDelay = 2 * time.Second
	c.RefreshMaxAttempts = 5
	c.RefreshBackoff = 500 * time.Millisecond

	c.ExplorerBaseURL = "https://hashscan.io"
	c.Network = "testnet"
	c.DigestAlgorithm = string(cryptox.SHA256)

	c.FreeDocumentLimit = 3
	c.MaxParallelUploads = 0

	c.LogLevel = "info"
	c.LogFormat = "text"
}

// LoadConfig builds a Config from defaults, then the file at path (if any),
// then the environment. Later sources take precedence; command-line flags
// are applied on top by the caller.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if path != "" {
		if err := loadFile(cfg, path); err != nil {
			return nil, err
		}
	}
	applyEnv(cfg)

	return cfg, nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error

	if u, err := url.Parse(c.ServerBaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("server url %q is not an absolute URL", c.ServerBaseURL))
	}
	if c.GeneralMaxSize <= 0 || c.IdentityMaxSize <= 0 {
		errs = append(errs, errors.New("size limits must be positive"))
	}
	if c.ProgressStep <= 0 {
		errs = append(errs, errors.New("progress step must be positive"))
	}
	for name, v := range map[string]int{"general": c.GeneralProgressCap, "identity": c.IdentityProgressCap} {
		if v < 0 || v >= 100 {
			errs = append(errs, fmt.Errorf("%s progress cap %d must be in [0, 100)", name, v))
		}
	}
	if c.RefreshMaxAttempts == 0 {
		errs = append(errs, errors.New("refresh max attempts must be at least 1"))
	}
	if _, err := cryptox.ParseAlgorithm(c.DigestAlgorithm); err != nil {
		errs = append(errs, err)
	}
	if c.FreeDocumentLimit < 0 || c.MaxParallelUploads < 0 {
		errs = append(errs, errors.New("limits must not be negative"))
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log format %q must be text or json", c.LogFormat))
	}

	return errors.Join(errs...)
}
