// Package config loads the docview CLI configuration.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/aretw0/docview/pkg/query"
)

// Config is the CLI configuration.
type Config struct {
	Watch   WatchConfig   `toml:"watch" json:"watch" yaml:"watch"`
	Logging LoggingConfig `toml:"logging" json:"logging" yaml:"logging"`
}

// WatchConfig configures `docview watch`.
type WatchConfig struct {
	Dir                    string          `toml:"dir" json:"dir" yaml:"dir"`
	Collection             string          `toml:"collection" json:"collection" yaml:"collection"`
	Pattern                string          `toml:"pattern" json:"pattern" yaml:"pattern"`
	OrderBy                []query.OrderBy `toml:"order_by" json:"order_by" yaml:"order_by"`
	Debounce               Duration        `toml:"debounce" json:"debounce" yaml:"debounce"`
	IncludeMetadataChanges bool            `toml:"include_metadata_changes" json:"include_metadata_changes" yaml:"include_metadata_changes"`
}

// LoggingConfig configures the slog handler.
type LoggingConfig struct {
	Level  string `toml:"level" json:"level" yaml:"level"`
	Format string `toml:"format" json:"format" yaml:"format"` // text or json
}

// Duration is a time.Duration written as a string ("50ms").
type Duration struct {
	time.Duration
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		Watch: WatchConfig{
			Dir:      ".",
			Debounce: Duration{50 * time.Millisecond},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// ApplyEnvOverrides overrides fields from DOCVIEW_* environment variables.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("DOCVIEW_DIR"); v != "" {
		c.Watch.Dir = v
	}
	if v := os.Getenv("DOCVIEW_PATTERN"); v != "" {
		c.Watch.Pattern = v
	}
	if v := os.Getenv("DOCVIEW_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("DOCVIEW_LOG_FORMAT"); v != "" {
		c.Logging.Format = v
	}
}

// Validate reports every invalid field.
func (c *Config) Validate() error {
	var errs []error
	if c.Watch.Collection != "" {
		if _, err := query.Parse(c.Watch.Collection); err != nil {
			errs = append(errs, fmt.Errorf("watch.collection: %w", err))
		}
	}
	for i, ob := range c.Watch.OrderBy {
		if ob.Field == "" {
			errs = append(errs, fmt.Errorf("watch.order_by[%d]: field is required", i))
		}
		if _, err := query.ParseDirection(string(ob.Direction)); err != nil {
			errs = append(errs, fmt.Errorf("watch.order_by[%d]: %w", i, err))
		}
	}
	if c.Watch.Debounce.Duration < 0 {
		errs = append(errs, fmt.Errorf("watch.debounce: must not be negative"))
	}
	if _, err := c.Logging.SlogLevel(); err != nil {
		errs = append(errs, err)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "", "text", "json":
	default:
		errs = append(errs, fmt.Errorf("logging.format: unknown format %q", c.Logging.Format))
	}
	return errors.Join(errs...)
}

// Query builds the watch query, or the zero query when no collection is set.
func (w WatchConfig) Query() (query.Query, error) {
	if w.Collection == "" {
		return query.Query{}, nil
	}
	q, err := query.Parse(w.Collection)
	if err != nil {
		return query.Query{}, err
	}
	for _, ob := range w.OrderBy {
		dir, err := query.ParseDirection(string(ob.Direction))
		if err != nil {
			return query.Query{}, err
		}
		q = q.OrderBy(ob.Field, dir)
	}
	return q, nil
}

// SlogLevel maps the configured level name to a slog.Level.
func (l LoggingConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	name := l.Level
	if name == "" {
		name = "info"
	}
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return slog.LevelInfo, fmt.Errorf("logging.level: %w", err)
	}
	return level, nil
}
