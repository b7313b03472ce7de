// Package config loads the sambridge HCL configuration file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/sambridge/internal/rules"
	"github.com/lox/sambridge/internal/sequence"
)

// Config is the complete configuration
type Config struct {
	Server  ServerSettings
	Model   ModelSettings
	Bridge  BridgeSettings
	Rules   rules.Config
	Store   StoreSettings
	Journal JournalSettings
}

// ServerSettings configures the HTTP listener and logging
type ServerSettings struct {
	Address   string `hcl:"address,optional"`
	Port      int    `hcl:"port,optional"`
	LogLevel  string `hcl:"log_level,optional"`
	LogFormat string `hcl:"log_format,optional"`
}

// ModelSettings locates the model artifact
type ModelSettings struct {
	Path    string `hcl:"path,optional"`
	Enabled *bool  `hcl:"enabled,optional"`
}

// IsEnabled reports whether the primary tier should be offered at all
func (m ModelSettings) IsEnabled() bool {
	return m.Enabled == nil || *m.Enabled
}

// BridgeSettings tunes the fallback chains
type BridgeSettings struct {
	TierTimeout      string `hcl:"tier_timeout,optional"`
	SequenceStrategy string `hcl:"sequence_strategy,optional"`
}

// Timeout parses TierTimeout; an empty value means no timeout
func (b BridgeSettings) Timeout() (time.Duration, error) {
	if b.TierTimeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(b.TierTimeout)
	if err != nil {
		return 0, fmt.Errorf("tier_timeout: %w", err)
	}
	if d < 0 {
		return 0, fmt.Errorf("tier_timeout must not be negative: %s", b.TierTimeout)
	}
	return d, nil
}

// Strategy returns the configured sequence strategy
func (b BridgeSettings) Strategy() sequence.Strategy {
	return sequence.ParseStrategy(b.SequenceStrategy)
}

// StoreSettings locates the decision database; an empty path disables it
type StoreSettings struct {
	Path string `hcl:"path,optional"`
}

// JournalSettings locates the JSONL journal; an empty path disables it
type JournalSettings struct {
	Path string `hcl:"path,optional"`
}

// rulesBlock overrides individual rule thresholds
type rulesBlock struct {
	MinTotalCards       *int     `hcl:"min_total_cards,optional"`
	MaxWeakCombos       *int     `hcl:"max_weak_combos,optional"`
	MinStrongCombos     *int     `hcl:"min_strong_combos,optional"`
	MinAvgStrength      *float64 `hcl:"min_avg_strength,optional"`
	MinUnbeatableCombos *int     `hcl:"min_unbeatable_combos,optional"`
}

// file mirrors the HCL layout; every block is optional
type file struct {
	Server  *ServerSettings  `hcl:"server,block"`
	Model   *ModelSettings   `hcl:"model,block"`
	Bridge  *BridgeSettings  `hcl:"bridge,block"`
	Rules   *rulesBlock      `hcl:"rules,block"`
	Store   *StoreSettings   `hcl:"store,block"`
	Journal *JournalSettings `hcl:"journal,block"`
}

// Default returns the built-in configuration
func Default() *Config {
	enabled := true
	return &Config{
		Server: ServerSettings{
			Address:   "localhost",
			Port:      8080,
			LogLevel:  "info",
			LogFormat: "text",
		},
		Model: ModelSettings{
			Path:    "models/sam_model.json",
			Enabled: &enabled,
		},
		Bridge: BridgeSettings{
			TierTimeout:      "2s",
			SequenceStrategy: string(sequence.BaoSamOptimal),
		},
		Rules:   rules.DefaultConfig(),
		Journal: JournalSettings{Path: "bao_sam_data.jsonl"},
	}
}

// Load reads filename. A missing file yields the defaults; values absent from
// the file keep their default.
func Load(filename string) (*Config, error) {
	cfg := Default()
	if filename == "" {
		return cfg, nil
	}
	if _, err := os.Stat(filename); errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}

	parser := hclparse.NewParser()
	f, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var raw file
	if diags := gohcl.DecodeBody(f.Body, nil, &raw); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	cfg.merge(raw)
	return cfg, nil
}

func (c *Config) merge(raw file) {
	if s := raw.Server; s != nil {
		setString(&c.Server.Address, s.Address)
		setString(&c.Server.LogLevel, s.LogLevel)
		setString(&c.Server.LogFormat, s.LogFormat)
		if s.Port != 0 {
			c.Server.Port = s.Port
		}
	}
	if m := raw.Model; m != nil {
		setString(&c.Model.Path, m.Path)
		if m.Enabled != nil {
			c.Model.Enabled = m.Enabled
		}
	}
	if b := raw.Bridge; b != nil {
		setString(&c.Bridge.TierTimeout, b.TierTimeout)
		setString(&c.Bridge.SequenceStrategy, b.SequenceStrategy)
	}
	if r := raw.Rules; r != nil {
		setValue(&c.Rules.MinTotalCards, r.MinTotalCards)
		setValue(&c.Rules.MaxWeakCombos, r.MaxWeakCombos)
		setValue(&c.Rules.MinStrongCombos, r.MinStrongCombos)
		setValue(&c.Rules.MinAvgStrength, r.MinAvgStrength)
		setValue(&c.Rules.MinUnbeatableCombos, r.MinUnbeatableCombos)
	}
	if s := raw.Store; s != nil {
		c.Store.Path = s.Path
	}
	if j := raw.Journal; j != nil {
		c.Journal.Path = j.Path
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setValue[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

// Validate checks the configuration
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	if _, err := log.ParseLevel(c.Server.LogLevel); err != nil {
		return fmt.Errorf("invalid log level %q", c.Server.LogLevel)
	}
	switch c.Server.LogFormat {
	case "text", "json", "logfmt":
	default:
		return fmt.Errorf("invalid log format %q", c.Server.LogFormat)
	}
	if c.Model.IsEnabled() && c.Model.Path == "" {
		return fmt.Errorf("model path is required when the model is enabled")
	}
	if _, err := c.Bridge.Timeout(); err != nil {
		return err
	}
	if !sequence.Strategy(c.Bridge.SequenceStrategy).Valid() {
		return fmt.Errorf("invalid sequence strategy %q", c.Bridge.SequenceStrategy)
	}
	if c.Rules.MinAvgStrength < 0 || c.Rules.MinAvgStrength > 1 {
		return fmt.Errorf("rules: min_avg_strength must be in [0, 1], got %v", c.Rules.MinAvgStrength)
	}
	if c.Rules.MinTotalCards < 0 || c.Rules.MaxWeakCombos < 0 || c.Rules.MinStrongCombos < 0 || c.Rules.MinUnbeatableCombos < 0 {
		return fmt.Errorf("rules: counts must not be negative")
	}
	return nil
}

// Addr returns the listen address
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}
