package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/rshade/pointsexport/internal/points"
)

// Top-level YAML keys.
const (
	keyChannelID        = "channel_id"
	keyCutoff           = "cutoff"
	keyAPI              = "api"
	keyOutput           = "output"
	keyLogging          = "logging"
	keyStreamElementsID = "streamelements_id"
	keyInfo             = "info"
)

// knownTopLevelKeys lists the YAML keys Load understands, including the legacy layout.
//
//nolint:gochecknoglobals // Compile-time constant lookup table.
var knownTopLevelKeys = map[string]bool{
	keyChannelID:        true,
	keyCutoff:           true,
	keyAPI:              true,
	keyOutput:           true,
	keyLogging:          true,
	keyStreamElementsID: true,
	keyInfo:             true,
}

// fileConfig is the on-disk shape. It accepts the legacy layout
//
//	info:
//	  streamelements_id: abc
//	  cutoff: 500
//
// alongside the flat channel_id / cutoff keys.
type fileConfig struct {
	Config `yaml:",inline"`

	StreamElementsID string      `yaml:"streamelements_id"`
	Info             *legacyInfo `yaml:"info"`
}

type legacyInfo struct {
	StreamElementsID string  `yaml:"streamelements_id"`
	Cutoff           *uint64 `yaml:"cutoff"`
}

// LoadResult is a loaded configuration plus non-fatal findings.
type LoadResult struct {
	Config *Config
	Path   string
	// Warnings lists unknown top-level keys and similar findings.
	Warnings []string
}

// Load reads path, applies environment overrides from lookup and validates the result.
// A missing or unreadable file is a points.KindIO error; bad content is points.KindConfig.
func Load(path string, lookup func(string) (string, bool)) (*LoadResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, points.NewError(points.KindIO, "read config "+path, err)
	}

	res, err := Parse(data, lookup)
	if err != nil {
		return nil, points.NewError(points.KindConfig, "parse config "+path, err)
	}
	res.Path = path
	return res, nil
}

// Parse decodes YAML content onto Default(), applies environment overrides and validates.
func Parse(data []byte, lookup func(string) (string, bool)) (*LoadResult, error) {
	fc := fileConfig{Config: *Default()}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&fc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}

	warnings, err := unknownKeys(data)
	if err != nil {
		return nil, err
	}

	cfg := fc.Config
	normalizeLegacy(&cfg, &fc)
	cfg.ApplyEnv(lookup)

	if err = cfg.Validate(); err != nil {
		return nil, err
	}
	return &LoadResult{Config: &cfg, Warnings: warnings}, nil
}

// normalizeLegacy folds streamelements_id and info.* into the flat fields.
// Flat keys win when both are present.
func normalizeLegacy(cfg *Config, fc *fileConfig) {
	if cfg.ChannelID == "" {
		cfg.ChannelID = fc.StreamElementsID
	}
	if fc.Info == nil {
		return
	}
	if cfg.ChannelID == "" {
		cfg.ChannelID = fc.Info.StreamElementsID
	}
	if cfg.Cutoff == nil {
		cfg.Cutoff = fc.Info.Cutoff
	}
}

// unknownKeys reports top-level keys Load does not understand, sorted.
func unknownKeys(data []byte) ([]string, error) {
	var overlay map[string]interface{}
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}

	var warnings []string
	for key := range overlay {
		if !knownTopLevelKeys[key] {
			warnings = append(warnings, fmt.Sprintf("unknown config key %q ignored", key))
		}
	}
	sort.Strings(warnings)
	return warnings, nil
}

// ResolvePath picks the config file: flagValue, then POINTSEXPORT_CONFIG, then DefaultPath.
func ResolvePath(flagValue string, lookup func(string) (string, bool)) string {
	if flagValue != "" {
		return flagValue
	}
	if lookup == nil {
		lookup = os.LookupEnv
	}
	if v, ok := lookup(EnvConfigPath); ok && v != "" {
		return v
	}
	return DefaultPath
}
