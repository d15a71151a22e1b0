// Copyright 2026 The Docgraph Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides configuration loading for docgraph stores.
//
// Configuration is loaded from a single file specified by:
//   - DOCGRAPH_CONFIG environment variable, or
//   - --config flag passed to the command
//
// There are no fallbacks or automatic discovery. This ensures
// deterministic, auditable configuration with no hidden overrides. The
// file is YAML; a .json or .jsonc file (JSON extended with comments and
// trailing commas) is also accepted, since YAML is a JSON superset once
// the comments are stripped.
//
// The default-permission table is configuration rather than a constant:
// the rule for a document whose whole prototype chain carries no
// applicable acl-* field varies by adopting system (some default new
// documents to private, some to world-readable). Load pins it down per
// deployment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/docgraph-foundation/docgraph/lib/acl"
)

// Config is the master configuration for a docgraph store.
type Config struct {
	// Permissions configures the default-permission table.
	Permissions PermissionsConfig `yaml:"permissions"`

	// Documents configures document-record behavior.
	Documents DocumentsConfig `yaml:"documents"`

	// Sync configures how incoming field deltas are applied.
	Sync SyncConfig `yaml:"sync"`
}

// PermissionsConfig is the default-permission table consulted when a
// document's prototype chain carries no applicable acl-* field.
type PermissionsConfig struct {
	// AuthorDefault is the effective level for the document's author.
	// Default: Admin.
	AuthorDefault acl.Level `yaml:"author_default"`

	// OtherDefault is the effective level for every other principal.
	// Default: View (read-only).
	OtherDefault acl.Level `yaml:"other_default"`

	// NewDocumentsPrivate marks freshly copied documents "acl-Public:
	// None" at creation, so nothing is shared until granted.
	// Default: false.
	NewDocumentsPrivate bool `yaml:"new_documents_private"`
}

// DocumentsConfig configures document-record behavior.
type DocumentsConfig struct {
	// LayoutKey is the field name that holds a document's layout when
	// the document does not override it. Default: "layout".
	LayoutKey string `yaml:"layout_key"`

	// CloneExclusions are field names never copied by the clone
	// engine, at any depth. A document can override the set with its
	// own cloneFieldFilter list field.
	// Default: [context, annotationOn, cloneOf].
	CloneExclusions []string `yaml:"clone_exclusions"`

	// PrototypeDepthLimit caps prototype-chain walks. A chain longer
	// than this is treated as cyclic. Default: 100.
	PrototypeDepthLimit int `yaml:"prototype_depth_limit"`
}

// SyncConfig configures how incoming field deltas are applied.
type SyncConfig struct {
	// PlaygroundFields are field names in optimistic-editing mode:
	// remote writes from other authors are deferred to the
	// cached-updates map instead of applied immediately, and flushed
	// by an explicit RunCachedUpdate. Default: empty.
	PlaygroundFields []string `yaml:"playground_fields"`
}

// Default returns the default configuration. These defaults make a
// usable in-process store without any config file; Load layers the
// deployment's file on top.
func Default() *Config {
	return &Config{
		Permissions: PermissionsConfig{
			AuthorDefault: acl.Admin,
			OtherDefault:  acl.ReadOnly,
		},
		Documents: DocumentsConfig{
			LayoutKey:           "layout",
			CloneExclusions:     []string{"context", "annotationOn", "cloneOf"},
			PrototypeDepthLimit: 100,
		},
	}
}

// Load loads configuration from the DOCGRAPH_CONFIG environment
// variable. There are no fallbacks: if DOCGRAPH_CONFIG is not set,
// this fails. Use Default for an in-process store with no file.
func Load() (*Config, error) {
	configPath := os.Getenv("DOCGRAPH_CONFIG")
	if configPath == "" {
		return nil, fmt.Errorf("DOCGRAPH_CONFIG environment variable not set; " +
			"set it to the path of your docgraph.yaml config file, or use --config flag")
	}
	return LoadFile(configPath)
}

// LoadFile loads configuration from a specific file path, layered over
// Default. The config file is the single source of truth; environment
// variables do not override its values.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		data = jsonc.ToJSON(data)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Permissions.AuthorDefault == acl.Unset {
		return fmt.Errorf("permissions.author_default must not be Unset")
	}
	if c.Permissions.OtherDefault == acl.Unset {
		return fmt.Errorf("permissions.other_default must not be Unset")
	}
	if c.Documents.LayoutKey == "" {
		return fmt.Errorf("documents.layout_key must not be empty")
	}
	if c.Documents.PrototypeDepthLimit <= 0 {
		return fmt.Errorf("documents.prototype_depth_limit must be positive, got %d", c.Documents.PrototypeDepthLimit)
	}
	return nil
}
