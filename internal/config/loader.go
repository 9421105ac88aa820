package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadResult carries a loaded config and where it came from.
type LoadResult struct {
	Config *Config
	Path   string
	// Exists is false when the file was absent and defaults were used.
	Exists bool
}

// LoadFromPath strictly loads the rule file at path. An absent file yields
// the default store; a malformed or invalid file is an error.
func LoadFromPath(path string) (*LoadResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &LoadResult{Config: DefaultConfig(), Path: path}, nil
		}
		return nil, fmt.Errorf("%s: failed to read: %w", path, err)
	}

	cfg, doc, err := parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, attachPosition(err, path, doc)
	}
	return &LoadResult{Config: cfg, Path: path, Exists: true}, nil
}

// Load is the tolerant loader used at start-up. It always returns a usable
// store: a malformed file falls back to defaults and out-of-range opacities
// are clamped. The returned error, if any, describes what was recovered from
// and is meant to be logged.
func Load(path string) (*Config, error) {
	if strings.TrimSpace(path) == "" {
		p, err := DefaultConfigPath()
		if err != nil {
			return DefaultConfig(), err
		}
		path = p
	}

	res, err := LoadFromPath(path)
	if err == nil {
		return res.Config, nil
	}

	var verr *ValidationError
	if !errors.As(err, &verr) {
		return DefaultConfig(), err
	}

	data, readErr := os.ReadFile(path)
	if readErr != nil {
		return DefaultConfig(), err
	}
	cfg, _, parseErr := parse(data)
	if parseErr != nil {
		return DefaultConfig(), err
	}
	cfg.clamp()
	return cfg, err
}

// Parse decodes a rule document without validating it.
func Parse(data []byte) (*Config, error) {
	cfg, _, err := parse(data)
	return cfg, err
}

func parse(data []byte) (*Config, *yaml.Node, error) {
	cfg := DefaultConfig()
	var doc yaml.Node
	dec := yaml.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return cfg, nil, nil
		}
		return nil, nil, fmt.Errorf("failed to parse yaml: %w", err)
	}
	if err := doc.Decode(cfg); err != nil {
		return nil, nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if cfg.SpecificWindows == nil {
		cfg.SpecificWindows = []WindowRule{}
	}
	return cfg, &doc, nil
}

func (c *Config) clamp() {
	if c.DefaultOpacity != nil {
		c.DefaultOpacity = Int(clampOpacity(*c.DefaultOpacity))
	}
	for i := range c.SpecificWindows {
		c.SpecificWindows[i].Opacity = clampOpacity(c.SpecificWindows[i].Opacity)
	}
	switch strings.ToLower(c.Logging.Level) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		c.Logging.Level = ""
	}
	if c.Logging.MaxSizeMB < 0 {
		c.Logging.MaxSizeMB = 0
	}
	if c.Logging.MaxFiles < 0 {
		c.Logging.MaxFiles = 0
	}
}

// attachPosition adds the file position of the failing YAML path.
func attachPosition(err error, file string, doc *yaml.Node) error {
	var verr *ValidationError
	if !errors.As(err, &verr) {
		return err
	}
	out := *verr
	out.File = file
	if node := lookup(doc, verr.Path); node != nil {
		out.Line = node.Line
		out.Column = node.Column
	}
	return &out
}

// lookup resolves a path like "specific_windows[2].opacity" in a document.
func lookup(doc *yaml.Node, path string) *yaml.Node {
	if doc == nil {
		return nil
	}
	node := doc
	if node.Kind == yaml.DocumentNode && len(node.Content) > 0 {
		node = node.Content[0]
	}
	for _, part := range strings.Split(path, ".") {
		key, index := part, -1
		if open := strings.IndexByte(part, '['); open >= 0 && strings.HasSuffix(part, "]") {
			key = part[:open]
			if _, err := fmt.Sscanf(part[open:], "[%d]", &index); err != nil {
				return nil
			}
		}
		node = mappingValue(node, key)
		if node == nil {
			return nil
		}
		if index >= 0 {
			if node.Kind != yaml.SequenceNode || index >= len(node.Content) {
				return nil
			}
			node = node.Content[index]
		}
	}
	return node
}

func mappingValue(node *yaml.Node, key string) *yaml.Node {
	if node == nil || node.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return node.Content[i+1]
		}
	}
	return nil
}

// Marshal encodes the store as YAML.
func (c *Config) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return buf.Bytes(), nil
}

// SaveTo validates and writes the store to path. The file is replaced
// atomically so a failed write never leaves a truncated rule file.
func (c *Config) SaveTo(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	data, err := c.Marshal()
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".config-*.yaml")
	if err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write config file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write config file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace config file: %w", err)
	}
	return nil
}
