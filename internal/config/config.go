package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"

	"github.com/bethropolis/stylo/internal/logger"
)

// Config holds the application's combined configuration.
type Config struct {
	Logger logger.Config `toml:"logger"`
	Editor EditorConfig  `toml:"editor"`
}

// EditorConfig holds the editing-core settings.
type EditorConfig struct {
	// TextParagraphs are the tags recognised as text-bearing paragraphs.
	TextParagraphs []string `toml:"text_paragraphs"`
	// DefaultParagraph is the tag used when a paragraph has to be synthesized.
	DefaultParagraph string `toml:"default_paragraph"`
	// AutoFormat enables the markdown-like input transformers.
	AutoFormat bool `toml:"autoformat"`
	// UndoLimit caps the undo stack; 0 keeps everything.
	UndoLimit int `toml:"undo_limit"`
	// Sanitize runs loaded markup through the sanitizer policy.
	Sanitize        bool `toml:"sanitize"`
	SystemClipboard bool `toml:"system_clipboard"`
}

// IsTextParagraph reports whether tag may hold typed text.
func (c EditorConfig) IsTextParagraph(tag string) bool {
	return slices.Contains(c.TextParagraphs, strings.ToLower(tag))
}

var (
	loadedConfig *Config
	loadOnce     sync.Once
	loadErr      error
)

// NewDefaultConfig creates a Config struct with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Logger: logger.NewConfig(),
		Editor: NewDefaultEditorConfig(),
	}
}

// NewDefaultEditorConfig returns the editor defaults.
func NewDefaultEditorConfig() EditorConfig {
	return EditorConfig{
		TextParagraphs:   slices.Clone(DefaultTextParagraphs),
		DefaultParagraph: DefaultParagraph,
		AutoFormat:       true,
		UndoLimit:        DefaultUndoLimit,
		Sanitize:         true,
		SystemClipboard:  SystemClipboard,
	}
}

// Load reads filePath over the defaults. A missing file is not an error.
func Load(filePath string) (*Config, error) {
	cfg := NewDefaultConfig()
	if filePath == "" {
		return cfg, nil
	}
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return cfg, nil
	} else if err != nil {
		return cfg, fmt.Errorf("error checking config file '%s': %w", filePath, err)
	}

	metadata, err := toml.DecodeFile(filePath, cfg)
	if err != nil {
		return NewDefaultConfig(), fmt.Errorf("failed to parse config file '%s': %w", filePath, err)
	}
	if undecoded := metadata.Undecoded(); len(undecoded) > 0 {
		logger.Warnf("Config file '%s': Unrecognized keys: %v", filePath, undecoded)
	}
	cfg.validate()
	return cfg, nil
}

// validate resets invalid values to defaults.
func (c *Config) validate() {
	defaults := NewDefaultConfig()

	var tags []string
	for _, tag := range c.Editor.TextParagraphs {
		if tag = strings.ToLower(strings.TrimSpace(tag)); tag != "" {
			tags = append(tags, tag)
		}
	}
	if len(tags) == 0 {
		tags = defaults.Editor.TextParagraphs
	}
	c.Editor.TextParagraphs = tags

	c.Editor.DefaultParagraph = strings.ToLower(strings.TrimSpace(c.Editor.DefaultParagraph))
	if c.Editor.DefaultParagraph == "" {
		c.Editor.DefaultParagraph = defaults.Editor.DefaultParagraph
	}
	if c.Editor.UndoLimit < 0 {
		c.Editor.UndoLimit = defaults.Editor.UndoLimit
	}
	if c.Logger.LogLevel == "" {
		c.Logger.LogLevel = defaults.Logger.LogLevel
	}
}

// DefaultPath returns ~/.config/stylo/config.toml, or "" when the user config
// directory is unknown.
func DefaultPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(configDir, AppName, DefaultConfigFileName)
}

// LoadConfig loads defaults, the file and flag overrides, once. It runs before
// the logger is initialized, so problems are returned rather than logged.
func LoadConfig(configFilePath string, flags *Flags) (*Config, error) {
	loadOnce.Do(func() {
		effectivePath := configFilePath
		if effectivePath == "" {
			effectivePath = DefaultPath()
		}

		cfg, err := Load(effectivePath)
		if err != nil {
			loadErr = err
		}
		if flags != nil {
			flags.ApplyOverrides(cfg)
		}
		cfg.validate()
		loadedConfig = cfg
	})
	return loadedConfig, loadErr
}

// Get returns the loaded application configuration. Panics if LoadConfig wasn't called.
func Get() *Config {
	if loadedConfig == nil {
		panic("config.Get() called before config.LoadConfig()")
	}
	return loadedConfig
}
