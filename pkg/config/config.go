/*
Package config manages TOML config for DecimaServe.
*/
package config

import (
	"os"
	"path/filepath"

	"github.com/bastiangx/decimaserve/internal/utils"
	"github.com/bastiangx/decimaserve/pkg/scheme"
	"github.com/charmbracelet/log"
)

// Config holds the entire config structure
type Config struct {
	Form  FormConfig  `toml:"form"`
	Rhyme RhymeConfig `toml:"rhyme"`
	Store StoreConfig `toml:"store"`
	CLI   CliConfig   `toml:"cli"`
}

// FormConfig describes the poem shape.
type FormConfig struct {
	Scheme          string `toml:"scheme"`
	Slots           int    `toml:"slots"`
	TargetSyllables int    `toml:"target_syllables"`
}

// RhymeConfig holds suggestion limits and lexicon sources.
type RhymeConfig struct {
	GroupLimit     int    `toml:"group_limit"`
	LastWordLimit  int    `toml:"last_word_limit"`
	MinAnchorLen   int    `toml:"min_anchor_len"`
	LexiconFile    string `toml:"lexicon_file"`
	DictionaryFile string `toml:"dictionary_file"`
	CacheSize      int    `toml:"cache_size"`
}

// StoreConfig selects where saved compositions live.
type StoreConfig struct {
	Backend   string `toml:"backend"`
	Path      string `toml:"path"`
	Namespace string `toml:"namespace"`
}

// CliConfig holds cli interface options.
type CliConfig struct {
	ShowGroups bool `toml:"show_groups"`
	ShowLinks  bool `toml:"show_links"`
}

// GetConfigDir returns the config directory with fallback priority:
// 1. ~/.config/
// 2. ~/Library/Application Support/ (macOS)
// 3. Current executable dir
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Errorf("Failed to get home directory: %v", err)
		execDir, execErr := utils.GetExecutableDir()
		if execErr != nil {
			return "", execErr
		}
		return execDir, nil
	}
	primaryPath := filepath.Join(homeDir, ".config", "decimaserve")
	if result := utils.CheckDirStatus(primaryPath); result.Writable {
		return primaryPath, nil
	}
	macOSPath := filepath.Join(homeDir, "Library", "Application Support", "decimaserve")
	if result := utils.CheckDirStatus(macOSPath); result.Writable {
		return macOSPath, nil
	}
	execDir, err := utils.GetExecutableDir()
	if err != nil {
		log.Errorf("Failed to get executable directory: %v", err)
		return "", err
	}
	return execDir, nil
}

// GetDefaultConfigPath returns the default path for config.toml
func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}

// LoadConfigWithPriority loads config with priority:
// 1. Custom path from -config flag
// 2. Default path: [UserConfigDir]/decimaserve/config.toml
// 3. Builtin defaults
func LoadConfigWithPriority(customConfigPath string) (*Config, string, error) {
	if customConfigPath != "" {
		if _, statErr := os.Stat(customConfigPath); statErr == nil {
			config, err := LoadConfig(customConfigPath)
			if err != nil {
				log.Warnf("Failed to load custom config from %s: %v. Trying default path...", customConfigPath, err)
			} else {
				log.Debugf("Loaded config from custom path: %s", customConfigPath)
				return config, customConfigPath, nil
			}
		} else {
			log.Warnf("Custom config file not found at %s: %v. Trying default path...", customConfigPath, statErr)
		}
	}
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		log.Warnf("Failed to determine default config path: %v. Using built-in defaults...", err)
		return DefaultConfig(), "", nil
	}

	config, err := InitConfig(defaultPath)
	if err != nil {
		log.Warnf("Failed to load/create config at default path %s: %v. Using builtin defaults...", defaultPath, err)
		return DefaultConfig(), "", nil
	}
	log.Debugf("Loaded config from default path: %s", defaultPath)
	return config, defaultPath, nil
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Form: FormConfig{
			Scheme:          string(scheme.Decima),
			Slots:           scheme.Slots,
			TargetSyllables: 8,
		},
		Rhyme: RhymeConfig{
			GroupLimit:    5,
			LastWordLimit: 8,
			MinAnchorLen:  3,
			CacheSize:     512,
		},
		Store: StoreConfig{
			Backend:   "file",
			Path:      "",
			Namespace: "saved_decimas",
		},
		CLI: CliConfig{
			ShowGroups: true,
			ShowLinks:  false,
		},
	}
}

// InitConfig loads config from file or creates default if missing
func InitConfig(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)

	if err := utils.EnsureDir(configDir); err != nil {
		log.Warnf("Failed to create config directory %s: %v. Using built-in defaults...", configDir, err)
		return DefaultConfig(), nil
	}

	if !utils.FileExists(configPath) {
		config := DefaultConfig()
		if err := SaveConfig(config, configPath); err != nil {
			log.Warnf("Failed to create default config file at %s: %v. Using built-in defaults...", configPath, err)
			return DefaultConfig(), nil
		}
		log.Debugf("Created default config file at: %s", configPath)
		return config, nil
	}

	config, err := LoadConfig(configPath)
	if err != nil {
		log.Warnf("Failed to load config from %s: %v. Using built-in defaults...", configPath, err)
		return DefaultConfig(), nil
	}
	return config, nil
}

// LoadConfig loads from a TOML file. An invalid [form] section is replaced
// by the default form.
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if err := utils.LoadTOMLFile(configPath, config); err != nil {
		return tryPartialParse(configPath)
	}
	config.sanitize()
	return config, nil
}

// tryPartialParse keeps every section that still parses
func tryPartialParse(configPath string) (*Config, error) {
	config := DefaultConfig()

	tempConfig, err := utils.ParseTOMLWithRecovery(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config, nil
	}

	if section, ok := utils.ExtractSection(tempConfig, "form"); ok {
		extractFormConfig(section, &config.Form)
	}
	if section, ok := utils.ExtractSection(tempConfig, "rhyme"); ok {
		extractRhymeConfig(section, &config.Rhyme)
	}
	if section, ok := utils.ExtractSection(tempConfig, "store"); ok {
		extractStoreConfig(section, &config.Store)
	}
	if section, ok := utils.ExtractSection(tempConfig, "cli"); ok {
		extractCliConfig(section, &config.CLI)
	}
	config.sanitize()
	return config, nil
}

// sanitize falls back to defaults for values the engine cannot use.
func (c *Config) sanitize() {
	def := DefaultConfig()
	if _, err := scheme.Parse(c.Form.Scheme, c.Form.Slots); err != nil {
		log.Warnf("Invalid form %q (%d slots): %v. Using the default form...", c.Form.Scheme, c.Form.Slots, err)
		c.Form = def.Form
	}
	if c.Form.TargetSyllables <= 0 {
		c.Form.TargetSyllables = def.Form.TargetSyllables
	}
	if c.Store.Namespace == "" {
		c.Store.Namespace = def.Store.Namespace
	}
}

func extractFormConfig(data map[string]any, form *FormConfig) {
	if val, ok := utils.ExtractString(data, "scheme"); ok {
		form.Scheme = val
	}
	if val, ok := utils.ExtractInt64(data, "slots"); ok {
		form.Slots = val
	}
	if val, ok := utils.ExtractInt64(data, "target_syllables"); ok {
		form.TargetSyllables = val
	}
}

func extractRhymeConfig(data map[string]any, rhyme *RhymeConfig) {
	if val, ok := utils.ExtractInt64(data, "group_limit"); ok {
		rhyme.GroupLimit = val
	}
	if val, ok := utils.ExtractInt64(data, "last_word_limit"); ok {
		rhyme.LastWordLimit = val
	}
	if val, ok := utils.ExtractInt64(data, "min_anchor_len"); ok {
		rhyme.MinAnchorLen = val
	}
	if val, ok := utils.ExtractString(data, "lexicon_file"); ok {
		rhyme.LexiconFile = val
	}
	if val, ok := utils.ExtractString(data, "dictionary_file"); ok {
		rhyme.DictionaryFile = val
	}
	if val, ok := utils.ExtractInt64(data, "cache_size"); ok {
		rhyme.CacheSize = val
	}
}

func extractStoreConfig(data map[string]any, store *StoreConfig) {
	if val, ok := utils.ExtractString(data, "backend"); ok {
		store.Backend = val
	}
	if val, ok := utils.ExtractString(data, "path"); ok {
		store.Path = val
	}
	if val, ok := utils.ExtractString(data, "namespace"); ok {
		store.Namespace = val
	}
}

func extractCliConfig(data map[string]any, cli *CliConfig) {
	if val, ok := utils.ExtractBool(data, "show_groups"); ok {
		cli.ShowGroups = val
	}
	if val, ok := utils.ExtractBool(data, "show_links"); ok {
		cli.ShowLinks = val
	}
}

// RebuildConfigFile force creates a new config.toml at default
func RebuildConfigFile() error {
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		return err
	}
	configDir := filepath.Dir(defaultPath)
	if err := utils.EnsureDir(configDir); err != nil {
		return err
	}
	return utils.SaveTOMLFile(DefaultConfig(), defaultPath)
}

// GetActiveConfigPath returns the absolute path of loaded config file
func GetActiveConfigPath(configPath string) string {
	if configPath == "" {
		if defaultPath, err := GetDefaultConfigPath(); err == nil {
			return defaultPath
		}
		return "unknown"
	}
	return utils.GetAbsolutePath(configPath)
}

// SaveConfig saves into a TOML file
func SaveConfig(config *Config, configPath string) error {
	return utils.SaveTOMLFile(config, configPath)
}

// Update changes the suggestion limits and saves to file. Nil values are left as they are.
func (c *Config) Update(configPath string, groupLimit, lastWordLimit, minAnchorLen *int) error {
	rhyme := &c.Rhyme
	if groupLimit != nil {
		rhyme.GroupLimit = *groupLimit
	}
	if lastWordLimit != nil {
		rhyme.LastWordLimit = *lastWordLimit
	}
	if minAnchorLen != nil {
		rhyme.MinAnchorLen = *minAnchorLen
	}
	return SaveConfig(c, configPath)
}
