/*
Package config manages TOML config for rankserve services.
*/
package config

import (
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/bastiangx/rankserve/internal/utils"
)

// Config holds the entire config structure
type Config struct {
	Server     ServerConfig     `toml:"server"`
	Ranking    RankingConfig    `toml:"ranking"`
	Popularity PopularityConfig `toml:"popularity"`
	CLI        CliConfig        `toml:"cli"`
}

// ServerConfig has server related options.
type ServerConfig struct {
	MaxResults      int  `toml:"max_results"`
	MinPrefix       int  `toml:"min_prefix"`
	MaxPrefix       int  `toml:"max_prefix"`
	AnnotateResults bool `toml:"annotate_results"`
	SemanticDebug   bool `toml:"semantic_debug"`
}

// RankingConfig tunes the per-session ranking machinery.
type RankingConfig struct {
	ArenaPages        int `toml:"arena_pages"`
	ArenaPageSize     int `toml:"arena_page_size"`
	ClassifierWorkers int `toml:"classifier_workers"`
}

// PopularityConfig locates the usage-frequency tables.
type PopularityConfig struct {
	Enabled bool   `toml:"enabled"`
	DataDir string `toml:"data_dir"`
}

// CliConfig holds cli interface options.
type CliConfig struct {
	DefaultLimit  int  `toml:"default_limit"`
	ShowBreakdown bool `toml:"show_breakdown"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			MaxResults:      256,
			MinPrefix:       0,
			MaxPrefix:       80,
			AnnotateResults: true,
			SemanticDebug:   false,
		},
		Ranking: RankingConfig{
			ArenaPages:        8,
			ArenaPageSize:     16384,
			ClassifierWorkers: 4,
		},
		Popularity: PopularityConfig{
			Enabled: true,
			DataDir: "data",
		},
		CLI: CliConfig{
			DefaultLimit:  24,
			ShowBreakdown: false,
		},
	}
}

// GetDefaultConfigPath returns the default path for config.toml
func GetDefaultConfigPath() (string, error) {
	resolver, err := utils.NewPathResolver()
	if err != nil {
		return "", err
	}
	return resolver.GetConfigPath("config.toml")
}

// LoadConfigWithPriority loads config with priority:
// 1. Custom path from --config flag
// 2. Default path: [UserConfigDir]/rankserve/config.toml
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

// LoadConfig loads from a TOML file
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if err := utils.LoadTOMLFile(configPath, config); err != nil {
		return tryPartialParse(configPath)
	}
	return config, nil
}

// tryPartialParse salvages whatever sections still parse from a broken file
func tryPartialParse(configPath string) (*Config, error) {
	config := DefaultConfig()

	tempConfig, err := utils.ParseTOMLWithRecovery(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config, nil
	}

	if serverSection, ok := utils.ExtractSection(tempConfig, "server"); ok {
		extractServerConfig(serverSection, &config.Server)
	}
	if rankingSection, ok := utils.ExtractSection(tempConfig, "ranking"); ok {
		extractRankingConfig(rankingSection, &config.Ranking)
	}
	if popSection, ok := utils.ExtractSection(tempConfig, "popularity"); ok {
		extractPopularityConfig(popSection, &config.Popularity)
	}
	if cliSection, ok := utils.ExtractSection(tempConfig, "cli"); ok {
		extractCliConfig(cliSection, &config.CLI)
	}
	return config, nil
}

func extractServerConfig(data map[string]any, server *ServerConfig) {
	if val, ok := utils.ExtractInt64(data, "max_results"); ok {
		server.MaxResults = val
	}
	if val, ok := utils.ExtractInt64(data, "min_prefix"); ok {
		server.MinPrefix = val
	}
	if val, ok := utils.ExtractInt64(data, "max_prefix"); ok {
		server.MaxPrefix = val
	}
	if val, ok := utils.ExtractBool(data, "annotate_results"); ok {
		server.AnnotateResults = val
	}
	if val, ok := utils.ExtractBool(data, "semantic_debug"); ok {
		server.SemanticDebug = val
	}
}

func extractRankingConfig(data map[string]any, ranking *RankingConfig) {
	if val, ok := utils.ExtractInt64(data, "arena_pages"); ok {
		ranking.ArenaPages = val
	}
	if val, ok := utils.ExtractInt64(data, "arena_page_size"); ok {
		ranking.ArenaPageSize = val
	}
	if val, ok := utils.ExtractInt64(data, "classifier_workers"); ok {
		ranking.ClassifierWorkers = val
	}
}

func extractPopularityConfig(data map[string]any, pop *PopularityConfig) {
	if val, ok := utils.ExtractBool(data, "enabled"); ok {
		pop.Enabled = val
	}
	if val, ok := data["data_dir"].(string); ok {
		pop.DataDir = val
	}
}

func extractCliConfig(data map[string]any, cli *CliConfig) {
	if val, ok := utils.ExtractInt64(data, "default_limit"); ok {
		cli.DefaultLimit = val
	}
	if val, ok := utils.ExtractBool(data, "show_breakdown"); ok {
		cli.ShowBreakdown = val
	}
}

// SaveConfig saves into a TOML file
func SaveConfig(config *Config, configPath string) error {
	return utils.SaveTOMLFile(config, configPath)
}

// Update changes the config values and saves to file
func (c *Config) Update(configPath string, maxResults, minPrefix, maxPrefix *int, semanticDebug *bool) error {
	server := &c.Server
	if maxResults != nil {
		server.MaxResults = *maxResults
	}
	if minPrefix != nil {
		server.MinPrefix = *minPrefix
	}
	if maxPrefix != nil {
		server.MaxPrefix = *maxPrefix
	}
	if semanticDebug != nil {
		server.SemanticDebug = *semanticDebug
	}
	return SaveConfig(c, configPath)
}
