package config

import (
	"os"
	"strconv"

	"jailreport/internal/cleaning"
	"jailreport/internal/errors"

	"gopkg.in/yaml.v3"
)

// Config represents the complete application configuration
type Config struct {
	Paths PathConfig
	Input InputConfig
	Run   RunConfig
	Log   LogConfig
	Rules RuleConfig
}

// PathConfig holds file system paths
type PathConfig struct {
	OutputDir string
	RulesFile string
}

// InputConfig controls how source files are read
type InputConfig struct {
	SheetName   string
	PreviewRows int
}

// RunConfig controls batch behaviour
type RunConfig struct {
	Parallelism   int
	WriteManifest bool
}

// LogConfig holds logging settings
type LogConfig struct {
	Level string
}

// RuleConfig holds the cleaning rule tables. It doubles as the YAML rules file schema.
type RuleConfig struct {
	CastRules         []cleaning.CastRule        `yaml:"cast_rules"`
	JurisdictionRules cleaning.JurisdictionRules `yaml:"jurisdiction_rules"`
}

// DefaultCastRules is the keyword/type list for the monthly jail reports
func DefaultCastRules() []cleaning.CastRule {
	return []cleaning.CastRule{
		{Keyword: "#", Type: "int"},
		{Keyword: "encounters", Type: "int"},
		{Keyword: "inmates", Type: "int"},
		{Keyword: "cases", Type: "int"},
		{Keyword: "sentenced", Type: "int"},
		{Keyword: "total", Type: "int"},
		{Keyword: "appointments", Type: "int"},
		{Keyword: "occurrences", Type: "int"},
		{Keyword: "date", Type: "datetime"},
	}
}

// Load reads configuration from environment variables and the optional rules file
func Load() (*Config, error) {
	config := &Config{
		Paths: PathConfig{
			OutputDir: getEnvOrDefault("OUTPUT_DIR", "processed_data"),
			RulesFile: getEnvOrDefault("CAST_RULES_FILE", ""),
		},
		Input: InputConfig{
			SheetName:   getEnvOrDefault("SHEET_NAME", ""),
			PreviewRows: getEnvIntOrDefault("PREVIEW_ROWS", 5),
		},
		Run: RunConfig{
			Parallelism:   getEnvIntOrDefault("PARALLELISM", 1),
			WriteManifest: getEnvBoolOrDefault("WRITE_MANIFEST", false),
		},
		Log: LogConfig{
			Level: getEnvOrDefault("LOG_LEVEL", "INFO"),
		},
	}

	rules, err := LoadRules(config.Paths.RulesFile)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load cleaning rules")
	}
	config.Rules = *rules

	if err := Validate(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

// LoadRules reads a YAML rules file. An empty path yields the defaults; a
// file that omits a section keeps the default for that section.
func LoadRules(path string) (*RuleConfig, error) {
	rules := &RuleConfig{
		CastRules:         DefaultCastRules(),
		JurisdictionRules: cleaning.DefaultJurisdictionRules(),
	}
	if path == "" {
		return rules, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.ReadError(path, err)
	}

	var fromFile RuleConfig
	if err := yaml.Unmarshal(data, &fromFile); err != nil {
		return nil, errors.Wrapf(errors.ConfigInvalid(err.Error()), "parse rules file %s", path)
	}
	if fromFile.CastRules != nil {
		rules.CastRules = fromFile.CastRules
	}
	if fromFile.JurisdictionRules != nil {
		rules.JurisdictionRules = fromFile.JurisdictionRules
	}
	return rules, nil
}

// Validate checks values that would otherwise fail late. Unknown cast types
// are not rejected here; the caster reports them as warnings.
func Validate(config *Config) error {
	if config.Paths.OutputDir == "" {
		return errors.ConfigInvalid("output directory is required")
	}
	if config.Run.Parallelism < 1 {
		return errors.ConfigInvalid("parallelism must be at least 1")
	}
	if config.Input.PreviewRows < 0 {
		return errors.ConfigInvalid("preview rows cannot be negative")
	}
	for _, rule := range config.Rules.CastRules {
		if rule.Keyword == "" {
			return errors.ConfigInvalid("cast rule keyword cannot be empty")
		}
	}
	if len(config.Rules.JurisdictionRules) == 0 {
		return errors.ConfigInvalid("at least one jurisdiction rule is required")
	}
	for _, rule := range config.Rules.JurisdictionRules {
		if rule.Keyword == "" {
			return errors.ConfigInvalid("jurisdiction rule keyword cannot be empty")
		}
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
