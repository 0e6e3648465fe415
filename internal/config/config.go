// Package config loads akairo settings.
//
// Sources are layered from lowest to highest priority: built-in defaults, the
// akairo config file, .env files and finally the process environment
// (AKAIRO_PREFIX, AKAIRO_PROMPT_RETRIES, ...). Flags bound to the same viper
// instance override everything.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"akairo/internal/argument"
	"akairo/internal/parser"
	"akairo/internal/specfile"
)

const (
	// EnvPrefix prefixes every environment variable akairo reads.
	EnvPrefix = "AKAIRO"
	// FileName is the config file name without extension.
	FileName = "akairo"
	appDir   = "akairo"
)

// Prompt holds handler-wide prompt defaults.
type Prompt struct {
	Retries    int           `mapstructure:"retries"`
	Time       time.Duration `mapstructure:"time"`
	Breakout   bool          `mapstructure:"breakout"`
	Limit      int           `mapstructure:"limit"`
	CancelWord string        `mapstructure:"cancel_word"`
	StopWord   string        `mapstructure:"stop_word"`

	Start   string `mapstructure:"start"`
	Retry   string `mapstructure:"retry"`
	Timeout string `mapstructure:"timeout"`
	Ended   string `mapstructure:"ended"`
	Cancel  string `mapstructure:"cancel"`
}

// Config is the resolved akairo configuration.
type Config struct {
	Prefix          string   `mapstructure:"prefix"`
	FlagWords       []string `mapstructure:"flag_words"`
	OptionFlagWords []string `mapstructure:"option_flag_words"`
	Separator       string   `mapstructure:"separator"`
	DisableQuotes   bool     `mapstructure:"disable_quotes"`
	CommandsFile    string   `mapstructure:"commands_file"`
	Prompt          Prompt   `mapstructure:"prompt"`

	// Sources records where settings came from.
	Sources Sources `mapstructure:"-"`
}

// Sources lists the files Load read.
type Sources struct {
	ConfigFile string
	EnvFiles   []string
}

// Options controls where Load looks. Empty fields use the defaults.
type Options struct {
	// File is an explicit config file. It must exist when set.
	File string
	// ConfigDir holds the user's akairo.yaml and .env. Defaults to <user config dir>/akairo.
	ConfigDir string
	// WorkDir holds a local akairo.yaml and .env. Defaults to the current directory.
	WorkDir string
	// Viper receives the settings, so callers can bind flags first. Defaults to a new instance.
	Viper *viper.Viper
}

// SetDefaults registers every key with its default value.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("prefix", "!")
	v.SetDefault("flag_words", []string{})
	v.SetDefault("option_flag_words", []string{})
	v.SetDefault("separator", "")
	v.SetDefault("disable_quotes", false)
	v.SetDefault("commands_file", "")

	v.SetDefault("prompt.retries", 1)
	v.SetDefault("prompt.time", 30*time.Second)
	v.SetDefault("prompt.breakout", true)
	v.SetDefault("prompt.limit", 0)
	v.SetDefault("prompt.cancel_word", "cancel")
	v.SetDefault("prompt.stop_word", "stop")
	v.SetDefault("prompt.start", "")
	v.SetDefault("prompt.retry", "")
	v.SetDefault("prompt.timeout", "Time ran out, the command has been cancelled.")
	v.SetDefault("prompt.ended", "Too many retries, the command has been cancelled.")
	v.SetDefault("prompt.cancel", "The command has been cancelled.")
}

// Load resolves the configuration.
func Load(opts Options) (*Config, error) {
	v := opts.Viper
	if v == nil {
		v = viper.New()
	}
	SetDefaults(v)

	workDir := opts.WorkDir
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		workDir = wd
	}
	configDir := opts.ConfigDir
	if configDir == "" {
		if dir, err := os.UserConfigDir(); err == nil {
			configDir = filepath.Join(dir, appDir)
		}
	}

	var sources Sources

	// Local .env first: values it sets are then kept over the config dir's .env.
	for _, dir := range []string{workDir, configDir} {
		if dir == "" {
			continue
		}
		loaded, err := loadDotEnv(filepath.Join(dir, ".env"))
		if err != nil {
			return nil, err
		}
		if loaded {
			sources.EnvFiles = append(sources.EnvFiles, filepath.Join(dir, ".env"))
		}
	}

	if opts.File != "" {
		v.SetConfigFile(opts.File)
	} else {
		v.SetConfigName(FileName)
		v.AddConfigPath(workDir)
		if configDir != "" {
			v.AddConfigPath(configDir)
		}
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if opts.File != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}
	sources.ConfigFile = v.ConfigFileUsed()

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.Sources = sources
	return &cfg, nil
}

// loadDotEnv exports the variables of a .env file that are not already set.
// A missing file is not an error.
func loadDotEnv(path string) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read .env file %s: %w", path, err)
	}

	envMap, err := godotenv.Unmarshal(string(data))
	if err != nil {
		return false, fmt.Errorf("failed to parse .env file %s: %w", path, err)
	}
	for key, value := range envMap {
		if _, exists := os.LookupEnv(key); exists {
			continue
		}
		if err := os.Setenv(key, value); err != nil {
			return false, fmt.Errorf("failed to set %s from %s: %w", key, path, err)
		}
	}
	return true, nil
}

// Prefixes returns the command prefixes, or nil when none is configured.
func (c *Config) Prefixes() []string {
	if c.Prefix == "" {
		return nil
	}
	return []string{c.Prefix}
}

// Tokenizer returns a parser configured from the tokenizer settings.
func (c *Config) Tokenizer() parser.ContentParser {
	return parser.ContentParser{
		FlagWords:       append([]string(nil), c.FlagWords...),
		OptionFlagWords: append([]string(nil), c.OptionFlagWords...),
		Separator:       c.Separator,
		DisableQuotes:   c.DisableQuotes,
	}
}

// PromptDefaults returns the handler-wide prompt options layered over the built-ins.
// Texts accept the same {phrase}, {retries} and {user} placeholders as command files.
func (c *Config) PromptDefaults() (*argument.PromptOptions, error) {
	def := &specfile.PromptDef{
		Start:      c.Prompt.Start,
		Retry:      c.Prompt.Retry,
		Timeout:    c.Prompt.Timeout,
		Ended:      c.Prompt.Ended,
		Cancel:     c.Prompt.Cancel,
		Retries:    argument.Ptr(c.Prompt.Retries),
		Breakout:   argument.Ptr(c.Prompt.Breakout),
		Limit:      argument.Ptr(c.Prompt.Limit),
		CancelWord: c.Prompt.CancelWord,
		StopWord:   c.Prompt.StopWord,
	}
	if c.Prompt.Time > 0 {
		def.Time = c.Prompt.Time.String()
	}

	opts, err := def.Compile()
	if err != nil {
		return nil, fmt.Errorf("prompt defaults: %w", err)
	}
	merged := argument.MergePromptOptions(argument.DefaultPromptOptions(), opts)
	return &merged, nil
}
