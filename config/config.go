// Package config loads settings from an optional JSON file, a .env file and
// the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"slices"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"campaign_content_creator/llm"
)

// DefaultPath is where the config file is looked up when none is given.
const DefaultPath = "config/config.json"

// Config is the complete application configuration.
type Config struct {
	LLM      LLMConfig      `mapstructure:"llm"`
	Image    ImageConfig    `mapstructure:"image"`
	Pipeline PipelineConfig `mapstructure:"pipeline"`
	Brand    BrandConfig    `mapstructure:"brand"`
	Publish  PublishConfig  `mapstructure:"publish"`
	PDF      PDFConfig      `mapstructure:"pdf"`
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
}

// LLMConfig selects the completion provider.
type LLMConfig struct {
	Provider string `mapstructure:"provider"`
	Model    string `mapstructure:"model"`
	APIKey   string `mapstructure:"api_key"`
	BaseURL  string `mapstructure:"base_url"`
}

// Settings converts to the llm package's settings.
func (c LLMConfig) Settings() llm.Settings {
	return llm.Settings{Provider: c.Provider, Model: c.Model, APIKey: c.APIKey, BaseURL: c.BaseURL}
}

// ImageConfig configures Gemini image generation. An empty key disables it.
type ImageConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

type PipelineConfig struct {
	// MaxConcurrent is the batch size for asset and image generation.
	MaxConcurrent   int    `mapstructure:"max_concurrent"`
	DefaultLanguage string `mapstructure:"default_language"`
	OutputDir       string `mapstructure:"output_dir"`
}

type BrandConfig struct {
	Dir string `mapstructure:"dir"`
}

// PublishConfig configures the content repository workflow.
type PublishConfig struct {
	DefaultOrg   string   `mapstructure:"default_org"`
	DefaultRepo  string   `mapstructure:"default_repo"`
	RemoteBase   string   `mapstructure:"remote_base"`
	BuildCommand []string `mapstructure:"build_command"`
	PRLabels     []string `mapstructure:"pr_labels"`
}

// PDFConfig selects the Chrome instance used for printing. With neither
// ControlURL nor Bin set a browser is launched from the default location.
type PDFConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	ControlURL string `mapstructure:"control_url"`
	Bin        string `mapstructure:"bin"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

// Default returns the built-in defaults.
func Default() Config {
	return Config{
		LLM:   LLMConfig{Provider: "openai", Model: "gpt-4o"},
		Image: ImageConfig{Model: "gemini-2.5-flash-image"},
		Pipeline: PipelineConfig{
			MaxConcurrent:   3,
			DefaultLanguage: "de",
			OutputDir:       "output",
		},
		Brand: BrandConfig{Dir: "brand"},
		Publish: PublishConfig{
			DefaultOrg:  "seibert-external",
			DefaultRepo: "go.seibert.group",
			RemoteBase:  "https://github.com",
		},
		PDF:    PDFConfig{Enabled: true},
		Server: ServerConfig{Addr: ":8080"},
		Log:    LogConfig{Level: "info"},
	}
}

// SetDefaults registers every default on v.
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("llm.provider", d.LLM.Provider)
	v.SetDefault("llm.model", d.LLM.Model)
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.base_url", "")
	v.SetDefault("image.api_key", "")
	v.SetDefault("image.model", d.Image.Model)
	v.SetDefault("pipeline.max_concurrent", d.Pipeline.MaxConcurrent)
	v.SetDefault("pipeline.default_language", d.Pipeline.DefaultLanguage)
	v.SetDefault("pipeline.output_dir", d.Pipeline.OutputDir)
	v.SetDefault("brand.dir", d.Brand.Dir)
	v.SetDefault("publish.default_org", d.Publish.DefaultOrg)
	v.SetDefault("publish.default_repo", d.Publish.DefaultRepo)
	v.SetDefault("publish.remote_base", d.Publish.RemoteBase)
	v.SetDefault("pdf.enabled", d.PDF.Enabled)
	v.SetDefault("pdf.control_url", "")
	v.SetDefault("pdf.bin", "")
	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.pretty", d.Log.Pretty)
}

// envAliases are the plain variable names accepted next to the CONTENT_ ones.
var envAliases = map[string][]string{
	"llm.api_key":               {"OPENAI_API_KEY"},
	"image.api_key":             {"GEMINI_API_KEY"},
	"pipeline.max_concurrent":   {"MAX_CONCURRENT_GENERATORS"},
	"pipeline.default_language": {"DEFAULT_LANGUAGE"},
}

// Load reads .env (when present), then the JSON config file at path (a
// missing file is fine), then the environment. Later sources win.
func Load(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix("CONTENT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, aliases := range envAliases {
		names := append([]string{"CONTENT_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))}, aliases...)
		if err := v.BindEnv(append([]string{key}, names...)...); err != nil {
			return Config{}, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

// ValidationError is one invalid setting.
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors collects every invalid setting.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 1 {
		return e[0].Error()
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d validation errors:\n", len(e))
	for i, err := range e {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, err.Error())
	}
	return sb.String()
}

// ValidLogLevels lists the accepted log.level values.
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

var validProviders = []string{"openai", "deepseek"}

// Validate checks the settings every command needs. It does not require an
// API key; see RequireLLM.
func (c Config) Validate() error {
	var errs ValidationErrors
	if !slices.Contains(validProviders, c.LLM.Provider) {
		errs = append(errs, ValidationError{"llm.provider", c.LLM.Provider, "must be one of " + strings.Join(validProviders, ", ")})
	}
	if c.LLM.Provider == "deepseek" && c.LLM.BaseURL == "" {
		errs = append(errs, ValidationError{"llm.base_url", c.LLM.BaseURL, "is required for deepseek"})
	}
	if c.Pipeline.MaxConcurrent < 1 {
		errs = append(errs, ValidationError{"pipeline.max_concurrent", c.Pipeline.MaxConcurrent, "must be at least 1"})
	}
	if c.Pipeline.DefaultLanguage != "de" && c.Pipeline.DefaultLanguage != "en" {
		errs = append(errs, ValidationError{"pipeline.default_language", c.Pipeline.DefaultLanguage, "must be de or en"})
	}
	if c.Pipeline.OutputDir == "" {
		errs = append(errs, ValidationError{"pipeline.output_dir", c.Pipeline.OutputDir, "must not be empty"})
	}
	if !slices.Contains(ValidLogLevels(), c.Log.Level) {
		errs = append(errs, ValidationError{"log.level", c.Log.Level, "must be one of " + strings.Join(ValidLogLevels(), ", ")})
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// RequireLLM reports a missing completion API key.
func (c Config) RequireLLM() error {
	if c.LLM.APIKey == "" {
		return ValidationError{"llm.api_key", "", "is required; set OPENAI_API_KEY or CONTENT_LLM_API_KEY"}
	}
	return nil
}
