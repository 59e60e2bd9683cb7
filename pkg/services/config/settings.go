package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const EnvPrefix = "GARAGE_DOCS"

type Settings struct {
	TemplatesDir string            `mapstructure:"templates_dir"`
	OutputDir    string            `mapstructure:"output_dir"`
	ProfilesPath string            `mapstructure:"profiles"`
	LogLevel     string            `mapstructure:"log_level"`
	Templates    map[string]string `mapstructure:"templates"`
	Policy       map[string]string `mapstructure:"policy"`
	Render       RenderSettings    `mapstructure:"render"`
	Converter    ConverterSettings `mapstructure:"converter"`
}

type RenderSettings struct {
	Locale string `mapstructure:"locale"`
}

type ConverterSettings struct {
	Timeout time.Duration   `mapstructure:"timeout"`
	Chrome  ChromeSettings  `mapstructure:"chrome"`
	Command CommandSettings `mapstructure:"command"`
}

type ChromeSettings struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

type CommandSettings struct {
	Enabled bool `mapstructure:"enabled"`
	// Tool is one of unoconv, soffice or libreoffice.
	Tool string `mapstructure:"tool"`
	// Path overrides the executable looked up on PATH.
	Path string `mapstructure:"path"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("templates_dir", "templates")
	v.SetDefault("output_dir", "output")
	v.SetDefault("profiles", "")
	v.SetDefault("log_level", "warn")
	v.SetDefault("templates.invoice", "invoice_template_final.docx")
	v.SetDefault("templates.quote", "quotation_template_final.docx")
	v.SetDefault("policy.invoice", "degrade")
	v.SetDefault("policy.quote", "fail")
	v.SetDefault("render.locale", "en-GB")
	v.SetDefault("converter.timeout", "60s")
	v.SetDefault("converter.chrome.enabled", true)
	v.SetDefault("converter.chrome.path", "")
	v.SetDefault("converter.command.enabled", true)
	v.SetDefault("converter.command.tool", "unoconv")
	v.SetDefault("converter.command.path", "")
}

// LoadSettings reads the optional YAML config file at path and applies
// GARAGE_DOCS_* environment overrides on top of the defaults.
func LoadSettings(path string) (*Settings, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Settings
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse settings: %w", err)
	}
	return &cfg, nil
}
