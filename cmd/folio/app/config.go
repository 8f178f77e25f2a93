package app

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variables read into Config,
// e.g. FOLIO_WIDTH.
const EnvPrefix = "FOLIO"

// Config holds the CLI configuration loaded from flags, environment
// variables, .env files and an optional folio.yaml.
type Config struct {
	ConfigFile string

	// Window
	Title     string
	Width     int
	Height    int
	Resizable bool
	ShowFPS   bool

	// Showcase document and image directory.
	Showcase  string
	AssetsDir string

	// Screenshots written by test scripts.
	ScreenshotDir    string
	ScreenshotFormat string

	Debug bool

	// Logging
	LogLevel  string
	LogFormat string
}

// Configuration keys.
const (
	keyTitle            = "title"
	keyWidth            = "width"
	keyHeight           = "height"
	keyResizable        = "resizable"
	keyShowFPS          = "fps"
	keyShowcase         = "showcase"
	keyAssetsDir        = "assets_dir"
	keyScreenshotDir    = "screenshot_dir"
	keyScreenshotFormat = "screenshot_format"
	keyDebug            = "debug"
	keyLogLevel         = "log_level"
	keyLogFormat        = "log_format"
)

// newViper returns a viper instance with defaults and environment binding.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetDefault(keyTitle, "folio")
	v.SetDefault(keyWidth, 960)
	v.SetDefault(keyHeight, 640)
	v.SetDefault(keyShowcase, "showcase.yaml")
	v.SetDefault(keyScreenshotDir, "screenshots")
	v.SetDefault(keyScreenshotFormat, "png")
	v.SetDefault(keyLogLevel, "info")
	v.SetDefault(keyLogFormat, "auto")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

// loadEnvFiles loads environment variables from .env files. .env.local
// overrides .env; variables already set in the environment win over both.
func loadEnvFiles() {
	for _, f := range []string{".env.local", ".env"} {
		_ = godotenv.Load(f)
	}
}

// LoadConfig resolves the configuration in order of precedence: flags bound
// to v, environment variables, .env files, the config file, defaults.
// configFile may be empty, in which case folio.yaml is searched for in the
// working directory and a missing file is not an error.
func LoadConfig(v *viper.Viper, configFile string) (*Config, error) {
	loadEnvFiles()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("folio")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{
		ConfigFile:       v.ConfigFileUsed(),
		Title:            v.GetString(keyTitle),
		Width:            v.GetInt(keyWidth),
		Height:           v.GetInt(keyHeight),
		Resizable:        v.GetBool(keyResizable),
		ShowFPS:          v.GetBool(keyShowFPS),
		Showcase:         v.GetString(keyShowcase),
		AssetsDir:        v.GetString(keyAssetsDir),
		ScreenshotDir:    v.GetString(keyScreenshotDir),
		ScreenshotFormat: v.GetString(keyScreenshotFormat),
		Debug:            v.GetBool(keyDebug),
		LogLevel:         v.GetString(keyLogLevel),
		LogFormat:        v.GetString(keyLogFormat),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	var errs []error
	if c.Width <= 0 || c.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size must be positive, got %dx%d", c.Width, c.Height))
	}
	switch strings.ToLower(c.ScreenshotFormat) {
	case "png", "webp":
	default:
		errs = append(errs, fmt.Errorf("screenshot format must be png or webp, got %q", c.ScreenshotFormat))
	}
	return errors.Join(errs...)
}
