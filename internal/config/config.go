package config

import (
	"os"
	"strings"
	"time"

	"codeberg.org/mutker/hostwatch/internal/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	configEnvVar = "HOSTWATCH_CONFIG"
	configName   = "hostwatch.conf"
	configPath   = "/etc"

	DefaultThreshold      = 80
	DefaultAlertInterval  = 300
	DefaultStatusInterval = 4.0
	DefaultHTTPTimeout    = 15
	DefaultLogDir         = "/var/log/hostwatch"
	DefaultLogFile        = "hostwatch.log"
	DefaultExcludeMount   = "/snap"
)

type Config struct {
	ServerName     string  `mapstructure:"server_name"`
	Threshold      float64 `mapstructure:"threshold"`
	AlertInterval  int     `mapstructure:"alert_interval"`
	StatusInterval float64 `mapstructure:"status_interval"`
	LogDir         string  `mapstructure:"log_dir"`
	LogFile        string  `mapstructure:"log_file"`
	BotToken       string  `mapstructure:"bot_token"`
	ChatID         string  `mapstructure:"chat_id"`
	HTTPTimeout    int     `mapstructure:"http_timeout"`
	ExcludeMount   string  `mapstructure:"exclude_mount"`
	Debug          bool    `mapstructure:"debug"`
	Verbose        bool    `mapstructure:"verbose"`
}

// AlertPeriod returns the interval between alert checks.
func (c *Config) AlertPeriod() time.Duration {
	return time.Duration(c.AlertInterval) * time.Second
}

// StatusPeriod returns the interval between status reports. The value is
// configured in hours and may be fractional (0.5 = half hour).
func (c *Config) StatusPeriod() time.Duration {
	return time.Duration(c.StatusInterval * float64(time.Hour))
}

// Timeout returns the bound on a single outbound notification call.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.HTTPTimeout) * time.Second
}

func Load() (*Config, error) {
	errFactory := errors.New()

	v := viper.New()
	v.SetDefault("server_name", defaultServerName())
	v.SetDefault("threshold", DefaultThreshold)
	v.SetDefault("alert_interval", DefaultAlertInterval)
	v.SetDefault("status_interval", DefaultStatusInterval)
	v.SetDefault("log_dir", DefaultLogDir)
	v.SetDefault("log_file", DefaultLogFile)
	v.SetDefault("http_timeout", DefaultHTTPTimeout)
	v.SetDefault("exclude_mount", DefaultExcludeMount)

	// Define flags on a fresh set so Load stays re-entrant
	flags := pflag.NewFlagSet("hostwatch", pflag.ContinueOnError)
	flags.ParseErrorsWhitelist.UnknownFlags = true
	flags.String("server-name", "", "Server identity used in notifications")
	flags.Float64("threshold", DefaultThreshold, "Alert threshold percentage")
	flags.Int("alert-interval", DefaultAlertInterval, "Seconds between alert checks")
	flags.Float64("status-interval", DefaultStatusInterval, "Hours between status updates")
	flags.Bool("debug", false, "Enable debugging mode")
	flags.Bool("verbose", false, "Enable verbose logging")
	if err := flags.Parse(os.Args[1:]); err != nil {
		return nil, errFactory.Wrap(errors.ErrBindFlags, err)
	}

	// Load configuration from file
	if path := os.Getenv(configEnvVar); path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("toml")
	} else {
		v.SetConfigName(configName)
		v.SetConfigType("toml")
		v.AddConfigPath(configPath)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, errFactory.Wrap(errors.ErrReadConfig, err)
		}
	}

	// Override config file values with command line flags
	flags.Visit(func(f *pflag.Flag) {
		v.Set(strings.ReplaceAll(f.Name, "-", "_"), f.Value.String())
	})

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, errFactory.Wrap(errors.ErrReadConfig, err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Set log level based on config
	if config.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else if config.Verbose {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	}

	return config, nil
}

func (c *Config) Validate() error {
	errFactory := errors.New()

	if c.Threshold <= 0 || c.Threshold > 100 {
		return errFactory.WithData(errors.ErrInvalidThreshold, c.Threshold)
	}
	if c.AlertInterval <= 0 {
		return errFactory.WithData(errors.ErrInvalidInterval, c.AlertInterval)
	}
	if c.StatusInterval <= 0 {
		return errFactory.WithData(errors.ErrInvalidInterval, c.StatusInterval)
	}
	if c.BotToken == "" || c.ChatID == "" {
		return errFactory.New(errors.ErrMissingCredential)
	}

	return nil
}

func defaultServerName() string {
	if name, err := os.Hostname(); err == nil {
		return name
	}

	return "unknown"
}
