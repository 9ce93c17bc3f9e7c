package devops

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"axiapac.com/attendance/utils"
)

const EnvPrefix = "ATTENDANCE"

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Office    OfficeConfig    `mapstructure:"office"`
	RateLimit RateLimitConfig `mapstructure:"rateLimit"`
	Admin     AdminConfig     `mapstructure:"admin"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Slack     SlackConfig     `mapstructure:"slack"`
	Report    ReportConfig    `mapstructure:"report"`
	Log       LogConfig       `mapstructure:"log"`
}

type ServerConfig struct {
	Address        string   `mapstructure:"address" validate:"required"`
	TrustedProxies []string `mapstructure:"trustedProxies"`
}

type OfficeConfig struct {
	Name            string   `mapstructure:"name" validate:"required"`
	Timezone        string   `mapstructure:"timezone"`
	AllowedNetworks []string `mapstructure:"allowedNetworks" validate:"dive,required"`
	AllowLoopback   bool     `mapstructure:"allowLoopback"`
}

type RateLimitConfig struct {
	MaxAttempts   int           `mapstructure:"maxAttempts" validate:"min=1"`
	Window        time.Duration `mapstructure:"window" validate:"min=1s"`
	SweepInterval time.Duration `mapstructure:"sweepInterval" validate:"min=1s"`
}

type AdminConfig struct {
	Email         string        `mapstructure:"email" validate:"required,email"`
	PasswordHash  string        `mapstructure:"passwordHash" validate:"required"`
	SigningSecret string        `mapstructure:"signingSecret" validate:"required,base64"`
	SessionTTL    time.Duration `mapstructure:"sessionTTL" validate:"min=1m"`
	SecureCookie  bool          `mapstructure:"secureCookie"`
}

type StorageConfig struct {
	Driver         string `mapstructure:"driver" validate:"oneof=file s3 mysql postgres sqlite"`
	DataDir        string `mapstructure:"dataDir" validate:"required_if=Driver file"`
	Bucket         string `mapstructure:"bucket" validate:"required_if=Driver s3"`
	Prefix         string `mapstructure:"prefix"`
	DSN            string `mapstructure:"dsn"`
	MaxConnections int    `mapstructure:"maxConnections" validate:"min=1"`
}

// IsDatabase reports whether records live in a relational database.
func (s StorageConfig) IsDatabase() bool {
	return s.Driver == "mysql" || s.Driver == "postgres" || s.Driver == "sqlite"
}

type SlackConfig struct {
	Token        string `mapstructure:"token"`
	InfoChannel  string `mapstructure:"infoChannel"`
	ErrorChannel string `mapstructure:"errorChannel"`
}

type ReportConfig struct {
	From       string   `mapstructure:"from" validate:"omitempty,email"`
	Recipients []string `mapstructure:"recipients" validate:"dive,email"`
	Bucket     string   `mapstructure:"bucket"`
	Prefix     string   `mapstructure:"prefix"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=text json"`
}

func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}
	if c.Storage.IsDatabase() && c.Storage.DSN == "" {
		return fmt.Errorf("storage.dsn is required for driver %s", c.Storage.Driver)
	}
	if _, err := utils.LoadLocation(c.Office.Timezone); err != nil {
		return err
	}
	return nil
}

// Location resolves the office time zone.
func (c *Config) Location() *time.Location {
	loc, err := utils.LoadLocation(c.Office.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

var defaults = map[string]any{
	"server.address":          ":9876",
	"server.trustedProxies":   []string{},
	"office.name":             "Attendance Tracker",
	"office.timezone":         "UTC",
	"office.allowedNetworks":  []string{},
	"office.allowLoopback":    false,
	"rateLimit.maxAttempts":   10,
	"rateLimit.window":        time.Hour,
	"rateLimit.sweepInterval": time.Hour,
	"admin.email":             "",
	"admin.passwordHash":      "",
	"admin.signingSecret":     "",
	"admin.sessionTTL":        24 * time.Hour,
	"admin.secureCookie":      false,
	"storage.driver":          "file",
	"storage.dataDir":         "data",
	"storage.bucket":          "",
	"storage.prefix":          "",
	"storage.dsn":             "",
	"storage.maxConnections":  10,
	"slack.token":             "",
	"slack.infoChannel":       "",
	"slack.errorChannel":      "",
	"report.from":             "",
	"report.recipients":       []string{},
	"report.bucket":           "",
	"report.prefix":           "reports",
	"log.level":               "info",
	"log.format":              "text",
}

type LoadOptions struct {
	// ConfigFile is an explicit file; empty searches ./config.yml.
	ConfigFile string
	// EnvFile is loaded into the environment first when it exists.
	EnvFile string
	// SSMParameter names a YAML overlay stored in AWS SSM.
	SSMParameter string
}

// Load layers defaults, the config file, the SSM overlay and ATTENDANCE_* environment variables.
func Load(ctx context.Context, opts LoadOptions) (*Config, error) {
	if opts.EnvFile != "" {
		if err := godotenv.Load(opts.EnvFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", opts.EnvFile, err)
		}
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yml")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	if opts.SSMParameter != "" {
		overlay, err := LoadParameter(ctx, opts.SSMParameter)
		if err != nil {
			return nil, err
		}
		if err := MergeOverlay(v, overlay); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// MergeOverlay merges a YAML document over the values already in v.
func MergeOverlay(v *viper.Viper, overlay string) error {
	var parsed map[string]any
	if err := yaml.Unmarshal([]byte(overlay), &parsed); err != nil {
		return fmt.Errorf("unmarshal yaml: %w", err)
	}
	if err := v.MergeConfigMap(parsed); err != nil {
		return fmt.Errorf("merge overlay: %w", err)
	}
	return nil
}

// LoadParameter fetches a decrypted SSM parameter value.
func LoadParameter(ctx context.Context, name string) (string, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return "", fmt.Errorf("load aws config: %w", err)
	}

	client := ssm.NewFromConfig(cfg)

	out, err := client.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(name),
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		return "", fmt.Errorf("get parameter %s: %w", name, err)
	}
	if out.Parameter == nil || out.Parameter.Value == nil {
		return "", fmt.Errorf("parameter %s is empty", name)
	}
	return *out.Parameter.Value, nil
}
