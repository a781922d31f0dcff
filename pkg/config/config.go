// Package config provides configuration management for the tilefill application.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/sgaunet/tilefill/pkg/constants"
	"github.com/sgaunet/tilefill/pkg/hooks"
	"github.com/sgaunet/tilefill/pkg/naming"
	"gopkg.in/yaml.v3"
)

var (
	// ErrInvalidWorkerCount is returned when the worker count is out of bounds.
	ErrInvalidWorkerCount = errors.New("invalid worker count")
	// ErrInvalidRange is returned when a width or height range is malformed.
	ErrInvalidRange = errors.New("invalid range")
	// ErrInvalidWorkload is returned for a negative total volume.
	ErrInvalidWorkload = errors.New("workload must not be negative")
	// ErrInvalidRateLimit is returned for a negative rate limit.
	ErrInvalidRateLimit = errors.New("rate limit must not be negative")
	// ErrFileTooLarge is returned when WidthMax*HeightMax exceeds the file size limit.
	ErrFileTooLarge = errors.New("file size limit exceeded")
	// ErrNoOutput is returned when neither a directory nor S3 is configured.
	ErrNoOutput = errors.New("no output directory defined")
	// ErrInvalidS3Config is returned when the S3 settings are incomplete or malformed.
	ErrInvalidS3Config = errors.New("invalid S3 configuration")
)

// S3Config holds the configuration for S3 storage backend.
type S3Config struct {
	Endpoint   string `env:"S3ENDPOINT"            env-default:""   yaml:"endpoint"`
	BucketName string `env:"S3BUCKETNAME"          env-default:""   yaml:"bucketName"`
	BucketPath string `env:"S3BUCKETPATH"          env-default:""   yaml:"bucketPath"`
	Region     string `env:"S3REGION"              env-default:""   yaml:"region"`
	AccessKey  string `env:"AWS_ACCESS_KEY_ID"     yaml:"accessKey"`
	SecretKey  string `env:"AWS_SECRET_ACCESS_KEY" yaml:"secretKey"`
}

// Range is an inclusive [Min, Max] interval.
type Range struct {
	Min int
	Max int
}

// Config holds the application configuration.
type Config struct {
	WorkerCount  int         `env:"WORKERS"       env-default:"4"                           yaml:"workers"`
	WidthMin     int         `env:"WIDTH_MIN"     env-default:"8000"                        yaml:"widthMin"`
	WidthMax     int         `env:"WIDTH_MAX"     env-default:"10000"                       yaml:"widthMax"`
	HeightMin    int         `env:"HEIGHT_MIN"    env-default:"3000"                        yaml:"heightMin"`
	HeightMax    int         `env:"HEIGHT_MAX"    env-default:"4000"                        yaml:"heightMax"`
	NameTemplate string      `env:"NAME_TEMPLATE" env-default:"k%(level)d-%(file_id)s.tile" yaml:"nameTemplate"`
	OutputDir    string      `env:"OUTPUT_DIR"    env-default:"."                           yaml:"outputDir"`
	Workload     int64       `env:"WORKLOAD"      env-default:"1073741824"                  yaml:"workload"`
	Seed         uint64      `env:"SEED"          env-default:"0"                           yaml:"seed"`
	RateLimit    int64       `env:"RATE_LIMIT"    env-default:"0"                           yaml:"rateLimit"`
	MetricsAddr  string      `env:"METRICS_ADDR"  env-default:""                            yaml:"metricsAddr"`
	LogFile      string      `env:"LOG_FILE"      env-default:""                            yaml:"logFile"`
	Hooks        hooks.Hooks `yaml:"hooks"`
	S3cfg        S3Config    `yaml:"s3cfg"`
	NoLogTime    bool        `env:"NOLOGTIME"     env-default:"false"                       yaml:"noLogTime"`
}

// Default returns the configuration used when nothing is configured.
func Default() *Config {
	return &Config{
		WorkerCount:  constants.DefaultWorkerCount,
		WidthMin:     constants.DefaultWidthMin,
		WidthMax:     constants.DefaultWidthMax,
		HeightMin:    constants.DefaultHeightMin,
		HeightMax:    constants.DefaultHeightMax,
		NameTemplate: constants.DefaultNameTemplate,
		OutputDir:    constants.DefaultOutputDir,
		Workload:     constants.DefaultWorkload,
	}
}

// NewConfigFromFile returns a new validated Config struct from the given file.
func NewConfigFromFile(filePath string) (*Config, error) {
	cfg, err := NewConfigFromFileNoValidate(filePath)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// NewConfigFromFileNoValidate reads the given file without validating it, so
// that command-line overrides can still fix it.
func NewConfigFromFileNoValidate(filePath string) (*Config, error) {
	var cfg Config
	err := cleanenv.ReadConfig(filePath, &cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to read config from file %s: %w", filePath, err)
	}
	return &cfg, nil
}

// NewConfigFromEnv returns a new Config struct from the environment variables.
func NewConfigFromEnv() (*Config, error) {
	var cfg Config
	err := cleanenv.ReadEnv(&cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to read config from environment: %w", err)
	}
	return &cfg, nil
}

// Width returns the bytes-per-write range.
func (c *Config) Width() Range {
	return Range{Min: c.WidthMin, Max: c.WidthMax}
}

// Height returns the writes-per-file range.
func (c *Config) Height() Range {
	return Range{Min: c.HeightMin, Max: c.HeightMax}
}

// IsS3ConfigValid returns true if the S3 config is valid.
func (c *Config) IsS3ConfigValid() bool {
	return len(c.S3cfg.BucketName) > 0 && len(c.S3cfg.Region) > 0
}

// IsLocalConfigValid returns true if the local config is valid.
func (c *Config) IsLocalConfigValid() bool {
	return len(c.OutputDir) > 0
}

// IsConfigValid returns true if the config is valid.
func (c *Config) IsConfigValid() bool {
	return c.Validate() == nil
}

// Validate checks every setting and returns the first problem found.
//
//nolint:err113 // validation errors are intentionally dynamic to include context
func (c *Config) Validate() error {
	if c.WorkerCount < 1 || c.WorkerCount > constants.MaxWorkerCount {
		return fmt.Errorf("%w: %d (must be between 1 and %d)",
			ErrInvalidWorkerCount, c.WorkerCount, constants.MaxWorkerCount)
	}
	if err := validateRange("width", c.Width(), constants.MaxWidth); err != nil {
		return err
	}
	if err := validateRange("height", c.Height(), constants.MaxHeight); err != nil {
		return err
	}
	// both maxima are bounded above, the product cannot overflow
	if size := int64(c.WidthMax) * int64(c.HeightMax); size > constants.MaxFileSize {
		return fmt.Errorf("%w: %d x %d = %d bytes, limit is %d",
			ErrFileTooLarge, c.WidthMax, c.HeightMax, size, int64(constants.MaxFileSize))
	}
	if c.Workload < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidWorkload, c.Workload)
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidRateLimit, c.RateLimit)
	}
	if _, err := naming.Parse(c.NameTemplate); err != nil {
		return fmt.Errorf("nameTemplate: %w", err)
	}
	if c.S3cfg.BucketName != "" || c.S3cfg.Region != "" {
		return c.validateS3()
	}
	if !c.IsLocalConfigValid() {
		return ErrNoOutput
	}
	return nil
}

func validateRange(name string, r Range, limit int) error {
	if r.Min < 0 || r.Max < 0 {
		return fmt.Errorf("%w: %s [%d,%d] must not be negative", ErrInvalidRange, name, r.Min, r.Max)
	}
	if r.Min > r.Max {
		return fmt.Errorf("%w: %s min %d is greater than max %d", ErrInvalidRange, name, r.Min, r.Max)
	}
	if limit > 0 && r.Max > limit {
		return fmt.Errorf("%w: %s max %d exceeds %d", ErrInvalidRange, name, r.Max, limit)
	}
	return nil
}

func (c *Config) validateS3() error {
	n := len(c.S3cfg.BucketName)
	if n < constants.S3BucketNameMinLength || n > constants.S3BucketNameMaxLength {
		return fmt.Errorf("%w: bucket name length must be between %d and %d",
			ErrInvalidS3Config, constants.S3BucketNameMinLength, constants.S3BucketNameMaxLength)
	}
	n = len(c.S3cfg.Region)
	if n < constants.S3RegionMinLength || n > constants.S3RegionMaxLength {
		return fmt.Errorf("%w: region length must be between %d and %d",
			ErrInvalidS3Config, constants.S3RegionMinLength, constants.S3RegionMaxLength)
	}
	return nil
}

func (c *Config) String() string {
	cyaml, err := yaml.Marshal(c)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
	}
	return string(cyaml)
}

// Redacted returns a YAML representation of the config with sensitive fields redacted.
func (c *Config) Redacted() string {
	redacted := *c
	if redacted.S3cfg.AccessKey != "" {
		redacted.S3cfg.AccessKey = constants.RedactedValue
	}
	if redacted.S3cfg.SecretKey != "" {
		redacted.S3cfg.SecretKey = constants.RedactedValue
	}
	cyaml, err := yaml.Marshal(redacted)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
	}
	return string(cyaml)
}

// Usage prints the usage of the config.
func (c *Config) Usage() {
	f := cleanenv.Usage(c, nil)
	f()
}
