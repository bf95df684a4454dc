// Package config loads process configuration from the environment.
//
// Values are read once at start-up, after an optional .env file in the
// working directory has been merged into the environment:
//
//   - PORT: HTTP listen port (default: "5000")
//   - REGION: AWS region
//   - ACCESS_KEY_ID, SECRET_ACCESS_KEY: static AWS credentials (optional;
//     the default credential chain is used when unset)
//   - DYNAMODB_TABLE_NAME: papers table (required)
//   - DYNAMODB_ENDPOINT: endpoint override, e.g. DynamoDB Local (optional)
//   - REQUIRE_EXISTING_ON_UPDATE: reject updates of missing papers (default: false)
//   - LOG_LEVEL: debug, info, warn or error (default: "info")
//   - LOG_FORMAT: text or json (default: "text")
package config

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/joho/godotenv"

	"github.com/jacentio/paperstore/store"
)

// ErrMissingTable is returned when DYNAMODB_TABLE_NAME is not set.
var ErrMissingTable = errors.New("config: DYNAMODB_TABLE_NAME is not set")

// Config is the process configuration.
type Config struct {
	Port string

	Region          string
	AccessKeyID     string
	SecretAccessKey string

	TableName       string
	Endpoint        string
	RequireExisting bool

	LogLevel  slog.Level
	LogFormat string
}

// Load merges .env into the environment (a missing file is fine) and reads
// the configuration.
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv reads the configuration through getenv.
func FromEnv(getenv func(string) string) (Config, error) {
	cfg := Config{
		Port:            getenv("PORT"),
		Region:          getenv("REGION"),
		AccessKeyID:     getenv("ACCESS_KEY_ID"),
		SecretAccessKey: getenv("SECRET_ACCESS_KEY"),
		TableName:       getenv("DYNAMODB_TABLE_NAME"),
		Endpoint:        getenv("DYNAMODB_ENDPOINT"),
		LogFormat:       strings.ToLower(getenv("LOG_FORMAT")),
	}
	if cfg.Port == "" {
		cfg.Port = "5000"
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}
	if cfg.TableName == "" {
		return Config{}, ErrMissingTable
	}

	if v := getenv("REQUIRE_EXISTING_ON_UPDATE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("config: REQUIRE_EXISTING_ON_UPDATE: %w", err)
		}
		cfg.RequireExisting = b
	}

	if v := getenv("LOG_LEVEL"); v != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(v)); err != nil {
			return Config{}, fmt.Errorf("config: LOG_LEVEL: %w", err)
		}
	}

	switch cfg.LogFormat {
	case "text", "json":
	default:
		return Config{}, fmt.Errorf("config: LOG_FORMAT must be text or json, got %q", cfg.LogFormat)
	}

	return cfg, nil
}

// Addr returns the HTTP listen address.
func (c Config) Addr() string {
	return ":" + c.Port
}

// StoreConfig returns the store configuration.
func (c Config) StoreConfig() store.Config {
	cfg := store.DefaultConfig()
	cfg.TableName = c.TableName
	cfg.RequireExisting = c.RequireExisting
	return cfg
}

// Logger returns a slog.Logger writing to w in the configured format.
func (c Config) Logger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.LogLevel}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// AWS loads the AWS configuration. Static credentials are used when both
// keys are set, otherwise the default credential chain applies.
func (c Config) AWS(ctx context.Context) (aws.Config, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if c.Region != "" {
		opts = append(opts, awsconfig.WithRegion(c.Region))
	}
	if c.AccessKeyID != "" && c.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(c.AccessKeyID, c.SecretAccessKey, ""),
		))
	}
	return awsconfig.LoadDefaultConfig(ctx, opts...)
}

// DynamoDB builds a DynamoDB client, honouring the endpoint override.
func (c Config) DynamoDB(ctx context.Context) (*dynamodb.Client, error) {
	awsCfg, err := c.AWS(ctx)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if c.Endpoint != "" {
			o.BaseEndpoint = aws.String(c.Endpoint)
		}
	}), nil
}
