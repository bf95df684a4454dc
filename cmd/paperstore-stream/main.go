// Package main runs the papers table stream handler as an AWS Lambda
// function. Attach it to the table's DynamoDB Stream (NEW_AND_OLD_IMAGES).
package main

import (
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/jacentio/paperstore/internal/config"
	"github.com/jacentio/paperstore/stream"
)

func main() {
	cfg := config.Config{LogFormat: "json"}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(v)); err != nil {
			cfg.LogLevel = slog.LevelInfo
		}
	}
	logger := cfg.Logger(os.Stdout)
	h := stream.NewHandler(logger)
	lambda.Start(h.HandleChanges)
}
