package utils

import (
	"log"

	"go.uber.org/zap"
)

// NewLogger builds the structured logger used by the services and the
// extraction worker. The fiber access log is configured separately.
func NewLogger() *zap.Logger {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("error initializing logger: %v", err)
	}
	return logger
}
