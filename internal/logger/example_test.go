package logger_test

import (
	"errors"
	"time"

	"github.com/jonesrussell/gotweet/internal/logger"
)

func ExampleNewLogger() {
	// Development logger: human-readable, colorized console output.
	devLogger, err := logger.NewLogger(true)
	if err != nil {
		panic(err)
	}
	defer devLogger.Sync()

	devLogger.Info("Development logger created")
	// Output:
}

func ExampleNewLogger_production() {
	// Production logger: JSON output, info level.
	prodLogger, err := logger.NewLogger(false)
	if err != nil {
		panic(err)
	}
	defer prodLogger.Sync()

	prodLogger.Info("Production logger created")
	// Output:
}

func ExampleLogger_Info() {
	log, _ := logger.NewLogger(true)
	defer log.Sync()

	log.Info("Thread published",
		logger.String("root_id", "1868423311"),
		logger.Int("tweet_count", 5),
	)
	// Output:
}

func ExampleLogger_Error() {
	log, _ := logger.NewLogger(true)
	defer log.Sync()

	err := errors.New("tweet rejected: status 403")
	log.Error("Publish failed",
		logger.Int("tweet_index", 2),
		logger.Error(err),
	)
	// Output:
}

func ExampleLogger_With() {
	log, _ := logger.NewLogger(true)
	defer log.Sync()

	// Attach the run context once; every entry below carries it.
	runLogger := log.With(
		logger.String("run_id", "9f0c2a7e"),
	)

	runLogger.Info("Fetching articles")
	runLogger.Info("Run completed")
	// Output:
}

func ExampleDuration() {
	log, _ := logger.NewLogger(true)
	defer log.Sync()

	start := time.Now()
	// ... call the generation backend ...
	elapsed := time.Since(start)

	log.Info("Generation completed",
		logger.String("backend", "gemini"),
		logger.Duration("duration", elapsed),
	)
	// Output:
}

func ExampleNewNopLogger() {
	// No-op logger for tests.
	log := logger.NewNopLogger()

	log.Debug("debug message")
	log.Info("info message")

	_ = log.Sync()
	// Output:
}
