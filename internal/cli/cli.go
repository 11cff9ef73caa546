package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/vk/gridlevels/internal/app"
	"github.com/vk/gridlevels/internal/artifact"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// envPrefix namespaces the environment variables that provide flag defaults.
const envPrefix = "GRIDLEVELS_"

func envString(name, fallback string) string {
	if v, ok := os.LookupEnv(envPrefix + name); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}

func envInt(name string, fallback int) int {
	if v, err := strconv.Atoi(envString(name, "")); err == nil {
		return v
	}
	return fallback
}

// Parse processes command-line arguments. It returns a populated app.Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("gridlevels", flag.ContinueOnError)
	flagSet.SetOutput(output)

	// Custom usage/help text function
	flagSet.Usage = func() {
		fmt.Fprint(output, `
gridlevels - Groups the items of a dependency grid into levels that can run in parallel.

Usage:
  gridlevels [options] GRID_PATH [GRID_PATH...]

Arguments:
  GRID_PATH
    Path to a single .hcl file or a directory containing .hcl files.

Options:
`)
		flagSet.PrintDefaults()
	}

	gridFlag := flagSet.String("grid", envString("GRID", ""), "Path to the grid file or directory.")
	gFlag := flagSet.String("g", "", "Path to the grid file or directory (shorthand).")
	logFormatFlag := flagSet.String("log-format", envString("LOG_FORMAT", "text"), "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", envString("LOG_LEVEL", "info"), "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	outputFlag := flagSet.String("output", envString("OUTPUT", "text"), "Plan output format. Options: 'text' or 'json'.")
	workersFlag := flagSet.Int("workers", envInt("WORKERS", 0), "Number of concurrent workers per resolution pass. 0 uses GOMAXPROCS.")
	strategyFlag := flagSet.String("strategy", envString("STRATEGY", "frontier"), "Level admission rule. Options: 'frontier' or 'deepest'.")
	emitURLFlag := flagSet.String("emit-url", envString("EMIT_URL", ""), "Socket.io server URL to publish the plan to. Empty disables publishing.")
	emitNamespaceFlag := flagSet.String("emit-namespace", envString("EMIT_NAMESPACE", "/"), "Socket.io namespace used for publishing.")
	emitEventFlag := flagSet.String("emit-event", envString("EMIT_EVENT", "levels"), "Socket.io event name carrying the plan.")
	emitTimeoutFlag := flagSet.Duration("emit-timeout", 15*time.Second, "Timeout for the socket.io connection.")
	emitInsecureFlag := flagSet.Bool("emit-insecure", false, "Skip TLS certificate verification for the socket.io connection.")
	uploadKeyFlag := flagSet.String("upload-key", envString("UPLOAD_KEY", ""), "Object key to upload the JSON plan to (uses GRIDLEVELS_S3_* settings). Empty disables upload.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	var paths []string
	if *gridFlag != "" {
		paths = append(paths, *gridFlag)
	}
	if *gFlag != "" {
		paths = append(paths, *gFlag)
	}
	paths = append(paths, flagSet.Args()...)
	slog.Debug("Grid paths determined.", "paths", paths)

	if len(paths) == 0 {
		slog.Debug("No grid path provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	outputFormat := strings.ToLower(*outputFlag)
	if outputFormat != "text" && outputFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid output: must be 'text' or 'json'"}
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		GridPaths:     paths,
		LogFormat:     logFormat,
		LogLevel:      logLevel,
		OutputFormat:  outputFormat,
		WorkerCount:   *workersFlag,
		Strategy:      strings.ToLower(*strategyFlag),
		EmitURL:       *emitURLFlag,
		EmitNamespace: *emitNamespaceFlag,
		EmitEvent:     *emitEventFlag,
		EmitTimeout:   *emitTimeoutFlag,
		EmitInsecure:  *emitInsecureFlag,
		UploadKey:     *uploadKeyFlag,
		S3:            artifact.S3ConfigFromEnv(),
	})

	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
