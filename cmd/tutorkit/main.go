// Command tutorkit answers questions about course materials using a
// retrieval-backed completion loop.
//
// Usage:
//
//	tutorkit ask "What does lesson 3 of the MCP course cover?"
//	tutorkit chat --config config.yaml
//	tutorkit courses
package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/alecthomas/kong"

	"github.com/tutorkit/tutorkit/pkg/config"
	"github.com/tutorkit/tutorkit/pkg/logger"
)

// CLI defines the command-line interface.
type CLI struct {
	Ask     AskCmd     `cmd:"" help:"Ask a single question and print the answer."`
	Chat    ChatCmd    `cmd:"" help:"Start an interactive chat session."`
	Courses CoursesCmd `cmd:"" help:"Show loaded course analytics."`
	Schema  SchemaCmd  `cmd:"" help:"Generate JSON Schema for the config file."`
	Version VersionCmd `cmd:"" help:"Show version information."`

	Config      string `short:"c" help:"Path to config file." type:"path"`
	LogLevel    string `help:"Log level (debug, info, warn, error)." default:"info"`
	LogFile     string `help:"Log file path (empty = stderr)."`
	LogFormat   string `help:"Log format (simple or verbose)." default:"simple"`
	MetricsPort int    `name:"metrics-port" help:"Serve Prometheus metrics on this port (0 = disabled)."`
}

// VersionCmd shows version information.
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	version := "dev"
	if info, ok := debug.ReadBuildInfo(); ok {
		if info.Main.Version != "(devel)" && info.Main.Version != "" {
			version = info.Main.Version
		}
	}
	fmt.Printf("tutorkit version %s\n", version)
	return nil
}

func initLogger(cli *CLI) (func(), error) {
	logLevel := cli.LogLevel
	if env := os.Getenv("LOG_LEVEL"); logLevel == "" && env != "" {
		logLevel = env
	}
	if logLevel == "" {
		logLevel = "info"
	}
	logFormat := cli.LogFormat
	if logFormat == "" {
		logFormat = "simple"
	}

	level, err := logger.ParseLevel(logLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	output := os.Stderr
	var cleanup func()
	if cli.LogFile != "" {
		file, cleanupFn, err := logger.OpenLogFile(cli.LogFile)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		output = file
		cleanup = cleanupFn
	}

	logger.Init(level, output, logFormat)
	return cleanup, nil
}

func main() {
	config.LoadEnv(".env")

	cli := CLI{}
	ctx := kong.Parse(&cli,
		kong.Name("tutorkit"),
		kong.Description("tutorkit - course material question answering"),
		kong.UsageOnError(),
	)

	cleanup, err := initLogger(&cli)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	if cleanup != nil {
		defer cleanup()
	}

	err = ctx.Run(&cli)
	ctx.FatalIfErrorf(err)
}
