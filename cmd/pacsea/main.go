// pacsea is a terminal package-manager companion for Arch Linux: it
// unifies package discovery, preflight dependency analysis, and
// installation planning across the official repositories and the AUR.
//
// Usage:
//
//	pacsea [flags]
//
// Flags:
//
//	-config string     Path to configuration file (default: XDG search path)
//	-cache-dir string  Override the on-disk cache directory
//	-log-level string  Log level: debug, info, warn, error (default "info")
//	-dry-run           Print the resolved configuration and exit
//	-headless          Disable the interactive loop (also via PACSEA_TEST_HEADLESS=1)
//	-version           Print version and exit
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"

	"github.com/Firstp1ck/Pacsea-sub003/internal/config"
	"github.com/Firstp1ck/Pacsea-sub003/internal/tui"
)

var version = "0.1.0"

func main() {
	var (
		configPath  = flag.String("config", "", "Path to configuration file")
		cacheDir    = flag.String("cache-dir", "", "Override the on-disk cache directory")
		logLevel    = flag.String("log-level", "", "Log level: debug, info, warn, error")
		dryRun      = flag.Bool("dry-run", false, "Print the resolved configuration and exit")
		headless    = flag.Bool("headless", false, "Disable the interactive loop")
		showVersion = flag.Bool("version", false, "Print version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("pacsea %s\n", version)
		os.Exit(0)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *cacheDir != "" {
		cfg.General.CacheDir = *cacheDir
		cfg.Cache.Dir = *cacheDir
	}
	if *logLevel != "" {
		cfg.General.LogLevel = *logLevel
	}

	logger, closeLog, err := setupLogging(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to set up logging: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	if *dryRun {
		fmt.Printf("%+v\n", cfg)
		os.Exit(0)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	forceHeadless := *headless || os.Getenv("PACSEA_TEST_HEADLESS") == "1"
	if !forceHeadless && !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		logger.Warn("stdout is not a terminal, falling back to headless mode")
		forceHeadless = true
	}
	if forceHeadless {
		logger.Info("headless mode: skipping interactive loop")
		<-ctx.Done()
		return
	}

	if termenv.NewOutput(os.Stdout).Profile == termenv.Ascii {
		logger.Warn("terminal reports no color support, rendering will be monochrome")
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	m := tui.New(cfg, logger)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		logger.Error("tui exited with error", "error", err)
		os.Exit(1)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFromFile(path)
	}
	return config.Load()
}

func setupLogging(cfg *config.Config) (*slog.Logger, func(), error) {
	level := slog.LevelInfo
	switch cfg.General.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	cacheDir := cfg.General.CacheDir
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("create cache dir %q: %w", cacheDir, err)
	}
	logPath := filepath.Join(cacheDir, "pacsea.log")
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file %q: %w", logPath, err)
	}

	multi := io.MultiWriter(os.Stderr, logFile)
	logger := slog.New(slog.NewJSONHandler(multi, &slog.HandlerOptions{Level: level}))
	return logger, func() { logFile.Close() }, nil
}
