package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/1broseidon/tilewin/internal/config"
	"github.com/1broseidon/tilewin/internal/engine"
	"github.com/1broseidon/tilewin/internal/ipc"
	"github.com/1broseidon/tilewin/internal/platform"
)

func main() {
	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}

	switch os.Args[1] {
	case "run":
		os.Exit(runWindow(os.Args[2:]))
	case "status":
		os.Exit(runStatus(os.Args[2:]))
	case "close":
		os.Exit(runClose(os.Args[2:]))
	case "geometry":
		os.Exit(runGeometry(os.Args[2:]))
	case "config":
		os.Exit(runConfig(os.Args[2:]))
	case "mcp":
		os.Exit(runMCP(os.Args[2:]))
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printMainUsage(os.Stderr)
		os.Exit(2)
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: tilewin <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  run                 Create and show the main window (foreground)")
	fmt.Fprintln(w, "  status              Show the running window's status")
	fmt.Fprintln(w, "  close               Ask the running window to close")
	fmt.Fprintln(w, "  geometry            Show display metrics and the window plan")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config init         Write a starter config file")
	fmt.Fprintln(w, "  config validate     Validate configuration")
	fmt.Fprintln(w, "  config print        Print configuration")
	fmt.Fprintln(w, "  config explain      Explain a config value")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  mcp serve           Start MCP server (stdio transport)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'tilewin <command> --help' for command-specific options.")
}

// loadConfig loads the default config chain, or path when set, with
// project overlays from the working directory.
func loadConfig(path string) (*config.LoadResult, error) {
	cwd, err := os.Getwd()
	if err != nil {
		cwd = ""
	}
	if path == "" {
		return config.LoadWithProjectSources(cwd)
	}
	return config.LoadFromPathWithProject(path, cwd)
}

// newLogger builds the process logger from the logging section.
func newLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	if cfg.Logging.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func runWindow(args []string) int {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("path", "", "Config file path (default: ~/.config/tilewin/app.yaml)")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: tilewin run [--path PATH]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Create the main window and block until it is closed.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "run takes no arguments")
		fs.Usage()
		return 2
	}

	res, err := loadConfig(*path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	cfg := res.Config

	logger := newLogger(cfg, os.Stderr)
	slog.SetDefault(logger)
	platform.SetLogger(logger)
	for _, f := range res.Files {
		logger.Debug("config file loaded", "file", f)
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(sigCtx)
	defer cancel()

	eng := engine.New(cfg, engine.Options{Logger: logger})

	closeChan := make(chan struct{}, 1)
	server, err := ipc.NewServer(cfg.Name, eng, closeChan, logger)
	if err != nil {
		logger.Warn("control socket disabled", "error", err)
	} else if err := server.Start(); err != nil {
		logger.Warn("control socket disabled", "error", err)
	} else {
		defer server.Stop()
	}

	go func() {
		select {
		case <-closeChan:
			cancel()
		case <-ctx.Done():
		}
	}()

	if err := eng.Run(ctx); err != nil {
		logger.Error("window failed", "error", err)
		return 1
	}
	return 0
}

func runStatus(args []string) int {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	name := fs.String("name", config.DefaultName, "Window name")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: tilewin status [--name NAME]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Show window status via IPC.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "status takes no arguments")
		fs.Usage()
		return 2
	}

	client := ipc.NewClient(*name)
	status, err := client.GetStatus()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Printf("name:           %s\n", status.Name)
	fmt.Printf("state:          %s\n", status.State)
	fmt.Printf("mode:           %s\n", status.Mode)
	fmt.Printf("handle:         %s\n", status.Handle)
	fmt.Printf("position:       %s\n", status.Position)
	fmt.Printf("size:           %s\n", status.Size)
	fmt.Printf("client_size:    %s\n", status.ClientSize)
	fmt.Printf("viewport:       %s\n", status.Viewport)
	fmt.Printf("implementation: %s\n", status.ImplementationID)
	fmt.Printf("uptime_seconds: %d\n", status.UptimeSeconds)
	return 0
}

func runClose(args []string) int {
	fs := flag.NewFlagSet("close", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	name := fs.String("name", config.DefaultName, "Window name")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	if err := ipc.NewClient(*name).Close(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Println("close requested")
	return 0
}
