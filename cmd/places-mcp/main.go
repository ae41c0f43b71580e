package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/svarun115/googleplaces-mcp-server/internal/config"
	"github.com/svarun115/googleplaces-mcp-server/internal/logger"
	"github.com/svarun115/googleplaces-mcp-server/internal/mcp"
	"github.com/svarun115/googleplaces-mcp-server/internal/places"
	"github.com/svarun115/googleplaces-mcp-server/internal/tools"
	"github.com/svarun115/googleplaces-mcp-server/internal/tools/geo"
	"github.com/svarun115/googleplaces-mcp-server/internal/transport"
	"github.com/svarun115/googleplaces-mcp-server/pkg/version"
)

var (
	configPath string
	useStdio   bool
	useWS      bool
	useHTTP    bool
	port       int
	logLevel   string
	logFormat  string
)

func main() {
	root := &cobra.Command{
		Use:          "places-mcp",
		Short:        "MCP server exposing Google geolocation tools",
		Version:      version.Version,
		RunE:         run,
		SilenceUsage: true,
	}

	root.Flags().StringVar(&configPath, "config", "", "path to YAML config file")
	root.Flags().BoolVar(&useStdio, "stdio", false, "serve JSON-RPC over stdin/stdout (default)")
	root.Flags().BoolVar(&useWS, "ws", false, "serve over WebSocket")
	root.Flags().BoolVar(&useHTTP, "http", false, "serve over streamable HTTP")
	root.Flags().IntVar(&port, "port", 0, "listen port for network transports")
	root.Flags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	root.Flags().StringVar(&logFormat, "log-format", "", "log format (text, json)")

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if err := applyFlags(cmd, cfg); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logCfg := logger.DefaultConfig()
	logCfg.Level = logger.ParseLevel(cfg.LogLevel)
	logCfg.Format = cfg.LogFormat
	logger.Init(logCfg)

	keys, cleanup, err := keySource(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	client := places.NewClient(keys)

	registry := tools.NewRegistry()
	for _, tool := range geo.GetTools(client) {
		if err := registry.Register(tool); err != nil {
			return fmt.Errorf("registering tool: %w", err)
		}
	}
	logger.Info("tools registered", "tools", registry.Names())

	handler := mcp.NewHandler(registry)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch cfg.Transport {
	case config.TransportStdio:
		return transport.NewStdioServer(handler).Run(ctx)
	case config.TransportWebSocket:
		return transport.NewWebSocketServer(handler, cfg.ListenPort()).Run(ctx)
	case config.TransportHTTP:
		srv, err := transport.NewHTTPServer(handler, cfg.ListenPort())
		if err != nil {
			return err
		}
		return srv.Run(ctx)
	default:
		return fmt.Errorf("unknown transport %q", cfg.Transport)
	}
}

func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	selected := 0
	if useStdio {
		cfg.Transport = config.TransportStdio
		selected++
	}
	if useWS {
		cfg.Transport = config.TransportWebSocket
		selected++
	}
	if useHTTP {
		cfg.Transport = config.TransportHTTP
		selected++
	}
	if selected > 1 {
		return fmt.Errorf("--stdio, --ws and --http are mutually exclusive")
	}

	if cmd.Flags().Changed("port") {
		cfg.Port = port
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if logFormat != "" {
		cfg.LogFormat = logFormat
	}
	return nil
}

// keySource builds the API key source: a watched key file when configured,
// otherwise the static key from the environment.
func keySource(cfg *config.Config) (config.KeySource, func(), error) {
	if cfg.APIKeyFile != "" {
		kw, err := config.NewKeyWatcher(cfg.APIKeyFile)
		if err != nil {
			return nil, nil, err
		}
		return kw, func() { kw.Close() }, nil
	}
	return config.StaticKey(cfg.APIKey), func() {}, nil
}
