package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	tdwresolver "github.com/stackdump/tdw-resolver"
	"github.com/stackdump/tdw-resolver/internal/cache"
	"github.com/stackdump/tdw-resolver/internal/config"
	"github.com/stackdump/tdw-resolver/internal/resolve"
)

func newResolveCommand() *cobra.Command {
	var versionID string
	var versionTime string

	cmd := &cobra.Command{
		Use:   "resolve <did>",
		Short: "Resolve a did:tdw identifier and print its DID Document as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cmd.Flags())
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}

			logger := newLogger(cfg.LogLevel)

			var c *cache.Cache
			if cfg.CacheDir != "" {
				c = cache.New(cfg.CacheDir, cfg.CacheTTL)
			}

			r := tdwresolver.New(&http.Client{Timeout: cfg.FetchTimeout}, c, logger)

			opts, err := buildOptions(versionID, versionTime)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			result, err := r.Resolve(ctx, args[0], opts)
			if err != nil {
				return fmt.Errorf("resolve %s: %w", args[0], err)
			}

			out, err := json.MarshalIndent(result.Document, "", "  ")
			if err != nil {
				return fmt.Errorf("marshal resolved document: %w", err)
			}
			fmt.Fprintln(os.Stdout, string(out))
			return nil
		},
	}

	cmd.Flags().StringVar(&versionID, "version-id", "", "resolve the document effective at this exact versionId")
	cmd.Flags().StringVar(&versionTime, "version-time", "", "resolve the document effective at or before this RFC3339 timestamp")
	return cmd
}

func buildOptions(versionID, versionTime string) (*resolve.Options, error) {
	if versionID == "" && versionTime == "" {
		return nil, nil
	}
	if versionID != "" {
		return &resolve.Options{VersionID: versionID}, nil
	}
	t, err := time.Parse(time.RFC3339, versionTime)
	if err != nil {
		return nil, fmt.Errorf("parse --version-time: %w", err)
	}
	return &resolve.Options{VersionTime: &t}, nil
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(os.Stderr).Level(lvl).With().Timestamp().Logger()
}
