package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/spf13/cobra"

	tdwresolver "github.com/stackdump/tdw-resolver"
	"github.com/stackdump/tdw-resolver/internal/cache"
	"github.com/stackdump/tdw-resolver/internal/config"
	"github.com/stackdump/tdw-resolver/internal/errs"
	"github.com/stackdump/tdw-resolver/internal/logging"
)

func newServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve did:tdw resolution over HTTP: GET /1.0/identifiers/{did}",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cmd.Flags())
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}

			zl := newLogger(cfg.LogLevel)
			logger := logging.NewFromLogger(zl)

			var c *cache.Cache
			if cfg.CacheDir != "" {
				c = cache.New(cfg.CacheDir, cfg.CacheTTL)
			}

			r := tdwresolver.New(&http.Client{Timeout: cfg.FetchTimeout}, c, zl)

			mux := http.NewServeMux()
			mux.Handle("/1.0/identifiers/", resolveHandler(r))
			mux.Handle("/healthz", healthHandler(cfg))

			handler := logging.Middleware(logger, false)(mux)

			zl.Info().Str("address", cfg.ListenAddress).Msg("listening")
			return http.ListenAndServe(cfg.ListenAddress, handler)
		},
	}
	return cmd
}

// resolveHandler implements a minimal DID resolution HTTP binding: GET
// /1.0/identifiers/{did} returns the resolved document as
// application/did+json, or a JSON error body with a status mapped from the
// failing error's kind.
func resolveHandler(r *tdwresolver.Resolver) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		did := strings.TrimPrefix(req.URL.Path, "/1.0/identifiers/")
		if did == "" {
			http.Error(w, "missing did", http.StatusBadRequest)
			return
		}

		opts := &tdwresolver.Options{
			VersionID: req.URL.Query().Get("versionId"),
		}

		result, err := r.Resolve(req.Context(), did, opts)
		if err != nil {
			writeError(w, err)
			return
		}

		w.Header().Set("Content-Type", result.Metadata.ContentType)
		_ = json.NewEncoder(w).Encode(result.Document)
	})
}

// healthHandler reports this instance's own serving configuration: the
// address it is bound to and whether log caching is enabled, so an operator
// can tell from one request whether a misbehaving resolver is even running
// with the cache they expect.
func healthHandler(cfg *config.Config) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"status":        "ok",
			"listenAddress": cfg.ListenAddress,
			"cacheEnabled":  cfg.CacheDir != "",
			"cacheTtl":      cfg.CacheTTL.String(),
		})
	})
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	var e *errs.Error
	if errors.As(err, &e) {
		switch e.Kind {
		case errs.InvalidDIDFormat:
			status = http.StatusBadRequest
		case errs.VersionNotFound, errs.NoDocumentFound:
			status = http.StatusNotFound
		case errs.ResolutionFailed, errs.RequestError:
			status = http.StatusBadGateway
		}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
