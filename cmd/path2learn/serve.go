package main

import (
	"context"
	"crypto/tls"
	"net"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/sreevalligodiganuru08-collab/path2learn-smart-learning/internal/logging"
	"github.com/sreevalligodiganuru08-collab/path2learn-smart-learning/internal/security"
	"github.com/sreevalligodiganuru08-collab/path2learn-smart-learning/internal/server"
)

func newServeCommand(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the upload page and forward uploads to a backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return c.serve(ctx)
		},
	}
	cmd.Flags().String("addr", ":8080", "listen address")
	cmd.Flags().String("static-dir", "static", "directory holding main.wasm and wasm_exec.js")
	cmd.Flags().String("upstream", "", "backend base URL receiving upload POSTs")
	cmd.Flags().Bool("tls", false, "serve HTTPS with a generated self-signed certificate")
	return cmd
}

func (c *cli) serve(ctx context.Context) error {
	logger := logging.WithComponent(c.logger, "server")

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	srv, err := server.New(server.Options{
		Bindings:  c.cfg.Bindings,
		StaticDir: c.cfg.Server.StaticDir,
		Upstream:  c.cfg.Server.Upstream,
		Registry:  reg,
		Logger:    logger,
	})
	if err != nil {
		return err
	}
	if c.cfg.Server.Upstream == "" {
		logger.Warn("no upstream configured, upload POSTs will get 503")
	}

	var tlsConfig *tls.Config
	if c.cfg.Server.TLS {
		host, _, _ := net.SplitHostPort(c.cfg.Server.Addr)
		hosts := []string{"localhost", "127.0.0.1"}
		if host != "" {
			hosts = append(hosts, host)
		}
		tlsConfig, err = security.SelfSignedTLSConfig(hosts...)
		if err != nil {
			return err
		}
	}
	return srv.ListenAndServe(ctx, c.cfg.Server.Addr, tlsConfig)
}
