package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"ai_tutorial_generator/config"
	"ai_tutorial_generator/search"
	"ai_tutorial_generator/server"
)

const shutdownTimeout = 10 * time.Second

var (
	serveAddr  string
	rawOutput  bool
	genTimeout time.Duration
	searchMode string
	forceInit  bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web form",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp(cfg, logger)
		if err != nil {
			return err
		}
		srv, err := server.New(a.normalizer, a.driver, a.publisher, server.Options{
			RequestTimeout: cfg.Server.RequestTimeout,
			Logger:         logger,
			Metrics:        a.metrics,
		})
		if err != nil {
			return err
		}

		addr := cfg.Server.Addr
		if serveAddr != "" {
			addr = serveAddr
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() { errCh <- srv.Start(addr) }()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}
		logger.Info("shutting down web server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}

var generateCmd = &cobra.Command{
	Use:   "generate <topic>",
	Short: "Generate a tutorial and print it",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp(cfg, logger)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		timeout := cfg.Server.RequestTimeout
		if genTimeout > 0 {
			timeout = genTimeout
		}
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}

		t := a.normalizer.Normalize(ctx, strings.Join(args, " "))
		logger.Info("topic normalized", zap.String("topic", t))
		res, err := a.driver.Run(ctx, t)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if rawOutput {
			fmt.Fprint(out, res.Draft.Markdown)
		} else {
			r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
			if err != nil {
				return err
			}
			rendered, err := r.Render(res.Draft.Markdown)
			if err != nil {
				return err
			}
			fmt.Fprint(out, rendered)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Tutorial saved to %s (%s)\n", res.Path, res.Duration.Round(time.Second))
		return nil
	},
}

var normalizeCmd = &cobra.Command{
	Use:   "normalize <topic>",
	Short: "Show how a topic would be normalized",
	Args:  cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp(cfg, logger)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), a.normalizer.Normalize(cmd.Context(), strings.Join(args, " ")))
		return nil
	},
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Run the research agent's web search tool",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if searchMode != "" {
			cfg.Search.Mode = searchMode
			if err := cfg.Search.Validate(); err != nil {
				return err
			}
		}
		a, err := buildApp(cfg, logger)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), a.search.Run(cmd.Context(), strings.Join(args, " ")))
		return nil
	},
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default config file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.WriteDefault(configPath, forceInit); err != nil {
			if errors.Is(err, os.ErrExist) {
				return fmt.Errorf("%w (use --force to overwrite)", err)
			}
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", configPath)
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides server.addr)")
	generateCmd.Flags().BoolVar(&rawOutput, "raw", false, "print markdown without terminal rendering")
	generateCmd.Flags().DurationVar(&genTimeout, "timeout", 0, "overall timeout (default server.request_timeout)")
	searchCmd.Flags().StringVar(&searchMode, "mode", "", "result format: "+search.ModeDigest+" or "+search.ModeReport)
	initCmd.Flags().BoolVar(&forceInit, "force", false, "overwrite an existing file")
}
