package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/anchor-ui/mcp-server/pkg/catalog"
	"github.com/anchor-ui/mcp-server/pkg/jsx"
	mcpserver "github.com/anchor-ui/mcp-server/pkg/mcp"
	"github.com/anchor-ui/mcp-server/pkg/mcplog"
	"github.com/anchor-ui/mcp-server/pkg/reference"
)

func newServeCmd(a *app) *cobra.Command {
	var (
		watch   bool
		engine  string
		toolLog string
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server on stdio",
		Long: `Start the MCP server on stdin/stdout.

With --watch the reference directory is watched and cached components are
rebuilt after their files change.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("watch") {
				a.cfg.Watch = watch
			}
			if cmd.Flags().Changed("engine") {
				a.cfg.Engine = engine
			}
			if cmd.Flags().Changed("tool-log") {
				a.cfg.ToolLog = a.resolve(toolLog)
			}
			return runServe(cmd.Context(), a)
		},
	}
	cmd.Flags().BoolVar(&watch, "watch", false, "watch the reference directory and refresh changed components")
	cmd.Flags().StringVar(&engine, "engine", "", "guardrail matching engine: regex or ast")
	cmd.Flags().StringVar(&toolLog, "tool-log", "", "append a JSONL record of every tool call to this file")
	return cmd
}

func runServe(ctx context.Context, a *app) error {
	store, err := a.openStore()
	if err != nil {
		return err
	}
	builder, err := a.newBuilder(store)
	if err != nil {
		return err
	}

	var (
		src   catalog.Source = builder
		cache *catalog.CachedSource
	)
	if a.cfg.CacheSize > 0 {
		if cache, err = catalog.NewCachedSource(builder, a.cfg.CacheSize, a.logger); err != nil {
			return err
		}
		src = cache
	}

	vals, err := newValidators(a.cfg.Engine, a.logger)
	if err != nil {
		return err
	}
	defer vals.close()

	tl, err := mcplog.NewLogger(a.cfg.ToolLog)
	if err != nil {
		return err
	}
	if tl != nil {
		defer tl.Close()
	}

	srv := mcpserver.NewServer(catalog.NewQueryService(src), vals.forLanguage(jsx.LanguageTSX), tl, a.logger)
	if err := srv.SyncComponentResources(ctx); err != nil {
		return err
	}

	if a.cfg.Watch {
		onChange := func(component string) {
			if cache != nil {
				cache.Invalidate(component)
			}
			if err := srv.SyncComponentResources(context.WithoutCancel(ctx)); err != nil {
				a.logger.Warn("resource refresh failed", "component", component, "error", err)
			}
		}
		w, err := reference.NewWatcher(store, onChange, 0, a.logger)
		if err != nil {
			return err
		}
		if err := w.Start(); err != nil {
			return err
		}
		defer w.Stop()
	}

	a.logger.Info("serving MCP on stdio",
		"reference_dir", store.Dir(),
		"engine", a.cfg.Engine,
		"cache_size", a.cfg.CacheSize,
		"watch", a.cfg.Watch,
	)
	return srv.ServeStdio()
}
