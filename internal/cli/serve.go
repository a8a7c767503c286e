package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/familytree/internal/server"
	"github.com/matzehuels/familytree/pkg/pipeline"
)

// serveCommand starts the read-only HTTP API over the configured store.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the family and its trees over HTTP",
		Example: `  familytree serve
  familytree serve --addr :9000
  curl 'localhost:8080/api/tree.svg?focus=p1&ancestors=2'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			st, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			runner := c.newRunner(ctx, noCache)
			defer runner.Close()

			cfg := c.config()
			if addr == "" {
				addr = cfg.Server.Addr
			}
			treeOpts := cfg.TreeOptions()
			srv := server.New(st,
				server.WithLogger(logger),
				server.WithRunner(runner),
				server.WithDefaults(pipeline.Options{
					FocusID:         cfg.View.Focus,
					AncestorDepth:   treeOpts.AncestorDepth,
					DescendantDepth: treeOpts.DescendantDepth,
					MaxNodes:        treeOpts.MaxNodes,
					Box:             cfg.LayoutOptions(),
					Palette:         cfg.View.Palette,
				}),
			)

			c.out.success("Serving %s store on http://%s", cfg.Store.Backend, addr)
			c.out.detail("Press Ctrl+C to stop")
			return srv.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, 127.0.0.1:8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the layout and render cache")
	return cmd
}
