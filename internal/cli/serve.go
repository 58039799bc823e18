package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/brandqr/pkg/pipeline"
	"github.com/matzehuels/brandqr/pkg/server"
)

// serveCommand creates the serve command, which runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		envFile   string
		addr      string
		cacheKind string
		store     string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and share page host",
		Long: `Run the HTTP API.

Configuration is read from BRANDQR_* environment variables and an optional
.env file. Flags override the environment.`,
		Example: `  brandqr serve --addr :9000
  BRANDQR_CACHE=redis BRANDQR_REDIS_URL=redis://localhost:6379/0 brandqr serve
  brandqr serve --store mongo --env-file prod.env`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var files []string
			if envFile != "" {
				files = append(files, envFile)
			}
			cfg, err := server.LoadConfig(files...)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Addr = addr
			}
			if cmd.Flags().Changed("cache") {
				cfg.Cache = cacheKind
			}
			if cmd.Flags().Changed("store") {
				cfg.ShareStore = store
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			ctx := cmd.Context()
			cc, err := server.OpenCache(ctx, cfg)
			if err != nil {
				return err
			}
			runner := pipeline.NewRunner(nil, cc, nil, c.Logger)
			runner.Template = templateSource(cfg.ShareTemplate, cc)
			defer runner.Close()

			st, err := server.OpenStore(ctx, cfg, cc)
			if err != nil {
				return err
			}
			defer st.Close()

			c.Logger.Info("Serving", "addr", cfg.Addr, "cache", cfg.Cache, "store", cfg.ShareStore)
			return server.New(cfg, runner, st, c.Logger).ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", "", "dotenv file to load (default .env)")
	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&cacheKind, "cache", server.CacheFile, "cache backend: file, redis, none")
	cmd.Flags().StringVar(&store, "store", server.StoreMemory, "share store: memory, file, cache, mongo")

	return cmd
}
