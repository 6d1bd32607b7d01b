package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	botlog "github.com/msto63/botlang/foundation/core/log"
	"github.com/msto63/botlang/internal/host"
	"github.com/msto63/botlang/internal/server"
	"github.com/msto63/botlang/pkg/core/logging"
	"github.com/msto63/botlang/pkg/core/version"
)

type serveOptions struct {
	host        string
	port        int
	tickTimeout time.Duration
	cacheTTL    time.Duration
	cacheSize   int
}

func (a *app) serveCommand() *cobra.Command {
	opts := &serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve [script]",
		Short: "Start the websocket decision server",
		Long: `Parses a script once and serves decisions over a websocket.

Clients connect to /ws and send
  {"type":"tick","payload":{"sensors":{"_FRONT_NEIGHBOR":"ENEMY"}}}
and receive
  {"type":"action","payload":{"tick":1,"action":"ATTACK",...}}

The script defaults to [server] script of the config file. /health
reports the loaded script and the journal state.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serve(cmd, args, opts)
		},
	}

	cmd.Flags().StringVar(&opts.host, "host", "", "listen host (default from config)")
	cmd.Flags().IntVarP(&opts.port, "port", "p", 0, "listen port (default from config)")
	cmd.Flags().DurationVar(&opts.tickTimeout, "tick-timeout", time.Second, "evaluation budget per tick")
	cmd.Flags().DurationVar(&opts.cacheTTL, "cache-ttl", 0, "reuse decisions for repeated sensor states (0 disables)")
	cmd.Flags().IntVar(&opts.cacheSize, "cache-size", 10000, "maximum cached decisions")
	return cmd
}

func (a *app) serve(cmd *cobra.Command, args []string, opts *serveOptions) error {
	path := a.cfg.Server.Script
	if len(args) > 0 {
		path = args[0]
	}
	if path == "" {
		return fmt.Errorf("no script given and [server] script is not configured")
	}

	filename, source, err := readScript(cmd, path)
	if err != nil {
		return err
	}
	bot, err := host.Compile(a.engine(cmd.OutOrStdout()), filename, source)
	if err != nil {
		return report(cmd.ErrOrStderr(), err)
	}

	defaults, err := a.sensors()
	if err != nil {
		return err
	}
	store, err := a.openJournal()
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
	}

	cfg := server.DefaultConfig()
	cfg.Host = a.cfg.Server.Host
	cfg.Port = a.cfg.Server.Port
	cfg.ReadTimeout = a.cfg.Server.ReadTimeout.Duration
	cfg.WriteTimeout = a.cfg.Server.WriteTimeout.Duration
	cfg.TickTimeout = opts.tickTimeout
	cfg.Version = version.Server
	cfg.Bot = bot
	cfg.Defaults = defaults
	cfg.Journal = store
	cfg.Logger = logging.Wrap(a.logger, "server")
	if a.cfg.Server.LogLevel != "" && !a.verbose {
		level, err := logging.ParseLevel(a.cfg.Server.LogLevel)
		if err != nil {
			return err
		}
		cfg.Logger = cfg.Logger.WithLevel(level)
	}
	cfg.DecisionCacheTTL = opts.cacheTTL
	cfg.DecisionCacheSize = opts.cacheSize
	if opts.host != "" {
		cfg.Host = opts.host
	}
	if opts.port != 0 {
		cfg.Port = opts.port
	}

	srv, err := server.New(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Run(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		if ctx.Err() != nil {
			a.logger.Info("shutdown signal received", botlog.Fields{"address": srv.Address()})
		}
		return nil
	})
	return g.Wait()
}
