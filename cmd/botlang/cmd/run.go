package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/msto63/botlang/foundation/botlang"
	"github.com/msto63/botlang/foundation/botlang/interpreter"
	botlog "github.com/msto63/botlang/foundation/core/log"
	"github.com/msto63/botlang/internal/host"
	"github.com/msto63/botlang/internal/journal"
)

type runOptions struct {
	snapshot string
	set      []string
	decide   bool
	watch    bool
}

func (a *app) runCommand() *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run <script>",
		Short: "Run a script",
		Long: `Runs a script once and prints its result.

Sensor values come from the [sensors] table of the config file, then from
a snapshot file (--sensors), then from --set NAME=VALUE.

With --watch the script runs again whenever the script or the snapshot
file changes, until interrupted.

Examples:
  botlang run bot.bl --set _FRONT_NEIGHBOR=ENEMY
  botlang run bot.bl --sensors tick.toml --decide
  botlang run bot.bl --sensors tick.yaml --watch`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.snapshot, "sensors", "s", "", "sensor snapshot file (TOML or YAML)")
	cmd.Flags().StringArrayVar(&opts.set, "set", nil, "sensor value NAME=VALUE (repeatable)")
	cmd.Flags().BoolVarP(&opts.decide, "decide", "d", false, "print the decided action instead of the result")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "re-run whenever the script or snapshot changes")
	return cmd
}

func (a *app) run(cmd *cobra.Command, path string, opts *runOptions) error {
	if opts.watch && path == "-" {
		return fmt.Errorf("--watch needs a script file, not standard input")
	}

	filename, source, err := readScript(cmd, path)
	if err != nil {
		return err
	}

	base, err := a.sensors()
	if err != nil {
		return err
	}
	overrides, err := parseAssignments(opts.set)
	if err != nil {
		return err
	}
	snapshot := &host.Snapshot{Sensors: host.Merge(base, overrides)}
	if opts.snapshot != "" {
		loaded, err := host.LoadSnapshot(opts.snapshot)
		if err != nil {
			return err
		}
		snapshot = withSensors(loaded, base, overrides)
	}

	store, err := a.openJournal()
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
	}

	r := &runner{
		engine:   a.engine(cmd.OutOrStdout()),
		out:      cmd.OutOrStdout(),
		errOut:   cmd.ErrOrStderr(),
		decide:   opts.decide,
		store:    store,
		logger:   a.logger,
		snapshot: snapshot,
	}
	runErr := r.load(cmd.Context(), filename, source)
	if !opts.watch {
		return runErr
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errs := make(chan error, 4)
	if opts.snapshot != "" {
		stopSnapshot, err := host.WatchSnapshot(opts.snapshot, func(fresh *host.Snapshot) {
			fmt.Fprintln(r.out, mutedStyle.Render(fmt.Sprintf("-- %s changed", opts.snapshot)))
			r.rerun(ctx, withSensors(fresh, base, overrides))
		}, errs)
		if err != nil {
			return err
		}
		defer stopSnapshot()
	}

	watcher, err := watchFile(path)
	if err != nil {
		return err
	}
	defer watcher.Close()

	a.logger.Info("watching for changes", botlog.Fields{"script": path, "snapshot": opts.snapshot})
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-watcher.changed:
			fmt.Fprintln(r.out, mutedStyle.Render(fmt.Sprintf("-- %s changed", path)))
			if _, source, err := readScript(cmd, path); err != nil {
				a.logger.Warn("script reload failed", botlog.Fields{"error": err.Error()})
			} else {
				_ = r.load(ctx, filename, source)
			}
		case err := <-watcher.errors:
			a.logger.Warn("script watch error", botlog.Fields{"error": err.Error()})
		case err := <-errs:
			a.logger.Warn("snapshot reload failed", botlog.Fields{"error": err.Error()})
		}
	}
}

// withSensors layers config sensors, the snapshot and --set overrides
func withSensors(snapshot *host.Snapshot, base, overrides interpreter.Sensors) *host.Snapshot {
	merged := *snapshot
	merged.Sensors = host.Merge(host.Merge(base, snapshot.Sensors), overrides)
	return &merged
}

// fileWatcher signals writes to a single file. The directory is watched so
// editors that replace the file through a rename are seen too.
type fileWatcher struct {
	watcher *fsnotify.Watcher
	changed chan struct{}
	errors  <-chan error
}

func watchFile(path string) (*fileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return nil, err
	}

	fw := &fileWatcher{watcher: watcher, changed: make(chan struct{}, 1), errors: watcher.Errors}
	target := filepath.Clean(path)
	go func() {
		for event := range watcher.Events {
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			select {
			case fw.changed <- struct{}{}:
			default: // a reload is already pending
			}
		}
	}()
	return fw, nil
}

func (fw *fileWatcher) Close() error {
	return fw.watcher.Close()
}

// runner evaluates the current script against the current snapshot and
// reports each run. Watch callbacks may call it from other goroutines.
type runner struct {
	engine *botlang.Engine
	out    io.Writer
	errOut io.Writer
	decide bool
	store  journal.Store
	logger *botlog.Logger

	mu       sync.Mutex
	bot      *host.Bot
	filename string
	source   string
	snapshot *host.Snapshot
}

// load compiles source and runs it against the current snapshot. A script
// that fails to parse keeps the previous one in place.
func (r *runner) load(ctx context.Context, filename, source string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	bot, err := host.Compile(r.engine, filename, source)
	if err != nil {
		r.record(filename, source, time.Now(), nil, err)
		return report(r.errOut, err)
	}
	r.bot, r.filename, r.source = bot, filename, source
	return r.once(ctx)
}

// rerun runs the current script against a new snapshot
func (r *runner) rerun(ctx context.Context, snapshot *host.Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.snapshot = snapshot
	if r.bot != nil {
		_ = r.once(ctx)
	}
}

// once runs the script (lock held)
func (r *runner) once(ctx context.Context) error {
	started := time.Now()
	decision, err := r.bot.Decide(ctx, r.snapshot)
	r.record(r.filename, r.source, started, decision, err)
	if err != nil {
		return report(r.errOut, err)
	}

	if r.decide {
		line := decision.Action.String()
		if !decision.Explicit {
			line += mutedStyle.Render(" (default)")
		}
		fmt.Fprintln(r.out, actionStyle.Render(line))
		return nil
	}
	if _, isNull := decision.Result.(interpreter.Null); !isNull && decision.Result != nil {
		fmt.Fprintln(r.out, interpreter.Repr(decision.Result))
	}
	return nil
}

// record journals a run; the default action is recorded for runs that
// decided nothing
func (r *runner) record(filename, source string, started time.Time, decision *host.Decision, runErr error) {
	if r.store == nil {
		return
	}
	var result interpreter.Value
	if decision != nil {
		result = decision.Result
	}
	run := journal.NewRun(filename, source, started, result, runErr)
	if decision != nil && !decision.Explicit {
		run.Action = decision.Action.String()
	}
	if err := r.store.Record(context.Background(), run); err != nil {
		r.logger.Warn("failed to record run", botlog.Fields{"error": err.Error()})
	}
}
