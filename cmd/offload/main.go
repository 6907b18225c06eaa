package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"offload/internal/config"
	"offload/internal/engine"
	"offload/internal/event"
	"offload/internal/ledger"
	"offload/internal/notify"
	"offload/internal/stats"
	"offload/internal/ui"
	"offload/internal/volume"
)

var version = "dev"

func main() {
	os.Exit(run())
}

// staticLister serves explicitly named drive paths once, then reports none so
// the session ends after a single pass.
type staticLister struct {
	mu    sync.Mutex
	paths []string
}

func (l *staticLister) List() ([]volume.Volume, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	vols := make([]volume.Volume, 0, len(l.paths))
	for _, p := range l.paths {
		vols = append(vols, volume.Volume{ID: filepath.Base(p), Path: p})
	}
	l.paths = nil
	return vols, nil
}

//nolint:gocyclo,revive // cyclomatic,cognitive-complexity: main CLI entry point orchestrates all flag parsing and mode selection
func run() int {
	var (
		outputDir    string
		priorityExts []string
		disabledExts []string
		noPriority   bool
		onlyPriority bool
		verifyFlag   bool
		ephemeral    bool
		ledgerPath   string
		resetLedger  bool
		pollInterval time.Duration
		noNotify     bool
		assumeYes    bool
		verbose      bool
		quiet        bool
		logFile      string
		showVersion  bool
	)

	rootCmd := &cobra.Command{
		Use:   "offload [flags] [drive-path...]",
		Short: "Copy removable drives to local storage, most important files first",
		Long: `offload watches for removable drives and copies their contents into
per-drive folders, routing configured priority extensions first and
skipping files whose content was already copied in an earlier run.

With no arguments it polls the system mount points for removable
drives. Explicit drive paths are processed once, then the program
exits.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if showVersion {
				fmt.Fprintf(os.Stdout, "offload %s\n", version)
				return nil
			}

			// Configure logging before anything that can log.
			logLevel := slog.LevelWarn
			if verbose {
				logLevel = slog.LevelDebug
			} else if !quiet {
				logLevel = slog.LevelInfo
			}
			textHandler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: logLevel,
			})
			var logHandler slog.Handler = textHandler
			if logFile != "" {
				lf, lfErr := os.Create(logFile)
				if lfErr != nil {
					return fmt.Errorf("open log file: %w", lfErr)
				}
				defer lf.Close()
				jsonHandler := slog.NewJSONHandler(lf, &slog.HandlerOptions{
					Level: slog.LevelDebug,
				})
				logHandler = ui.NewMultiHandler(textHandler, jsonHandler)
			}
			slog.SetDefault(slog.New(logHandler))

			cfg, err := config.Load()
			if err != nil {
				slog.Warn("failed to load config", "error", err)
			}
			applyFlagOverrides(cmd, &cfg,
				outputDir, priorityExts, disabledExts, noPriority, onlyPriority)

			priorities := engine.NormalizeExtensions(cfg.PriorityExtensions)
			disabled := engine.NormalizeExtensions(cfg.DisabledExtensions)

			// Resolve the transfer ledger.
			var led *ledger.Ledger
			if ephemeral {
				led = ledger.OpenEphemeral()
			} else {
				path := ledgerPath
				if path == "" {
					path = ledger.DefaultPath()
				}
				led, err = ledger.Open(path)
				if err != nil {
					return fmt.Errorf("open ledger: %w", err)
				}
			}
			if resetLedger {
				if !confirmReset(led, assumeYes || cfg.SkipPrompts) {
					return nil
				}
				if err := led.Reset(); err != nil {
					return fmt.Errorf("reset ledger: %w", err)
				}
				slog.Info("ledger reset", "path", led.Path())
			}

			// Resolve the volume source: explicit paths run once, otherwise
			// poll the system mount points.
			var lister volume.Lister
			if len(args) > 0 {
				for _, p := range args {
					if _, statErr := os.Stat(p); statErr != nil {
						return fmt.Errorf("drive path: %w", statErr)
					}
				}
				lister = &staticLister{paths: args}
			} else {
				lister = &volume.SystemLister{}
			}

			var notifier notify.Notifier = notify.Noop{}
			if !noNotify {
				notifier = &notify.Desktop{AppName: "offload"}
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			collector := stats.NewCollector()
			events := make(chan event.Event, 256)

			// When --log is set, tee events through a logging goroutine that
			// writes structured records before forwarding to the presenter.
			presenterEvents := (<-chan event.Event)(events)
			if logFile != "" {
				teed := make(chan event.Event, 256)
				go func() {
					for ev := range events {
						attrs := []slog.Attr{
							slog.String("type", ev.Type.String()),
							slog.String("volume", ev.Volume),
							slog.String("path", ev.Path),
							slog.Int64("size", ev.Size),
						}
						if ev.Error != nil {
							attrs = append(attrs, slog.String("error", ev.Error.Error()))
						}
						slog.LogAttrs(context.Background(), slog.LevelInfo, "offload.event", attrs...)
						teed <- ev
					}
					close(teed)
				}()
				presenterEvents = teed
			}

			presenter := ui.NewPresenter(ui.Config{
				Writer:     os.Stdout,
				ErrWriter:  os.Stderr,
				Stats:      collector,
				OutputRoot: cfg.OutputDir,
				Quiet:      quiet,
				Verbose:    verbose,
			})

			engineCfg := engine.Config{
				OutputRoot:      cfg.OutputDir,
				Priorities:      priorities,
				Disabled:        disabled,
				PriorityEnabled: cfg.EnablePriority,
				OnlyPriority:    cfg.CopyOnlyPriority,
				Verify:          verifyFlag,
				PollInterval:    pollInterval,
				Ledger:          led,
				Volumes:         lister,
				Notifier:        notifier,
				Triggers: notify.Triggers{
					AfterAllTransfers:  cfg.Notifications.AfterAllTransfers,
					AfterEveryPriority: cfg.Notifications.AfterEveryPriority,
					AfterFirstPriority: cfg.Notifications.AfterFirstPriority,
					AfterLastPriority:  cfg.Notifications.AfterLastPriority,
				},
				Events: events,
				Stats:  collector,
			}

			slog.Debug("starting session",
				"output", cfg.OutputDir,
				"priorities", priorities,
				"disabled", disabled,
				"priority_enabled", cfg.EnablePriority,
				"only_priority", cfg.CopyOnlyPriority,
				"ephemeral", ephemeral,
			)

			// Run presenter in background, engine in foreground.
			var presenterErr error
			var presenterWg sync.WaitGroup
			presenterWg.Add(1)
			go func() {
				defer presenterWg.Done()
				presenterErr = presenter.Run(presenterEvents)
			}()

			result := engine.Run(ctx, engineCfg)
			stop()
			close(events)
			presenterWg.Wait()
			if presenterErr != nil {
				fmt.Fprintf(os.Stderr, "presenter: %v\n", presenterErr)
			}

			if !quiet {
				if summary := presenter.Summary(); summary != "" {
					fmt.Fprintln(os.Stderr, summary)
				}
			}

			if isCancel(result.Err) {
				result.Err = nil
			}
			if result.Err != nil {
				slog.Error("copy failed", "error", result.Err)
			}
			return sessionExit(result)
		},
	}

	rootCmd.Flags().BoolVar(&showVersion, "version", false, "print version and exit")

	rootCmd.Flags().
		StringVarP(&outputDir, "output", "o", "", "destination directory for per-drive copy folders")
	rootCmd.Flags().
		StringSliceVar(&priorityExts, "priority", nil, "priority extensions in tier order (e.g. .jpg,.txt)")
	rootCmd.Flags().
		StringSliceVar(&disabledExts, "disable", nil, "extensions to never copy")
	rootCmd.Flags().
		BoolVar(&noPriority, "no-priority", false, "disable priority routing; copy everything to one folder")
	rootCmd.Flags().
		BoolVar(&onlyPriority, "only-priority", false, "copy priority files only, skip the rest")
	rootCmd.Flags().BoolVar(&verifyFlag, "verify", false, "verify checksums after copy (BLAKE3)")
	rootCmd.Flags().
		BoolVar(&ephemeral, "ephemeral", false, "keep the transfer ledger in memory only")
	rootCmd.Flags().StringVar(&ledgerPath, "ledger", "", "transfer ledger file (default: XDG state dir)")
	rootCmd.Flags().
		BoolVar(&resetLedger, "reset-ledger", false, "forget previously copied files before starting")
	rootCmd.Flags().
		DurationVar(&pollInterval, "poll", 0, "drive polling interval (default 2s)")
	rootCmd.Flags().BoolVar(&noNotify, "no-notify", false, "disable desktop notifications")
	rootCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "answer yes to prompts")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "suppress all output except errors")
	rootCmd.Flags().StringVar(&logFile, "log", "", "write structured JSON log to FILE")

	rootCmd.AddCommand(docsCmd)

	// Extension flags default to whatever the config file says, not to a
	// literal value; make the help text say so.
	rootCmd.Flags().VisitAll(func(f *pflag.Flag) {
		if f.Name == "priority" || f.Name == "disable" || f.Name == "output" {
			f.DefValue = "from config"
		}
	})

	if err := rootCmd.Execute(); err != nil {
		if exitErr, ok := err.(*exitError); ok {
			return exitErr.code
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}
	return 0
}

// applyFlagOverrides lets explicit CLI flags win over the config file.
func applyFlagOverrides(
	cmd *cobra.Command,
	cfg *config.Settings,
	outputDir string,
	priorityExts, disabledExts []string,
	noPriority, onlyPriority bool,
) {
	if cmd.Flags().Changed("output") {
		cfg.OutputDir = outputDir
	}
	if cmd.Flags().Changed("priority") {
		cfg.PriorityExtensions = priorityExts
	}
	if cmd.Flags().Changed("disable") {
		cfg.DisabledExtensions = disabledExts
	}
	if cmd.Flags().Changed("no-priority") {
		cfg.EnablePriority = !noPriority
	}
	if cmd.Flags().Changed("only-priority") {
		cfg.CopyOnlyPriority = onlyPriority
	}
}

// confirmReset asks before discarding the ledger on a terminal; non-terminal
// sessions and --yes proceed without asking.
func confirmReset(led *ledger.Ledger, skip bool) bool {
	if skip || !ui.IsTTY(os.Stdin.Fd()) {
		return true
	}
	fmt.Fprintf(os.Stderr, "Forget %d previously copied files? [y/N] ", led.Len())
	line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	fmt.Fprintln(os.Stderr, "Aborted.")
	return false
}

// sessionExit maps a finished session onto the exit-code contract: nil for a
// clean run, code 1 when the run completed but some files failed (or a
// volume-level error struck after files were copied), code 2 when nothing
// was copied at all.
func sessionExit(result engine.Result) error {
	if result.Err != nil {
		if result.Stats.FilesCopied > 0 {
			return &exitError{code: 1}
		}
		return &exitError{code: 2}
	}
	if result.Stats.FilesFailed > 0 {
		return &exitError{code: 1}
	}
	return nil
}

func isCancel(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit code %d", e.code)
}
