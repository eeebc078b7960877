package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"vidsync/internal/batch"
	"vidsync/internal/identity"
	"vidsync/internal/metadata"
	"vidsync/internal/reconcile"
	"vidsync/internal/sideband"
)

func newImportCommand(ctx *commandContext) *cobra.Command {
	var (
		autoMerge          bool
		interactive        bool
		dryRun             bool
		skipMetadata       bool
		cookiesFromBrowser string
		errorsFile         string
	)

	cmd := &cobra.Command{
		Use:   "import <sheet.csv>",
		Short: "Import a catalog sheet into the database",
		Long: `Import reads a comma-separated catalog sheet row by row, resolves video
metadata, and settles each row against the database. Duplicate original
URLs are merged automatically or resolved interactively; rows that fail
are appended to a companion _errors.csv file for later repair.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if autoMerge && interactive {
				return fmt.Errorf("--auto-merge and --interactive are mutually exclusive")
			}

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.newLogger()
			if err != nil {
				return err
			}

			policy, err := reconcile.ParsePolicy(cfg.Import.DuplicatePolicy)
			if err != nil {
				return err
			}
			if autoMerge {
				policy = reconcile.PolicyAuto
			}
			if interactive {
				policy = reconcile.PolicyInteractive
			}

			input, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open input sheet: %w", err)
			}
			defer input.Close()

			release, err := batch.AcquireLock(cfg.Paths.Database)
			if err != nil {
				return err
			}
			defer release()

			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			var decider reconcile.Decider
			if policy == reconcile.PolicyInteractive {
				decider, err = newTerminalDecider(cmd.InOrStdin(), cmd.OutOrStdout())
				if err != nil {
					return err
				}
			}

			var reconcileOpts []reconcile.Option
			var identityOpts []identity.Option
			if dryRun {
				reconcileOpts = append(reconcileOpts, reconcile.Preview())
				identityOpts = append(identityOpts, identity.ReadOnly())
			}

			reconciler, err := reconcile.New(store, policy, decider, logger, reconcileOpts...)
			if err != nil {
				return err
			}

			var resolver metadata.Resolver
			if !skipMetadata {
				cookies := cfg.Resolver.CookiesFromBrowser
				if strings.TrimSpace(cookiesFromBrowser) != "" {
					cookies = strings.TrimSpace(cookiesFromBrowser)
				}
				stages := []metadata.Resolver{
					metadata.NewClient(cfg.Resolver.Binary, cfg.Resolver.TimeoutSeconds, cookies, cfg.Resolver.UserAgent),
				}
				if cfg.Resolver.ScrapeFallback {
					timeout := time.Duration(cfg.Resolver.TimeoutSeconds) * time.Second
					stages = append(stages, metadata.NewScraper(&http.Client{Timeout: timeout}, cfg.Resolver.UserAgent))
				}
				resolver = metadata.NewChain(logger, stages...)
			}

			errorsPath := strings.TrimSpace(errorsFile)
			if errorsPath == "" {
				errorsPath = sideband.ErrorPath(args[0])
			}
			recorder := sideband.NewRecorder(errorsPath)

			runner, err := batch.New(batch.Config{
				Resolver:     resolver,
				Identity:     identity.NewCache(store, logger, identityOpts...),
				Reconciler:   reconciler,
				Errors:       recorder,
				Logger:       logger,
				SkipMetadata: skipMetadata,
			})
			if err != nil {
				return err
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			stats, runErr := runner.Run(runCtx, input)

			out := cmd.OutOrStdout()
			if dryRun {
				fmt.Fprintln(out, "Dry run: no changes were written.")
			}
			fmt.Fprint(out, renderStats(stats))
			if recorder.Count() > 0 {
				fmt.Fprintf(out, "Failed rows recorded in %s\n", recorder.Path())
			}
			if stats.Cancelled {
				fmt.Fprintln(out, "Import cancelled; earlier rows remain committed.")
			}
			return runErr
		},
	}

	cmd.Flags().BoolVar(&autoMerge, "auto-merge", false, "Merge duplicates automatically without prompting")
	cmd.Flags().BoolVar(&interactive, "interactive", false, "Prompt on every duplicate")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Compute outcomes without writing to the database")
	cmd.Flags().BoolVar(&skipMetadata, "skip-metadata", false, "Skip metadata lookups entirely")
	cmd.Flags().StringVar(&cookiesFromBrowser, "cookies-from-browser", "", "Browser to borrow cookies from for metadata lookups")
	cmd.Flags().StringVar(&errorsFile, "errors-file", "", "Override the failed-row sideband file path")

	return cmd
}

func renderStats(stats batch.Stats) string {
	rows := [][2]string{
		{"Rows read", fmt.Sprintf("%d", stats.TotalRows)},
		{"Rows processed", fmt.Sprintf("%d", stats.ProcessedRows)},
		{"New authors", fmt.Sprintf("%d", stats.NewAuthors)},
		{"New videos", fmt.Sprintf("%d", stats.NewVideos)},
		{"Updated videos", fmt.Sprintf("%d", stats.UpdatedVideos)},
		{"Skipped videos", fmt.Sprintf("%d", stats.SkippedVideos)},
		{"Errors", fmt.Sprintf("%d", stats.Errors)},
	}
	return countTable("Counter", "Value", rows) + "\n"
}
