package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/aretw0/waterjug"
	"github.com/aretw0/waterjug/internal/presentation/tui"
	"github.com/aretw0/waterjug/pkg/domain"
	"github.com/aretw0/waterjug/pkg/observability"
	"github.com/aretw0/waterjug/pkg/playback"
	"github.com/aretw0/waterjug/pkg/runner"
	"github.com/spf13/cobra"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Replay the solution interactively, one rule at a time",
	Long: `Solves the puzzle and starts an interactive playback.

Type 'start', then press Enter (or type 'next') to advance one state. Every
step prints the transition and the production rule that fired; the goal step
prints the goal rule. 'stop', 'resume', 'reset', 'rules' and 'quit' are also
available.

With --session the playback is saved after every command. Running again with
the same --session continues where it stopped; --resume does the same but
fails when the session does not exist.`,
	Example: `  waterjug play --cap1 4 --cap2 3 --target 2
  waterjug play --puzzle classic --session demo
  waterjug play --resume demo`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSettings(cmd)
		if err != nil {
			return err
		}
		hooks := observability.LoggingHooks(s.Logger, domain.LifecycleHooks{})
		engine, shutdown, err := newEngine(cmd, s, waterjug.WithLifecycleHooks(hooks))
		if err != nil {
			return err
		}
		defer shutdown(cmd.Context())

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		sessionID, _ := cmd.Flags().GetString("session")
		resumeID, _ := cmd.Flags().GetString("resume")
		if resumeID != "" {
			sessionID = resumeID
		}

		opts := []runner.Option{runner.WithLogger(s.Logger)}
		sm := runner.NewSessionManager(nil)
		if sessionID != "" {
			store, err := openStore(ctx, s, true)
			if err != nil {
				return err
			}
			defer store.Close()
			sm.Store = store.Store
			opts = append(opts, runner.WithStore(store.Store), runner.WithSessionID(sessionID))
		}

		restoreOpts := []playback.Option{
			playback.WithLogger(s.Logger),
			playback.WithLifecycleHooks(hooks),
		}
		start := func(ctx context.Context) (*playback.Controller, error) {
			p, err := problemFromFlags(ctx, cmd, s)
			if err != nil {
				return nil, err
			}
			return engine.Playback(ctx, p, playback.WithSessionID(sessionID))
		}

		var ctrl *playback.Controller
		if resumeID != "" {
			ctrl, err = sm.Load(ctx, resumeID, restoreOpts...)
		} else {
			var loaded bool
			ctrl, loaded, err = sm.LoadOrStart(ctx, sessionID, start, restoreOpts...)
			if loaded {
				s.Logger.Info("session resumed", "session_id", sessionID, "cursor", ctrl.Cursor())
			}
		}
		if err != nil {
			return err
		}

		in, out := cmd.InOrStdin(), cmd.OutOrStdout()
		asJSON, _ := cmd.Flags().GetBool("json")
		if asJSON {
			opts = append(opts, runner.WithInputHandler(runner.NewJSONHandler(in, out)))
		} else {
			render := runner.ContentRenderer(tui.Plain)
			if f, ok := out.(*os.File); ok {
				if noBanner, _ := cmd.Flags().GetBool("no-banner"); !noBanner && tui.IsTerminal(f) {
					tui.PrintBanner(f)
				}
				render = runner.ContentRenderer(tui.AutoRenderer(f))
			}
			sol := ctrl.Solution()
			fmt.Fprintf(out, "Solution for %s: %d moves. Status: %s at %s.\n", sol.Problem, sol.Moves(), ctrl.Status(), ctrl.Current())
			fmt.Fprintln(out, "Type 'start' and press Enter to step through it ('help' lists commands).")

			opts = append(opts, runner.WithInputHandler(
				runner.NewTextHandler(in, out, runner.WithTextHandlerRenderer(render)),
			))
		}

		return runner.NewRunner(opts...).Run(ctx, ctrl)
	},
}

func init() {
	rootCmd.AddCommand(playCmd)
	addProblemFlags(playCmd)
	playCmd.Flags().Bool("json", false, "Read commands and write events as JSON lines")
	playCmd.Flags().String("session", "", "Persist the playback under this session ID, continuing it if it exists")
	playCmd.Flags().String("resume", "", "Continue a persisted session (must exist)")
	playCmd.Flags().Bool("no-banner", false, "Do not print the banner")
}
