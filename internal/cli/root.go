// Package cli is the focusflow command line. With no subcommand it launches
// the terminal UI.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/sadopc/focusflow/internal/config"
	"github.com/sadopc/focusflow/internal/kv"
	"github.com/sadopc/focusflow/internal/logging"
	"github.com/sadopc/focusflow/internal/store"
	"github.com/sadopc/focusflow/internal/tui"
)

// skipStore marks commands that run without opening storage.
const skipStore = "skip-store"

// app is the state shared by every command of one invocation.
type app struct {
	cfgPath string
	memory  bool

	cfg     *config.Config
	log     *log.Logger
	store   *store.Store
	closers []io.Closer

	now func() time.Time
}

// Execute runs the command line and reports the error it ended with.
func Execute(version string) error {
	a := &app{now: time.Now}
	root := newRootCmd(a)
	root.Version = version
	if err := a.execute(context.Background(), root); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return err
	}
	return nil
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "focusflow",
		Short: "Routines, focus sessions, habits and streaks in the terminal",
		Long: `focusflow plans your day as routine items and time blocks, runs focus
cycles, tracks habits and rewards completed days with streak points.

Run without a subcommand to open the interactive view.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		RunE:              a.runTUI,
	}
	root.PersistentFlags().StringVar(&a.cfgPath, "config", "", "config file (default ~/.config/focusflow/config.yaml)")
	root.PersistentFlags().BoolVar(&a.memory, "memory", false, "use throwaway in-memory storage")

	root.AddCommand(
		a.taskCmd(),
		a.routineCmd(),
		a.templateCmd(),
		a.focusCmd(),
		a.habitCmd(),
		a.rewardsCmd(),
		a.streakCmd(),
		a.settingsCmd(),
		a.shieldCmd(),
		a.exportCmd(),
		a.dataCmd(),
		a.configCmd(),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command, args []string) error {
	if a.cfg == nil {
		cfg, err := config.Load(a.cfgPath)
		if err != nil {
			return err
		}
		a.cfg = cfg
	}
	if a.memory {
		a.cfg.Storage.Backend = kv.BackendMemory
	}

	if a.log == nil {
		// The TUI owns the terminal, so it only logs to a file.
		var fallback io.Writer = os.Stderr
		if cmd == cmd.Root() {
			fallback = io.Discard
		}
		l, c, err := logging.Open(a.cfg.Log.File, a.cfg.Log.Level, fallback)
		if err != nil {
			return err
		}
		a.log = l
		a.closers = append(a.closers, c)
	}

	if a.store != nil || cmd.Annotations[skipStore] != "" {
		return nil
	}
	s, err := kv.Open(a.cfg.StorageOptions())
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	a.log.Debug("storage opened", "backend", a.cfg.Storage.Backend)
	a.store = store.New(s, store.WithLogger(a.log), store.WithClock(a.now))
	a.closers = append(a.closers, a.store)
	return nil
}

// execute runs root and closes what setup opened. Cobra skips post-run
// hooks when a command fails, so teardown happens here instead.
func (a *app) execute(ctx context.Context, root *cobra.Command) error {
	err := root.ExecuteContext(ctx)
	return errors.Join(err, a.teardown())
}

func (a *app) teardown() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i].Close())
	}
	a.closers = nil
	return errors.Join(errs...)
}

func (a *app) runTUI(cmd *cobra.Command, args []string) error {
	m := tui.NewApp(a.store,
		tui.WithLogger(a.log),
		tui.WithClock(a.now),
		tui.WithContext(cmd.Context()),
		tui.WithExportDir(a.cfg.Export.Dir),
	)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	_, err := p.Run()
	return err
}

// today is the calendar day of the app clock.
func (a *app) today() string {
	return store.Day(a.now())
}
