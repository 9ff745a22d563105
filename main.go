package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"tracker_tui/internal"
	"tracker_tui/internal/aggregate"
	"tracker_tui/internal/config"
	"tracker_tui/internal/kv"
	"tracker_tui/internal/tracker"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	configPath string
	dbPath     string
	cfg        config.Config
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "tracker_tui",
		Short: "Track time spent on projects",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return loadConfig(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI()
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default $XDG_CONFIG_HOME/tracker_tui/tracker_tui.yml)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "database path")

	rootCmd.AddCommand(projectCmd())
	rootCmd.AddCommand(logCmd())
	rootCmd.AddCommand(reportCmd())
	rootCmd.AddCommand(calendarCmd())
	rootCmd.AddCommand(exportCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig(cmd *cobra.Command) error {
	path := configPath
	if path == "" {
		var err error
		if path, err = config.DefaultFile(); err != nil {
			return err
		}
	}
	v := viper.New()
	if err := config.Setup(v, path); err != nil {
		return err
	}
	if err := v.BindPFlag("db_file", cmd.Root().PersistentFlags().Lookup("db")); err != nil {
		return err
	}
	cfg = config.Resolve(v)
	return nil
}

// openTracker opens the store and builds a tracker logging to the
// configured log file. The returned func releases both.
func openTracker() (*tracker.Tracker, func(), error) {
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, nil, fmt.Errorf("create data dir: %w", err)
	}
	logFile, err := tea.LogToFile(cfg.LogPath, "tracker")
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}

	store, err := kv.OpenSQLite(cfg.DBPath)
	if err != nil {
		logFile.Close()
		return nil, nil, err
	}

	view, err := aggregate.ParseGranularity(cfg.DefaultView)
	if err != nil {
		log.Printf("config: %v, using month view", err)
		view = aggregate.Month
	}

	tr, err := tracker.New(store, tracker.Options{Logger: log.Default(), View: view})
	if err != nil {
		store.Close()
		logFile.Close()
		return nil, nil, err
	}

	closeFn := func() {
		if err := tr.Close(); err != nil {
			log.Printf("error recording active timer: %v", err)
		}
		if err := store.Close(); err != nil {
			log.Printf("error closing store: %v", err)
		}
		logFile.Close()
	}
	return tr, closeFn, nil
}

func runTUI() error {
	tr, closeFn, err := openTracker()
	if err != nil {
		return err
	}
	defer closeFn()

	m := internal.NewModel(tr, cfg.RecentEntries)
	p := tea.NewProgram(m, tea.WithAltScreen())

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	done := make(chan struct{})
	defer close(done)

	go func() {
		for {
			select {
			case <-ticker.C:
				p.Send(internal.MsgTick{})
			case <-done:
				return
			}
		}
	}()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running program: %w", err)
	}
	return nil
}
