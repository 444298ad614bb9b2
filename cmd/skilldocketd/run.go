package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/skill-docket/skd/internal/backend"
	"github.com/skill-docket/skd/internal/config"
	"github.com/skill-docket/skd/internal/logging"
	"github.com/skill-docket/skd/internal/orchestrator"
)

func newRunCmd() *cobra.Command {
	var projectDir string
	var pretty bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start the orchestrator daemon in the foreground",
		RunE: func(cmd *cobra.Command, args []string) error {
			if projectDir == "" {
				wd, err := os.Getwd()
				if err != nil {
					return fmt.Errorf("determine working directory: %w", err)
				}
				projectDir = wd
			}
			return runDaemon(projectDir, pretty)
		},
	}
	cmd.Flags().StringVar(&projectDir, "project", "", "project directory (defaults to cwd)")
	cmd.Flags().BoolVar(&pretty, "pretty", true, "also log human-readable lines to stderr")
	return cmd
}

func runDaemon(projectDir string, pretty bool) error {
	store, err := config.NewStore(projectDir)
	if err != nil {
		return fmt.Errorf("resolve config store: %w", err)
	}
	settings, err := store.LoadSettings()
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	logger, err := logging.New(store.Dir, pretty)
	if err != nil {
		return fmt.Errorf("open logger: %w", err)
	}
	defer logger.Close()

	if existingPid, ok, _ := store.ReadPid(); ok {
		logger.Warn().Int("pid", existingPid).Msg("stale pid file found; overwriting")
	}
	if err := store.WritePid(os.Getpid()); err != nil {
		return fmt.Errorf("write pid file: %w", err)
	}
	defer store.RemovePid()

	folders, err := store.LoadFolders()
	if err != nil {
		return fmt.Errorf("load folders: %w", err)
	}

	data := orchestrator.NewData(settings, store.Dir)
	for _, folder := range folders {
		data.Folders.Put(folder)
	}

	tmux := backend.NewTmuxBackend(projectDir)
	orch, err := orchestrator.New(orchestrator.Config{
		Data:    data,
		Backend: tmux,
		Log:     logger.Logger,
	})
	if err != nil {
		return fmt.Errorf("construct orchestrator: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info().Str("project", projectDir).Msg("orchestrator starting")
	return orch.Run(ctx)
}
