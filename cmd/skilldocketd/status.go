package main

import (
	"fmt"
	"os"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/skill-docket/skd/internal/config"
)

func newStatusCmd() *cobra.Command {
	var projectDir string
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Report whether the daemon is running",
		RunE: func(cmd *cobra.Command, args []string) error {
			if projectDir == "" {
				wd, err := os.Getwd()
				if err != nil {
					return err
				}
				projectDir = wd
			}
			store, err := config.NewStore(projectDir)
			if err != nil {
				return err
			}
			pid, ok, err := store.ReadPid()
			if err != nil {
				return err
			}
			if !ok {
				fmt.Println("not running")
				return nil
			}
			if err := syscall.Kill(pid, 0); err != nil {
				fmt.Printf("pid file present (pid %d) but process is not alive\n", pid)
				return nil
			}
			fmt.Printf("running (pid %d)\n", pid)
			return nil
		},
	}
	cmd.Flags().StringVar(&projectDir, "project", "", "project directory (defaults to cwd)")
	return cmd
}

func newStopCmd() *cobra.Command {
	var projectDir string
	cmd := &cobra.Command{
		Use:   "stop",
		Short: "Signal a running daemon to shut down",
		RunE: func(cmd *cobra.Command, args []string) error {
			if projectDir == "" {
				wd, err := os.Getwd()
				if err != nil {
					return err
				}
				projectDir = wd
			}
			store, err := config.NewStore(projectDir)
			if err != nil {
				return err
			}
			pid, ok, err := store.ReadPid()
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("no pid file found under %s", store.Dir)
			}
			if err := syscall.Kill(pid, syscall.SIGTERM); err != nil {
				return fmt.Errorf("signal pid %d: %w", pid, err)
			}
			fmt.Printf("sent SIGTERM to pid %d\n", pid)
			return nil
		},
	}
	cmd.Flags().StringVar(&projectDir, "project", "", "project directory (defaults to cwd)")
	return cmd
}
