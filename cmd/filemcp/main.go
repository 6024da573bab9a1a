// Package main is the entry point for the filemcp server.
//
// The application follows this startup sequence:
//
// 1. Initialize logging system (file-backed in DEBUG mode, stderr otherwise)
// 2. Resolve the workspace root from flag, environment, or saved config
// 3. Initialize the MCP server and its tool registry
// 4. Serve the Model Context Protocol over stdio until the client disconnects
//
// Standard output is owned by the MCP transport, so all diagnostics go to
// the logger, never to stdout.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"filemcp/internal/config"
	"filemcp/internal/logging"
	"filemcp/internal/mcp"

	"github.com/spf13/cobra"
)

var workspaceFlag string

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "filemcp",
		Short: "MCP server exposing guarded file operations for a workspace",
		Long: "filemcp serves file-operation tools (read, write, edit, list) over the\n" +
			"Model Context Protocol, confined to a single workspace directory.",
		SilenceUsage: true,
	}

	root.AddCommand(newServeCmd())
	root.AddCommand(newInitCmd())
	return root
}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server on stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.NewAppLogger()

			workspaceDir, err := config.ResolveWorkspaceDir(workspaceFlag)
			if err != nil {
				logger.Error("Failed to resolve workspace directory", "error", err)
				return err
			}

			logger.Info("Starting filemcp", "workspace", workspaceDir)
			srv := mcp.NewServer(workspaceDir, logger)
			if err := srv.Start(); err != nil {
				logger.Error("Server exited with error", "error", err)
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&workspaceFlag, "workspace", "w", "",
		"workspace root directory (overrides "+config.WorkspaceEnvVar+" and saved config)")
	return cmd
}

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init [DIR]",
		Short: "Write a starter " + config.ProjectConfigName + " into a workspace",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			abs, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("cannot resolve directory %q: %w", dir, err)
			}

			target := filepath.Join(abs, config.ProjectConfigName)
			if _, err := os.Stat(target); err == nil {
				return fmt.Errorf("%s already exists in %s", config.ProjectConfigName, abs)
			}

			if err := config.SaveProject(abs, config.DefaultProjectConfig()); err != nil {
				return fmt.Errorf("failed to write project config: %w", err)
			}

			cmd.Printf("Wrote %s\n", target)
			return nil
		},
	}
}
