package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ekaya-inc/fasttransfer-mcp/pkg/logging"
	"github.com/ekaya-inc/fasttransfer-mcp/pkg/services"
)

// Version is set at build time via ldflags
var Version = "dev"

var configPath string

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "fasttransfer-mcp",
		Short: "MCP server that previews and runs FastTransfer database transfers",
		Long: "fasttransfer-mcp exposes the FastTransfer command line tool to MCP clients.\n" +
			"Without a subcommand it serves MCP over the configured transport.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file path (default config.yaml, optional)")

	root.AddCommand(newServeCmd(), newPreviewCmd(), newVersionCmd())
	return root
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve MCP over stdio or streamable HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the server version and the detected FastTransfer version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "fasttransfer-mcp %s\n", Version)

			a, err := newApp()
			if err != nil {
				return err
			}
			defer func() { _ = a.logger.Sync() }()

			printVersionInfo(cmd.Context(), a.service, out)
			return nil
		},
	}
}

func printVersionInfo(ctx context.Context, service services.TransferService, out io.Writer) {
	info, err := service.VersionInfo(ctx, false)
	if err != nil {
		fmt.Fprintf(out, "FastTransfer: unavailable (%s)\n", logging.SanitizeError(err))
		return
	}

	if info.Detected {
		fmt.Fprintf(out, "FastTransfer %s (detected) at %s\n", info.Version, info.BinaryPath)
	} else {
		fmt.Fprintf(out, "FastTransfer version not detected at %s, assuming latest known capabilities\n", info.BinaryPath)
	}
	fmt.Fprintf(out, "  source types: %s\n", strings.Join(info.Capabilities.SourceTypes, ", "))
	fmt.Fprintf(out, "  target types: %s\n", strings.Join(info.Capabilities.TargetTypes, ", "))
	fmt.Fprintf(out, "  methods:      %s\n", strings.Join(info.Capabilities.ParallelismMethods, ", "))
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
