package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ekaya-inc/fasttransfer-mcp/pkg/models"
	"github.com/ekaya-inc/fasttransfer-mcp/pkg/services"
	"github.com/ekaya-inc/fasttransfer-mcp/pkg/validation"
)

func newPreviewCmd() *cobra.Command {
	var requestFile string

	cmd := &cobra.Command{
		Use:   "preview -f request.yaml",
		Short: "Validate a transfer request file and print the masked command",
		Long: "preview reads a transfer request (source, target and options, as YAML or JSON)\n" +
			"and prints the FastTransfer command it would run with secrets masked. Nothing is executed.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := readRequestFile(requestFile)
			if err != nil {
				return err
			}

			a, err := newApp()
			if err != nil {
				return err
			}
			defer func() { _ = a.logger.Sync() }()

			return runPreview(cmd.Context(), a.service, req, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVarP(&requestFile, "file", "f", "", "transfer request file (- for stdin)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

// readRequestFile decodes a request file. YAML is a superset of JSON, so both parse.
func readRequestFile(path string) (models.TransferRequest, error) {
	var req models.TransferRequest

	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return req, fmt.Errorf("failed to read request file: %w", err)
	}

	var args map[string]any
	if err := yaml.Unmarshal(data, &args); err != nil {
		return req, fmt.Errorf("failed to parse request file: %w", err)
	}
	if err := models.Decode(args, &req); err != nil {
		return req, fmt.Errorf("invalid request file: %w", err)
	}
	return req, nil
}

func runPreview(ctx context.Context, service services.TransferService, req models.TransferRequest, out io.Writer) error {
	preview, err := service.Preview(ctx, req)
	if err != nil {
		for _, v := range validation.Violations(err) {
			fmt.Fprintf(out, "  - %s\n", v)
		}
		return err
	}

	fmt.Fprintln(out, preview.Command)
	fmt.Fprintln(out)
	fmt.Fprintln(out, strings.Join(preview.Explanation, "\n"))
	if len(preview.Warnings) > 0 {
		fmt.Fprintln(out)
		for _, w := range preview.Warnings {
			fmt.Fprintf(out, "warning: %s\n", w)
		}
	}
	return nil
}
