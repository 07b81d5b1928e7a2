// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/gemaraproj/fieldextract/internal/telemetry"
	"github.com/gemaraproj/fieldextract/internal/tool"
)

func newServeCommand(a *app) *cobra.Command {
	otelEndpoint := ""
	otelService := "fieldextract"

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the extraction tools over MCP on standard input and output",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			shutdown, err := telemetry.Setup(ctx, otelEndpoint, otelService)
			if err != nil {
				return fmt.Errorf("otel setup: %w", err)
			}
			defer func() { _ = shutdown(context.Background()) }()

			a.logger.Info("serving MCP over stdio", slog.String("version", a.version))
			return tool.NewServer(a.version).Run(ctx, &mcp.StdioTransport{})
		},
	}

	cmd.Flags().StringVar(&otelEndpoint, "otel-endpoint", otelEndpoint, "OTLP collector endpoint")
	cmd.Flags().StringVar(&otelService, "otel-service", otelService, "OpenTelemetry service name")
	return cmd
}
