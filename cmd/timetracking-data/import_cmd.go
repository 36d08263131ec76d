package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/tempora-uz/tempora/modules/timetracking/importer"
	"github.com/tempora-uz/tempora/modules/timetracking/importer/adapters"
	"github.com/tempora-uz/tempora/modules/timetracking/infrastructure/persistence"
	"github.com/tempora-uz/tempora/modules/timetracking/services"
	"github.com/tempora-uz/tempora/pkg/composables"
	"github.com/tempora-uz/tempora/pkg/configuration"
	"github.com/tempora-uz/tempora/pkg/eventbus"
)

type importOptions struct {
	organizationID uuid.UUID
	format         string
	input          string
	timezone       string
}

func newImportCmd() *cobra.Command {
	var opts importOptions

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import time tracking data from an exported file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.format, "format", "", "Import format keyword (required, see the formats command)")
	cmd.Flags().StringVar(&opts.input, "input", "", "Path to the exported file (required)")
	cmd.Flags().StringVar(&opts.timezone, "timezone", "UTC", "IANA timezone for formats with local timestamps")

	var tenant string
	cmd.Flags().StringVar(&tenant, "tenant", "", "Organization UUID (required)")

	_ = cmd.MarkFlagRequired("tenant")
	_ = cmd.MarkFlagRequired("format")
	_ = cmd.MarkFlagRequired("input")

	cmd.PreRunE = func(cmd *cobra.Command, args []string) error {
		id, err := uuid.Parse(strings.TrimSpace(tenant))
		if err != nil {
			return withCode(exitUsage, fmt.Errorf("invalid --tenant: %w", err))
		}
		opts.organizationID = id
		return nil
	}

	return cmd
}

func runImport(cmd *cobra.Command, opts importOptions) error {
	ctx := cmd.Context()
	conf := configuration.Use()
	logger := conf.Logger()

	data, err := os.ReadFile(opts.input)
	if err != nil {
		return withCode(exitUsage, fmt.Errorf("read --input: %w", err))
	}

	pool, err := pgxpool.New(ctx, conf.Database.ConnectionString())
	if err != nil {
		return withCode(exitDB, fmt.Errorf("connect: %w", err))
	}
	defer pool.Close()
	ctx = composables.WithPool(ctx, pool)

	svc := services.NewImportService(
		persistence.NewPgRowStore(),
		adapters.DefaultRegistry(),
		eventbus.NewEventPublisher(logger),
		logger,
	)

	report, err := svc.Import(ctx, opts.organizationID, opts.format, data, opts.timezone)
	if err != nil {
		if importer.IsUserError(err) {
			return withCode(exitValidation, err)
		}
		return withCode(exitDB, err)
	}
	return writeJSONLine(report)
}
