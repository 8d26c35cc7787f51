package commands

import (
	"context"
	"fmt"
	"strings"

	"vws-web-tools/internal/vws"

	"github.com/spf13/cobra"
)

func newCreateDatabaseCmd(s *state) *cobra.Command {
	var (
		databaseName string
		databaseType string
		licenseName  string
	)
	cmd := &cobra.Command{
		Use:   "create-vws-database --database-name <name> [--database-type cloud|vumark] [--license-name <name>]",
		Short: "Creates a cloud or VuMark database.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			parsedType, err := vws.ParseDatabaseType(databaseType)
			if err != nil {
				return err
			}
			if parsedType == vws.DatabaseTypeCloud && strings.TrimSpace(licenseName) == "" {
				return fmt.Errorf("--license-name: %w", vws.ErrMissingLicenseName)
			}

			return s.withConsole(cmd, func(ctx context.Context, console Console) error {
				if parsedType == vws.DatabaseTypeVuMark {
					return console.CreateVuMarkDatabase(ctx, databaseName)
				}
				return console.CreateCloudDatabase(ctx, databaseName, licenseName)
			})
		},
	}
	cmd.Flags().StringVar(&databaseName, "database-name", "", "The name of the database.")
	cmd.Flags().StringVar(&databaseType, "database-type", string(vws.DatabaseTypeCloud), "The type of the database: cloud or vumark.")
	cmd.Flags().StringVar(&licenseName, "license-name", "", "The license to attach a cloud database to.")
	cmd.MarkFlagRequired("database-name")
	return cmd
}

func newShowDatabaseDetailsCmd(s *state) *cobra.Command {
	var (
		databaseName string
		envVarFormat bool
		output       string
	)
	cmd := &cobra.Command{
		Use:   "show-database-details --database-name <name> [--env-var-format] [--output yaml|json|table]",
		Short: "Prints the access keys of a database.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := validateOutput(output)
			if err != nil {
				return err
			}
			return s.withConsole(cmd, func(ctx context.Context, console Console) error {
				details, err := console.GetDatabaseDetails(ctx, databaseName)
				if err != nil {
					return err
				}
				return printDetails(cmd.OutOrStdout(), details, databaseFields(details), output, envVarFormat)
			})
		},
	}
	cmd.Flags().StringVar(&databaseName, "database-name", "", "The name of the database.")
	cmd.Flags().BoolVar(&envVarFormat, "env-var-format", false, "Print KEY=VALUE lines.")
	cmd.Flags().StringVarP(&output, "output", "o", outputYAML, "Output format: yaml, json or table.")
	cmd.MarkFlagRequired("database-name")
	return cmd
}
