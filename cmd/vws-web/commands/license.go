package commands

import (
	"context"

	"github.com/spf13/cobra"
)

func newCreateLicenseCmd(s *state) *cobra.Command {
	var licenseName string
	cmd := &cobra.Command{
		Use:   "create-vws-license --license-name <name>",
		Short: "Creates a development license.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.withConsole(cmd, func(ctx context.Context, console Console) error {
				return console.CreateLicense(ctx, licenseName)
			})
		},
	}
	cmd.Flags().StringVar(&licenseName, "license-name", "", "The name of the license.")
	cmd.MarkFlagRequired("license-name")
	return cmd
}

func newDeleteLicenseCmd(s *state) *cobra.Command {
	var licenseName string
	cmd := &cobra.Command{
		Use:   "delete-vws-license --license-name <name>",
		Short: "Deletes a license.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.withConsole(cmd, func(ctx context.Context, console Console) error {
				return console.DeleteLicense(ctx, licenseName)
			})
		},
	}
	cmd.Flags().StringVar(&licenseName, "license-name", "", "The name of the license.")
	cmd.MarkFlagRequired("license-name")
	return cmd
}

func newShowLicenseDetailsCmd(s *state) *cobra.Command {
	var (
		licenseName  string
		envVarFormat bool
		output       string
	)
	cmd := &cobra.Command{
		Use:   "show-license-details --license-name <name> [--env-var-format]",
		Short: "Prints the key of a license.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := validateOutput(output)
			if err != nil {
				return err
			}
			return s.withConsole(cmd, func(ctx context.Context, console Console) error {
				details, err := console.GetLicenseDetails(ctx, licenseName)
				if err != nil {
					return err
				}
				return printDetails(cmd.OutOrStdout(), details, licenseFields(details), output, envVarFormat)
			})
		},
	}
	cmd.Flags().StringVar(&licenseName, "license-name", "", "The name of the license.")
	cmd.Flags().BoolVar(&envVarFormat, "env-var-format", false, "Print KEY=VALUE lines.")
	cmd.Flags().StringVarP(&output, "output", "o", outputYAML, "Output format: yaml, json or table.")
	cmd.MarkFlagRequired("license-name")
	return cmd
}
