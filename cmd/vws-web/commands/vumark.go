package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

const defaultTargetLinkTimeout = 5 * time.Minute

func newUploadVuMarkTemplateCmd(s *state) *cobra.Command {
	var (
		databaseName string
		templateFile string
		templateName string
		width        float64
	)
	cmd := &cobra.Command{
		Use:   "upload-vumark-template --database-name <name> --template-file <path|url> --template-name <name> --width <width>",
		Short: "Adds a VuMark template to a VuMark database.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(templateName) == "" {
				return errors.New("--template-name must not be empty")
			}
			if width <= 0 {
				return fmt.Errorf("--width must be positive, got %v", width)
			}

			_, err := s.validCredentials(cmd)
			if err != nil {
				return err
			}
			templatePath, cleanup, err := resolveTemplate(cmd.Context(), s.env.HTTP, templateFile)
			if err != nil {
				return err
			}
			defer cleanup()

			return s.withConsole(cmd, func(ctx context.Context, console Console) error {
				return console.UploadVuMarkTemplate(ctx, databaseName, templatePath, templateName, width)
			})
		},
	}
	cmd.Flags().StringVar(&databaseName, "database-name", "", "The name of the VuMark database.")
	cmd.Flags().StringVar(&templateFile, "template-file", "", "Path or http(s) URL of the SVG template.")
	cmd.Flags().StringVar(&templateName, "template-name", "", "The name of the template.")
	cmd.Flags().Float64Var(&width, "width", 0, "The width of the template in scene units.")
	cmd.MarkFlagRequired("database-name")
	cmd.MarkFlagRequired("template-file")
	cmd.MarkFlagRequired("template-name")
	cmd.MarkFlagRequired("width")
	return cmd
}

func newGetVuMarkTargetIDCmd(s *state) *cobra.Command {
	var databaseName, targetName string
	cmd := &cobra.Command{
		Use:   "get-vumark-target-id --database-name <name> --target-name <name>",
		Short: "Prints the ID of a VuMark target.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.withConsole(cmd, func(ctx context.Context, console Console) error {
				id, err := console.GetVuMarkTargetID(ctx, databaseName, targetName)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), id)
				return err
			})
		},
	}
	cmd.Flags().StringVar(&databaseName, "database-name", "", "The name of the VuMark database.")
	cmd.Flags().StringVar(&targetName, "target-name", "", "The name of the target.")
	cmd.MarkFlagRequired("database-name")
	cmd.MarkFlagRequired("target-name")
	return cmd
}

func newWaitForVuMarkTargetLinkCmd(s *state) *cobra.Command {
	var (
		databaseName string
		targetName   string
		timeout      time.Duration
	)
	cmd := &cobra.Command{
		Use:   "wait-for-vumark-target-link --database-name <name> --target-name <name> [--timeout 5m]",
		Short: "Waits until a VuMark target is processed and prints its link.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if timeout <= 0 {
				return fmt.Errorf("--timeout must be positive, got %s", timeout)
			}
			return s.withConsole(cmd, func(ctx context.Context, console Console) error {
				link, err := console.WaitForVuMarkTargetLink(ctx, databaseName, targetName, timeout)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), link)
				return err
			})
		},
	}
	cmd.Flags().StringVar(&databaseName, "database-name", "", "The name of the VuMark database.")
	cmd.Flags().StringVar(&targetName, "target-name", "", "The name of the target.")
	cmd.Flags().DurationVar(&timeout, "timeout", defaultTargetLinkTimeout, "How long to wait for the link.")
	cmd.MarkFlagRequired("database-name")
	cmd.MarkFlagRequired("target-name")
	return cmd
}
