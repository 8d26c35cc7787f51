package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"vws-web-tools/internal/vws"

	"github.com/jedib0t/go-pretty/v6/table"
	"gopkg.in/yaml.v3"
)

const (
	outputYAML  = "yaml"
	outputJSON  = "json"
	outputTable = "table"
)

// field is one line of output, EnvVar is the name used with --env-var-format.
type field struct {
	Name   string
	EnvVar string
	Value  string
}

func databaseFields(details vws.DatabaseDetails) []field {
	fields := []field{
		{"database_name", "VUFORIA_TARGET_MANAGER_DATABASE_NAME", details.DatabaseName},
		{"server_access_key", "VUFORIA_SERVER_ACCESS_KEY", details.ServerAccessKey},
		{"server_secret_key", "VUFORIA_SERVER_SECRET_KEY", details.ServerSecretKey},
	}
	if details.ClientAccessKey != "" || details.ClientSecretKey != "" {
		fields = append(fields,
			field{"client_access_key", "VUFORIA_CLIENT_ACCESS_KEY", details.ClientAccessKey},
			field{"client_secret_key", "VUFORIA_CLIENT_SECRET_KEY", details.ClientSecretKey},
		)
	}
	return fields
}

func licenseFields(details vws.LicenseDetails) []field {
	return []field{
		{"license_name", "VUFORIA_LICENSE_NAME", details.LicenseName},
		{"license_key", "VUFORIA_LICENSE_KEY", details.LicenseKey},
	}
}

func validateOutput(format string) error {
	switch format {
	case outputYAML, outputJSON, outputTable:
		return nil
	}
	return fmt.Errorf("unknown output format %q, expected %q, %q or %q", format, outputYAML, outputJSON, outputTable)
}

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(w)
	return t
}

// printDetails writes `value` (a details struct) as described by `fields`.
func printDetails(w io.Writer, value any, fields []field, format string, envVarFormat bool) error {
	if envVarFormat {
		for _, f := range fields {
			_, err := fmt.Fprintf(w, "%s=%s\n", f.EnvVar, f.Value)
			if err != nil {
				return err
			}
		}
		return nil
	}

	switch format {
	case outputJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(value)
	case outputTable:
		t := newTable(w)
		t.AppendHeader(table.Row{"Field", "Value"})
		for _, f := range fields {
			t.AppendRow(table.Row{f.Name, f.Value})
		}
		t.Render()
		return nil
	default:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		err := encoder.Encode(value)
		if err != nil {
			return err
		}
		return encoder.Close()
	}
}
