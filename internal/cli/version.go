package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/aryankumar/probectl/pkg/version"
)

// newVersionCmd creates the version command
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  "Display detailed version information for probectl",
		// version must work without a readable config file
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			outputFormat, _ := cmd.Flags().GetString("output")
			return writeVersion(cmd.OutOrStdout(), version.Get(), outputFormat)
		},
	}
}

// writeVersion renders info; the default table format prints the plain text form
func writeVersion(w io.Writer, info version.Info, outputFormat string) error {
	switch outputFormat {
	case "json":
		data, err := json.MarshalIndent(info, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal version info to JSON: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case "yaml":
		data, err := yaml.Marshal(info)
		if err != nil {
			return fmt.Errorf("failed to marshal version info to YAML: %w", err)
		}
		_, err = w.Write(data)
		return err
	case "wide":
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "COMPONENT\tVALUE")
		fmt.Fprintf(tw, "Version\t%s\n", info.Version)
		fmt.Fprintf(tw, "Commit\t%s\n", info.Commit)
		fmt.Fprintf(tw, "Build Time\t%s\n", info.BuildTime)
		fmt.Fprintf(tw, "Go Version\t%s\n", info.GoVersion)
		fmt.Fprintf(tw, "Platform\t%s\n", info.Platform)
		return tw.Flush()
	default:
		_, err := fmt.Fprintln(w, info.String())
		return err
	}
}
