// internal/cli/registry.go
package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"lifecycle-audit-workers/pkg/registry"

	"github.com/spf13/cobra"
)

const defaultRegistryPath = "configs/activity-registry.json"

func (c *CLI) newRegistryCmd() *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "registry",
		Short: "Inspect and maintain the activity registry",
	}
	cmd.PersistentFlags().StringVar(&path, "path", defaultRegistryPath, "Path to the registry file")

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate the registry file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg, err := registry.LoadRegistry(path)
			if err != nil {
				return fmt.Errorf("failed to load registry: %w", err)
			}
			if err := reg.Validate(); err != nil {
				return fmt.Errorf("registry validation failed: %w", err)
			}
			fmt.Fprintf(c.out, "Registry validation passed. Found %d activities.\n", len(reg.Activities))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List registered task types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg, err := registry.LoadRegistry(path)
			if err != nil {
				return fmt.Errorf("failed to load registry: %w", err)
			}
			w := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "TASK TYPE\tCATEGORY\tVERSION\tTIMEOUT\tRETRIES")
			for _, a := range reg.Activities {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\n", a.TaskType, a.Category, a.Version, a.Timeout, a.Retries)
			}
			return w.Flush()
		},
	})

	var id, field, value string
	set := &cobra.Command{
		Use:     "set",
		Short:   "Update one field of an activity",
		Example: "  audit registry set --id audit.report.generate --field timeout --value 45s",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg, err := registry.LoadRegistry(path)
			if err != nil {
				return fmt.Errorf("failed to load registry: %w", err)
			}
			if err := reg.Set(id, field, value); err != nil {
				return err
			}
			if err := reg.Save(path, time.Now()); err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Updated activity %s, field %s to %s\n", id, field, value)
			return nil
		},
	}
	set.Flags().StringVar(&id, "id", "", "Activity ID to update")
	set.Flags().StringVar(&field, "field", "", "Field to update (version, displayName, description, category, timeout, retries)")
	set.Flags().StringVar(&value, "value", "", "New value for the field")
	_ = set.MarkFlagRequired("id")
	_ = set.MarkFlagRequired("field")
	_ = set.MarkFlagRequired("value")
	cmd.AddCommand(set)

	return cmd
}
