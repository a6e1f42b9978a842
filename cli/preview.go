package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/notecraft/notecraft/engine/batch"
)

func PreviewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preview <rid>",
		Short: "Render the annotation for a single record",
		Long: "Evaluates the rule table against one record, merged from the primary and " +
			"secondary sources, and prints the note that a batch run would write. " +
			"Nothing is written anywhere.",
		Args: cobra.ExactArgs(1),
		RunE: runPreview,
	}
	addSourceFlags(cmd)
	return cmd
}

func runPreview(cmd *cobra.Command, args []string) error {
	cfg, err := loadAppConfig(cmd.Context())
	if err != nil {
		return err
	}
	orch, _, err := buildOrchestrator(cmd, cfg, batch.NewMemoryWriter())
	if err != nil {
		return err
	}
	rid := args[0]
	note, found := orch.PreviewRecord(rid)
	if !found {
		return fmt.Errorf("record %q not found in any source", rid)
	}
	if note == nil {
		fmt.Fprintf(cmd.OutOrStdout(), "record %s: no rule resolved, annotation would be cleared\n", rid)
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), *note)
	return nil
}
