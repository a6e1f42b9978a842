package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/notecraft/notecraft/engine/batch"
	"github.com/notecraft/notecraft/engine/table"
	"github.com/notecraft/notecraft/pkg/config"
	"github.com/notecraft/notecraft/pkg/logger"
)

func RunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Render annotations for every targeted record",
		Long: "Loads the primary and secondary sources, evaluates the rule table per record " +
			"and writes the rendered notes to the output CSV. Without a targets file every " +
			"record of the primary source forms one group.",
		RunE: runBatch,
	}
	addSourceFlags(cmd)
	cmd.Flags().String("targets", "", "Targets CSV listing group and RID columns")
	cmd.Flags().Int("group-col", 0, "Zero-based group column in the targets file")
	cmd.Flags().Int("rid-col", 1, "Zero-based RID column in the targets file")
	cmd.Flags().String("out", "notes.csv", "Output CSV path")
	return cmd
}

func runBatch(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	cfg, err := loadAppConfig(ctx)
	if err != nil {
		return err
	}
	outPath, err := cmd.Flags().GetString("out")
	if err != nil {
		return err
	}
	writer, err := batch.NewCSVWriter(outPath)
	if err != nil {
		return err
	}
	defer writer.Close()

	orch, primary, err := buildOrchestrator(cmd, cfg, writer)
	if err != nil {
		return err
	}
	groups, err := resolveTargets(cmd, cfg, primary)
	if err != nil {
		return err
	}

	summary, err := orch.Run(ctx, groups)
	if err != nil {
		return err
	}
	for _, warning := range summary.Warnings {
		logger.Warn(warning, "run_id", summary.RunID)
	}
	fmt.Fprintf(cmd.OutOrStdout(),
		"run %s: %d groups, %d records scanned, %d updated, %d warnings -> %s\n",
		summary.RunID, summary.Groups, summary.RecordsScanned,
		summary.RecordsUpdated, len(summary.Warnings), outPath,
	)
	return nil
}

func resolveTargets(cmd *cobra.Command, cfg *config.Config, primary *table.Table) ([]batch.Group, error) {
	targetsPath, err := cmd.Flags().GetString("targets")
	if err != nil {
		return nil, err
	}
	if targetsPath == "" {
		return []batch.Group{{Name: "all", RIDs: primary.Order}}, nil
	}
	groupCol, err := cmd.Flags().GetInt("group-col")
	if err != nil {
		return nil, err
	}
	ridCol, err := cmd.Flags().GetInt("rid-col")
	if err != nil {
		return nil, err
	}
	rows, err := table.ReadCSVFile(targetsPath, cfg.Location())
	if err != nil {
		return nil, err
	}
	return batch.GroupsFromRows(rows, cfg.Source.HeaderRow, groupCol, ridCol), nil
}
