package cli

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/notecraft/notecraft/engine/batch"
	"github.com/notecraft/notecraft/engine/core"
	"github.com/notecraft/notecraft/engine/rule"
	"github.com/notecraft/notecraft/engine/table"
	"github.com/notecraft/notecraft/pkg/config"
	"github.com/notecraft/notecraft/pkg/keynorm"
)

func addSourceFlags(cmd *cobra.Command) {
	cmd.Flags().String("primary", "", "Primary source CSV (required)")
	cmd.Flags().String("secondary", "", "Secondary source CSV; its fields override the primary's")
	cmd.Flags().String("rules", "", "Rule table, YAML or CSV (required)")
	_ = cmd.MarkFlagRequired("primary")
	_ = cmd.MarkFlagRequired("rules")
}

func loadAppConfig(ctx context.Context) (*config.Config, error) {
	return config.NewService().Load(ctx)
}

// loadRules reads the rule table from YAML or, for any other extension,
// through the CSV cell path shared with the spreadsheet-shaped sources.
func loadRules(path string, cfg *config.Config) ([]rule.Rule, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".yaml" || ext == ".yml" {
		return rule.LoadYAMLFile(path)
	}
	rows, err := table.ReadCSVFile(path, cfg.Location())
	if err != nil {
		return nil, err
	}
	return rule.ParseRows(rows), nil
}

// buildOrchestrator loads both sources, derives parent-account counts from the
// primary and binds everything to the given writer.
func buildOrchestrator(
	cmd *cobra.Command,
	cfg *config.Config,
	writer batch.NoteWriter,
) (*batch.Orchestrator, *table.Table, error) {
	primaryPath, err := cmd.Flags().GetString("primary")
	if err != nil {
		return nil, nil, err
	}
	secondaryPath, err := cmd.Flags().GetString("secondary")
	if err != nil {
		return nil, nil, err
	}
	rulesPath, err := cmd.Flags().GetString("rules")
	if err != nil {
		return nil, nil, err
	}

	loc := cfg.Location()
	primaryRows, err := table.ReadCSVFile(primaryPath, loc)
	if err != nil {
		return nil, nil, err
	}
	primary, err := table.Load(primaryRows, cfg.Source.HeaderRow, cfg.Source.IDColumn)
	if err != nil {
		return nil, nil, err
	}

	var secondary *table.Table
	if secondaryPath != "" {
		secondaryRows, err := table.ReadCSVFile(secondaryPath, loc)
		if err != nil {
			return nil, nil, err
		}
		secondary, err = table.Load(secondaryRows, cfg.Source.HeaderRow, cfg.Source.IDColumn)
		if err != nil {
			return nil, nil, err
		}
	}

	rules, err := loadRules(rulesPath, cfg)
	if err != nil {
		return nil, nil, err
	}

	counts, parentKey := parentCounts(primaryRows, cfg)
	opts := &batch.Options{
		ParentAccountKey: parentKey,
		GroupPause:       cfg.Batch.GroupPause,
		RetryAttempts:    cfg.Batch.RetryAttempts,
		RetryBase:        cfg.Batch.RetryBase,
		Rule: rule.Options{
			Location:  loc,
			Separator: cfg.Note.Separator,
		},
	}
	return batch.New(primary, secondary, counts, rules, writer, opts), primary, nil
}

// parentCounts streams the primary's parent-account column and resolves the
// normalized key that column's header maps to inside records.
func parentCounts(rows [][]core.CellValue, cfg *config.Config) (map[string]int, string) {
	headerRow := cfg.Source.HeaderRow
	col := cfg.Source.ParentColumn
	parentKey := "parentaccount"
	if headerRow >= 0 && headerRow < len(rows) && col < len(rows[headerRow]) {
		if key := keynorm.Normalize(rows[headerRow][col].String()); key != "" {
			parentKey = key
		}
	}
	var dataRows [][]core.CellValue
	if headerRow+1 < len(rows) {
		dataRows = rows[headerRow+1:]
	}
	return table.CountByColumn(dataRows, col), parentKey
}
