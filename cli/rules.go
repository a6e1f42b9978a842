package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/notecraft/notecraft/engine/rule"
)

func RulesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Inspect rule tables",
	}
	cmd.AddCommand(rulesLintCmd())
	return cmd
}

func rulesLintCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lint",
		Short: "Check a rule table for unparseable expressions and unknown formats",
		RunE:  runRulesLint,
	}
	cmd.Flags().String("rules", "", "Rule table, YAML or CSV (required)")
	_ = cmd.MarkFlagRequired("rules")
	return cmd
}

func runRulesLint(cmd *cobra.Command, _ []string) error {
	cfg, err := loadAppConfig(cmd.Context())
	if err != nil {
		return err
	}
	rulesPath, err := cmd.Flags().GetString("rules")
	if err != nil {
		return err
	}
	rules, err := loadRules(rulesPath, cfg)
	if err != nil {
		return err
	}
	issues := rule.Lint(rules)
	if len(issues) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "%d rules, no issues\n", len(rules))
		return nil
	}
	for _, issue := range issues {
		fmt.Fprintf(cmd.OutOrStdout(), "rule %d: %s\n", issue.Rule, issue.Message)
	}
	return fmt.Errorf("%d issue(s) in %d rules", len(issues), len(rules))
}
