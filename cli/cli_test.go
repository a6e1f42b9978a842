package cli

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := RootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestRunCommand(t *testing.T) {
	t.Run("Should write notes for every primary record without a targets file", func(t *testing.T) {
		dir := t.TempDir()
		primary := writeFile(t, dir, "accounts.csv",
			"Account ID,Parent Account,Revenue\nA1,P1,100\nA2,P1,50\n")
		rules := writeFile(t, dir, "rules.csv",
			"expression,format,template,break\nrevenue,number,Rev: {{val}},TRUE\n")
		outPath := filepath.Join(dir, "notes.csv")

		stdout, err := execute(t, "run",
			"--primary", primary, "--rules", rules, "--out", outPath,
			"--env-file", "")
		require.NoError(t, err)
		assert.Contains(t, stdout, "2 records scanned")
		assert.Contains(t, stdout, "2 updated")

		f, err := os.Open(outPath)
		require.NoError(t, err)
		defer f.Close()
		rows, err := csv.NewReader(f).ReadAll()
		require.NoError(t, err)
		require.Len(t, rows, 3)
		assert.Equal(t, []string{"group", "rid", "note"}, rows[0])
		assert.Equal(t, []string{"all", "A1", "Rev: 100"}, rows[1])
		assert.Equal(t, []string{"all", "A2", "Rev: 50"}, rows[2])
	})

	t.Run("Should honor a targets file and skip unknown records", func(t *testing.T) {
		dir := t.TempDir()
		primary := writeFile(t, dir, "accounts.csv",
			"Account ID,Parent Account,Revenue\nA1,P1,100\n")
		rules := writeFile(t, dir, "rules.csv",
			"expression,format,template,break\nrevenue,number,Rev: {{val}},TRUE\n")
		targets := writeFile(t, dir, "targets.csv",
			"Group,Account ID\nwest,A1\nwest,NOPE\n")
		outPath := filepath.Join(dir, "notes.csv")

		stdout, err := execute(t, "run",
			"--primary", primary, "--rules", rules,
			"--targets", targets, "--out", outPath,
			"--env-file", "")
		require.NoError(t, err)
		assert.Contains(t, stdout, "2 records scanned")
		assert.Contains(t, stdout, "1 updated")
		assert.Contains(t, stdout, "1 warnings")
	})
}

func TestPreviewCommand(t *testing.T) {
	t.Run("Should print the note a batch run would write", func(t *testing.T) {
		dir := t.TempDir()
		primary := writeFile(t, dir, "accounts.csv",
			"Account ID,Parent Account,Revenue\nA1,P1,1234.56\n")
		rules := writeFile(t, dir, "rules.csv",
			"expression,format,template,break\nrevenue,number,Rev: {{val}},TRUE\n")

		stdout, err := execute(t, "preview", "A1",
			"--primary", primary, "--rules", rules,
			"--env-file", "")
		require.NoError(t, err)
		assert.Equal(t, "Rev: 1234.6\n", stdout)
	})

	t.Run("Should fail for a record absent from both sources", func(t *testing.T) {
		dir := t.TempDir()
		primary := writeFile(t, dir, "accounts.csv",
			"Account ID,Parent Account,Revenue\nA1,P1,1\n")
		rules := writeFile(t, dir, "rules.csv",
			"expression,format,template,break\nrevenue,,,TRUE\n")

		_, err := execute(t, "preview", "NOPE",
			"--primary", primary, "--rules", rules,
			"--env-file", "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not found")
	})
}

func TestRulesLintCommand(t *testing.T) {
	t.Run("Should pass a clean YAML rule table", func(t *testing.T) {
		dir := t.TempDir()
		rules := writeFile(t, dir, "rules.yaml",
			"rules:\n  - expression: revenue\n    format: number\n    template: \"Rev: {{val}}\"\n    break_after: true\n")

		stdout, err := execute(t, "rules", "lint", "--rules", rules, "--env-file", "")
		require.NoError(t, err)
		assert.Contains(t, stdout, "no issues")
	})

	t.Run("Should fail with diagnostics for a bad format", func(t *testing.T) {
		dir := t.TempDir()
		rules := writeFile(t, dir, "rules.csv",
			"expression,format,template,break\nrevenue,money,,TRUE\n")

		stdout, err := execute(t, "rules", "lint", "--rules", rules, "--env-file", "")
		require.Error(t, err)
		assert.Contains(t, stdout, "unrecognized format")
	})
}
