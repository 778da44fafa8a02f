package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cardsort-dev/cardsort/internal/categories"
	"github.com/cardsort-dev/cardsort/internal/config"
)

const (
	categoriesFileName = "categories.yaml"
	statementsDir      = "statements"
	reportsDir         = "reports"
)

func newInitCommand() *cobra.Command {
	var mergeInstallments bool
	var xlsx bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Create a cardsort workspace with default config and categories",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			if err := runInit(absDir, mergeInstallments, xlsx); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Initialized cardsort workspace at %s\n", absDir)
			return nil
		},
	}

	cmd.Flags().BoolVar(&mergeInstallments, "merge-installments", false, "enable installment merging in the config")
	cmd.Flags().BoolVar(&xlsx, "xlsx", false, "enable the XLSX workbook in the config")

	return cmd
}

func runInit(dir string, mergeInstallments, xlsx bool) error {
	cfgPath := filepath.Join(dir, config.FileName)
	if _, err := os.Stat(cfgPath); err == nil {
		return fmt.Errorf("%s already exists", cfgPath)
	}

	for _, d := range []string{statementsDir, reportsDir} {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	// Paths are relative; config.Load resolves them against the config file.
	cfg := config.Default()
	cfg.CategoriesFile = categoriesFileName
	cfg.Output.Dir = reportsDir
	cfg.Output.XLSX = xlsx
	cfg.Installments.Merge = mergeInstallments
	if err := config.Save(cfgPath, cfg); err != nil {
		return err
	}

	catPath := filepath.Join(dir, categoriesFileName)
	if _, err := os.Stat(catPath); os.IsNotExist(err) {
		if err := categories.Save(catPath, categories.Default()); err != nil {
			return fmt.Errorf("writing categories: %w", err)
		}
	}

	// Statements and reports hold personal financial data.
	gitignore := statementsDir + "/\n" + reportsDir + "/\n.env\n"
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(gitignore), 0o644); err != nil {
		return fmt.Errorf("writing .gitignore: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, statementsDir, ".gitkeep"), []byte{}, 0o644); err != nil {
		return fmt.Errorf("writing .gitkeep: %w", err)
	}

	return nil
}
