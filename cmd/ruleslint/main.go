// Command ruleslint validates a medication table offline and evaluates single
// doses against it.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jianyou-wu/medical-app/internal/dosage"
	"github.com/jianyou-wu/medical-app/internal/formula"
	"github.com/jianyou-wu/medical-app/internal/logging"
	"github.com/jianyou-wu/medical-app/internal/tables"
)

var errLintFailed = errors.New("medication table has invalid rows")

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	var logLevel string

	rootCmd := &cobra.Command{
		Use:          "ruleslint",
		Short:        "Check and evaluate medication dosage rules",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	rootCmd.SetOut(out)

	newLogger := func() *zap.Logger {
		logger, err := logging.New(logLevel, "console", "ruleslint")
		if err != nil {
			return zap.NewNop()
		}
		return logger
	}

	rootCmd.AddCommand(checkCmd(newLogger))
	rootCmd.AddCommand(evalCmd(newLogger))
	return rootCmd
}

// lintResult is the outcome of checking one row.
type lintResult struct {
	Row      int
	Drug     string
	Problems []string
	Warnings []string
}

// lintRules parses every formula and age constraint. Rows arrive named, since
// the table reader skips unnamed rows. Row numbers are 1-based and count
// named data rows only.
func lintRules(rules []dosage.Rule) []lintResult {
	results := make([]lintResult, 0, len(rules))
	seen := make(map[string]int, len(rules))

	for i, r := range rules {
		res := lintResult{Row: i + 1, Drug: strings.TrimSpace(r.Name)}

		if first, dup := seen[res.Drug]; dup {
			res.Warnings = append(res.Warnings, fmt.Sprintf("duplicate of row %d, ignored at lookup", first))
		} else {
			seen[res.Drug] = res.Row
		}

		if expr, err := formula.Parse(r.Formula); err != nil {
			res.Problems = append(res.Problems, "formula: "+err.Error())
		} else if weight, age := formula.Vars(expr); !weight && !age {
			res.Warnings = append(res.Warnings, "formula uses neither 體重 nor 年齡 and gives a fixed dose")
		}

		age := strings.TrimSpace(r.AgeEligibility)
		if _, ok := dosage.ParseAgeConstraint(age); !ok && age != "" {
			res.Warnings = append(res.Warnings, fmt.Sprintf("age eligibility %q is not of the form N%s and is ignored", age, dosage.AgeMarker))
		}

		results = append(results, res)
	}
	return results
}

func checkCmd(newLogger func() *zap.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "check <file>",
		Short: "Parse every formula in a medication table (.csv or .xlsx)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			defer func() { _ = logger.Sync() }()

			rules, err := tables.LoadMedications(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			failed := 0
			for _, res := range lintRules(rules) {
				for _, w := range res.Warnings {
					logger.Warn("rule warning", zap.Int("row", res.Row), zap.String("drug", res.Drug), zap.String("detail", w))
					fmt.Fprintf(out, "WARN  row %d %s: %s\n", res.Row, res.Drug, w)
				}
				if len(res.Problems) == 0 {
					continue
				}
				failed++
				for _, p := range res.Problems {
					fmt.Fprintf(out, "FAIL  row %d %s: %s\n", res.Row, res.Drug, p)
				}
			}

			fmt.Fprintf(out, "%d rows, %d failed\n", len(rules), failed)
			if failed > 0 {
				return errLintFailed
			}
			return nil
		},
	}
}

func evalCmd(newLogger func() *zap.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eval <file>",
		Short: "Compute one dose from a medication table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			defer func() { _ = logger.Sync() }()

			drug, _ := cmd.Flags().GetString("drug")
			weight, _ := cmd.Flags().GetFloat64("weight")
			age, _ := cmd.Flags().GetFloat64("age")
			if weight <= 0 || age < 0 {
				return fmt.Errorf("weight must be positive and age non-negative")
			}

			rules, err := tables.LoadMedications(args[0])
			if err != nil {
				return err
			}
			rule, ok := dosage.NewTable(rules).Lookup(drug)
			if !ok {
				return fmt.Errorf("drug %q not found", drug)
			}

			dose, err := dosage.Compute(rule, weight, age)
			if err != nil {
				logger.Debug("dose failed", zap.String("kind", string(dosage.KindOf(err))), zap.Error(err))
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s: %g\n", dose.Drug, dose.Amount)
			if rule.DoseInstruction != "" {
				fmt.Fprintln(cmd.OutOrStdout(), rule.DoseInstruction)
			}
			return nil
		},
	}
	cmd.Flags().String("drug", "", "Drug name as listed in the table")
	cmd.Flags().Float64("weight", 0, "Body weight in kg")
	cmd.Flags().Float64("age", 0, "Age in years")
	_ = cmd.MarkFlagRequired("drug")
	_ = cmd.MarkFlagRequired("weight")
	return cmd
}
