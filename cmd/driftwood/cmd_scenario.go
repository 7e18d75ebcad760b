package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"driftwood/internal/format"
	"driftwood/internal/scenario"
	"driftwood/internal/store"
)

var scenarioCmd = &cobra.Command{
	Use:   "scenario",
	Short: "List scenarios and inspect recorded trial suites",
}

var scenarioListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the embedded scenarios",
	RunE: func(cmd *cobra.Command, _ []string) error {
		tb := format.NewTable(format.ASCII)
		tb.Header("Name", "Sections", "Description")
		tb.Columns(format.ColumnConfig{Number: 3, MaxWidth: 60})
		for _, name := range scenario.List() {
			sc, err := scenario.Load(name)
			if err != nil {
				return err
			}
			tb.Row(sc.Name, len(sc.Schema.Sections), sc.Description)
		}
		fmt.Println(tb.String())
		return nil
	},
}

var scenarioShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Print a scenario's canonical structure and schema",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sc, err := loadScenario(args[0])
		if err != nil {
			return err
		}
		return writeJSON("-", sc)
	},
}

var suitesDBPath string

var scenarioSuitesCmd = &cobra.Command{
	Use:   "suites",
	Short: "List recorded trial suites",
	RunE: func(cmd *cobra.Command, _ []string) error {
		st, err := store.Open(suitesDBPath)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()

		suites, err := st.ListSuites()
		if err != nil {
			return err
		}
		tb := format.NewTable(format.ASCII)
		tb.Header("ID", "Scenario", "Planner", "Trials", "Accuracy", "Created")
		tb.Columns(
			format.ColumnConfig{Number: 1, Align: format.AlignRight},
			format.ColumnConfig{Number: 4, Align: format.AlignRight},
			format.ColumnConfig{Number: 5, Align: format.AlignRight},
		)
		for _, s := range suites {
			tb.Row(s.ID, s.Scenario, s.Planner, s.Trials, format.FmtPercent(s.Accuracy), s.CreatedAt)
		}
		fmt.Println(tb.String())
		return nil
	},
}

func init() {
	scenarioSuitesCmd.Flags().StringVar(&suitesDBPath, "db", store.DefaultDBPath, "Suite DB path")
	scenarioCmd.AddCommand(scenarioListCmd)
	scenarioCmd.AddCommand(scenarioShowCmd)
	scenarioCmd.AddCommand(scenarioSuitesCmd)
}
