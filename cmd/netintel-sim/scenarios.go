package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/muesli/reflow/wordwrap"
	"github.com/spf13/cobra"

	"netintel-sim/internal/config"
	"netintel-sim/internal/scenario"
)

var (
	scenariosConfigPath string
	scenariosFormat     string
)

var scenariosCmd = &cobra.Command{
	Use:   "scenarios",
	Short: "List the health scenarios",
	Long:  "scenarios prints the scenario catalog together with the health band each archetype covers.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Default()
		if scenariosConfigPath != "" {
			loaded, err := config.Load(scenariosConfigPath, "")
			if err != nil {
				return err
			}
			cfg = loaded
		}
		catalog, err := loadCatalog(cfg)
		if err != nil {
			return err
		}
		switch scenariosFormat {
		case "table":
			return renderScenarios(cmd.OutOrStdout(), catalog, cfg.Thresholds.Scenario)
		case "json":
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(scenarioRows(catalog, cfg.Thresholds.Scenario))
		}
		return fmt.Errorf("unknown format %q", scenariosFormat)
	},
}

type scenarioRow struct {
	Tag         scenario.Tag `json:"tag"`
	Title       string       `json:"title"`
	Band        string       `json:"health_band"`
	Description string       `json:"description"`
}

func scenarioRows(catalog *scenario.Catalog, th scenario.ScenarioThresholds) []scenarioRow {
	defs := catalog.All()
	rows := make([]scenarioRow, 0, len(defs))
	for _, d := range defs {
		rows = append(rows, scenarioRow{Tag: d.Tag, Title: d.Title, Band: band(d.Tag, th), Description: d.Description})
	}
	return rows
}

// band renders the health interval that classifies as tag.
func band(tag scenario.Tag, th scenario.ScenarioThresholds) string {
	switch tag {
	case scenario.Excellent:
		return fmt.Sprintf("%.0f-100", th.Excellent)
	case scenario.Good:
		return fmt.Sprintf("%.0f-%.0f", th.Good, th.Excellent)
	case scenario.Maintenance:
		return fmt.Sprintf("%.0f-%.0f", th.Maintenance, th.Good)
	case scenario.Degraded:
		return fmt.Sprintf("%.0f-%.0f", th.Degraded, th.Maintenance)
	}
	return fmt.Sprintf("0-%.0f", th.Degraded)
}

func renderScenarios(w io.Writer, catalog *scenario.Catalog, th scenario.ScenarioThresholds) error {
	header := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("TAG", "TITLE", "HEALTH", "DESCRIPTION").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		})
	for _, r := range scenarioRows(catalog, th) {
		t.Row(string(r.Tag), r.Title, r.Band, wordwrap.String(r.Description, 48))
	}
	_, err := fmt.Fprintln(w, t.Render())
	return err
}

func init() {
	scenariosCmd.Flags().StringVar(&scenariosConfigPath, "config", "", "Path to a YAML config whose thresholds and scenarios file to use")
	scenariosCmd.Flags().StringVar(&scenariosFormat, "format", "table", "Output format (table or json)")
}
