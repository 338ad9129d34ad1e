package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"

	"nutrisnap/internal/models"
	"nutrisnap/internal/nutrition"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF8C42"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8A8A8A"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#E5534B"))
)

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printScan(w io.Writer, scan models.Scan, view nutrition.View) {
	fmt.Fprintln(w, titleStyle.Render(scan.FoodName))
	fmt.Fprintf(w, "%s %s\n", labelStyle.Render("id:      "), scan.ID)
	fmt.Fprintf(w, "%s %s\n", labelStyle.Render("scanned: "), scan.CreatedAt.Local().Format(time.RFC1123))
	fmt.Fprintf(w, "%s %s\n", labelStyle.Render("portion: "), portionLabel(view.Portion))
	fmt.Fprintf(w, "%s %d kcal\n", labelStyle.Render("calories:"), view.Calories)
	fmt.Fprintf(w, "%s %d%s (%.0f%%)\n", labelStyle.Render("protein: "), view.Protein, view.Unit, view.Shares.Protein)
	fmt.Fprintf(w, "%s %d%s (%.0f%%)\n", labelStyle.Render("carbs:   "), view.Carbs, view.Unit, view.Shares.Carbs)
	fmt.Fprintf(w, "%s %d%s (%.0f%%)\n", labelStyle.Render("fats:    "), view.Fats, view.Unit, view.Shares.Fats)
}

func printScanList(w io.Writer, scans []models.Scan) error {
	if len(scans) == 0 {
		fmt.Fprintln(w, "No scans yet.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tFOOD\tKCAL\tSCANNED")
	for _, s := range scans {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", s.ID, s.FoodName, s.NutritionalInfo.Calories, s.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
	return tw.Flush()
}

func printSettings(w io.Writer, s models.Settings) {
	fmt.Fprintf(w, "%s %s\n", labelStyle.Render("theme:"), s.Theme)
	fmt.Fprintf(w, "%s %s\n", labelStyle.Render("units:"), s.Units)
}

func printWarning(w io.Writer, msg string) {
	fmt.Fprintln(w, warningStyle.Render("warning: "+msg))
}

func portionLabel(m float64) string {
	for _, p := range nutrition.Portions {
		if p.Multiplier == m {
			return fmt.Sprintf("%s (x%g)", p.Label, m)
		}
	}
	return fmt.Sprintf("x%g", m)
}
