package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"nutrisnap/internal/analysis"
	"nutrisnap/internal/app"
	"nutrisnap/internal/models"
	"nutrisnap/internal/nutrition"
	"nutrisnap/internal/vision"
)

func (c *cli) analyzeCmd() *cobra.Command {
	var (
		portion string
		units   string
		noSave  bool
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "analyze [image-file]",
		Short: "Identify the food in a photo and estimate its nutrition",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			multiplier, err := nutrition.ParsePortion(portion)
			if err != nil {
				return err
			}

			photo, err := readPhoto(args[0])
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			a, err := c.openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.ConnectProvider(ctx); err != nil {
				return err
			}

			scan, err := runAnalysis(ctx, a, photo, noSave)
			if err != nil {
				c.logger.Debug("analysis failed", zap.Error(err))
				return errors.New(analysis.UserMessage(err))
			}

			view, err := renderFor(a, *scan, multiplier, units)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return printJSON(out, map[string]interface{}{"scan": scan, "view": view})
			}
			printScan(out, *scan, view)
			return nil
		},
	}

	cmd.Flags().StringVar(&portion, "portion", "1", "Portion multiplier: 0.5, 1, 1.5 or 2")
	cmd.Flags().StringVar(&units, "units", "", "grams or ounces (defaults to the saved setting)")
	cmd.Flags().BoolVar(&noSave, "no-save", false, "Do not add the scan to history")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON")
	return cmd
}

func runAnalysis(ctx context.Context, a *app.App, photo string, noSave bool) (*models.Scan, error) {
	if noSave {
		return a.Analyzer.Analyze(ctx, photo)
	}
	return a.Analyzer.AnalyzeAndRecord(ctx, photo)
}

// readPhoto loads an image file as a data URI.
func readPhoto(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read image: %w", err)
	}

	mimeType := http.DetectContentType(data)
	if !strings.HasPrefix(mimeType, "image/") {
		return "", fmt.Errorf("%s does not look like an image (detected %s)", path, mimeType)
	}
	return vision.EncodeDataURI(mimeType, data), nil
}

// renderFor renders scan in units, or in the saved units when empty.
func renderFor(a *app.App, scan models.Scan, portion float64, units string) (nutrition.View, error) {
	u := a.Settings.Get().Units
	if units != "" {
		var err error
		if u, err = models.ParseUnits(units); err != nil {
			return nutrition.View{}, err
		}
	}
	return nutrition.Render(scan.NutritionalInfo, portion, u)
}
