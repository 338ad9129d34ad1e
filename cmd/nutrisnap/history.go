package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"nutrisnap/internal/nutrition"
)

func (c *cli) historyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List, inspect or clear recorded scans",
	}
	cmd.AddCommand(c.historyListCmd(), c.historyShowCmd(), c.historyClearCmd())
	return cmd
}

func (c *cli) historyListCmd() *cobra.Command {
	var (
		limit  int
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List scans, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			scans := a.History.Recent(limit)
			if asJSON {
				return printJSON(cmd.OutOrStdout(), scans)
			}
			return printScanList(cmd.OutOrStdout(), scans)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Show at most this many scans (0 for all)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON")
	return cmd
}

func (c *cli) historyShowCmd() *cobra.Command {
	var (
		portion string
		units   string
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "show [scan-id]",
		Short: "Show one scan scaled to a portion",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			multiplier, err := nutrition.ParsePortion(portion)
			if err != nil {
				return err
			}

			a, err := c.openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			scan, err := a.History.Get(args[0])
			if err != nil {
				return err
			}
			view, err := renderFor(a, scan, multiplier, units)
			if err != nil {
				return err
			}

			if asJSON {
				return printJSON(cmd.OutOrStdout(), map[string]interface{}{"scan": scan, "view": view})
			}
			printScan(cmd.OutOrStdout(), scan, view)
			return nil
		},
	}

	cmd.Flags().StringVar(&portion, "portion", "1", "Portion multiplier: 0.5, 1, 1.5 or 2")
	cmd.Flags().StringVar(&units, "units", "", "grams or ounces (defaults to the saved setting)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON")
	return cmd
}

func (c *cli) historyClearCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Permanently delete every scan",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("this deletes your entire scan history; re-run with --yes to confirm")
			}

			a, err := c.openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			n := a.History.Len()
			if err := a.History.Clear(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d scans.\n", n)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Confirm clearing history")
	return cmd
}
