package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"nutrisnap/internal/models"
	"nutrisnap/internal/state"
)

func (c *cli) settingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change theme and unit preferences",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the current settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			printSettings(cmd.OutOrStdout(), a.Settings.Get())
			return nil
		},
	}

	var theme, units string
	set := &cobra.Command{
		Use:   "set",
		Short: "Change theme and/or units",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var update models.SettingsUpdate
			if cmd.Flags().Changed("theme") {
				update.Theme = &theme
			}
			if cmd.Flags().Changed("units") {
				update.Units = &units
			}
			if update.Theme == nil && update.Units == nil {
				return fmt.Errorf("nothing to change; pass --theme and/or --units")
			}

			a, err := c.openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			settings, err := a.Settings.Update(cmd.Context(), update)
			if err != nil {
				return err
			}
			printSettings(cmd.OutOrStdout(), settings)
			return nil
		},
	}
	set.Flags().StringVar(&theme, "theme", "", "light, dark or system")
	set.Flags().StringVar(&units, "units", "", "grams or ounces")

	themeCmd := c.settingCmd("theme [light|dark|system]", "Switch the color theme", (*state.Settings).SetTheme)
	unitsCmd := c.settingCmd("units [grams|ounces]", "Switch the units macros are shown in", (*state.Settings).SetUnits)

	cmd.AddCommand(show, set, themeCmd, unitsCmd)
	return cmd
}

// settingCmd builds a one-argument command that changes a single setting.
func (c *cli) settingCmd(use, short string, apply func(*state.Settings, context.Context, string) (models.Settings, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			settings, err := apply(a.Settings, cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printSettings(cmd.OutOrStdout(), settings)
			return nil
		},
	}
}
