package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func (c *cli) tipsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tips",
		Short: "Ask the model for tips on taking photos that scan well",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := c.openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.ConnectProvider(ctx); err != nil {
				c.logger.Debug("no provider for tips", zap.Error(err))
			}

			out := cmd.OutOrStdout()
			resp := a.Tips(ctx)
			if resp.Warning != "" {
				printWarning(out, resp.Warning)
				return nil
			}

			fmt.Fprintln(out, titleStyle.Render("Quick Tips"))
			for _, tip := range resp.Tips {
				fmt.Fprintf(out, "  - %s\n", tip)
			}
			return nil
		},
	}
}
