package commands

import (
	"fmt"

	"expert-directory-service/internal/app"

	"github.com/spf13/cobra"
)

func resolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <location>",
		Short: "Resolve a postal code or city name to coordinates",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := app.NewWire(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer w.Close()

			c, err := w.Search.ResolveLocation(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\tlat=%.6f lon=%.6f\n", args[0], c.Lat, c.Lon)
			return nil
		},
	}
}
