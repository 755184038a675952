package commands

import (
	"fmt"
	"text/tabwriter"

	"expert-directory-service/internal/app"
	"expert-directory-service/internal/domain"
	"expert-directory-service/internal/services"

	"github.com/spf13/cobra"
)

func searchCmd() *cobra.Command {
	var (
		req  services.SearchRequest
		sort string
	)

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Run an expert search and print the ranked result",
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := domain.ParseSortKey(sort)
			if err != nil {
				return err
			}
			req.Sort = key

			w, err := app.NewWire(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer w.Close()

			res, err := w.Search.Search(cmd.Context(), req)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "mode=%s results=%d skipped=%d", res.Mode, len(res.Hits), res.Skipped)
			if res.Center != nil {
				fmt.Fprintf(out, " center=%.4f,%.4f radius=%gkm", res.Center.Lat, res.Center.Lon, res.RadiusKm)
			}
			fmt.Fprintln(out)

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tTITLE\tPOSTAL\tCITY\tDISTANCE")
			for _, h := range res.Hits {
				dist := "-"
				if h.DistanceKm != nil {
					dist = fmt.Sprintf("%.2f km", *h.DistanceKm)
				}
				e := h.Expert
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", e.ID, e.Title, e.PostalCode, e.City, dist)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&req.Location, "location", "", "postal code or city")
	cmd.Flags().Float64Var(&req.RadiusKm, "radius", 0, "radius in km (0 matches location as text)")
	cmd.Flags().StringVar(&req.Text, "q", "", "title text")
	cmd.Flags().StringVar(&req.Category, "category", "", "category filter")
	cmd.Flags().StringVar(&sort, "sort", "", "relevance, title, newest or distance")
	cmd.Flags().IntVar(&req.Limit, "limit", 0, "maximum results")
	return cmd
}
