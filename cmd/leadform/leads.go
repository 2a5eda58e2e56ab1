package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-leadform/internal/storage"
	"github.com/goliatone/go-leadform/internal/storage/sqlite"
	"github.com/goliatone/go-leadform/pkg/render"
)

func newLeadsCmd(a *app) *cobra.Command {
	var (
		form   string
		limit  int
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "leads",
		Short: "List collected leads",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := sqlite.Open(cmd.Context(), a.cfg.DBPath)
			if err != nil {
				return err
			}
			defer store.Close()

			leads, err := store.List(cmd.Context(), storage.ListFilter{FormName: form, Limit: limit})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(leads)
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "CREATED\tEMAIL\tAREA\tSOLAR\tESTIMATE")
			for _, lead := range leads {
				fmt.Fprintf(tw, "%s\t%s\t%g\t%g\t%s\n",
					lead.CreatedAt.Format("2006-01-02 15:04"),
					lead.Email,
					lead.SquareFootage,
					lead.SolarValue,
					render.FormatCurrency(lead.EstimateLow, a.cfg.Locale)+" - "+render.FormatCurrency(lead.EstimateHigh, a.cfg.Locale),
				)
			}
			return tw.Flush()
		},
	}

	f := cmd.Flags()
	f.StringVar(&form, "form", "", "only leads of this form name")
	f.IntVar(&limit, "limit", 50, "maximum number of leads; 0 lists all")
	f.BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}
