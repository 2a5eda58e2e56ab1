package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-leadform/internal/storage"
	"github.com/goliatone/go-leadform/internal/storage/sqlite"
	"github.com/goliatone/go-leadform/pkg/leadform"
	"github.com/goliatone/go-leadform/pkg/render"
	"github.com/goliatone/go-leadform/pkg/renderers/tui"
	"github.com/goliatone/go-leadform/pkg/transport"
)

func newEstimateCmd(a *app) *cobra.Command {
	var (
		area     string
		solar    string
		endpoint string
	)

	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Run the lead form in the terminal",
		Long: `Run the lead form as terminal prompts.

With --area and --solar the estimate is printed without prompting. Otherwise
the full flow runs and the lead is posted to --endpoint, or stored in the
SQLite database when no endpoint is given.`,
		Example: `  # Interactive flow, leads stored locally
  leadform estimate

  # One-off estimate
  leadform estimate --area 120 --solar 15000 --locale en-US`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			variant, err := a.cfg.LeadformConfig()
			if err != nil {
				return err
			}
			msgs := leadform.DefaultCatalog().Messages(a.cfg.Locale)

			if cmd.Flags().Changed("area") || cmd.Flags().Changed("solar") {
				return printEstimate(cmd.OutOrStdout(), variant, msgs, area, solar)
			}

			adapter, closeFn, err := a.deliveryAdapter(cmd.Context(), endpoint)
			if err != nil {
				return err
			}
			defer closeFn()

			variant.RevealDelay = 0
			controller := leadform.NewController(variant,
				leadform.WithAdapter(adapter),
				leadform.WithMessages(msgs),
				leadform.WithLogger(a.logger),
			)
			runner := tui.New(
				tui.WithMessages(msgs),
				tui.WithDelivery(adapter),
				tui.WithLogger(a.logger.Named("tui")),
			)
			subs, err := runner.Run(cmd.Context(), controller)
			a.logger.Info("terminal flow finished", zap.Int("submissions", len(subs)))
			return err
		},
	}

	f := cmd.Flags()
	f.StringVar(&area, "area", "", "floor area in m², skips the prompts")
	f.StringVar(&solar, "solar", "", "solar installation value in EUR, skips the prompts")
	f.StringVar(&endpoint, "endpoint", "", "form-collection endpoint for the lead")
	return cmd
}

// printEstimate validates the two inputs the way step one does and prints
// the estimate in the text layout.
func printEstimate(out io.Writer, variant leadform.Config, msgs *leadform.Messages, area, solar string) error {
	variant.RevealDelay = 0
	controller := leadform.NewController(variant, leadform.WithMessages(msgs))
	if err := controller.SetField(leadform.FieldSquareFootage, area); err != nil {
		return err
	}
	if err := controller.SetField(leadform.FieldSolarValue, solar); err != nil {
		return err
	}
	submitErr := controller.SubmitDetails()

	body, err := tui.TextRenderer{}.Render(context.Background(), controller.View(), render.RenderOptions{Messages: msgs})
	if err != nil {
		return err
	}
	if _, err := out.Write(body); err != nil {
		return err
	}
	return submitErr
}

// deliveryAdapter posts to endpoint when set and otherwise stores leads in
// the configured database.
func (a *app) deliveryAdapter(ctx context.Context, endpoint string) (leadform.Adapter, func(), error) {
	if endpoint = strings.TrimSpace(endpoint); endpoint == "" {
		endpoint = a.cfg.Endpoint
	}
	if endpoint != "" {
		adapter := transport.NewHTTPAdapter(endpoint,
			transport.WithTimeout(a.cfg.SubmitTimeout),
			transport.WithLogger(a.logger.Named("transport")),
		)
		return adapter, func() {}, nil
	}

	store, err := sqlite.Open(ctx, a.cfg.DBPath)
	if err != nil {
		return nil, nil, err
	}
	return storeAdapter(store), func() { _ = store.Close() }, nil
}

// storeAdapter saves submissions straight into store.
func storeAdapter(store storage.Store) leadform.Adapter {
	return leadform.AdapterFunc(func(ctx context.Context, sub leadform.Submission) error {
		area, _ := leadform.ParseNumber(sub.Data.SquareFootage)
		solar, _ := leadform.ParseNumber(sub.Data.SolarValue)
		_, err := store.Save(ctx, storage.Lead{
			FormName:      sub.FormName,
			SquareFootage: area,
			SolarValue:    solar,
			Email:         sub.Data.Email,
			EstimateLow:   sub.Estimate.Low,
			EstimateHigh:  sub.Estimate.High,
		})
		if err != nil {
			return fmt.Errorf("store lead: %w", err)
		}
		return nil
	})
}
