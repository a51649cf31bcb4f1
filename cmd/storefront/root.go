package main

import (
	"io"

	"github.com/fjod/go_cart/storefront/internal/config"
	"github.com/spf13/cobra"
)

// Commands annotated this way run without a client or session.
const annotationStandalone = "standalone"

type rootOptions struct {
	apiURL   string
	logLevel string

	cfg *config.Config
	app *app
}

func newRootCmd(out io.Writer) *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:          "storefront",
		Short:        "Shop from the terminal against a storefront API",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Load()
			if opts.apiURL != "" {
				cfg.APIBaseURL = opts.apiURL
			}
			if opts.logLevel != "" {
				cfg.LogLevel = opts.logLevel
			}
			opts.cfg = cfg

			if cmd.Annotations[annotationStandalone] == "true" {
				return nil
			}
			a, err := newApp(cmd.Context(), cfg, out)
			if err != nil {
				return err
			}
			opts.app = a
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			if opts.app != nil {
				opts.app.close(cmd.Context())
			}
		},
	}
	cmd.SetOut(out)

	cmd.PersistentFlags().StringVar(&opts.apiURL, "api", "", "API base URL (overrides STOREFRONT_API_URL)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error")

	cmd.AddCommand(
		newLoginCmd(opts),
		newRegisterCmd(opts),
		newLogoutCmd(opts),
		newWhoamiCmd(opts),
		newProductsCmd(opts),
		newProductCmd(opts),
		newAddCmd(opts),
		newCartCmd(opts),
		newCheckoutCmd(opts),
		newOrdersCmd(opts),
		newOrderCmd(opts),
		newPayCmd(opts),
		newMockAPICmd(opts),
	)
	return cmd
}
