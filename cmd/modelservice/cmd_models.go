package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/germanamz/modelservice/pkg/registry"
)

func newModelsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List the models a provider accepts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := opts.setup(cmd)
			if err != nil {
				return err
			}

			svc, err := a.service(opts.provider)
			if err != nil {
				return err
			}

			d := svc.Descriptor()

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "MODEL\tMAX TOKENS\tPRICE")
			for _, m := range d.SupportedModels {
				limit := "-"
				if n, ok := d.MaxTokens(m); ok {
					limit = fmt.Sprint(n)
				}

				price := "-"
				if c, ok := d.CostsByModel[m]; ok && c.Unit > 0 {
					price = fmt.Sprintf("$%g / %d tokens", c.Price, c.Unit)
				}

				fmt.Fprintf(w, "%s\t%s\t%s\n", m, limit, price)
			}

			return w.Flush()
		},
	}
}

func newProvidersCmd(_ *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "providers",
		Short: "List the provider keys this build can serve",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, p := range registry.New().Providers() {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
			return nil
		},
	}
}
