package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

func newValidateKeyCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate-key",
		Short: "Check that the configured API key is accepted",
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

			if !svc.ValidateAPIKey(cmd.Context()) {
				return errors.New("api key rejected")
			}

			fmt.Fprintf(cmd.OutOrStdout(), "API key for %s is valid.\n", svc.Descriptor().DisplayName)

			return nil
		},
	}
}
