package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newStreamCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stream <prompt...>",
		Short: "Send a prompt and print the reply as it arrives",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.setup(cmd)
			if err != nil {
				return err
			}

			svc, err := a.service(opts.provider)
			if err != nil {
				return err
			}

			cfg := opts.requestConfig(cmd, a.cfg.ModelDefaults())
			s, err := opts.stream(cmd.Context(), svc, strings.Join(args, " "), cfg)
			if err != nil {
				return fmt.Errorf("stream: %w", err)
			}

			out := cmd.OutOrStdout()
			for text, err := range s.Iter() {
				if err != nil {
					fmt.Fprintln(out)
					return fmt.Errorf("stream: %w", err)
				}
				fmt.Fprint(out, text)
			}
			fmt.Fprintln(out)

			return nil
		},
	}

	cmd.Flags().StringVar(&opts.system, "system", "", "system prompt to send before the user prompt")

	return cmd
}
