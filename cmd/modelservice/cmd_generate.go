package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/germanamz/modelservice/pkg/modeladapter"
)

func newGenerateCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate <prompt...>",
		Short: "Send a prompt and print the full reply",
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
			resp, err := opts.generate(cmd.Context(), svc, strings.Join(args, " "), cfg)
			if err != nil {
				return fmt.Errorf("generate: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), resp.Content)

			attrs := []any{
				"model", cfg.ModelName,
				"prompt_tokens", resp.Usage.PromptTokens,
				"completion_tokens", resp.Usage.CompletionTokens,
				"total_tokens", resp.Usage.TotalTokens,
			}
			if cost, ok := svc.Descriptor().Cost(cfg.ModelName, resp.Usage); ok {
				attrs = append(attrs, "estimated_cost_usd", cost)
			}
			if r, ok := svc.(modeladapter.UsageReporter); ok {
				attrs = append(attrs, "session_total_tokens", r.Usage().Total.TotalTokens)
			}
			a.logger.Info("usage", attrs...)

			if r, ok := svc.(modeladapter.RateLimitInfoReporter); ok {
				if info := r.LastRateLimitInfo(); info != nil {
					a.logger.Info("rate limit",
						"remaining_requests", info.RemainingRequests,
						"remaining_tokens", info.RemainingTokens,
					)
				}
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&opts.system, "system", "", "system prompt to send before the user prompt")

	return cmd
}
