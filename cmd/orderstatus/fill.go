package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-orderstatus/pkg/orderstatus"
	"github.com/goliatone/go-orderstatus/pkg/renderers/tui"
)

type fillFlags struct {
	format  string
	output  string
	confirm bool
	policy  string
}

func newFillCmd(a *app) *cobra.Command {
	var flags fillFlags

	cmd := &cobra.Command{
		Use:   "fill",
		Short: "Fill the order status form from the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			format, ok := tui.ParseOutputFormat(flags.format)
			if !ok {
				return fmt.Errorf("unknown output format %q", flags.format)
			}
			policy := a.cfg.SubmitPolicy()
			if flags.policy != "" {
				parsed, err := orderstatus.ParseSubmitPolicy(flags.policy)
				if err != nil {
					return err
				}
				policy = parsed
			}

			renderer, err := tui.New(
				tui.WithOutputFormat(format),
				tui.WithSubmitPolicy(policy),
				tui.WithConfirm(flags.confirm),
				tui.WithTheme(tui.DefaultTheme()),
			)
			if err != nil {
				return err
			}

			values := orderstatus.NewValues(nil)
			component := orderstatus.New(orderstatus.Props{
				Data:          values,
				OnFieldChange: values.Apply,
			}, loaderFactory(a.cfg.Sheet, a.logger, nil)(), orderstatus.WithLogger(a.logger))
			component.Mount(ctx)
			defer component.Unmount()

			out, err := renderer.Fill(ctx, component, values)
			if err != nil {
				return err
			}

			if flags.output == "" {
				_, err = cmd.OutOrStdout().Write(append(out, '\n'))
				return err
			}
			if err := os.WriteFile(flags.output, out, 0o644); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Answers written to %s\n", flags.output)
			return nil
		},
	}

	cmd.Flags().StringVar(&flags.format, "format", "json", "output format: json, form or pretty")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().BoolVar(&flags.confirm, "confirm", true, "ask for confirmation before printing the answers")
	cmd.Flags().StringVar(&flags.policy, "submit-policy", "", "keep or drop values of hidden sections (overrides form.submit_policy)")
	return cmd
}
