package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List the talk categories",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		ctx := context.Background()
		client, release, err := newClient(ctx, cfg, newLogger(cmd.ErrOrStderr(), cfg))
		if err != nil {
			return err
		}
		defer release()

		categories, err := client.Categories(ctx)
		if err != nil {
			return fmt.Errorf("loading categories: %w", err)
		}

		for _, c := range categories {
			fmt.Fprintln(cmd.OutOrStdout(), c)
		}
		return nil
	},
}

var speakersCmd = &cobra.Command{
	Use:   "speakers",
	Short: "List the speakers",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		ctx := context.Background()
		client, release, err := newClient(ctx, cfg, newLogger(cmd.ErrOrStderr(), cfg))
		if err != nil {
			return err
		}
		defer release()

		speakers, err := client.Speakers(ctx)
		if err != nil {
			return fmt.Errorf("loading speakers: %w", err)
		}

		for _, s := range speakers {
			if name := s.FullName(); name != "" {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(categoriesCmd)
	rootCmd.AddCommand(speakersCmd)
}
