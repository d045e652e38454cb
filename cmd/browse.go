package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/testcontainers/talks-explorer/internal/browse"
	"github.com/testcontainers/talks-explorer/internal/render"
	"github.com/testcontainers/talks-explorer/internal/talks"
)

var (
	browseCategory string
	browseTitle    string
	browseSpeaker  string
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Print the talks, optionally filtered",
	Long: `Prints the talks of the talks API. At most one filter applies:
--category selects a category, --title searches the titles and
--speaker lists the talks of a speaker.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if countSet(browseCategory, browseTitle, browseSpeaker) > 1 {
			return errors.New("--category, --title and --speaker are mutually exclusive")
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		logger := newLogger(cmd.ErrOrStderr(), cfg)
		ctx := context.Background()

		client, release, err := newClient(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer release()

		content, err := browseContent(ctx, client, logger)
		if err != nil {
			return err
		}

		if err := render.WriteText(cmd.OutOrStdout(), content); err != nil {
			return err
		}
		if content.Kind == render.ContentError {
			return fmt.Errorf("loading talks: %s", content.Message)
		}
		return nil
	},
}

func browseContent(ctx context.Context, client *talks.Client, logger *slog.Logger) (render.Content, error) {
	if browseSpeaker != "" {
		ts, err := client.Talks(ctx, talks.BySpeaker(browseSpeaker))
		if err != nil {
			return render.Failed(err), nil
		}
		return render.Loaded(ts), nil
	}

	action, value := browse.ActionLoad, ""
	switch {
	case browseCategory != "":
		action, value = browse.ActionSelectCategory, browseCategory
	case browseTitle != "":
		action, value = browse.ActionSearch, browseTitle
	}

	page := browse.NewPage(client, browse.WithLogger(logger))
	if err := page.Apply(ctx, action, value); err != nil {
		return render.Content{}, err
	}
	return page.State().Content, nil
}

func countSet(values ...string) int {
	n := 0
	for _, v := range values {
		if v != "" {
			n++
		}
	}
	return n
}

func init() {
	browseCmd.Flags().StringVar(&browseCategory, "category", "", "show the talks of this category")
	browseCmd.Flags().StringVar(&browseTitle, "title", "", "show the talks whose title contains this term")
	browseCmd.Flags().StringVar(&browseSpeaker, "speaker", "", "show the talks of this speaker")
	rootCmd.AddCommand(browseCmd)
}
