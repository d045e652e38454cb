package render

import (
	"fmt"
	"io"
	"text/tabwriter"
)

// WriteText writes the content as plain text, one block per talk.
func WriteText(w io.Writer, c Content) error {
	switch c.Kind {
	case ContentLoading:
		_, err := fmt.Fprintln(w, "Loading talks...")
		return err
	case ContentEmpty:
		_, err := fmt.Fprintln(w, "No talks available for the current selection.")
		return err
	case ContentError:
		_, err := fmt.Fprintf(w, "Error loading talks: %s. Make sure the backend API is running and the URL is correct.\n", c.Message)
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 1, ' ', 0)
	for i, card := range c.Cards() {
		if i > 0 {
			fmt.Fprintln(tw)
		}
		fmt.Fprintln(tw, card.Title)
		fmt.Fprintf(tw, "  ID:\t%s\n", card.ID)
		fmt.Fprintf(tw, "  Speakers:\t%s\n", card.Speakers)
		fmt.Fprintf(tw, "  Categories:\t%s\n", card.Categories)
		fmt.Fprintf(tw, "  Duration:\t%s\n", card.Duration)
		fmt.Fprintf(tw, "  Summary:\t%s\n", card.Summary)
	}
	return tw.Flush()
}
