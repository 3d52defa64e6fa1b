package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jsamuelsen/quote-service/internal/domain"
)

const listLongDesc string = `List quotes as tab-separated id, type and author columns.

Examples:
  quotectl list
  quotectl list --type practical
  quotectl list --dataset ./quotes.json`

type listCommander struct {
	opts      *options
	quoteType string
}

func newListCmd(opts *options) *cobra.Command {
	cmder := &listCommander{opts: opts}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List quotes in the dataset",
		Long:  listLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmder.run(cmd)
		},
	}

	cmd.Flags().StringVarP(&cmder.quoteType, "type", "t", "", "Only list quotes of this type (inspiration, practical)")

	return cmd
}

func (c *listCommander) run(cmd *cobra.Command) error {
	quoteType, err := domain.ParseQuoteType(c.quoteType)
	if err != nil {
		return err
	}

	cfg, err := c.opts.loadConfig()
	if err != nil {
		return err
	}

	store, err := c.opts.openStore(cfg)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTYPE\tAUTHOR")

	for _, q := range store.All() {
		if quoteType != "" && q.Type != quoteType {
			continue
		}

		author := q.Author
		if !q.HasAuthor() {
			author = "-"
		}

		fmt.Fprintf(w, "%d\t%s\t%s\n", q.ID, q.Type, author)
	}

	return w.Flush()
}
