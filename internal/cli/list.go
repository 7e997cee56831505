package cli

import (
	"fmt"

	"github.com/atomicstack/term-list-popup/internal/app"
	"github.com/atomicstack/term-list-popup/internal/format/table"
	"github.com/atomicstack/term-list-popup/internal/glob"
	"github.com/atomicstack/term-list-popup/internal/menu"
	"github.com/atomicstack/term-list-popup/internal/terminal"
	"github.com/spf13/cobra"
)

var openSession = app.Open

func newListCommand(opts *rootOptions) *cobra.Command {
	var (
		match    string
		idsOnly  bool
		noHeader bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the open terminals",
		Long: `Print every open terminal as an ID and TITLE table.

--match keeps the titles matching a filter pattern, using the same
case-insensitive '*' wildcards as the panel's filter field.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			session, err := openSession(opts.cfg)
			if err != nil {
				return err
			}
			defer session.Close()

			ctx := cmd.Context()
			client := terminal.New(session.Provider)
			ids, err := client.ListAll(ctx)
			if err != nil {
				return fmt.Errorf("list terminals: %w", err)
			}
			var metas []terminal.Meta
			if len(ids) > 0 {
				metas, err = client.FetchMeta(ctx, ids)
				if err != nil {
					return fmt.Errorf("describe terminals: %w", err)
				}
			}

			matcher := glob.Compile(match)
			out := cmd.OutOrStdout()
			rows := [][]string{}
			if !noHeader && !idsOnly {
				rows = append(rows, []string{"ID", "TITLE"})
			}
			for _, item := range menu.ItemsFromMetas(metas) {
				if !matcher.Match(item.Label) {
					continue
				}
				if idsOnly {
					fmt.Fprintln(out, item.ID)
					continue
				}
				rows = append(rows, []string{item.ID, item.Label})
			}
			if idsOnly {
				return nil
			}
			for _, line := range table.Format(rows, nil) {
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&match, "match", "m", "", "only list titles matching this wildcard pattern")
	cmd.Flags().BoolVar(&idsOnly, "ids", false, "print only terminal ids")
	cmd.Flags().BoolVar(&noHeader, "no-header", false, "omit the header row")
	return cmd
}

func newActivateCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "activate ID",
		Short: "Switch to the terminal with the given id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := openSession(opts.cfg)
			if err != nil {
				return err
			}
			defer session.Close()

			client := terminal.New(session.Provider)
			if err := client.Activate(cmd.Context(), args[0], terminal.CurrentTime); err != nil {
				return fmt.Errorf("activate %s: %w", args[0], err)
			}
			return nil
		},
	}
}
