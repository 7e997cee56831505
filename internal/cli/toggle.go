package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/atomicstack/term-list-popup/internal/backend"
	"github.com/atomicstack/term-list-popup/internal/searchprovider"
	"github.com/spf13/cobra"
)

const toggleTimeout = 2 * time.Second

var requestToggle = func(ctx context.Context) error {
	conn, err := searchprovider.SessionBus()
	if err != nil {
		return err
	}
	defer conn.Close()
	return backend.RequestToggle(ctx, conn)
}

func newToggleCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "toggle",
		Short: "Open or close the running panel's menu",
		Long: `Ask the running term-list panel to toggle its menu over the session bus.
Bind this to a desktop keyboard shortcut. Repeats arriving faster than the
key auto-repeat rate are ignored by the panel.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), toggleTimeout)
			defer cancel()
			err := requestToggle(ctx)
			if errors.Is(err, backend.ErrNotRunning) {
				return fmt.Errorf("%w (start it with \"term-list\")", err)
			}
			return err
		},
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "term-list %s\n", Version)
			return nil
		},
	}
}
