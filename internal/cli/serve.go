package cli

import (
	"context"
	"fmt"

	"github.com/atomicstack/term-list-popup/internal/logging"
	"github.com/atomicstack/term-list-popup/internal/searchprovider"
	"github.com/atomicstack/term-list-popup/internal/tmux"
	"github.com/godbus/dbus/v5"
	"github.com/spf13/cobra"
)

const (
	defaultTmuxBusName                 = "io.github.atomicstack.TermList.Tmux"
	defaultTmuxPath    dbus.ObjectPath = "/io/github/atomicstack/TermList/Tmux"
)

// serveProvider exports provider and blocks until ctx is done.
var serveProvider = func(ctx context.Context, name string, path dbus.ObjectPath, provider searchprovider.Provider, opts *rootOptions) error {
	conn, err := searchprovider.SessionBus()
	if err != nil {
		return err
	}
	defer conn.Close()
	server, err := searchprovider.Serve(conn, name, path, provider, opts.cfg.CallTimeoutDuration)
	if err != nil {
		return err
	}
	defer func() {
		if err := server.Close(); err != nil {
			logging.Error(err)
		}
	}()
	<-ctx.Done()
	return nil
}

func newServeTmuxCommand(opts *rootOptions) *cobra.Command {
	var (
		name   string
		path   string
		format string
		filter string
	)
	cmd := &cobra.Command{
		Use:   "serve-tmux",
		Short: "Export tmux windows as a GNOME Shell search provider",
		Long: `Export the windows of a tmux server on the session bus through
org.gnome.Shell.SearchProvider2 until interrupted. GNOME Shell (with a
matching search-provider .ini file) and "term-list --bus-name ... --object-path ..."
can then search and switch tmux windows like terminal tabs.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !dbus.ObjectPath(path).IsValid() {
				return fmt.Errorf("invalid object path %q", path)
			}
			socket, err := tmux.ResolveSocketPath(opts.cfg.TmuxSocket)
			if err != nil {
				return fmt.Errorf("resolve socket path: %w", err)
			}
			provider := tmux.NewProvider(socket, tmux.WithWindowFormat(format), tmux.WithWindowFilter(filter))
			defer provider.Close()

			fmt.Fprintf(cmd.OutOrStdout(), "serving tmux windows from %s as %s at %s\n", socket, name, path)
			return serveProvider(cmd.Context(), name, dbus.ObjectPath(path), provider, opts)
		},
	}
	cmd.Flags().StringVar(&name, "name", defaultTmuxBusName, "well-known bus name to claim")
	cmd.Flags().StringVar(&path, "path", string(defaultTmuxPath), "object path to export the provider on")
	cmd.Flags().StringVar(&format, "window-format", "", "tmux format for window titles (default #{window_name})")
	cmd.Flags().StringVar(&filter, "window-filter", "", "tmux filter expression restricting listed windows")
	return cmd
}
