// ABOUTME: Web server subcommand
// ABOUTME: Starts the read-only JSON timeline server
package cli

import (
	"flag"

	"github.com/harperreed/revline/web"
)

// ServeCommand starts the timeline web server.
func ServeCommand(deps *Deps, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	port := fs.Int("port", 8080, "Port to listen on")
	_ = fs.Parse(args)

	server := web.NewServer(deps.Client, deps.Store, deps.Config)
	return server.Start(*port)
}
