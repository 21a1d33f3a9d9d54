// Command blogadvance builds a blog site: it classifies pages, writes taxonomy
// data modules, injects taxonomy index pages and produces an Atom feed.
package main

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	ferrors "github.com/mAKEkr/blog-advance/internal/foundation/errors"
	"github.com/mAKEkr/blog-advance/internal/version"
)

func main() {
	cli := &CLI{}
	global := &Global{Logger: slog.Default()}
	parser := kong.Parse(cli,
		kong.Name("blogadvance"),
		kong.Description("Blog classification, taxonomies and feeds for static sites."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
		kong.Bind(global),
	)

	if err := parser.Run(global, cli); err != nil {
		adapter := ferrors.NewCLIErrorAdapter(cli.Verbose, global.Logger)
		adapter.Log(err)
		os.Exit(adapter.ExitCodeFor(err))
	}
}
