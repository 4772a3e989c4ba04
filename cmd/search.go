package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/rubiojr/shakesearch/pkg/client"
	"github.com/rubiojr/shakesearch/pkg/controller"
	"github.com/rubiojr/shakesearch/pkg/view"
)

// SearchCommand creates the search command
func SearchCommand() *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Search a running shakesearch server",
		ArgsUsage: "QUERY",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "endpoint",
				Usage: "Server base URL (overrides config)",
			},
			&cli.IntFlag{
				Name:  "pages",
				Usage: "Number of pages to load",
				Value: 1,
			},
			&cli.IntFlag{
				Name:  "page-size",
				Usage: "Results per page (overrides config)",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			query := strings.Join(c.Args().Slice(), " ")
			if query == "" {
				return fmt.Errorf("a search query is required")
			}

			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			if v := c.String("endpoint"); v != "" {
				cfg.Client.Endpoint = v
			}
			if v := c.Int("page-size"); v > 0 {
				cfg.Search.PageSize = int(v)
			}

			cl := client.New(cfg.Client.Endpoint, cfg.Client.Timeout.Duration)
			return searchPages(ctx, os.Stdout, cl, query, int(c.Int("pages")), controllerOptions(cfg)...)
		},
	}
}

// searchPages runs a fresh search followed by pages-1 load-more requests and
// prints the accumulated rows. It stops early once a page comes back empty.
func searchPages(ctx context.Context, w io.Writer, fetcher controller.Fetcher, query string, pages int, opts ...controller.Option) error {
	list := view.NewList()
	ctrl := controller.New(fetcher, list, opts...)

	if err := ctrl.Search(ctx, query, false); err != nil {
		return fmt.Errorf("searching %q: %w", query, err)
	}
	for i := 1; i < pages; i++ {
		before := ctrl.CurrentPage()
		if err := ctrl.Search(ctx, query, true); err != nil {
			return fmt.Errorf("loading page %d of %q: %w", before, query, err)
		}
		if ctrl.CurrentPage() == before {
			break
		}
	}

	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("%d results for %q", list.Len(), query)))
	for i, row := range list.Rows() {
		fmt.Fprintf(w, "%s %s\n\n", indexStyle.Render(fmt.Sprintf("%3d.", i+1)), strings.TrimSpace(row))
	}
	fmt.Fprintln(w, accentStyle.Render(fmt.Sprintf("next page: %d", ctrl.CurrentPage())))
	return nil
}
