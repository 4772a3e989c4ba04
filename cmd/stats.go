package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/rubiojr/shakesearch/pkg/querylog"
)

// StatsCommand creates the stats command
func StatsCommand() *cli.Command {
	return &cli.Command{
		Name:  "stats",
		Usage: "Show the most frequent queries from the query log",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Number of queries to show",
				Value: 10,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			if cfg.QueryLog.Path == "" {
				return fmt.Errorf("query log is disabled, set [querylog] path in %s", c.String("config"))
			}

			qlog, err := querylog.Open(cfg.QueryLog.Path)
			if err != nil {
				return fmt.Errorf("opening query log: %w", err)
			}
			defer func() {
				if err := qlog.Close(); err != nil {
					logger.Warnf("closing query log: %v", err)
				}
			}()

			return showStats(ctx, os.Stdout, qlog, int(c.Int("limit")))
		},
	}
}

// showStats prints the query log totals and the top queries.
func showStats(ctx context.Context, w io.Writer, qlog *querylog.Log, limit int) error {
	total, err := qlog.Count(ctx)
	if err != nil {
		return fmt.Errorf("counting queries: %w", err)
	}
	top, err := qlog.TopQueries(ctx, limit)
	if err != nil {
		return fmt.Errorf("getting top queries: %w", err)
	}

	fmt.Fprintln(w, titleStyle.Render("Query log"))
	fmt.Fprintf(w, "  Requests served: %s\n", accentStyle.Render(fmt.Sprint(total)))
	if len(top) == 0 {
		fmt.Fprintln(w, "  No searches recorded yet")
		return nil
	}

	fmt.Fprintln(w, "  Top searches:")
	for i, q := range top {
		fmt.Fprintf(w, "  %s %-40s %d\n", indexStyle.Render(fmt.Sprintf("%2d.", i+1)), q.Query, q.Count)
	}
	return nil
}
