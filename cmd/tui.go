package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"

	"github.com/rubiojr/shakesearch/pkg/client"
	"github.com/rubiojr/shakesearch/pkg/log"
	"github.com/rubiojr/shakesearch/pkg/tui"
)

// TUICommand creates the interactive terminal search command
func TUICommand() *cli.Command {
	return &cli.Command{
		Name:  "tui",
		Usage: "Interactive terminal search against a running server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "endpoint",
				Usage: "Server base URL (overrides config)",
			},
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "Write logs to this file instead of discarding them",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			if v := c.String("endpoint"); v != "" {
				cfg.Client.Endpoint = v
			}

			// Log lines would corrupt the screen.
			var out io.Writer = io.Discard
			if path := c.String("log-file"); path != "" {
				f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
				if err != nil {
					return fmt.Errorf("opening log file: %w", err)
				}
				defer f.Close()
				out = f
			}
			log.SetOutput(out)
			defer log.SetOutput(os.Stderr)

			cl := client.New(cfg.Client.Endpoint, cfg.Client.Timeout.Duration)
			model := tui.New(ctx, cl, controllerOptions(cfg)...)

			p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("running tui: %w", err)
			}
			return nil
		},
	}
}
