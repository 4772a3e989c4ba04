package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/urfave/cli/v3"

	"github.com/rubiojr/shakesearch/pkg/config"
	"github.com/rubiojr/shakesearch/pkg/controller"
	"github.com/rubiojr/shakesearch/pkg/log"
)

var logger = log.ForService("cmd")

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	indexStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	accentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

// loadConfig loads the configuration named by the global --config flag.
func loadConfig(c *cli.Command) (*config.Config, error) {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// controllerOptions maps the client configuration to controller options.
func controllerOptions(cfg *config.Config) []controller.Option {
	opts := []controller.Option{controller.WithPageSize(cfg.Search.PageSize)}
	if cfg.Client.DiscardStale {
		opts = append(opts, controller.WithStaleDiscard())
	}
	return opts
}
