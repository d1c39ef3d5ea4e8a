package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/arthurdotwork/relay/internal/infrastructure/config"
	"github.com/spf13/cobra"
)

const defaultAddr = "localhost:56000"

func NewRootCommand(ctx context.Context) *cobra.Command {
	root := &cobra.Command{
		Use:           "relay",
		Short:         "Append-only chat relay",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("config", "", "path to a YAML config file (env RELAY_CONFIG)")

	server := &cobra.Command{
		Use:   "server",
		Short: "Run the relay server",
		RunE: func(c *cobra.Command, _ []string) error {
			return Server(ctx, c)
		},
	}

	client := &cobra.Command{
		Use:   "client",
		Short: "Join the relay from the terminal",
		RunE: func(c *cobra.Command, _ []string) error {
			return Client(ctx, c)
		},
	}
	client.Flags().String("addr", defaultAddr, "relay gRPC address")

	history := &cobra.Command{
		Use:   "history",
		Short: "Print the message log",
		RunE: func(c *cobra.Command, _ []string) error {
			return History(ctx, c)
		},
	}
	history.Flags().String("addr", defaultAddr, "relay gRPC address")
	history.Flags().Uint64("after", 0, "only print messages after this id")

	root.AddCommand(server, client, history)

	return root
}

func loadConfig(c *cobra.Command) (*config.Config, error) {
	path, err := c.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("flags.GetString: %w", err)
	}

	if path == "" {
		path = os.Getenv("RELAY_CONFIG")
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	return cfg, nil
}
