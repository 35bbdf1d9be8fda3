package cli

import (
	"fmt"
	"time"

	"github.com/fernando061/software-architecture-styles/internal/product/demo"
	"github.com/fernando061/software-architecture-styles/internal/product/service"
	"github.com/fernando061/software-architecture-styles/internal/product/store"
	grpcImpl "github.com/fernando061/software-architecture-styles/internal/product/transport/grpc"
	"github.com/fernando061/software-architecture-styles/pkg/messaging"
	"github.com/spf13/cobra"
)

var remoteAddr string

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Walk through the catalog operations",
	Long: "Runs list, get, create, update, delete and the rejected operations against a seeded in-memory catalog, " +
		"or against a running service when --remote is given.",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if remoteAddr == "" {
			now := time.Now()
			repo := store.NewInMemoryStore(store.WithSeed(store.DemoCatalog(now)...))
			return demo.Run(cmd.Context(), cmd.OutOrStdout(), service.NewService(repo, messaging.NopPublisher{}))
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		cfg.Client.Grpc.Addr = remoteAddr
		if err := cfg.Client.Validate(); err != nil {
			return fmt.Errorf("invalid client configuration: %w", err)
		}
		conn, err := grpcImpl.Dial(cfg.Client.Grpc, cfg.Client.Resilience)
		if err != nil {
			return err
		}
		defer func() { _ = conn.Close() }()
		return demo.Run(cmd.Context(), cmd.OutOrStdout(), grpcImpl.NewClient(conn))
	},
}

func init() {
	demoCmd.Flags().StringVar(&remoteAddr, "remote", "", "gRPC address of a running product service (e.g. localhost:9090)")
	rootCmd.AddCommand(demoCmd)
}
