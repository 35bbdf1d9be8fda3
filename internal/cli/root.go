// Package cli implements the product-service command line.
package cli

import (
	"fmt"

	"github.com/fernando061/software-architecture-styles/internal/product/config"
	"github.com/fernando061/software-architecture-styles/pkg/config/configloader"
	"github.com/spf13/cobra"
)

const serviceName = "product"

var configFile string

var rootCmd = &cobra.Command{
	Use:          "product-service",
	Short:        "Product catalog service",
	Long:         "Manages a catalog of products over HTTP and gRPC, or walks through the catalog operations from the console.",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "config.yaml", "path to the yaml configuration file")
}

// Execute runs the CLI
func Execute() error {
	return rootCmd.Execute()
}

func loadConfig() (*config.Config, error) {
	cfg, err := configloader.LoadFrom[*config.Config](serviceName, configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}
