package cli

import (
	"fmt"

	"github.com/fernando061/software-architecture-styles/internal/product/migrations"
	"github.com/fernando061/software-architecture-styles/pkg/bootstrap"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	Long:  "Applies the embedded products schema migrations to the database configured in database.url",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if err := cfg.Database.Validate(); err != nil {
			return fmt.Errorf("invalid database configuration: %w", err)
		}
		if err := bootstrap.Migrate(migrations.FS, ".", cfg.Database.URL); err != nil {
			return err
		}
		cmd.Println("Migrations applied")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
