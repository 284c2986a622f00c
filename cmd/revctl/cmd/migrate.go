package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rafabene/revistete-backend/internal/infrastructure/persistence/postgres"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Cria ou atualiza o schema do banco",
	Args:  cobra.NoArgs,
	RunE:  runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	db, _, err := database(cmd)
	if err != nil {
		return err
	}
	defer closeDatabase(db)

	if err := postgres.Migrate(db); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Schema atualizado.")
	return nil
}
