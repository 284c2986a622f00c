package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/rafabene/revistete-backend/internal/domain/ports"
	"github.com/rafabene/revistete-backend/internal/infrastructure/config"
	"github.com/rafabene/revistete-backend/internal/infrastructure/logging"
	"github.com/rafabene/revistete-backend/internal/infrastructure/persistence/postgres"
)

const defaultQueryTimeout = 5 * time.Second

var (
	jsonOut   bool
	sqliteDSN string
)

var rootCmd = &cobra.Command{
	Use:   "revctl",
	Short: "Administração do backend ReVistete",
	Long: `revctl executa tarefas administrativas sobre o banco do ReVistete.

Por padrão a conexão usa as mesmas variáveis de ambiente (ou .env) da API.
Use --sqlite para apontar para um banco SQLite local.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "saída em JSON")
	rootCmd.PersistentFlags().StringVar(&sqliteDSN, "sqlite", "", "DSN de um banco SQLite local em vez do PostgreSQL")
}

// Execute executa o comando raiz
func Execute() error {
	return rootCmd.Execute()
}

// database abre a conexão configurada e devolve o timeout das consultas
func database(cmd *cobra.Command) (*gorm.DB, time.Duration, error) {
	if sqliteDSN != "" {
		db, err := postgres.NewSQLiteConnection(sqliteDSN)
		return db, defaultQueryTimeout, err
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to load config: %w", err)
	}
	logger := logging.NewSlogLoggerWithWriter(cmd.ErrOrStderr(), cfg.Logging.Level)
	db, err := postgres.NewDatabaseConnection(&cfg.Database, cfg.Logging.Level, logger)
	if err != nil {
		return nil, 0, err
	}
	return db, cfg.Database.QueryTimeout, nil
}

func closeDatabase(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func cliLogger(cmd *cobra.Command) ports.Logger {
	return logging.NewSlogLoggerWithWriter(cmd.ErrOrStderr(), "warn")
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}
