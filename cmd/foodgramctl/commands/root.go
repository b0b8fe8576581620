package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pageza/foodgram/backend/config"
)

var dbURL string

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "foodgramctl",
	Short: "Operational tasks for the foodgram backend",
	Long: `foodgramctl applies database migrations and loads the ingredient and
tag catalogues.

The database defaults to the one configured for the API (DATABASE_URL or the
DB_* variables); --db overrides it.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbURL, "db", "", "Database connection URL")
}

func resolveDSN() (string, error) {
	if dbURL != "" {
		return dbURL, nil
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		return "", err
	}
	return cfg.DSN(), nil
}
