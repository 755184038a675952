package commands

import (
	"log"

	"expert-directory-service/internal/config"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	_ "modernc.org/sqlite"
)

var (
	configPath string
	cfg        *config.Config
)

func Execute() error {
	root := &cobra.Command{
		Use:          "dbtool",
		Short:        "Maintain the expert directory database and postal-code table",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := godotenv.Load(); err != nil {
				log.Println("No .env file found (using environment variables)")
			}

			var err error
			cfg, err = config.Load(configPath)
			return err
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", config.Get("CONFIG_PATH", "config/config.yaml"), "YAML config file")

	root.AddCommand(initCmd(), seedCmd(), importPostcodesCmd(), postcodeCmd(), resolveCmd(), searchCmd())
	return root.Execute()
}
