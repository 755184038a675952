package commands

import (
	"log"

	"expert-directory-service/internal/adapters/repositories"
	"expert-directory-service/internal/platform/db"

	"github.com/spf13/cobra"
)

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the experts and geocode cache tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, err := db.Open(cfg.Database.Driver, cfg.Database.DSN)
			if err != nil {
				return err
			}
			defer conn.Close()

			log.Println("Initializing database schema...")
			if err := repositories.InitSchema(cmd.Context(), conn); err != nil {
				return err
			}
			log.Println("Schema ready.")
			return nil
		},
	}
}
