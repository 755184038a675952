package commands

import (
	"log"

	"expert-directory-service/internal/adapters/repositories"
	"expert-directory-service/internal/platform/db"

	"github.com/spf13/cobra"
)

func seedCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Upsert experts from a JSON seed file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if file == "" {
				file = cfg.Database.SeedPath
			}

			dialect, err := db.DialectFor(cfg.Database.Driver)
			if err != nil {
				return err
			}

			conn, err := db.Open(cfg.Database.Driver, cfg.Database.DSN)
			if err != nil {
				return err
			}
			defer conn.Close()

			if err := repositories.InitSchema(cmd.Context(), conn); err != nil {
				return err
			}

			log.Printf("Seeding database file=%s", file)
			n, err := repositories.SeedFromJSON(cmd.Context(), conn, dialect, file)
			if err != nil {
				return err
			}
			log.Printf("Seeding complete. count=%d", n)
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "seed file (default from config)")
	return cmd
}
