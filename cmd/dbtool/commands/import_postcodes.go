package commands

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"expert-directory-service/internal/adapters/postalcodes"

	"github.com/gofrs/flock"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
)

func importPostcodesCmd() *cobra.Command {
	var (
		file     string
		format   string
		dbURL    string
		lockPath string
	)

	cmd := &cobra.Command{
		Use:   "import-postcodes",
		Short: "Load a CSV or DBF postal-code file into the Postgres postal_codes table",
		RunE: func(cmd *cobra.Command, args []string) error {
			if file == "" {
				return errors.New("--file is required")
			}
			if dbURL == "" {
				dbURL = cfg.PostalCodes.DatabaseURL
			}
			if strings.TrimSpace(dbURL) == "" {
				return errors.New("a Postgres URL is required (--database-url or POSTCODES_DATABASE_URL)")
			}
			if lockPath == "" {
				lockPath = filepath.Join(os.TempDir(), "expert-directory-import.lock")
			}

			// Concurrent imports would interleave batches for the same codes.
			lock := flock.New(lockPath)
			locked, err := lock.TryLockContext(cmd.Context(), 250*time.Millisecond)
			if err != nil {
				return fmt.Errorf("import postcodes: acquire lock %q: %w", lockPath, err)
			}
			if !locked {
				return fmt.Errorf("import postcodes: lock %q is held by another import", lockPath)
			}
			defer lock.Unlock()

			entries, err := postalcodes.LoadFile(file, format)
			if err != nil {
				return err
			}

			pool, err := pgxpool.New(cmd.Context(), dbURL)
			if err != nil {
				return fmt.Errorf("import postcodes: connect: %w", err)
			}
			defer pool.Close()

			repo, err := postalcodes.NewPgxRepository(cmd.Context(), pool)
			if err != nil {
				return err
			}

			n, err := repo.StoreMany(cmd.Context(), entries)
			if err != nil {
				return err
			}
			log.Printf("Imported postal codes file=%s count=%d", file, n)
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "postal-code file (.csv or .dbf)")
	cmd.Flags().StringVar(&format, "format", "", "csv or dbf (default: by extension)")
	cmd.Flags().StringVar(&dbURL, "database-url", "", "Postgres URL (default from config)")
	cmd.Flags().StringVar(&lockPath, "lock", "", "lock file guarding concurrent imports")
	return cmd
}

func postcodeCmd() *cobra.Command {
	var dbURL string

	cmd := &cobra.Command{
		Use:   "postcode <code>",
		Short: "Show a postal code as stored in the Postgres postal_codes table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if dbURL == "" {
				dbURL = cfg.PostalCodes.DatabaseURL
			}
			if strings.TrimSpace(dbURL) == "" {
				return errors.New("a Postgres URL is required (--database-url or POSTCODES_DATABASE_URL)")
			}

			pool, err := pgxpool.New(cmd.Context(), dbURL)
			if err != nil {
				return fmt.Errorf("postcode: connect: %w", err)
			}
			defer pool.Close()

			repo, err := postalcodes.NewPgxRepository(cmd.Context(), pool)
			if err != nil {
				return err
			}

			pc, err := repo.FindPostalCode(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\tlat=%.6f lon=%.6f\n", pc.Code, pc.City, pc.Coordinates.Lat, pc.Coordinates.Lon)
			return nil
		},
	}

	cmd.Flags().StringVar(&dbURL, "database-url", "", "Postgres URL (default from config)")
	return cmd
}
