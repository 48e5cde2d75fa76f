package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
)

func newMigrateCmd(configPath *string) *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "migrate [up|down] [steps]",
		Short: "Aplica las migraciones SQL (*_up.sql / *_down.sql)",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			if strings.TrimSpace(cfg.Storage.DSN) == "" {
				return fmt.Errorf("config: storage.dsn requerido (env DATABASE_URL)")
			}

			action := "up"
			steps := 0
			if len(args) >= 1 && args[0] != "" {
				action = strings.ToLower(args[0])
			}
			if len(args) >= 2 {
				if n, err := strconv.Atoi(args[1]); err == nil && n > 0 {
					steps = n
				}
			}

			ctx := cmd.Context()
			pool, err := pgxpool.New(ctx, cfg.Storage.DSN)
			if err != nil {
				return fmt.Errorf("pgxpool: %w", err)
			}
			defer pool.Close()

			switch action {
			case "up":
				files, err := listSQL(dir, "_up.sql")
				if err != nil {
					return err
				}
				if len(files) == 0 {
					log.Println("No *_up.sql migrations found. Nothing to do.")
					return nil
				}
				sort.Strings(files) // apply in ascending order
				if steps > 0 && steps < len(files) {
					files = files[:steps]
				}
				log.Printf("Applying %d up migration(s)...", len(files))
				for _, f := range files {
					if err := execSQLFile(ctx, pool, f); err != nil {
						return fmt.Errorf("exec %s: %w", f, err)
					}
				}
				log.Println("Up migrations completed.")

			case "down":
				files, err := listSQL(dir, "_down.sql")
				if err != nil {
					return err
				}
				if len(files) == 0 {
					log.Println("No *_down.sql migrations found. Nothing to do.")
					return nil
				}
				sort.Strings(files)
				reverseInPlace(files) // run in reverse
				if steps > 0 && steps < len(files) {
					files = files[:steps] // only N most-recent downs
				}
				log.Printf("Applying %d down migration(s)...", len(files))
				for _, f := range files {
					if err := execSQLFile(ctx, pool, f); err != nil {
						return fmt.Errorf("exec %s: %w", f, err)
					}
				}
				log.Println("Down migrations completed.")

			default:
				return fmt.Errorf("unknown action %q. Use: up | down [steps]", action)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "migrations/postgres", "Directorio de migraciones")
	return cmd
}

func listSQL(dir, suffix string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if e.Type().IsRegular() && strings.HasSuffix(strings.ToLower(e.Name()), suffix) {
			out = append(out, filepath.Join(dir, e.Name()))
		}
	}
	return out, nil
}

func reverseInPlace(ss []string) {
	for i, j := 0, len(ss)-1; i < j; i, j = i+1, j-1 {
		ss[i], ss[j] = ss[j], ss[i]
	}
}

func execSQLFile(ctx context.Context, pool *pgxpool.Pool, path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read: %w", err)
	}

	start := time.Now()
	if _, err := pool.Exec(ctx, string(b)); err != nil {
		return fmt.Errorf("exec: %w", err)
	}
	log.Printf("OK %s (%s)", filepath.Base(path), time.Since(start).Truncate(time.Millisecond))
	return nil
}
