package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/locvowork/employee_records/internal/bootstrap"
	"github.com/locvowork/employee_records/internal/database"
)

var (
	count   int
	workers int
	seed    int64
	yes     bool
)

var rootCmd = &cobra.Command{
	Use:   "seeder",
	Short: "Seed or clear SEED-xxxxx employee records",
	Long: `Writes employee records through the same service the API uses, against the
store selected by STORE_DRIVER.

Available subcommands:
  seed  - Create SEED-00001..SEED-<count>
  clear - Delete SEED-00001..SEED-<count>`,
	SilenceUsage: true,
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create seeded employees",
	RunE:  runSeed,
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete seeded employees",
	RunE:  runClear,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&count, "count", 1000, "Number of seeded employees")
	rootCmd.PersistentFlags().IntVar(&workers, "workers", 8, "Concurrent writers")
	seedCmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "Random seed")
	clearCmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")

	rootCmd.AddCommand(seedCmd, clearCmd)
}

func newSeeder(ctx context.Context) (*database.DataSeeder, func(), error) {
	app := bootstrap.NewApp()
	if err := app.Initialize(ctx); err != nil {
		_ = app.Close(ctx)
		return nil, nil, fmt.Errorf("failed to initialize application: %w", err)
	}
	return database.NewDataSeeder(app.Service, workers, seed), func() { _ = app.Close(context.Background()) }, nil
}

func runSeed(cmd *cobra.Command, args []string) error {
	seeder, done, err := newSeeder(cmd.Context())
	if err != nil {
		return err
	}
	defer done()

	stats, err := seeder.SeedData(cmd.Context(), count)
	if err != nil {
		return fmt.Errorf("seeding failed: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created %d employees, skipped %d existing\n", stats.Created, stats.Skipped)
	return nil
}

func runClear(cmd *cobra.Command, args []string) error {
	if !yes {
		fmt.Fprintf(cmd.OutOrStdout(), "This will delete %s..%s. Continue? (yes/no): ", database.SeedID(1), database.SeedID(count))
		answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if strings.TrimSpace(answer) != "yes" {
			fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
			return nil
		}
	}

	seeder, done, err := newSeeder(cmd.Context())
	if err != nil {
		return err
	}
	defer done()

	deleted, err := seeder.ClearData(cmd.Context(), count)
	if err != nil {
		return fmt.Errorf("clear failed: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d employees\n", deleted)
	return nil
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
