package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/fulmenhq/gofulmen/ascii"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/staffsearch/staffsearch/internal/core"
	"github.com/staffsearch/staffsearch/internal/core/sampledata"
	errwrap "github.com/staffsearch/staffsearch/internal/errors"
	"github.com/staffsearch/staffsearch/internal/observability"
)

const defaultSeedBatchSize = 1000

var seedFlags struct {
	count     int
	seed      uint64
	file      string
	clear     bool
	batchSize int
}

// employeeSeeder is the store surface the seed command writes through.
type employeeSeeder interface {
	CountEmployees(ctx context.Context) (int, error)
	ClearEmployees(ctx context.Context) (int64, error)
	UpsertEmployees(ctx context.Context, employees []core.Employee) (int, error)
}

type seedOptions struct {
	Count     int
	Seed      uint64
	File      string
	Clear     bool
	BatchSize int
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load employees into the store",
	Long: `Load employees into the store, either generated sample data or a YAML fixture file.

Generated employees are numbered after the existing rows (EMP0001, EMP0002, ...) and
are reproducible for a given --seed. Existing ids are updated in place.

Examples:
  staffsearch seed --count 1000
  staffsearch seed --clear --file testdata/employees.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		st, err := openConfiguredStore(ctx)
		if err != nil {
			return errwrap.WrapDatabaseError(ctx, err, "store initialization failed")
		}
		defer st.Close() // nolint:errcheck // closed on exit

		written, err := seedEmployees(ctx, st, seedOptions{
			Count:     seedFlags.count,
			Seed:      seedFlags.seed,
			File:      seedFlags.file,
			Clear:     seedFlags.clear,
			BatchSize: seedFlags.batchSize,
		})
		if err != nil {
			return err
		}

		total, err := st.CountEmployees(ctx)
		if err != nil {
			return errwrap.WrapDatabaseError(ctx, err, "count employees failed")
		}
		_, _ = fmt.Fprint(cmd.OutOrStdout(), seedSummary(written, total, st.Driver()))
		return nil
	},
}

func seedSummary(written, total int, driver string) string {
	lines := []string{
		fmt.Sprintf("Seeded:  %d employees", written),
		fmt.Sprintf("Total:   %d employees", total),
		fmt.Sprintf("Store:   %s", driver),
	}
	return ascii.DrawBox(strings.Join(lines, "\n"), 0)
}

func seedEmployees(ctx context.Context, st employeeSeeder, opts seedOptions) (int, error) {
	logger := observability.Logger()

	if opts.Clear {
		removed, err := st.ClearEmployees(ctx)
		if err != nil {
			return 0, errwrap.WrapDatabaseError(ctx, err, "clear employees failed")
		}
		if logger != nil {
			logger.Info("Cleared employee store", zap.Int64("removed", removed))
		}
	}

	if opts.File != "" {
		employees, err := sampledata.LoadYAMLFile(opts.File)
		if err != nil {
			return 0, errwrap.WrapValidationError(ctx, err, "invalid fixture file")
		}
		n, err := st.UpsertEmployees(ctx, employees)
		if err != nil {
			return 0, errwrap.WrapDatabaseError(ctx, err, "write fixtures failed")
		}
		return n, nil
	}

	if opts.Count <= 0 {
		return 0, errwrap.NewValidationError("count must be positive")
	}
	batchSize := opts.BatchSize
	if batchSize <= 0 {
		batchSize = defaultSeedBatchSize
	}

	existing, err := st.CountEmployees(ctx)
	if err != nil {
		return 0, errwrap.WrapDatabaseError(ctx, err, "count employees failed")
	}

	gen := sampledata.NewGenerator(opts.Seed)
	written := 0
	for written < opts.Count {
		if err := ctx.Err(); err != nil {
			return written, errwrap.WrapInternal(ctx, err, "seeding interrupted")
		}
		size := min(batchSize, opts.Count-written)
		n, err := st.UpsertEmployees(ctx, gen.Generate(existing+written+1, size))
		if err != nil {
			return written, errwrap.WrapDatabaseError(ctx, err, "write sample employees failed")
		}
		written += n
		if logger != nil {
			logger.Debug("Seed batch written",
				zap.Int("written", written),
				zap.Int("target", opts.Count))
		}
	}
	return written, nil
}

func init() {
	rootCmd.AddCommand(seedCmd)

	seedCmd.Flags().IntVarP(&seedFlags.count, "count", "n", 50, "number of sample employees to generate")
	seedCmd.Flags().Uint64Var(&seedFlags.seed, "seed", 1, "random seed for sample data")
	seedCmd.Flags().StringVarP(&seedFlags.file, "file", "f", "", "load employees from a YAML fixture file instead of generating")
	seedCmd.Flags().BoolVar(&seedFlags.clear, "clear", false, "delete all employees first")
	seedCmd.Flags().IntVar(&seedFlags.batchSize, "batch-size", defaultSeedBatchSize, "employees written per transaction")
}
