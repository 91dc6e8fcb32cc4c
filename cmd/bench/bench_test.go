package bench

import (
	"context"
	"errors"
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/openfga/paradis/cmd"
	"github.com/openfga/paradis/cmd/util"
	"github.com/openfga/paradis/internal/config"
	"github.com/openfga/paradis/pkg/logger"
	"github.com/openfga/paradis/pkg/parallel"
)

func smallConfig(scenario string) *config.Config {
	cfg := config.DefaultConfig()
	cfg.Engine.Workers = 4
	cfg.Bench.Scenario = scenario
	cfg.Bench.Size = 10_001
	cfg.Bench.Rows = 17
	cfg.Bench.Cols = 9
	cfg.Bench.Iterations = 3
	return cfg
}

func TestScenarios(t *testing.T) {
	t.Cleanup(func() {
		goleak.VerifyNone(t)
	})

	for _, name := range config.Scenarios {
		t.Run(name, func(t *testing.T) {
			l, logs := logger.NewObserverLogger("info")
			b := &Bencher{Logger: l}

			cfg := smallConfig(name)
			result, err := b.Run(context.Background(), cfg)
			require.NoError(t, err)
			require.Equal(t, name, result.Scenario)
			require.Equal(t, 3, result.Iterations)
			require.Positive(t, result.Records)

			_, err = ulid.ParseStrict(result.RunID)
			require.NoError(t, err)

			finished := logs.FilterMessage("bench finished").All()
			require.Len(t, finished, 1)
			require.Equal(t, name, finished[0].ContextMap()["scenario"])
			require.Equal(t, result.RunID, finished[0].ContextMap()["run_id"])
		})
	}
}

func TestScenarioRecords(t *testing.T) {
	cfg := smallConfig("columns")
	records, err := columnsScenario(context.Background(), &cfg.Bench, nil)
	require.NoError(t, err)
	require.Equal(t, 9, records)

	records, err = doubleScenario(context.Background(), &cfg.Bench, nil)
	require.NoError(t, err)
	require.Equal(t, 10_001, records)

	cfg.Bench.Size = 0
	records, err = permutationScenario(context.Background(), &cfg.Bench, nil)
	require.NoError(t, err)
	require.Zero(t, records)
}

func TestScenarioCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfg := smallConfig("double")
	_, err := doubleScenario(ctx, &cfg.Bench, []parallel.Option{parallel.WithMinLen(1)})
	require.ErrorIs(t, err, context.Canceled)
}

func TestRunUnknownScenario(t *testing.T) {
	b := &Bencher{Logger: logger.NewNoopLogger()}
	_, err := b.Run(context.Background(), smallConfig("triple"))
	require.ErrorContains(t, err, `unknown scenario "triple"`)
}

func TestRunServesMetrics(t *testing.T) {
	t.Cleanup(func() {
		goleak.VerifyNone(t)
	})

	cfg := smallConfig("double")
	cfg.Metrics.Enabled = true
	cfg.Metrics.Addr = "127.0.0.1:0"

	l, logs := logger.NewObserverLogger("info")
	b := &Bencher{Logger: l}
	_, err := b.Run(context.Background(), cfg)
	require.NoError(t, err)
	require.Equal(t, 1, logs.FilterMessage("prometheus metrics listening on '127.0.0.1:0'").Len())
}

func TestReadConfig(t *testing.T) {
	t.Cleanup(viper.Reset)

	yaml := `engine:
  workers: 3
bench:
  scenario: columns
  rows: 8
`
	util.PrepareTempConfigFile(t, yaml)
	t.Setenv("PARADIS_BENCH_ITERATIONS", "2")

	benchCmd := NewBenchCommand()
	benchCmd.RunE = func(_ *cobra.Command, _ []string) error {
		return nil
	}
	rootCmd := cmd.NewRootCommand()
	rootCmd.AddCommand(benchCmd)
	rootCmd.SetArgs([]string{"bench", "--cols", "6"})
	require.NoError(t, rootCmd.Execute())

	cfg, err := ReadConfig()
	require.NoError(t, err)
	require.NoError(t, cfg.Verify())
	require.Equal(t, 3, cfg.Engine.Workers)
	require.Equal(t, "columns", cfg.Bench.Scenario)
	require.Equal(t, 8, cfg.Bench.Rows)
	require.Equal(t, 6, cfg.Bench.Cols)
	require.Equal(t, 2, cfg.Bench.Iterations)
	require.Equal(t, config.DefaultBenchSize, cfg.Bench.Size)
}

func TestBenchCommandRejectsInvalidConfig(t *testing.T) {
	t.Cleanup(viper.Reset)
	util.PrepareTempConfigDir(t)

	rootCmd := cmd.NewRootCommand()
	rootCmd.AddCommand(NewBenchCommand())
	rootCmd.SetArgs([]string{"bench", "--scenario", "triple", "--log-level", "none"})

	err := rootCmd.Execute()
	require.Error(t, err)
	require.False(t, errors.Is(err, ErrVerification))
	require.ErrorContains(t, err, "config 'bench.scenario' must be one of")
}
