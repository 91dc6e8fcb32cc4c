package bench

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/openfga/paradis/cmd/util"
)

// bindBenchFlagsFunc binds the cobra cmd flags to the equivalent config value being managed
// by viper. This bridges the config between cobra flags and viper flags.
func bindBenchFlagsFunc(flags *pflag.FlagSet) func(*cobra.Command, []string) {
	return func(_ *cobra.Command, _ []string) {
		util.MustBindPFlag("engine.workers", flags.Lookup("workers"))
		util.MustBindEnv("engine.workers", "PARADIS_ENGINE_WORKERS")

		util.MustBindPFlag("engine.minSplitLen", flags.Lookup("min-split-len"))
		util.MustBindEnv("engine.minSplitLen", "PARADIS_ENGINE_MIN_SPLIT_LEN", "PARADIS_ENGINE_MINSPLITLEN")

		util.MustBindPFlag("bench.scenario", flags.Lookup("scenario"))
		util.MustBindEnv("bench.scenario", "PARADIS_BENCH_SCENARIO")

		util.MustBindPFlag("bench.size", flags.Lookup("size"))
		util.MustBindEnv("bench.size", "PARADIS_BENCH_SIZE")

		util.MustBindPFlag("bench.rows", flags.Lookup("rows"))
		util.MustBindEnv("bench.rows", "PARADIS_BENCH_ROWS")

		util.MustBindPFlag("bench.cols", flags.Lookup("cols"))
		util.MustBindEnv("bench.cols", "PARADIS_BENCH_COLS")

		util.MustBindPFlag("bench.iterations", flags.Lookup("iterations"))
		util.MustBindEnv("bench.iterations", "PARADIS_BENCH_ITERATIONS")

		util.MustBindPFlag("log.format", flags.Lookup("log-format"))
		util.MustBindEnv("log.format", "PARADIS_LOG_FORMAT")

		util.MustBindPFlag("log.level", flags.Lookup("log-level"))
		util.MustBindEnv("log.level", "PARADIS_LOG_LEVEL")

		util.MustBindPFlag("trace.enabled", flags.Lookup("trace-enabled"))
		util.MustBindEnv("trace.enabled", "PARADIS_TRACE_ENABLED")

		util.MustBindPFlag("trace.otlp.endpoint", flags.Lookup("trace-otlp-endpoint"))
		util.MustBindEnv("trace.otlp.endpoint", "PARADIS_TRACE_OTLP_ENDPOINT")

		util.MustBindPFlag("trace.sampleRatio", flags.Lookup("trace-sample-ratio"))
		util.MustBindEnv("trace.sampleRatio", "PARADIS_TRACE_SAMPLE_RATIO")

		util.MustBindPFlag("trace.serviceName", flags.Lookup("trace-service-name"))
		util.MustBindEnv("trace.serviceName", "PARADIS_TRACE_SERVICE_NAME")

		util.MustBindPFlag("metrics.enabled", flags.Lookup("metrics-enabled"))
		util.MustBindEnv("metrics.enabled", "PARADIS_METRICS_ENABLED")

		util.MustBindPFlag("metrics.addr", flags.Lookup("metrics-addr"))
		util.MustBindEnv("metrics.addr", "PARADIS_METRICS_ADDR")
	}
}
