package cli

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/wesleyorama2/cadence/internal/config"
	"github.com/wesleyorama2/cadence/internal/output"
	"github.com/wesleyorama2/cadence/loop"
	"github.com/wesleyorama2/cadence/metrics"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Drive a simulated workload at a fixed rate",
	Long: `Run executes the rate-debt loop against a simulated workload and prints
scheduling statistics. The workload is described either by a YAML run
spec (--spec) or directly by flags.`,
	RunE: executeRun,
}

func init() {
	runCmd.Flags().String("spec", "", "path to a YAML run spec")
	runCmd.Flags().Float64("rate", 50, "target iterations per second")
	runCmd.Flags().Duration("for", 0, "stop after this much wall-clock time")
	runCmd.Flags().Int64("iterations", 0, "stop after this many iterations")
	runCmd.Flags().Duration("work", 0, "simulated payload duration per iteration")
	runCmd.Flags().Duration("jitter", 0, "uniform +/- noise added to the simulated work")
	runCmd.Flags().Bool("skip", false, "enable the skip valve once debt exceeds one interval")
	runCmd.Flags().Duration("skip-work", 0, "simulated duration of the skip action")
	runCmd.Flags().Int64("seed", 0, "jitter RNG seed (0 seeds from the clock)")
	runCmd.Flags().Bool("verbose", false, "log every iteration")
	runCmd.Flags().Bool("no-color", false, "disable colored output")
}

func executeRun(cmd *cobra.Command, args []string) error {
	spec, err := specFrom(cmd)
	if err != nil {
		return err
	}

	if errs := config.Validate(spec); len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintf(os.Stderr, "  - %s\n", e.Error())
		}
		return fmt.Errorf("invalid run spec: %d problem(s)", len(errs))
	}

	run, err := spec.Resolve()
	if err != nil {
		return err
	}

	verbose, _ := cmd.Flags().GetBool("verbose")
	noColor, _ := cmd.Flags().GetBool("no-color")

	logger := newLogger(verbose).With().
		Str("run_id", uuid.New().String()).
		Str("name", run.Name).
		Logger()

	return driveRun(cmd.Context(), run, logger, output.NewFormatter(os.Stdout, noColor))
}

// specFrom builds the run spec from --spec or from the individual
// flags. Flag values deliberately pass through the same RunSpec type
// as a file so both paths share validation.
func specFrom(cmd *cobra.Command) (*config.RunSpec, error) {
	if path, _ := cmd.Flags().GetString("spec"); path != "" {
		return config.Load(path)
	}

	rate, _ := cmd.Flags().GetFloat64("rate")
	forDur, _ := cmd.Flags().GetDuration("for")
	iterations, _ := cmd.Flags().GetInt64("iterations")
	work, _ := cmd.Flags().GetDuration("work")
	jitter, _ := cmd.Flags().GetDuration("jitter")
	skip, _ := cmd.Flags().GetBool("skip")
	skipWork, _ := cmd.Flags().GetDuration("skip-work")
	seed, _ := cmd.Flags().GetInt64("seed")

	spec := &config.RunSpec{
		Name:       "cadence",
		Rate:       rate,
		Iterations: iterations,
		Skip:       skip,
		Seed:       seed,
	}
	if forDur > 0 {
		spec.Duration = forDur.String()
	}
	if work > 0 {
		spec.Work = work.String()
	}
	if jitter > 0 {
		spec.Jitter = jitter.String()
	}
	if skipWork > 0 {
		spec.SkipWork = skipWork.String()
	}
	return spec, nil
}

// driveRun wires the loop, workload simulation, and metrics together
// and blocks until the run ends.
func driveRun(ctx context.Context, run *config.Run, logger zerolog.Logger, formatter *output.Formatter) error {
	seed := run.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	engine := metrics.NewEngine(metrics.DefaultEngineConfig())

	cfg := loop.Config{
		Rate: run.Rate,
		OnTick: func(debt time.Duration) error {
			simulateWork(rng, run.Work, run.Jitter)
			return nil
		},
		Observer: &loggingObserver{next: engine, logger: logger},
	}
	if run.Iterations > 0 {
		cfg.ContinueWhile = loop.MaxIterations(run.Iterations)
	}
	if run.Skip {
		cfg.OnSkip = func() error {
			if run.SkipWork > 0 {
				time.Sleep(run.SkipWork)
			}
			return nil
		}
	}

	l, err := loop.New(cfg)
	if err != nil {
		return err
	}

	runCtx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()
	if run.Duration > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(runCtx, run.Duration)
		defer cancel()
	}

	formatter.PrintHeader(run.Name, run.Rate, l.Interval(), run.Skip)
	logger.Info().
		Float64("rate", run.Rate).
		Dur("interval", l.Interval()).
		Int64("seed", seed).
		Msg("run starting")

	err = l.RunContext(runCtx)
	switch {
	case err == nil:
		logger.Info().Msg("run completed")
	case errors.Is(err, context.DeadlineExceeded):
		logger.Info().Msg("run duration reached")
	case errors.Is(err, context.Canceled):
		logger.Info().Msg("run interrupted")
	default:
		return err
	}

	formatter.PrintSummary(run.Rate, engine.Snapshot())
	return nil
}

// simulateWork burns wall-clock time standing in for a real payload.
func simulateWork(rng *rand.Rand, work, jitter time.Duration) {
	d := work
	if jitter > 0 {
		d += time.Duration((2*rng.Float64() - 1) * float64(jitter))
	}
	if d > 0 {
		time.Sleep(d)
	}
}

// loggingObserver forwards telemetry to the metrics engine and, at
// debug level, logs each iteration.
type loggingObserver struct {
	next   *metrics.Engine
	logger zerolog.Logger
}

func (o *loggingObserver) ObserveTick(iteration int64, behind, wait, debt time.Duration) {
	o.next.ObserveTick(iteration, behind, wait, debt)
	o.logger.Debug().
		Int64("iteration", iteration).
		Dur("behind", behind).
		Dur("wait", wait).
		Dur("debt", debt).
		Msg("tick")
}

func (o *loggingObserver) ObserveSkip(iteration int64, debt time.Duration) {
	o.next.ObserveSkip(iteration, debt)
	o.logger.Debug().
		Int64("iteration", iteration).
		Dur("debt", debt).
		Msg("skip")
}

func newLogger(verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	writer := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}
	return zerolog.New(writer).Level(level).With().Timestamp().Logger()
}
