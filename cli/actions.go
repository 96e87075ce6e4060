package cli

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/multierr"
	goutils "go.viam.com/utils"

	"go.viam.com/cspace/config"
	"go.viam.com/cspace/display"
	"go.viam.com/cspace/logging"
	"go.viam.com/cspace/motionplan"
	"go.viam.com/cspace/referenceframe"
	"go.viam.com/cspace/survey"
)

const (
	logFileMaxSizeMB  = 10
	logFileMaxBackups = 3
	histogramWidth    = 60
)

// session is everything an action needs: the loaded config, the planning problem built from it and the observers
// that display emitted configurations.
type session struct {
	cfg      *config.Config
	problem  *motionplan.Problem
	logger   logging.Logger
	recorder *display.Recorder
	observer motionplan.Observer
}

func newSession(c *cli.Context) (*session, error) {
	logger := logging.NewLogger("cspace")
	if c.Bool(flagDebug) {
		logger.SetLevel(logging.DEBUG)
	}
	if path := c.String(flagLogFile); path != "" {
		logger.AddAppender(logging.NewFileAppender(path, logFileMaxSizeMB, logFileMaxBackups))
	}

	cfg := config.Default()
	if path := c.String(flagConfig); path != "" {
		var err error
		cfg, err = config.Read(path)
		if err != nil {
			return nil, err
		}
	}
	if c.IsSet(flagSeed) {
		cfg.Planning.Seed = c.Int64(flagSeed)
	}
	if c.IsSet(flagIterations) {
		cfg.Planning.Iterations = c.Int(flagIterations)
	}
	if c.IsSet(flagSamples) {
		cfg.SurveySamples = c.Int(flagSamples)
	}
	if c.IsSet(flagMultiStart) {
		cfg.MultiStart = c.Int(flagMultiStart)
	}
	delay := time.Duration(cfg.DisplayDelayMs) * time.Millisecond
	if c.IsSet(flagDelay) {
		delay = c.Duration(flagDelay)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	problem, err := cfg.Problem()
	if err != nil {
		return nil, err
	}
	recorder := &display.Recorder{}
	return &session{
		cfg:      cfg,
		problem:  problem,
		logger:   logger,
		recorder: recorder,
		observer: display.Fanout{display.NewLoggingSink(c.Context, logger.Sublogger("display"), delay), recorder},
	}, nil
}

// withSession runs action with a session built from the flags and syncs the logger afterwards.
func withSession(c *cli.Context, action func(*session) error) error {
	s, err := newSession(c)
	if err != nil {
		return err
	}
	// stdout cannot always be synced
	defer goutils.UncheckedErrorFunc(s.logger.Sync)
	return action(s)
}

func (s *session) randSource() *rand.Rand {
	//nolint: gosec
	return rand.New(rand.NewSource(s.cfg.Planning.Seed))
}

// saveSnapshot draws the arm at q when the snapshot flag is set.
func (s *session) saveSnapshot(c *cli.Context, q motionplan.Reduced) error {
	path := c.String(flagSnapshot)
	if path == "" {
		return nil
	}
	scene, err := s.cfg.Scene()
	if err != nil {
		return err
	}
	if err := display.DefaultSnapshot().Save(path, scene, s.problem.Codec.Expand(q), s.cfg.Target.Point()); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "wrote snapshot to %s\n", path)
	return nil
}

// startConfiguration parses the start flag. A nil start lets the planner draw one.
func startConfiguration(c *cli.Context) (*motionplan.Reduced, error) {
	if !c.IsSet(flagStart) {
		return nil, nil
	}
	values := c.Float64Slice(flagStart)
	if len(values) != 2 {
		return nil, errors.Errorf("--%s needs exactly two values, got %d", flagStart, len(values))
	}
	q := motionplan.ReducedFromFloats(values)
	return &q, nil
}

// SampleAction draws a single configuration and prints its cost and margin.
func SampleAction(c *cli.Context) error {
	return withSession(c, func(s *session) error {
		sampler := motionplan.NewSampler(s.problem, &s.cfg.Planning, s.randSource(), s.logger.Sublogger("sampler"))
		var (
			q   motionplan.Reduced
			err error
		)
		if c.Bool(flagNearTarget) {
			q, err = sampler.SampleNearTarget(c.Context, s.cfg.NearTargetThreshold, s.cfg.Planning.MaxSampleAttempts, s.observer)
		} else {
			q, err = sampler.Sample(c.Context, !c.Bool(flagColliding))
		}
		if err != nil {
			return err
		}
		return printConfiguration(c.App.Writer, s.problem, q)
	})
}

// DescendAction runs random descent and prints where it started and ended.
func DescendAction(c *cli.Context) error {
	start, err := startConfiguration(c)
	if err != nil {
		return err
	}
	return withSession(c, func(s *session) error {
		descent := motionplan.NewRandomDescent(s.problem, &s.cfg.Planning, s.logger.Sublogger("descent"))
		result, err := descent.Run(c.Context, start, s.observer)
		if err != nil {
			return err
		}
		t := table.NewWriter()
		t.SetOutputMirror(c.App.Writer)
		t.AppendHeader(table.Row{"", "Configuration", "Cost"})
		t.AppendRow(table.Row{"start", result.Start, fmt.Sprintf("%.4f", result.StartCost)})
		t.AppendRow(table.Row{"final", result.Final, fmt.Sprintf("%.4f", result.FinalCost)})
		t.AppendFooter(table.Row{"accepted", fmt.Sprintf("%d of %d", result.Accepted, s.cfg.Planning.Iterations), ""})
		t.Render()
		return s.saveSnapshot(c, result.Final)
	})
}

// OptimizeAction runs the constrained optimizer, from several random starts when multi start is above one, and
// prints every run. Non convergence is a warning, not a failure.
func OptimizeAction(c *cli.Context) error {
	start, err := startConfiguration(c)
	if err != nil {
		return err
	}
	return withSession(c, func(s *session) error {
		var best *motionplan.OptimizeResult
		var all []*motionplan.OptimizeResult
		if start == nil && s.cfg.MultiStart > 1 {
			best, all, err = motionplan.OptimizeMultiStart(
				c.Context, s.problem, &s.cfg.Planning, s.cfg.MultiStart, s.logger.Sublogger("optimizer"), s.observer,
			)
		} else {
			optimizer := motionplan.NewOptimizer(s.problem, &s.cfg.Planning, s.logger.Sublogger("optimizer"))
			best, err = optimizer.Optimize(c.Context, start, s.observer)
			all = []*motionplan.OptimizeResult{best}
		}
		if err != nil {
			return err
		}

		t := table.NewWriter()
		t.SetOutputMirror(c.App.Writer)
		t.AppendHeader(table.Row{"#", "Start", "Final", "Cost", "Margin", "Evaluations", "Status", "Converged"})
		for i, r := range all {
			t.AppendRow(table.Row{
				i,
				r.Start,
				r.Final,
				fmt.Sprintf("%.4f", r.FinalCost),
				fmt.Sprintf("%.4f", r.FinalMargin),
				r.Evaluations,
				r.Status,
				r.Converged,
			})
		}
		t.Render()
		fmt.Fprintf(c.App.Writer, "displayed %d configurations\n", s.recorder.Len())

		if !best.Converged {
			warningf(c.App.ErrWriter, "best result did not converge: %v", best.Err)
		}
		return s.saveSnapshot(c, best.Final)
	})
}

// SurveyAction samples the configuration space, prints summary statistics and a clearance histogram, and
// optionally renders the scatter plots.
func SurveyAction(c *cli.Context) error {
	return withSession(c, func(s *session) error {
		sampler := motionplan.NewSampler(s.problem, &s.cfg.Planning, s.randSource(), s.logger.Sublogger("sampler"))
		samples, err := survey.SampleSpace(c.Context, s.problem, sampler, s.cfg.SurveySamples)
		if err != nil {
			return err
		}
		summary, err := survey.Summarize(samples)
		if err != nil {
			return err
		}

		t := table.NewWriter()
		t.SetOutputMirror(c.App.Writer)
		t.AppendHeader(table.Row{"Samples", "Free", "Colliding", "Free fraction"})
		t.AppendRow(table.Row{summary.Total, summary.Free, summary.Colliding, fmt.Sprintf("%.3f", summary.FreeFraction)})
		t.Render()

		stats := table.NewWriter()
		stats.SetOutputMirror(c.App.Writer)
		stats.AppendHeader(table.Row{"", "Min", "Median", "Mean", "Max", "Std dev"})
		stats.AppendRow(table.Row{
			"cost",
			fmt.Sprintf("%.4f", summary.CostMin),
			fmt.Sprintf("%.4f", summary.CostMedian),
			fmt.Sprintf("%.4f", summary.CostMean),
			fmt.Sprintf("%.4f", summary.CostMax),
			"",
		})
		stats.AppendRow(table.Row{
			"margin",
			fmt.Sprintf("%.4f", summary.MarginMin),
			"",
			fmt.Sprintf("%.4f", summary.MarginMean),
			"",
			fmt.Sprintf("%.4f", summary.MarginStdDev),
		})
		stats.Render()

		bins := c.Int(flagBins)
		if bins < 1 {
			return errors.Errorf("--%s must be at least 1, got %d", flagBins, bins)
		}
		if err := survey.FprintMarginHistogram(c.App.Writer, samples, bins, histogramWidth); err != nil {
			return err
		}

		if out := c.String(flagOutput); out != "" {
			if err := survey.PlotScatter(samples, s.problem.Threshold, out); err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "wrote scatter plots to %s\n", out)
		}
		return nil
	})
}

// SchemaAction prints the JSON schema of the config file.
func SchemaAction(c *cli.Context) error {
	out, err := config.SchemaJSON()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(c.App.Writer, string(out))
	return err
}

// printConfiguration writes a table describing where q places the arm.
func printConfiguration(w io.Writer, problem *motionplan.Problem, q motionplan.Reduced) error {
	colliding, err := problem.IsColliding(q)
	if err != nil {
		return err
	}
	cost, costErr := problem.Cost(q)
	margin, marginErr := problem.Margin(q)
	if err := multierr.Combine(costErr, marginErr); err != nil {
		return err
	}
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Configuration", "Joints (deg)", "Colliding", "Cost", "Margin"})
	t.AppendRow(table.Row{
		q,
		referenceframe.InputsString(problem.Codec.Expand(q)),
		colliding,
		fmt.Sprintf("%.4f", cost),
		fmt.Sprintf("%.4f", margin),
	})
	t.Render()
	return nil
}

func warningf(w io.Writer, format string, args ...interface{}) {
	//nolint:errcheck
	color.New(color.FgYellow, color.Bold).Fprintf(w, "Warning: "+format+"\n", args...)
}

// Run runs the CLI until it finishes or ctx is cancelled.
func Run(ctx context.Context, args []string, out, errOut io.Writer) error {
	return NewApp(out, errOut).RunContext(ctx, args)
}
