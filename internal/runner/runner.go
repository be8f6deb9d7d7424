// Package runner executes the scenario table sequentially against one driver
// session and collects a per-scenario report.
package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pmezard/go-difflib/difflib"
	"golang.org/x/time/rate"

	"github.com/pramodya/singlish-e2e/internal/errs"
	"github.com/pramodya/singlish-e2e/internal/obs"
	"github.com/pramodya/singlish-e2e/internal/scenario"
	"github.com/pramodya/singlish-e2e/internal/wait"
)

// Driver is the synchronized input/output surface the runner drives.
// *translit.Driver satisfies it; tests substitute fakes.
type Driver interface {
	Perform(ctx context.Context, input string) (string, error)
	PerformIncremental(ctx context.Context, prefix, suffix, want string) (intermediate, final string, err error)
}

// Result is the outcome of one scenario.
type Result struct {
	ScenarioID string
	Name       string
	Passed     bool
	Expected   string
	Actual     string
	Err        error
	Elapsed    time.Duration

	// Diff holds a unified diff of expected vs actual on assertion mismatch.
	Diff string

	// LastObserved holds the last polled text when the scenario timed out.
	LastObserved string
}

// Report is the outcome of a full run.
type Report struct {
	RunID     string
	StartedAt time.Time
	Elapsed   time.Duration
	Results   []Result
}

// Failed counts the scenarios that did not pass.
func (r *Report) Failed() int {
	n := 0
	for _, res := range r.Results {
		if !res.Passed {
			n++
		}
	}
	return n
}

// Runner runs scenarios strictly sequentially against a single driver.
// The inter-scenario pacing is a politeness measure toward the remote site,
// not a correctness requirement.
type Runner struct {
	driver Driver
	pacer  *rate.Limiter
	log    *slog.Logger
}

// New creates a runner with the given fixed pacing delay between scenarios.
func New(driver Driver, pacing time.Duration) *Runner {
	limit := rate.Inf
	if pacing > 0 {
		limit = rate.Every(pacing)
	}
	return &Runner{
		driver: driver,
		pacer:  rate.NewLimiter(limit, 1),
		log:    obs.Pkg("runner"),
	}
}

// Run executes the scenarios in order. Assertion mismatches and settlement
// timeouts fail their scenario and the run continues; a locator failure
// aborts the run, since no later scenario can proceed, and is returned as the
// run error alongside the partial report.
func (r *Runner) Run(ctx context.Context, scenarios []scenario.Scenario) (*Report, error) {
	report := &Report{
		RunID:     uuid.NewString(),
		StartedAt: time.Now(),
	}
	defer func() { report.Elapsed = time.Since(report.StartedAt) }()

	for _, s := range scenarios {
		if err := r.pacer.Wait(ctx); err != nil {
			return report, err
		}

		res := r.runOne(ctx, s)
		report.Results = append(report.Results, res)

		if res.Passed {
			r.log.Info("scenario passed", "run_id", report.RunID, "scenario", s.ID, "elapsed", res.Elapsed)
			continue
		}
		r.log.Warn("scenario failed", "run_id", report.RunID, "scenario", s.ID,
			"code", string(errs.CodeOf(res.Err)), "error", res.Err)

		if errs.Is(res.Err, errs.LocatorNotFound) {
			return report, errs.Wrap(errs.LocatorNotFound,
				fmt.Sprintf("aborting run: scenario %q could not resolve a required control", s.ID), res.Err)
		}
	}
	return report, nil
}

func (r *Runner) runOne(ctx context.Context, s scenario.Scenario) (res Result) {
	res = Result{
		ScenarioID: s.ID,
		Name:       s.Name,
		Expected:   s.Expected,
	}
	start := time.Now()
	defer func() { res.Elapsed = time.Since(start) }()

	var actual string
	var err error
	if s.Incremental() {
		_, actual, err = r.driver.PerformIncremental(ctx, s.Prefix(), s.Suffix(), s.Expected)
	} else {
		actual, err = r.driver.Perform(ctx, s.Input)
	}
	res.Actual = actual

	if err != nil {
		res.Err = err
		var timeout *wait.TimeoutError
		if errors.As(err, &timeout) {
			res.LastObserved = timeout.LastObserved
		}
		return res
	}

	if actual != s.Expected {
		res.Diff = unifiedDiff(s.Expected, actual)
		res.Err = errs.New(errs.AssertionMismatch,
			fmt.Sprintf("scenario %q: expected %q, got %q", s.ID, s.Expected, actual))
		return res
	}

	res.Passed = true
	return res
}

func unifiedDiff(expected, actual string) string {
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(expected),
		B:        difflib.SplitLines(actual),
		FromFile: "expected",
		ToFile:   "actual",
		Context:  3,
	})
	if err != nil {
		return ""
	}
	return strings.TrimRight(diff, "\n")
}
