package runner

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pramodya/singlish-e2e/internal/errs"
	"github.com/pramodya/singlish-e2e/internal/scenario"
	"github.com/pramodya/singlish-e2e/internal/wait"
)

// fakeDriver answers Perform from a map and records the order of inputs.
type fakeDriver struct {
	outputs     map[string]string
	failWith    map[string]error
	performed   []string
	incremental []string
}

func (f *fakeDriver) Perform(ctx context.Context, input string) (string, error) {
	f.performed = append(f.performed, input)
	if err, ok := f.failWith[input]; ok {
		return "", err
	}
	return f.outputs[input], nil
}

func (f *fakeDriver) PerformIncremental(ctx context.Context, prefix, suffix, want string) (string, string, error) {
	full := prefix + suffix
	f.incremental = append(f.incremental, full)
	if err, ok := f.failWith[full]; ok {
		return "", "", err
	}
	return "intermediate", f.outputs[full], nil
}

func testScenarios() []scenario.Scenario {
	return []scenario.Scenario{
		{ID: "a", Name: "first", Input: "aayuboovan!", Expected: "ආයුබෝවන්!", Tags: []string{scenario.TagCore}},
		{ID: "b", Name: "second", Input: "sthuthiyi", Expected: "ස්තුතියි", Tags: []string{scenario.TagCore}},
	}
}

func TestRun_AllPass(t *testing.T) {
	t.Parallel()

	driver := &fakeDriver{outputs: map[string]string{
		"aayuboovan!": "ආයුබෝවන්!",
		"sthuthiyi":   "ස්තුතියි",
	}}

	report, err := New(driver, 0).Run(context.Background(), testScenarios())
	require.NoError(t, err)
	require.Len(t, report.Results, 2)
	require.Equal(t, 0, report.Failed())
	require.NotEmpty(t, report.RunID)
	require.Equal(t, []string{"aayuboovan!", "sthuthiyi"}, driver.performed)

	for _, res := range report.Results {
		require.True(t, res.Passed)
		require.NoError(t, res.Err)
		require.Equal(t, res.Expected, res.Actual)
	}
}

func TestRun_MismatchRecordsDiffAndContinues(t *testing.T) {
	t.Parallel()

	driver := &fakeDriver{outputs: map[string]string{
		"aayuboovan!": "ආයුබොවන්!", // wrong vowel sign
		"sthuthiyi":   "ස්තුතියි",
	}}

	report, err := New(driver, 0).Run(context.Background(), testScenarios())
	require.NoError(t, err)
	require.Equal(t, 1, report.Failed())

	res := report.Results[0]
	require.False(t, res.Passed)
	require.Equal(t, errs.AssertionMismatch, errs.CodeOf(res.Err))
	require.Contains(t, res.Diff, "-ආයුබෝවන්!")
	require.Contains(t, res.Diff, "+ආයුබොවන්!")

	// The run went on to the second scenario.
	require.True(t, report.Results[1].Passed)
}

func TestRun_SettlementTimeoutFailsScenarioOnly(t *testing.T) {
	t.Parallel()

	timeoutErr := errs.Wrap(errs.SettlementTimeout, "settlement poll timed out",
		&wait.TimeoutError{LastObserved: "stale text", Elapsed: 10 * time.Second})
	driver := &fakeDriver{
		outputs:  map[string]string{"sthuthiyi": "ස්තුතියි"},
		failWith: map[string]error{"aayuboovan!": timeoutErr},
	}

	report, err := New(driver, 0).Run(context.Background(), testScenarios())
	require.NoError(t, err, "a timeout must not abort the run")
	require.Equal(t, 1, report.Failed())
	require.Equal(t, "stale text", report.Results[0].LastObserved)
	require.True(t, report.Results[1].Passed)
}

func TestRun_LocatorFailureAbortsRun(t *testing.T) {
	t.Parallel()

	driver := &fakeDriver{
		failWith: map[string]error{"aayuboovan!": errs.New(errs.LocatorNotFound, "textbox never became visible")},
	}

	report, err := New(driver, 0).Run(context.Background(), testScenarios())
	require.Error(t, err)
	require.Equal(t, errs.LocatorNotFound, errs.CodeOf(err))
	require.Len(t, report.Results, 1, "no scenario may run after the shared precondition fails")
	require.Empty(t, driver.incremental)
}

func TestRun_IncrementalDispatch(t *testing.T) {
	t.Parallel()

	driver := &fakeDriver{outputs: map[string]string{
		"mama gedhara yanavaa": "මම ගෙදර යනවා",
	}}
	scenarios := []scenario.Scenario{{
		ID:       "typing",
		Name:     "incremental",
		Input:    "mama gedhara yanavaa",
		Expected: "මම ගෙදර යනවා",
		Tags:     []string{scenario.TagIncremental},
		SplitAt:  len("mama ge"),
	}}

	report, err := New(driver, 0).Run(context.Background(), scenarios)
	require.NoError(t, err)
	require.Equal(t, 0, report.Failed())
	require.Empty(t, driver.performed, "incremental scenarios must not use the bulk path")
	require.Equal(t, []string{"mama gedhara yanavaa"}, driver.incremental)
}

func TestRun_PacingDelaysScenarios(t *testing.T) {
	t.Parallel()

	driver := &fakeDriver{outputs: map[string]string{
		"aayuboovan!": "ආයුබෝවන්!",
		"sthuthiyi":   "ස්තුතියි",
	}}

	pacing := 60 * time.Millisecond
	start := time.Now()
	report, err := New(driver, pacing).Run(context.Background(), testScenarios())
	require.NoError(t, err)
	require.Equal(t, 0, report.Failed())
	// First scenario runs immediately off the initial token; the second waits.
	require.GreaterOrEqual(t, time.Since(start), pacing)
}

func TestRun_ContextCancellationStopsPacing(t *testing.T) {
	t.Parallel()

	driver := &fakeDriver{outputs: map[string]string{
		"aayuboovan!": "ආයුබෝවන්!",
		"sthuthiyi":   "ස්තුතියි",
	}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := New(driver, time.Hour).Run(ctx, testScenarios())
	require.Error(t, err)
	require.Empty(t, report.Results)
}

func TestUnifiedDiff_MultilineOutput(t *testing.T) {
	t.Parallel()

	diff := unifiedDiff("මම ගෙදර\nයනවා", "මම ගෙදර\nගියා")
	require.True(t, strings.Contains(diff, "-යනවා"))
	require.True(t, strings.Contains(diff, "+ගියා"))
}
