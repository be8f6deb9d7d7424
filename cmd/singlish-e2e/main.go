// Command singlish-e2e runs the transliteration scenario suite against the
// site under test (or a local mock with --mock) and reports per-scenario
// pass/fail. The process exits non-zero if any scenario fails or the run
// aborts.
package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/pramodya/singlish-e2e/internal/config"
	"github.com/pramodya/singlish-e2e/internal/errs"
	"github.com/pramodya/singlish-e2e/internal/mocksite"
	"github.com/pramodya/singlish-e2e/internal/obs"
	"github.com/pramodya/singlish-e2e/internal/runner"
	"github.com/pramodya/singlish-e2e/internal/scenario"
	"github.com/pramodya/singlish-e2e/internal/translit"
)

func main() {
	os.Exit(run())
}

func run() int {
	mock, headed, baseURL := config.ParseFlags()
	cfg := config.MustLoad(mock, headed, baseURL)
	obs.Init()
	log := obs.Pkg("main")

	suite := scenario.Suite()
	if err := scenario.Validate(suite); err != nil {
		fmt.Fprintf(os.Stderr, "invalid scenario table: %v\n", err)
		return 2
	}

	if cfg.Mock {
		handler, err := mocksite.New(suite, mocksite.Options{})
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to build mock site: %v\n", err)
			return 2
		}
		ln, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to listen for mock site: %v\n", err)
			return 2
		}
		defer ln.Close()
		go func() {
			_ = http.Serve(ln, handler)
		}()
		cfg.BaseURL = "http://" + ln.Addr().String()
	}

	cfg.PrintStartupSummary()

	pw, err := playwright.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start playwright: %v\n", err)
		return 2
	}
	defer func() { _ = pw.Stop() }()

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(!cfg.Headed),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to launch browser: %v\n", err)
		return 2
	}
	defer func() { _ = browser.Close() }()

	page, err := browser.NewPage()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create page: %v\n", err)
		return 2
	}

	ctx := context.Background()
	driver := translit.New(page, cfg)
	if err := driver.Navigate(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "site under test is not usable: %v\n", err)
		return 1
	}

	report, runErr := runner.New(driver, cfg.Pacing).Run(ctx, suite)
	printReport(report)

	if runErr != nil {
		log.Error("run aborted", "run_id", report.RunID, "error", runErr)
		fmt.Fprintf(os.Stderr, "run aborted: %v\n", runErr)
		return 1
	}
	if report.Failed() > 0 {
		return 1
	}
	return 0
}

func printReport(report *runner.Report) {
	fmt.Printf("\nrun %s: %d scenarios, %d failed, %s\n\n",
		report.RunID, len(report.Results), report.Failed(), report.Elapsed.Round(time.Millisecond))

	for _, res := range report.Results {
		if res.Passed {
			fmt.Printf("PASS %-18s (%s)\n", res.ScenarioID, res.Elapsed.Round(time.Millisecond))
			continue
		}
		fmt.Printf("FAIL %-18s (%s) [%s]\n", res.ScenarioID, res.Elapsed.Round(time.Millisecond), errs.CodeOf(res.Err))
		fmt.Printf("     expected: %q\n", res.Expected)
		switch errs.CodeOf(res.Err) {
		case errs.SettlementTimeout:
			fmt.Printf("     last observed: %q\n", res.LastObserved)
		default:
			fmt.Printf("     actual:   %q\n", res.Actual)
		}
		if res.Diff != "" {
			fmt.Println(indent(res.Diff, "     "))
		}
	}
	fmt.Println()
}

func indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}
