// Package browser drives the transliteration page through Playwright.
//
// All tests share one browser session: the site is manipulated as shared
// mutable state, so scenarios are not safely parallelizable and every test
// acquires the single page/driver pair through AcquireSession. By default the
// fixture serves the local mock site; set SINGLISH_E2E_LIVE_URL to run the
// suite against a live deployment instead.
package browser

import (
	"context"
	"net/http/httptest"
	"os"
	"sync"
	"testing"

	"github.com/playwright-community/playwright-go"

	"github.com/pramodya/singlish-e2e/internal/config"
	"github.com/pramodya/singlish-e2e/internal/mocksite"
	"github.com/pramodya/singlish-e2e/internal/scenario"
	"github.com/pramodya/singlish-e2e/internal/translit"
)

var fixtureMu sync.Mutex
var sharedFixture *TestEnv

// TestEnv is the shared test environment: one mock-site server (unless a live
// URL is configured), one Playwright instance, one browser, one page.
type TestEnv struct {
	Server *httptest.Server // nil when targeting a live site
	Config *config.Config

	pw      *playwright.Playwright
	browser playwright.Browser

	pageMu sync.Mutex
	page   playwright.Page
	driver *translit.Driver
}

// SetupTestEnv returns the shared test environment, creating it on first use.
func SetupTestEnv(t *testing.T) *TestEnv {
	t.Helper()

	fixtureMu.Lock()
	defer fixtureMu.Unlock()

	if sharedFixture != nil {
		return sharedFixture
	}

	env := &TestEnv{}
	if live := os.Getenv("SINGLISH_E2E_LIVE_URL"); live != "" {
		cfg := config.ForTesting(live)
		if v := os.Getenv("SINGLISH_E2E_INPUT_NAME"); v != "" {
			cfg.InputName = v
		}
		if v := os.Getenv("SINGLISH_E2E_OUTPUT_SELECTOR"); v != "" {
			cfg.OutputSelector = v
		}
		env.Config = cfg
	} else {
		handler, err := mocksite.New(scenario.Suite(), mocksite.Options{})
		if err != nil {
			t.Fatalf("Failed to build mock site: %v", err)
		}
		env.Server = httptest.NewServer(handler)
		env.Config = config.ForTesting(env.Server.URL)
	}

	sharedFixture = env
	return env
}

// InitBrowser initializes Playwright and launches Chromium. Skips the test if
// not available.
func (env *TestEnv) InitBrowser(t *testing.T) {
	t.Helper()

	env.pageMu.Lock()
	defer env.pageMu.Unlock()

	if env.browser != nil {
		return
	}

	pw, err := playwright.Run()
	if err != nil {
		t.Skip("Playwright not available:", err)
	}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
	})
	if err != nil {
		_ = pw.Stop()
		t.Skip("Could not launch browser:", err)
	}
	env.pw = pw
	env.browser = browser
}

// AcquireSession returns the single shared driver session, creating and
// navigating it on first use. The returned release func must be deferred;
// it serializes tests against the shared page.
func (env *TestEnv) AcquireSession(t *testing.T) (*translit.Driver, func()) {
	t.Helper()

	env.InitBrowser(t)

	env.pageMu.Lock()
	if env.page == nil {
		page, err := env.browser.NewPage()
		if err != nil {
			env.pageMu.Unlock()
			t.Fatalf("could not create page: %v", err)
		}
		env.page = page
		env.driver = translit.New(page, env.Config)
		if err := env.driver.Navigate(context.Background()); err != nil {
			env.pageMu.Unlock()
			t.Fatalf("could not open site under test: %v", err)
		}
	}
	return env.driver, env.pageMu.Unlock
}

// NewDriverFor opens a dedicated page against the given config, for tests
// that need a site variant (frozen output, bad locators) without disturbing
// the shared session. The page is closed via t.Cleanup.
func (env *TestEnv) NewDriverFor(t *testing.T, cfg *config.Config) *translit.Driver {
	t.Helper()

	env.InitBrowser(t)

	env.pageMu.Lock()
	defer env.pageMu.Unlock()

	page, err := env.browser.NewPage()
	if err != nil {
		t.Fatalf("could not create page: %v", err)
	}
	t.Cleanup(func() { _ = page.Close() })
	return translit.New(page, cfg)
}

// StartMockSite serves a mock-site variant for the duration of the test and
// returns its base URL.
func StartMockSite(t *testing.T, opts mocksite.Options) string {
	t.Helper()

	handler, err := mocksite.New(scenario.Suite(), opts)
	if err != nil {
		t.Fatalf("Failed to build mock site: %v", err)
	}
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server.URL
}

func cleanupSharedTestEnv() {
	fixtureMu.Lock()
	defer fixtureMu.Unlock()

	if sharedFixture == nil {
		return
	}
	if sharedFixture.browser != nil {
		_ = sharedFixture.browser.Close()
	}
	if sharedFixture.pw != nil {
		_ = sharedFixture.pw.Stop()
	}
	if sharedFixture.Server != nil {
		sharedFixture.Server.Close()
	}
	sharedFixture = nil
}

func TestMain(m *testing.M) {
	code := m.Run()
	cleanupSharedTestEnv()
	os.Exit(code)
}
