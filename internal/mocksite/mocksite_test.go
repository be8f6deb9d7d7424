// HTTP-level tests for the mock page. These don't require a browser and run
// quickly; the behavioral checks (async updates, transient blanking) live in
// the browser suite.
package mocksite

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pramodya/singlish-e2e/internal/scenario"
)

func servePage(t *testing.T, opts Options) string {
	t.Helper()

	handler, err := New(scenario.Suite(), opts)
	if err != nil {
		t.Fatalf("Failed to build mock site: %v", err)
	}
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	resp, err := http.Get(server.URL + "/")
	if err != nil {
		t.Fatalf("Failed to get page: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Failed to read body: %v", err)
	}
	return string(body)
}

func TestPage_ExposesConfiguredControls(t *testing.T) {
	body := servePage(t, Options{})

	checks := []struct {
		name     string
		expected string
	}{
		{"textbox accessible name", `aria-label="Singlish input"`},
		{"output region class", `class="translit-output"`},
		{"input listener", "addEventListener('input'"},
	}
	for _, check := range checks {
		if !strings.Contains(body, check.expected) {
			t.Errorf("%s not found in page", check.name)
		}
	}
}

func TestPage_EmbedsScenarioTable(t *testing.T) {
	body := servePage(t, Options{})

	// Full-string map: exact inputs with their expected outputs.
	if !strings.Contains(body, "aayuboovan!") || !strings.Contains(body, "ආයුබෝවන්!") {
		t.Error("greeting pair not embedded in page")
	}
	// Word map: tokens from aligned sentences.
	if !strings.Contains(body, `"gedhara"`) {
		t.Error("word map entry for gedhara not embedded in page")
	}
}

func TestPage_CustomDescriptors(t *testing.T) {
	body := servePage(t, Options{InputName: "Type Singlish here", OutputClass: "output-pane"})

	if !strings.Contains(body, `aria-label="Type Singlish here"`) {
		t.Error("custom accessible name not rendered")
	}
	if !strings.Contains(body, `class="output-pane"`) {
		t.Error("custom output class not rendered")
	}
}

func TestPage_FrozenOmitsUpdates(t *testing.T) {
	body := servePage(t, Options{Frozen: true})

	if !strings.Contains(body, "const frozen = true") {
		t.Error("frozen flag not rendered into page script")
	}
}

func TestHealthEndpoint(t *testing.T) {
	handler, err := New(scenario.Suite(), Options{})
	if err != nil {
		t.Fatalf("Failed to build mock site: %v", err)
	}
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	resp, err := http.Get(server.URL + "/health")
	if err != nil {
		t.Fatalf("Failed to get health endpoint: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}
}
