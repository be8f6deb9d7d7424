// Package mocksite serves a local stand-in for the hosted transliteration
// page, so the suite runs hermetically by default and only touches the live
// site when asked to.
//
// The page mimics the behaviors the driver's settlement contract exists for:
// output updates arrive asynchronously after a configurable delay, and
// clearing the input transiently blanks the output. The transliteration
// itself is a lookup over the scenario table (full-string map first, then a
// word-level map, then echo), not an algorithm.
package mocksite

import (
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"regexp"
	"strconv"
	"time"

	"github.com/pramodya/singlish-e2e/internal/config"
	"github.com/pramodya/singlish-e2e/internal/scenario"
)

// Options configures the mock page's behavior.
type Options struct {
	InputName   string        // accessible name of the textbox (default config.DefaultInputName)
	OutputClass string        // class of the output div (default derived from config.DefaultOutputSelector)
	UpdateDelay time.Duration // delay before the output reflects the input (default 50ms)

	// Frozen serves a page whose output never updates, for exercising
	// settlement timeouts.
	Frozen bool
}

var pageTmpl = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="si">
<head>
<meta charset="utf-8">
<title>Singlish to Sinhala</title>
</head>
<body>
<main>
<h1>Singlish to Sinhala</h1>
<textarea id="singlish-input" aria-label="{{.InputName}}" rows="6" cols="60"></textarea>
<div class="{{.OutputClass}}" id="sinhala-output"></div>
</main>
<script>
const fullMap = {{.FullMap}};
const wordMap = {{.WordMap}};
const delayMS = {{.DelayMS}};
const frozen = {{.Frozen}};
const input = document.getElementById('singlish-input');
const output = document.getElementById('sinhala-output');
let pending = null;

function transliterate(value) {
  if (value === '') {
    return '';
  }
  if (Object.prototype.hasOwnProperty.call(fullMap, value)) {
    return fullMap[value];
  }
  return value.replace(/\S+/g, function (word) {
    return Object.prototype.hasOwnProperty.call(wordMap, word) ? wordMap[word] : word;
  });
}

if (!frozen) {
  input.addEventListener('input', function () {
    const value = input.value;
    if (pending !== null) {
      clearTimeout(pending);
    }
    pending = setTimeout(function () {
      pending = null;
      output.textContent = transliterate(value);
    }, delayMS);
  });
}
</script>
</body>
</html>
`))

type pageData struct {
	InputName   string
	OutputClass string
	FullMap     template.JS
	WordMap     template.JS
	DelayMS     int64
	Frozen      template.JS
}

// New builds a handler serving the mock page for the given scenario pairs.
func New(scenarios []scenario.Scenario, opts Options) (http.Handler, error) {
	if opts.InputName == "" {
		opts.InputName = config.DefaultInputName
	}
	if opts.OutputClass == "" {
		opts.OutputClass = "translit-output"
	}
	if opts.UpdateDelay <= 0 {
		opts.UpdateDelay = 50 * time.Millisecond
	}

	fullMap := make(map[string]string, len(scenarios))
	wordMap := make(map[string]string)
	tokens := regexp.MustCompile(`\S+`)
	for _, s := range scenarios {
		fullMap[s.Input] = s.Expected
		in := tokens.FindAllString(s.Input, -1)
		out := tokens.FindAllString(s.Expected, -1)
		if len(in) != len(out) {
			continue
		}
		for i := range in {
			wordMap[in[i]] = out[i]
		}
	}

	fullJSON, err := json.Marshal(fullMap)
	if err != nil {
		return nil, fmt.Errorf("marshal full map: %w", err)
	}
	wordJSON, err := json.Marshal(wordMap)
	if err != nil {
		return nil, fmt.Errorf("marshal word map: %w", err)
	}

	data := pageData{
		InputName:   opts.InputName,
		OutputClass: opts.OutputClass,
		FullMap:     template.JS(fullJSON),
		WordMap:     template.JS(wordJSON),
		DelayMS:     opts.UpdateDelay.Milliseconds(),
		Frozen:      template.JS(strconv.FormatBool(opts.Frozen)),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := pageTmpl.Execute(w, data); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	})
	return mux, nil
}
