// Package scenario defines the fixed table of transliteration test cases.
//
// The table is the suite's fixture, not a protocol: each row pairs a Singlish
// input with the Sinhala output the site is expected to render. Rows tagged
// "edge" document behavior the site is known to get wrong or that sits outside
// any stated contract (mixed Latin tokens, digits, bare punctuation); they are
// still asserted exactly so a change in site behavior is noticed.
package scenario

import (
	"fmt"
	"strings"
)

// Classification tags.
const (
	TagCore        = "core"        // expected-correct transliteration
	TagEdge        = "edge"        // known-divergent / edge-case behavior
	TagIncremental = "incremental" // typed key-by-key rather than in one fill
)

// Scenario is one input/expected-output test case with metadata.
// Scenarios are created at suite-definition time and never mutated.
type Scenario struct {
	ID       string
	Name     string
	Input    string
	Expected string
	Tags     []string

	// SplitAt is the prefix length typed with inter-key delay before the
	// rest of the input is sent. Zero means the input is applied in a
	// single atomic fill.
	SplitAt int
}

// HasTag reports whether the scenario carries the given classification tag.
func (s Scenario) HasTag(tag string) bool {
	for _, t := range s.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Incremental reports whether the scenario is typed key-by-key.
func (s Scenario) Incremental() bool {
	return s.SplitAt > 0
}

// Prefix returns the part of the input typed before the intermediate
// output check. Only meaningful for incremental scenarios.
func (s Scenario) Prefix() string {
	if s.SplitAt <= 0 || s.SplitAt >= len(s.Input) {
		return s.Input
	}
	return s.Input[:s.SplitAt]
}

// Suffix returns the remainder of the input typed after the intermediate
// output check.
func (s Scenario) Suffix() string {
	if s.SplitAt <= 0 || s.SplitAt >= len(s.Input) {
		return ""
	}
	return s.Input[s.SplitAt:]
}

var suite = []Scenario{
	{
		ID:       "greeting",
		Name:     "greeting with punctuation",
		Input:    "aayuboovan!",
		Expected: "ආයුබෝවන්!",
		Tags:     []string{TagCore},
	},
	{
		ID:       "spacing",
		Name:     "internal spacing is preserved",
		Input:    "mama   gedhara    yanavaa.",
		Expected: "මම   ගෙදර    යනවා.",
		Tags:     []string{TagCore},
	},
	{
		ID:       "question",
		Name:     "question sentence",
		Input:    "oyaata kohomadha?",
		Expected: "ඔයාට කොහොමද?",
		Tags:     []string{TagCore},
	},
	{
		ID:       "thanks",
		Name:     "single word",
		Input:    "sthuthiyi",
		Expected: "ස්තුතියි",
		Tags:     []string{TagCore},
	},
	{
		ID:       "plain-sentence",
		Name:     "plain declarative sentence",
		Input:    "api heta hamuvemu",
		Expected: "අපි හෙට හමුවෙමු",
		Tags:     []string{TagCore},
	},
	{
		ID:       "adjective",
		Name:     "sentence with adjective",
		Input:    "lankaava lassanayi",
		Expected: "ලංකාව ලස්සනයි",
		Tags:     []string{TagCore},
	},
	{
		ID:       "repeated-word",
		Name:     "repeated word settles once",
		Input:    "haa haa haa",
		Expected: "හා හා හා",
		Tags:     []string{TagCore},
	},
	{
		ID:       "mixed-latin",
		Name:     "unknown Latin token passes through",
		Input:    "mama office yanavaa",
		Expected: "මම office යනවා",
		Tags:     []string{TagEdge},
	},
	{
		ID:       "digits",
		Name:     "digits pass through",
		Input:    "adha 2024 avurudhdha!",
		Expected: "අද 2024 අවුරුද්ද!",
		Tags:     []string{TagEdge},
	},
	{
		ID:       "punctuation-only",
		Name:     "bare punctuation echoes",
		Input:    "?!",
		Expected: "?!",
		Tags:     []string{TagEdge},
	},
	{
		ID:       "typing",
		Name:     "incremental typing settles to final sentence",
		Input:    "mama gedhara yanavaa",
		Expected: "මම ගෙදර යනවා",
		Tags:     []string{TagIncremental},
		SplitAt:  len("mama ge"),
	},
}

// Suite returns a copy of the full ordered scenario table.
func Suite() []Scenario {
	out := make([]Scenario, len(suite))
	copy(out, suite)
	return out
}

// ByTag returns the scenarios carrying the given tag, in table order.
func ByTag(tag string) []Scenario {
	var out []Scenario
	for _, s := range suite {
		if s.HasTag(tag) {
			out = append(out, s)
		}
	}
	return out
}

// Validate checks the table for structural mistakes: duplicate or empty IDs,
// empty inputs or expectations, incremental splits out of range, and tags
// outside the known set.
func Validate(scenarios []Scenario) error {
	known := map[string]bool{TagCore: true, TagEdge: true, TagIncremental: true}
	seen := make(map[string]bool, len(scenarios))
	for i, s := range scenarios {
		if strings.TrimSpace(s.ID) == "" {
			return fmt.Errorf("scenario %d: empty id", i)
		}
		if seen[s.ID] {
			return fmt.Errorf("scenario %q: duplicate id", s.ID)
		}
		seen[s.ID] = true
		if s.Input == "" {
			return fmt.Errorf("scenario %q: empty input", s.ID)
		}
		if s.Expected == "" {
			return fmt.Errorf("scenario %q: empty expected output", s.ID)
		}
		if s.Expected != strings.TrimSpace(s.Expected) {
			return fmt.Errorf("scenario %q: expected output has leading or trailing whitespace", s.ID)
		}
		if len(s.Tags) == 0 {
			return fmt.Errorf("scenario %q: no classification tags", s.ID)
		}
		for _, tag := range s.Tags {
			if !known[tag] {
				return fmt.Errorf("scenario %q: unknown tag %q", s.ID, tag)
			}
		}
		if s.SplitAt < 0 || s.SplitAt >= len(s.Input) {
			if s.SplitAt != 0 {
				return fmt.Errorf("scenario %q: split %d out of range for input length %d", s.ID, s.SplitAt, len(s.Input))
			}
		}
		if s.Incremental() != s.HasTag(TagIncremental) {
			return fmt.Errorf("scenario %q: incremental tag and split disagree", s.ID)
		}
	}
	return nil
}
