package casename

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/meshintel/briefcite/pkg/types"
)

func newTestEngine() *Engine {
	return New(types.ExtractionConfig{})
}

func TestExtractContextStrategy(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		citation string
		wantName string
		wantYear string
	}{
		{
			name:     "corporate parties",
			text:     "The court agreed. Convoyant, LLC v. DeepThink, LLC, 200 Wn.2d 72, 73, 514 P.3d 643 (2022).",
			citation: "200 Wn.2d 72",
			wantName: "Convoyant, LLC v. DeepThink, LLC",
			wantYear: "2022",
		},
		{
			name:     "party v state",
			text:     "We follow Davison v. State, 196 Wn.2d 285, 293, 466 P.3d 231 (2020) on this point.",
			citation: "196 Wn.2d 285",
			wantName: "Davison v. State",
			wantYear: "2020",
		},
		{
			name:     "state v party",
			text:     "As explained in State v. Gregory, 192 Wn.2d 1 (2018), the statute controls.",
			citation: "192 Wn.2d 1",
			wantName: "State v. Gregory",
			wantYear: "2018",
		},
		{
			name:     "united states v party",
			text:     "Compare United States v. Lopez, 514 U.S. 549 (1995).",
			citation: "514 U.S. 549",
			wantName: "United States v. Lopez",
			wantYear: "1995",
		},
		{
			name:     "in re",
			text:     "That follows In re Marriage of Littlefield, 133 Wn.2d 39 (1997).",
			citation: "133 Wn.2d 39",
			wantName: "In re Marriage of Littlefield",
			wantYear: "1997",
		},
		{
			name:     "signal word stripped",
			text:     "See Lakehaven Water & Sewer Dist. v. City of Fed. Way, 195 Wn.2d 742 (2020).",
			citation: "195 Wn.2d 742",
			wantName: "Lakehaven Water & Sewer Dist. v. City of Fed. Way",
			wantYear: "2020",
		},
		{
			name:     "abbreviations kept atomic",
			text:     "Accord Dep't of Ecology v. Campbell & Gwinn, LLC, 146 Wn.2d 1 (2002).",
			citation: "146 Wn.2d 1",
			wantName: "Dep't of Ecology v. Campbell & Gwinn, LLC",
			wantYear: "2002",
		},
	}

	engine := newTestEngine()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start := strings.Index(tt.text, tt.citation)
			if start < 0 {
				t.Fatalf("fixture does not contain citation %q", tt.citation)
			}
			res := engine.Extract(tt.text, tt.citation, start, start+len(tt.citation))

			if res.CaseName != tt.wantName {
				t.Errorf("CaseName = %q, want %q (method %s)", res.CaseName, tt.wantName, res.Method)
			}
			if res.Year != tt.wantYear {
				t.Errorf("Year = %q, want %q", res.Year, tt.wantYear)
			}
			if res.Strategy != types.StrategyContext {
				t.Errorf("Strategy = %q, want context", res.Strategy)
			}
			if res.Confidence <= 0 || res.Confidence > 1 {
				t.Errorf("Confidence = %f, want (0,1]", res.Confidence)
			}
		})
	}
}

func TestExtractNoPrecedingText(t *testing.T) {
	engine := newTestEngine()
	text := "200 Wn.2d 72, 73 is the pincite form."
	res := engine.Extract(text, "200 Wn.2d 72", 0, len("200 Wn.2d 72"))

	if res.CaseName != "" {
		t.Errorf("CaseName = %q, want empty", res.CaseName)
	}
	if res.Method != "no_match" {
		t.Errorf("Method = %q, want no_match", res.Method)
	}
	if res.Confidence != 0 {
		t.Errorf("Confidence = %f, want 0", res.Confidence)
	}
}

func TestExtractGlobalStrategy(t *testing.T) {
	// The only case name sits far beyond the pattern window, so the cascade
	// falls through to the global document scan.
	engine := newTestEngine()
	name := "State v. Arlene's Flowers, Inc."
	text := name + ", cited earlier in this brief. " + strings.Repeat("The argument continues without naming any case. ", 12) + "187 Wn.2d 804."
	citation := "187 Wn.2d 804"
	start := strings.Index(text, citation)

	res := engine.Extract(text, citation, start, start+len(citation))
	if res.Strategy != types.StrategyGlobal {
		t.Fatalf("Strategy = %q, want global (method %s)", res.Strategy, res.Method)
	}
	if !strings.HasPrefix(res.CaseName, "State v. Arlene's Flowers") {
		t.Errorf("CaseName = %q, want prefix %q", res.CaseName, "State v. Arlene's Flowers")
	}
}

func TestExtractGlobalStrategyYearNearName(t *testing.T) {
	// When the global scan resolves a name far from the citation, the year
	// search anchors at the name's own occurrence, where its parenthetical
	// year lives; nothing near the citation carries a year at all.
	engine := newTestEngine()
	text := "United States v. Lopez (1995) held otherwise. " +
		strings.Repeat("the argument continues without naming any case. ", 12) +
		"the commerce analysis, 514 U.S. 549, governs."
	citation := "514 U.S. 549"
	start := strings.Index(text, citation)

	res := engine.Extract(text, citation, start, start+len(citation))
	if res.Strategy != types.StrategyGlobal {
		t.Fatalf("Strategy = %q, want global (method %s)", res.Strategy, res.Method)
	}
	if res.CaseName != "United States v. Lopez" {
		t.Errorf("CaseName = %q, want %q", res.CaseName, "United States v. Lopez")
	}
	if res.Year != "1995" {
		t.Errorf("Year = %q, want 1995 from the name's own parenthetical", res.Year)
	}
}

func TestExtractDeterministic(t *testing.T) {
	engine := newTestEngine()
	text := "See Davison v. State, 196 Wn.2d 285 (2020)."
	citation := "196 Wn.2d 285"
	start := strings.Index(text, citation)

	first := engine.Extract(text, citation, start, start+len(citation))
	second := engine.Extract(text, citation, start, start+len(citation))
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Extract is not deterministic:\nfirst:  %+v\nsecond: %+v", first, second)
	}

	// And the same holds across engines (the cache must not change results).
	third := newTestEngine().Extract(text, citation, start, start+len(citation))
	if first.CaseName != third.CaseName || first.Year != third.Year || first.Confidence != third.Confidence {
		t.Errorf("cold-cache result differs: %+v vs %+v", first, third)
	}
}

func TestExtractBySearch(t *testing.T) {
	engine := newTestEngine()
	text := "See State v. Gregory, 192 Wn.2d 1 (2018)."

	res, err := engine.ExtractBySearch(text, "192 Wn.2d 1")
	if err != nil {
		t.Fatalf("ExtractBySearch: %v", err)
	}
	if res.CaseName != "State v. Gregory" {
		t.Errorf("CaseName = %q, want %q", res.CaseName, "State v. Gregory")
	}

	_, err = engine.ExtractBySearch(text, "999 F.3d 1")
	if !errors.Is(err, ErrCitationNotFound) {
		t.Errorf("missing citation: err = %v, want ErrCitationNotFound", err)
	}
}

func TestExtractValidationInvariant(t *testing.T) {
	fixtures := map[string]string{
		"See Convoyant, LLC v. DeepThink, LLC, 200 Wn.2d 72 (2022).": "200 Wn.2d 72",
		"Accord In re Marriage of Littlefield, 133 Wn.2d 39 (1997).": "133 Wn.2d 39",
		"Cf. United States v. Lopez, 514 U.S. 549 (1995).":           "514 U.S. 549",
	}
	engine := newTestEngine()
	markers := []string{"v.", "vs.", "versus", "In re", "Estate of", "Matter of", "Ex parte"}

	for text, c := range fixtures {
		res, err := engine.ExtractBySearch(text, c)
		if err != nil {
			t.Fatalf("ExtractBySearch(%q): %v", c, err)
		}
		if res.CaseName == "" {
			continue
		}
		if n := len(res.CaseName); n < 5 || n > 150 {
			t.Errorf("accepted name %q has length %d outside [5,150]", res.CaseName, n)
		}
		hasMarker := false
		for _, m := range markers {
			if strings.Contains(res.CaseName, m) {
				hasMarker = true
				break
			}
		}
		if !hasMarker {
			t.Errorf("accepted name %q lacks a versus-style marker", res.CaseName)
		}
	}
}
