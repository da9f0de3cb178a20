package cluster

import (
	"testing"

	"github.com/meshintel/briefcite/pkg/types"
)

func result(citation, name, year string, start int, patternID string) types.ExtractionResult {
	return types.ExtractionResult{
		Citation: citation,
		CaseName: name,
		Year:     year,
		Span: types.CitationSpan{
			Text:      citation,
			Start:     start,
			End:       start + len(citation),
			PatternID: patternID,
		},
		Confidence: 0.8,
	}
}

func TestClusterByNameAndYear(t *testing.T) {
	results := []types.ExtractionResult{
		result("195 Wn.2d 742", "Lakehaven Water & Sewer Dist. v. City of Fed. Way", "2020", 100, "wn2d"),
		result("466 P.3d 213", "Lakehaven Water & Sewer Dist. v. City of Fed. Way", "2020", 130, "p"),
		result("192 Wn.2d 1", "State v. Gregory", "2018", 500, "wn2d"),
	}

	res := New(types.ClusterConfig{}).Cluster("", results, nil)

	if len(res.Clusters) != 1 {
		t.Fatalf("got %d clusters, want 1: %+v", len(res.Clusters), res.Clusters)
	}
	cl := res.Clusters[0]
	if cl.Rule != "name_year" {
		t.Errorf("Rule = %q, want name_year", cl.Rule)
	}
	if len(cl.Members) != 2 {
		t.Errorf("got %d members, want 2", len(cl.Members))
	}
	if cl.CaseName != "Lakehaven Water & Sewer Dist. v. City of Fed. Way" || cl.Year != "2020" {
		t.Errorf("propagated name/year = %q / %q", cl.CaseName, cl.Year)
	}
	if len(res.Singletons) != 1 || res.Singletons[0].Citation != "192 Wn.2d 1" {
		t.Errorf("Singletons = %+v, want the Gregory citation alone", res.Singletons)
	}
}

func TestClusterByNameWhenYearsDiffer(t *testing.T) {
	results := []types.ExtractionResult{
		result("384 U.S. 436", "Miranda v. Arizona", "1966", 10, "us"),
		result("86 S. Ct. 1602", "Miranda v. Arizona", "", 40, "sct"),
	}

	res := New(types.ClusterConfig{}).Cluster("", results, nil)
	if len(res.Clusters) != 1 {
		t.Fatalf("got %d clusters, want 1", len(res.Clusters))
	}
	if res.Clusters[0].Rule != "name" {
		t.Errorf("Rule = %q, want name", res.Clusters[0].Rule)
	}
	if res.Clusters[0].Year != "1966" {
		t.Errorf("Year = %q, want last non-empty member year 1966", res.Clusters[0].Year)
	}
}

func TestClusterByProximityWithReporterPairing(t *testing.T) {
	// Scenario: two citations within 50 characters referencing the same
	// case, but only the first carries an extracted name.
	doc := "Lakehaven Water & Sewer Dist. v. City of Fed. Way, 195 Wn.2d 742, 773, 466 P.3d 213 (2020)."
	first := result("195 Wn.2d 742", "Lakehaven Water & Sewer Dist. v. City of Fed. Way", "2020", 52, "wn2d")
	second := result("466 P.3d 213", "", "2020", 72, "p")

	res := New(types.ClusterConfig{}).Cluster(doc, []types.ExtractionResult{first, second}, nil)
	if len(res.Clusters) != 1 {
		t.Fatalf("got %d clusters, want 1: singletons %+v", len(res.Clusters), res.Singletons)
	}
	cl := res.Clusters[0]
	if cl.Rule != "proximity" {
		t.Errorf("Rule = %q, want proximity", cl.Rule)
	}
	if cl.CaseName != first.CaseName {
		t.Errorf("CaseName = %q, want first member's name propagated", cl.CaseName)
	}
	if cl.Year != "2020" {
		t.Errorf("Year = %q, want 2020", cl.Year)
	}
}

func TestClusterProximityRequiresConfirmation(t *testing.T) {
	// Adjacent but unrelated reporters with no indicator between them and
	// no recognized pairing must not cluster.
	doc := "See 12 Bankr. 345; unrelated text; 34 Clev. 567 follows."
	a := result("12 Bankr. 345", "", "", 4, "generic")
	b := result("34 Clev. 567", "", "", 36, "generic")

	res := New(types.ClusterConfig{}).Cluster(doc, []types.ExtractionResult{a, b}, nil)
	if len(res.Clusters) != 0 {
		t.Errorf("got %d clusters, want 0", len(res.Clusters))
	}
	if len(res.Singletons) != 2 {
		t.Errorf("got %d singletons, want 2", len(res.Singletons))
	}
}

func TestClusterProximityLinguisticIndicator(t *testing.T) {
	doc := "12 Bankr. 345; see also 34 Clev. 567 for the same holding."
	a := result("12 Bankr. 345", "", "", 0, "generic")
	b := result("34 Clev. 567", "", "", 25, "generic")

	res := New(types.ClusterConfig{}).Cluster(doc, []types.ExtractionResult{a, b}, nil)
	if len(res.Clusters) != 1 {
		t.Fatalf("got %d clusters, want 1", len(res.Clusters))
	}
}

func TestClusterPairHint(t *testing.T) {
	doc := "200 Wn.2d 72, 73, 514 P.3d 643"
	a := result("200 Wn.2d 72", "", "", 0, "wn2d")
	b := result("514 P.3d 643", "", "", 18, "p")
	hints := []types.PairHint{{First: 0, Second: 1}}

	res := New(types.ClusterConfig{}).Cluster(doc, []types.ExtractionResult{a, b}, hints)
	if len(res.Clusters) != 1 {
		t.Fatalf("got %d clusters, want 1", len(res.Clusters))
	}
}

func TestClusterSimilaritySafetyNet(t *testing.T) {
	// Proximate and reporter-paired, but the extracted names disagree:
	// propagating either name would be wrong, so no cluster forms.
	doc := "State v. Gregory, 192 Wn.2d 1; Davison v. State, 466 P.3d 231."
	a := result("192 Wn.2d 1", "State v. Gregory", "2018", 18, "wn2d")
	b := result("466 P.3d 231", "Davison v. State", "2020", 49, "p")

	res := New(types.ClusterConfig{}).Cluster(doc, []types.ExtractionResult{a, b}, nil)
	if len(res.Clusters) != 0 {
		t.Errorf("got %d clusters, want 0 (names disagree): %+v", len(res.Clusters), res.Clusters)
	}
}

func TestClusterVerificationPropagates(t *testing.T) {
	results := []types.ExtractionResult{
		result("195 Wn.2d 742", "Lakehaven v. Fed. Way", "2020", 0, "wn2d"),
		result("466 P.3d 213", "Lakehaven v. Fed. Way", "2020", 30, "p"),
	}
	res := New(types.ClusterConfig{}).Cluster("", results, nil)
	if len(res.Clusters) != 1 {
		t.Fatalf("got %d clusters, want 1", len(res.Clusters))
	}

	cl := res.Clusters[0]
	MarkVerified(&cl, func(citation string) bool { return citation == "466 P.3d 213" })
	if !cl.Verified {
		t.Errorf("cluster not marked verified although one member is")
	}
}

func TestJaccard(t *testing.T) {
	tests := []struct {
		a, b string
		min  float64
		max  float64
	}{
		{"State v. Gregory", "State v. Gregory", 1.0, 1.0},
		{"State v. Gregory", "Davison v. State", 0.0, 0.6},
		{"Lakehaven Water & Sewer Dist. v. City of Fed. Way", "Lakehaven Water Sewer Dist v City of Fed Way", 0.7, 1.0},
	}
	for _, tt := range tests {
		got := jaccard(tt.a, tt.b)
		if got < tt.min || got > tt.max {
			t.Errorf("jaccard(%q, %q) = %f, want in [%f,%f]", tt.a, tt.b, got, tt.min, tt.max)
		}
	}
}
