package toa

import (
	"context"
	"reflect"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/meshintel/briefcite/pkg/types"
)

func newTestParser() *Parser {
	return NewParser(types.ToAConfig{})
}

const sampleBrief = `SUPREME COURT OF WASHINGTON

TABLE OF AUTHORITIES

Cases                                                              Page

Cathcart v. Andersen, 85 Wn.2d 102 (1975) ..... 32
Convoyant, LLC v. DeepThink, LLC, 200 Wn.2d 72, 514 P.3d 643 (2022) ... 7, 12
In re Marriage of Littlefield, 133 Wn.2d 39 (1997) ........ 19

ARGUMENT

The trial court erred. See Cathcart v. Andersen, 85 Wn.2d 102, 107 (1975).
`

func TestParseStructuredTable(t *testing.T) {
	entries := newTestParser().Parse(context.Background(), sampleBrief)

	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3: %+v", len(entries), entries)
	}

	first := entries[0]
	if first.CaseName != "Cathcart v. Andersen" {
		t.Errorf("CaseName = %q, want %q", first.CaseName, "Cathcart v. Andersen")
	}
	if !reflect.DeepEqual(first.Citations, []string{"85 Wn.2d 102"}) {
		t.Errorf("Citations = %v, want [85 Wn.2d 102]", first.Citations)
	}
	if !reflect.DeepEqual(first.Years, []string{"1975"}) {
		t.Errorf("Years = %v, want [1975]", first.Years)
	}
	if !reflect.DeepEqual(first.PageNumbers, []string{"32"}) {
		t.Errorf("PageNumbers = %v, want [32]", first.PageNumbers)
	}
	if first.Confidence < 0.9 {
		t.Errorf("Confidence = %f, want >= 0.9 for structured entry", first.Confidence)
	}

	parallel := entries[1]
	if len(parallel.Citations) != 2 {
		t.Errorf("parallel entry Citations = %v, want both reporters", parallel.Citations)
	}
	if !reflect.DeepEqual(parallel.PageNumbers, []string{"7", "12"}) {
		t.Errorf("PageNumbers = %v, want [7 12]", parallel.PageNumbers)
	}

	inre := entries[2]
	if inre.CaseName != "In re Marriage of Littlefield" {
		t.Errorf("CaseName = %q, want %q", inre.CaseName, "In re Marriage of Littlefield")
	}
}

func TestParseSectionEndsAtArgument(t *testing.T) {
	entries := newTestParser().Parse(context.Background(), sampleBrief)
	for _, e := range entries {
		if strings.Contains(e.SourceLine, "trial court erred") {
			t.Errorf("entry leaked past section end: %q", e.SourceLine)
		}
	}
}

func TestParseNoTable(t *testing.T) {
	doc := "This memorandum cites State v. Gregory, 192 Wn.2d 1 (2018), but has no front matter."
	if entries := newTestParser().Parse(context.Background(), doc); entries != nil {
		t.Errorf("got %d entries for document without a table, want none", len(entries))
	}
}

func TestParseWrappedEntryReattached(t *testing.T) {
	doc := `TABLE OF AUTHORITIES

Lakehaven Water & Sewer Dist.
v. City of Fed. Way, 195 Wn.2d 742, 466 P.3d 213 (2020) ..... 9

ARGUMENT
`
	entries := newTestParser().Parse(context.Background(), doc)
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1: %+v", len(entries), entries)
	}
	if !strings.HasPrefix(entries[0].CaseName, "Lakehaven Water & Sewer Dist.") {
		t.Errorf("CaseName = %q, want wrapped name reattached", entries[0].CaseName)
	}
	if len(entries[0].Citations) != 2 {
		t.Errorf("Citations = %v, want both parallel reporters", entries[0].Citations)
	}
}

func TestParseMatterOfEntry(t *testing.T) {
	doc := `AUTHORITIES CITED

Matter of Welfare of A.B., 168 Wn.2d 908 (2010) 22

ARGUMENT
`
	entries := newTestParser().Parse(context.Background(), doc)
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1: %+v", len(entries), entries)
	}
	if entries[0].CaseName != "Matter of Welfare of A.B." {
		t.Errorf("CaseName = %q", entries[0].CaseName)
	}
	if len(entries[0].Years) == 0 || entries[0].Years[0] != "2010" {
		t.Errorf("Years = %v, want [2010]", entries[0].Years)
	}
}

func TestSplitEntryLooseFallback(t *testing.T) {
	// No versus pair and no procedural prefix: only the loose
	// text-before-comma shape applies, at reduced confidence.
	name, citePart, conf := splitEntry("Seattle School Funding Decision, 90 Wn.2d 476 (1978)")
	if name != "Seattle School Funding Decision" {
		t.Errorf("name = %q", name)
	}
	if !strings.Contains(citePart, "90 Wn.2d 476") {
		t.Errorf("citePart = %q", citePart)
	}
	if conf != 0.5 {
		t.Errorf("confidence = %f, want 0.5", conf)
	}
}

func TestParseCapsCitationsAndYears(t *testing.T) {
	var cites []string
	for i := 1; i <= 15; i++ {
		cites = append(cites, "10 Wn.2d "+strconv.Itoa(i))
	}
	doc := "TABLE OF AUTHORITIES\n\nSmith v. Jones, " + strings.Join(cites, ", ") + " (1990) (1991) (1992) (1993) (1994) ..... 3\n\nARGUMENT\n"

	entries := newTestParser().Parse(context.Background(), doc)
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	if len(entries[0].Citations) > 10 {
		t.Errorf("citations not capped: %d", len(entries[0].Citations))
	}
	if len(entries[0].Years) > 3 {
		t.Errorf("years not capped: %d", len(entries[0].Years))
	}
}

func TestParseAdversarialInputTerminates(t *testing.T) {
	if testing.Short() {
		t.Skip("1MB adversarial input")
	}
	// Over 1MB of repetitive near-miss structure with no valid table; the
	// parse must return within its budget instead of hanging.
	junk := strings.Repeat("v. v. v. 1234 , , , (((( TABLE v. OF v. ", 32*1024)

	p := NewParser(types.ToAConfig{
		SectionTimeout: 2 * time.Second,
		ParseTimeout:   5 * time.Second,
		ChunkTimeout:   time.Second,
	})

	start := time.Now()
	p.Parse(context.Background(), junk)
	if elapsed := time.Since(start); elapsed > 10*time.Second {
		t.Errorf("parse took %v, want bounded by the configured budget", elapsed)
	}
}
