package verify

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/meshintel/briefcite/pkg/types"
)

func TestFileProviderLookupVariants(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "verifications.yaml")
	content := `"195 Wn. 2d 742":
  verified: true
  canonical_name: "Lakehaven Water & Sewer Dist. v. City of Federal Way"
  canonical_date: "2020"
  url: "https://example.org/lakehaven"
  confidence: 0.97
  source: "courtlistener"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	p, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	// The file spells the citation with a space; lookups in other spellings
	// still hit the same record.
	for _, variant := range []string{"195 Wn. 2d 742", "195 Wn.2d 742"} {
		rec, ok := p.Lookup(variant, "")
		if !ok {
			t.Fatalf("Lookup(%q) missed", variant)
		}
		if !rec.Verified || rec.CanonicalDate != "2020" {
			t.Errorf("Lookup(%q) = %+v", variant, rec)
		}
	}

	if _, ok := p.Lookup("384 U.S. 436", ""); ok {
		t.Error("unknown citation reported as verified")
	}
}

func TestLoadFileErrors(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("records: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Error("expected error for malformed YAML")
	}
}

func TestNopProvider(t *testing.T) {
	if _, ok := (NopProvider{}).Lookup("195 Wn.2d 742", "Lakehaven"); ok {
		t.Error("NopProvider reported a record")
	}
}

func TestFromRecords(t *testing.T) {
	p := FromRecords(map[string]types.VerificationResult{
		"85 Wn.2d 102": {Verified: true, Source: "manual"},
	})
	rec, ok := p.Lookup("85 Wn. 2d 102", "")
	if !ok || rec.Source != "manual" {
		t.Errorf("Lookup = %+v, %t", rec, ok)
	}
}
