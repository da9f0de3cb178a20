// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package verify supplies externally produced citation verification data to
// the reconciler. The engine only consumes verification records — the
// lookups themselves (CourtListener and similar services) live in an
// external collaborator, so the file provider here reads records that a
// host application wrote earlier.
// Implements: prd005-reconciliation R4.
package verify

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/meshintel/briefcite/internal/locate"
	"github.com/meshintel/briefcite/pkg/types"
)

// Provider answers verification lookups for citations. A missing record is
// reported through the boolean, never an error: absent verification is
// indistinguishable from "no verification available" by design.
type Provider interface {
	Lookup(citation, caseNameHint string) (types.VerificationResult, bool)
}

// NopProvider is the Provider used when no verification data is supplied.
type NopProvider struct{}

// Lookup always reports no verification available.
func (NopProvider) Lookup(string, string) (types.VerificationResult, bool) {
	return types.VerificationResult{}, false
}

// FileProvider serves verification records from a YAML file keyed by
// citation. Keys are normalized before matching, so the file may use any
// citation spelling variant.
type FileProvider struct {
	records map[string]types.VerificationResult
}

// LoadFile reads a YAML map of citation to verification record.
func LoadFile(path string) (*FileProvider, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading verification file %s: %w", path, err)
	}

	var raw map[string]types.VerificationResult
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing verification file %s: %w", path, err)
	}

	records := make(map[string]types.VerificationResult, len(raw))
	for citation, rec := range raw {
		records[locate.NormalizeKey(citation)] = rec
	}
	return &FileProvider{records: records}, nil
}

// FromRecords builds a provider from in-memory records, used by tests and
// by hosts that fetch verification through their own service layer.
func FromRecords(raw map[string]types.VerificationResult) *FileProvider {
	records := make(map[string]types.VerificationResult, len(raw))
	for citation, rec := range raw {
		records[locate.NormalizeKey(citation)] = rec
	}
	return &FileProvider{records: records}
}

// Lookup returns the record for a citation when present.
func (p *FileProvider) Lookup(citation, _ string) (types.VerificationResult, bool) {
	rec, ok := p.records[locate.NormalizeKey(citation)]
	return rec, ok
}
