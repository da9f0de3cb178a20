// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package reconcile merges Table of Authorities ground truth, cluster
// propagation, per-citation extraction, and externally supplied
// verification into the final citation records, under a strict priority
// order: ToA > cluster > extraction > verification > "N/A".
// Implements: prd005-reconciliation (R1-R4).
package reconcile

import (
	"sort"
	"strings"

	"github.com/meshintel/briefcite/internal/cluster"
	"github.com/meshintel/briefcite/internal/locate"
	"github.com/meshintel/briefcite/internal/verify"
	"github.com/meshintel/briefcite/pkg/types"
)

// Source labels for the winning priority tier.
const (
	SourceToA          = "toa"
	SourceCluster      = "cluster"
	SourceExtraction   = "extraction"
	SourceVerification = "verification"
	SourceNone         = "none"
)

// noName is the terminal case name when no tier qualifies.
const noName = "N/A"

// Normalize reduces a citation to its canonical comparison form: lowercase,
// punctuation and whitespace stripped, and common reporter spelling
// variants unified, so "195 Wn. 2d 742" and "195 Wash.2d 742" compare equal.
func Normalize(citation string) string {
	key := locate.NormalizeKey(citation)
	key = strings.ReplaceAll(key, "wash", "wn")
	return key
}

// Reconciler merges the pipeline stages' outputs per citation.
type Reconciler struct {
	provider verify.Provider
}

// New returns a Reconciler consulting the given verification provider.
// A nil provider means no verification data is available.
func New(provider verify.Provider) *Reconciler {
	if provider == nil {
		provider = verify.NopProvider{}
	}
	return &Reconciler{provider: provider}
}

// Reconcile produces one ReconciledCitation per extraction result, ordered
// by document position. A citation for which nothing qualifies still
// appears in the output, with case name "N/A" and confidence 0 — a failure
// on one citation never hides the others.
func (r *Reconciler) Reconcile(extractions []types.ExtractionResult, clusters []types.Cluster, toaEntries []types.ToAEntry) []types.ReconciledCitation {
	toaByKey := indexToA(toaEntries)

	clusterByKey := make(map[string]*types.Cluster)
	for i := range clusters {
		cl := &clusters[i]
		cluster.MarkVerified(cl, func(citation string) bool {
			vr, ok := r.provider.Lookup(citation, "")
			return ok && vr.Verified
		})
		r.backfillFromVerification(cl)
		for _, m := range cl.Members {
			clusterByKey[Normalize(m.Citation)] = cl
		}
	}

	out := make([]types.ReconciledCitation, 0, len(extractions))
	for _, ex := range extractions {
		out = append(out, r.reconcileOne(ex, toaByKey, clusterByKey))
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out
}

// backfillFromVerification fills a nameless cluster from a verified member's
// canonical record, so the name covers every member. Without this, a
// proximity cluster whose members all extracted nothing would resolve the
// verified member through the verification tier and leave its siblings at
// "N/A", splitting the cluster's identity.
func (r *Reconciler) backfillFromVerification(cl *types.Cluster) {
	if cl.CaseName != "" {
		return
	}
	for _, m := range cl.Members {
		vr, ok := r.provider.Lookup(m.Citation, m.CaseName)
		if !ok || !vr.Verified || vr.CanonicalName == "" {
			continue
		}
		cl.CaseName = vr.CanonicalName
		if cl.Year == "" {
			cl.Year = vr.CanonicalDate
		}
		if vr.Confidence > cl.Confidence {
			cl.Confidence = vr.Confidence
		}
		return
	}
}

func (r *Reconciler) reconcileOne(ex types.ExtractionResult, toaByKey map[string]*types.ToAEntry, clusterByKey map[string]*types.Cluster) types.ReconciledCitation {
	key := Normalize(ex.Citation)
	rc := types.ReconciledCitation{
		Citation: ex.Citation,
		Start:    ex.Span.Start,
		End:      ex.Span.End,
	}

	cl := clusterByKey[key]
	if cl != nil {
		rc.ClusterID = cl.ID
		rc.IsParallel = len(cl.Members) > 1
	}

	vr, hasVerification := r.provider.Lookup(ex.Citation, ex.CaseName)
	if hasVerification {
		rc.Verified = vr.Verified
		rc.URL = vr.URL
	}
	// True by parallel: one verified member vouches for the whole cluster.
	if cl != nil && cl.Verified {
		rc.Verified = true
	}

	// ToA ground truth wins for every member of a cluster as soon as any
	// member appears in the table: same row, same case.
	entry := toaByKey[key]
	if entry == nil && cl != nil {
		for _, m := range cl.Members {
			if e := toaByKey[Normalize(m.Citation)]; e != nil {
				entry = e
				break
			}
		}
	}

	switch {
	case entry != nil:
		rc.CaseName = entry.CaseName
		if len(entry.Years) > 0 {
			rc.Year = entry.Years[0]
		}
		rc.Confidence = entry.Confidence
		rc.Method = "toa"
		rc.Source = SourceToA
	case cl != nil && cl.CaseName != "":
		rc.CaseName = cl.CaseName
		rc.Year = cl.Year
		rc.Confidence = cl.Confidence
		rc.Method = "cluster:" + cl.Rule
		rc.Source = SourceCluster
	case ex.CaseName != "":
		rc.CaseName = ex.CaseName
		rc.Year = ex.Year
		rc.Confidence = ex.Confidence
		rc.Method = ex.Method
		rc.Source = SourceExtraction
	case hasVerification && vr.Verified && vr.CanonicalName != "":
		rc.CaseName = vr.CanonicalName
		rc.Year = vr.CanonicalDate
		rc.Confidence = vr.Confidence
		rc.Method = "verified:" + vr.Source
		rc.Source = SourceVerification
	default:
		rc.CaseName = noName
		rc.Confidence = 0
		rc.Method = ex.Method
		rc.Source = SourceNone
	}

	// Fill a missing year from the next tier that has one.
	if rc.Year == "" {
		switch {
		case cl != nil && cl.Year != "":
			rc.Year = cl.Year
		case ex.Year != "":
			rc.Year = ex.Year
		case hasVerification && vr.CanonicalDate != "":
			rc.Year = vr.CanonicalDate
		}
	}

	return rc
}

// indexToA maps every normalized citation in every entry back to its entry.
// First entry wins on collision, matching the table's reading order.
func indexToA(entries []types.ToAEntry) map[string]*types.ToAEntry {
	byKey := make(map[string]*types.ToAEntry)
	for i := range entries {
		for _, c := range entries[i].Citations {
			key := Normalize(c)
			if _, exists := byKey[key]; !exists {
				byKey[key] = &entries[i]
			}
		}
	}
	return byKey
}
