// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cluster groups located citations that refer to the same
// underlying case (true parallel citations) and propagates a single
// canonical case name and year across each group.
// Implements: prd004-clustering (R1-R4).
package cluster

import (
	"crypto/sha256"
	"fmt"
	"sort"
	"strings"

	"github.com/meshintel/briefcite/internal/locate"
	"github.com/meshintel/briefcite/pkg/types"
)

// parallelIndicators are linguistic cues that a nearby citation is a
// parallel reference rather than a new authority.
var parallelIndicators = []string{"see also", "accord", "cf.", "citing"}

// parallelReporterPairs lists reporter pattern pairs that conventionally
// publish the same opinions. Order within a pair does not matter.
var parallelReporterPairs = map[[2]string]bool{
	{"wn2d", "p"}:      true,
	{"wnapp", "p"}:     true,
	{"wash2d", "p"}:    true,
	{"washapp", "p"}:   true,
	{"f", "us"}:        true,
	{"sct", "led"}:     true,
	{"us", "sct"}:      true,
	{"us", "led"}:      true,
	{"fsupp", "f"}:     true,
	{"generic", "p"}:   true,
	{"generic", "wn2d"}: true,
}

// Clusterer groups extraction results into parallel-citation clusters.
type Clusterer struct {
	cfg types.ClusterConfig
}

// New returns a Clusterer with zero config fields replaced by defaults.
func New(cfg types.ClusterConfig) *Clusterer {
	if cfg.ProximityGap <= 0 {
		cfg.ProximityGap = 100
	}
	if cfg.MinJaccard <= 0 {
		cfg.MinJaccard = 0.7
	}
	return &Clusterer{cfg: cfg}
}

// Result separates formed clusters from the citations left unclustered.
type Result struct {
	Clusters   []types.Cluster
	Singletons []types.ExtractionResult
}

// Cluster groups the per-citation extraction results. Grouping rules are
// tried in precedence order — shared (name, year), shared name, textual
// proximity confirmed by indicators or known reporter pairings — and the
// first rule that produces at least one multi-member group claims its
// citations; the rest fall through to the next rule.
func (c *Clusterer) Cluster(doc string, results []types.ExtractionResult, hints []types.PairHint) Result {
	remaining := make([]types.ExtractionResult, len(results))
	copy(remaining, results)
	sort.SliceStable(remaining, func(i, j int) bool { return remaining[i].Span.Start < remaining[j].Span.Start })

	// Hints arrive as indexes into the caller's result slice; key them by
	// citation so they survive re-indexing as rules claim citations.
	hinted := make(map[string]bool)
	for _, h := range hints {
		if h.First < len(results) && h.Second < len(results) {
			hinted[pairKey(results[h.First].Citation, results[h.Second].Citation)] = true
		}
	}

	var clusters []types.Cluster

	for _, rule := range []struct {
		name  string
		group func(doc string, rs []types.ExtractionResult, hinted map[string]bool) [][]types.ExtractionResult
	}{
		{"name_year", groupByNameYear},
		{"name", groupByName},
		{"proximity", c.groupByProximity},
	} {
		groups := rule.group(doc, remaining, hinted)
		if len(groups) == 0 {
			continue
		}

		claimed := make(map[string]bool)
		for _, g := range groups {
			cl, ok := c.build(rule.name, g)
			if !ok {
				continue
			}
			clusters = append(clusters, cl)
			for _, m := range g {
				claimed[locate.NormalizeKey(m.Citation)] = true
			}
		}

		var rest []types.ExtractionResult
		for _, r := range remaining {
			if !claimed[locate.NormalizeKey(r.Citation)] {
				rest = append(rest, r)
			}
		}
		remaining = rest
	}

	return Result{Clusters: clusters, Singletons: remaining}
}

// build turns one member group into a Cluster, applying the similarity
// safety net: when extracted names within the group disagree too much on
// average, the group is discarded rather than propagating a mismatched name.
func (c *Clusterer) build(rule string, members []types.ExtractionResult) (types.Cluster, bool) {
	if len(members) < 2 {
		return types.Cluster{}, false
	}
	if avgNameSimilarity(members) < c.cfg.MinJaccard {
		return types.Cluster{}, false
	}

	name := ""
	for _, m := range members {
		if m.CaseName != "" {
			name = m.CaseName
			break
		}
	}
	year := ""
	for i := len(members) - 1; i >= 0; i-- {
		if members[i].Year != "" {
			year = members[i].Year
			break
		}
	}

	var confSum float64
	for _, m := range members {
		confSum += m.Confidence
	}

	return types.Cluster{
		ID:         clusterID(members),
		CaseName:   name,
		Year:       year,
		Members:    members,
		Confidence: confSum / float64(len(members)),
		Rule:       rule,
	}, true
}

// groupByNameYear groups citations whose own extraction produced the same
// cleaned name and year.
func groupByNameYear(_ string, results []types.ExtractionResult, _ map[string]bool) [][]types.ExtractionResult {
	return groupByKey(results, func(r types.ExtractionResult) string {
		if r.CaseName == "" || r.Year == "" {
			return ""
		}
		return nameKey(r.CaseName) + "|" + r.Year
	})
}

// groupByName groups on the cleaned name alone: the year may be missing or
// differ across reporters while still naming the same case.
func groupByName(_ string, results []types.ExtractionResult, _ map[string]bool) [][]types.ExtractionResult {
	return groupByKey(results, func(r types.ExtractionResult) string {
		if r.CaseName == "" {
			return ""
		}
		return nameKey(r.CaseName)
	})
}

func groupByKey(results []types.ExtractionResult, key func(types.ExtractionResult) string) [][]types.ExtractionResult {
	byKey := make(map[string][]types.ExtractionResult)
	var order []string
	for _, r := range results {
		k := key(r)
		if k == "" {
			continue
		}
		if _, seen := byKey[k]; !seen {
			order = append(order, k)
		}
		byKey[k] = append(byKey[k], r)
	}

	var groups [][]types.ExtractionResult
	for _, k := range order {
		if len(byKey[k]) >= 2 {
			groups = append(groups, byKey[k])
		}
	}
	return groups
}

// groupByProximity joins adjacent citations whose gap is within the
// configured bound, then keeps only groups confirmed by a linguistic
// parallel indicator, a pair hint from the locator, or a known parallel
// reporter pairing. Groups of size 1 are discarded.
func (c *Clusterer) groupByProximity(doc string, results []types.ExtractionResult, hinted map[string]bool) [][]types.ExtractionResult {
	if len(results) < 2 {
		return nil
	}

	var groups [][]types.ExtractionResult
	current := []types.ExtractionResult{results[0]}

	flush := func() {
		if len(current) >= 2 && c.confirmParallel(doc, current, hinted) {
			groups = append(groups, current)
		}
	}

	for i := 1; i < len(results); i++ {
		gap := results[i].Span.Start - results[i-1].Span.End
		if gap >= 0 && gap <= c.cfg.ProximityGap {
			current = append(current, results[i])
			continue
		}
		flush()
		current = []types.ExtractionResult{results[i]}
	}
	flush()

	return groups
}

// confirmParallel checks a proximity group for at least one supporting
// signal between some adjacent pair of members.
func (c *Clusterer) confirmParallel(doc string, members []types.ExtractionResult, hinted map[string]bool) bool {
	for i := 1; i < len(members); i++ {
		prev, cur := members[i-1], members[i]

		if hinted[pairKey(prev.Citation, cur.Citation)] {
			return true
		}
		if pairedReporters(prev.Span.PatternID, cur.Span.PatternID) {
			return true
		}

		between := strings.ToLower(sliceBetween(doc, prev.Span.End, cur.Span.Start))
		for _, ind := range parallelIndicators {
			if strings.Contains(between, ind) {
				return true
			}
		}
	}
	return false
}

func pairedReporters(a, b string) bool {
	return parallelReporterPairs[[2]string{a, b}] || parallelReporterPairs[[2]string{b, a}]
}

// pairKey is an order-insensitive key for a citation pair.
func pairKey(a, b string) string {
	ka, kb := locate.NormalizeKey(a), locate.NormalizeKey(b)
	if ka > kb {
		ka, kb = kb, ka
	}
	return ka + "|" + kb
}

func sliceBetween(doc string, from, to int) string {
	if from < 0 {
		from = 0
	}
	if to > len(doc) {
		to = len(doc)
	}
	if from >= to {
		return ""
	}
	return doc[from:to]
}

// avgNameSimilarity is the mean pairwise Jaccard similarity of the
// non-empty extracted names in a group. A group with at most one non-empty
// name has nothing to disagree about and scores 1.
func avgNameSimilarity(members []types.ExtractionResult) float64 {
	var names []string
	for _, m := range members {
		if m.CaseName != "" {
			names = append(names, m.CaseName)
		}
	}
	if len(names) < 2 {
		return 1.0
	}

	var sum float64
	var pairs int
	for i := 0; i < len(names); i++ {
		for j := i + 1; j < len(names); j++ {
			sum += jaccard(names[i], names[j])
			pairs++
		}
	}
	return sum / float64(pairs)
}

// jaccard computes token-set Jaccard similarity between two names.
func jaccard(a, b string) float64 {
	setA := tokenSet(a)
	setB := tokenSet(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	inter := 0
	for tok := range setA {
		if setB[tok] {
			inter++
		}
	}
	union := len(setA) + len(setB) - inter
	return float64(inter) / float64(union)
}

func tokenSet(name string) map[string]bool {
	set := make(map[string]bool)
	for _, tok := range strings.Fields(strings.ToLower(name)) {
		tok = strings.Trim(tok, ".,;:()'")
		if tok != "" {
			set[tok] = true
		}
	}
	return set
}

// nameKey is the grouping key for a cleaned case name: lowercase with
// punctuation collapsed, so trivial formatting differences do not split a
// cluster.
func nameKey(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(strings.NewReplacer(",", " ", ".", " ", ";", " ").Replace(name))), " ")
}

// clusterID derives a stable identifier from the member citations.
func clusterID(members []types.ExtractionResult) string {
	h := sha256.New()
	for _, m := range members {
		h.Write([]byte(locate.NormalizeKey(m.Citation)))
		h.Write([]byte{0})
	}
	return fmt.Sprintf("%x", h.Sum(nil))[:12]
}

// MarkVerified propagates verification across a cluster: when at least one
// member is independently verified, every other member is true by parallel.
func MarkVerified(cl *types.Cluster, verified func(citation string) bool) {
	for _, m := range cl.Members {
		if verified(m.Citation) {
			cl.Verified = true
			return
		}
	}
}
