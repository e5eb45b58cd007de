package subtitle

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
)

// Candidate is one normalized subtitle track entering deduplication.
type Candidate struct {
	Region   string
	Language string
	Body     string // SRT text as written to disk
	Compare  string // ComparisonText(Body), computed once at normalization
	Hash     string // HashBody(Body), the exact-duplicate key
	Forced   bool
	SDH      bool
}

// Cluster groups candidates judged to carry the same content. Canonical is the
// single member that survives to the output writer.
type Cluster struct {
	Canonical Candidate
	Members   []Candidate
}

// HashBody returns the deterministic content digest used for exact clustering.
func HashBody(body string) string {
	sum := sha256.Sum256([]byte(body))
	return hex.EncodeToString(sum[:])
}

// ClusterCandidates collapses the closed candidate set into content clusters.
//
// Stage 1 merges byte-identical bodies (same hash) within a language. Stage 2
// runs pairwise fuzzy comparison across one representative per stage-1 group,
// again only within a language, merging at or above threshold.
// Merges go through a union-find so chained similarity (A~B, B~C) lands all
// three in one cluster regardless of comparison order; combined with the
// deterministic pre-sort this makes the result independent of arrival order.
func ClusterCandidates(candidates []Candidate, threshold float64) []Cluster {
	if len(candidates) == 0 {
		return nil
	}

	// Fixed total order so clustering and canonical selection never depend on
	// the nondeterministic fetch completion order.
	sorted := make([]Candidate, len(candidates))
	copy(sorted, candidates)
	sort.Slice(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Language != b.Language {
			return a.Language < b.Language
		}
		if a.Region != b.Region {
			return a.Region < b.Region
		}
		return a.Hash < b.Hash
	})

	uf := newUnionFind(len(sorted))

	// Stage 1: exact hash within a language.
	byKey := make(map[[2]string][]int, len(sorted))
	for i, c := range sorted {
		key := [2]string{c.Language, c.Hash}
		byKey[key] = append(byKey[key], i)
	}
	for _, group := range byKey {
		for _, idx := range group[1:] {
			uf.union(group[0], idx)
		}
	}

	// Stage 2: fuzzy comparison per language over one representative per
	// exact cluster. Exact groups already collapsed, so comparing their lowest
	// member is enough to let a near-identical singleton join them.
	byLanguage := make(map[string][]int)
	for key, group := range byKey {
		byLanguage[key[0]] = append(byLanguage[key[0]], group[0])
	}
	for _, group := range byLanguage {
		sort.Ints(group)
		for i := 0; i < len(group); i++ {
			for j := i + 1; j < len(group); j++ {
				a, b := sorted[group[i]], sorted[group[j]]
				if TokenSortRatio(a.Compare, b.Compare) >= threshold {
					uf.union(group[i], group[j])
				}
			}
		}
	}

	// Materialize clusters in root order, which is deterministic because the
	// candidate slice is.
	memberOf := make(map[int][]int)
	var roots []int
	for i := range sorted {
		root := uf.find(i)
		if _, seen := memberOf[root]; !seen {
			roots = append(roots, root)
		}
		memberOf[root] = append(memberOf[root], i)
	}
	sort.Ints(roots)

	clusters := make([]Cluster, 0, len(roots))
	for _, root := range roots {
		members := make([]Candidate, 0, len(memberOf[root]))
		for _, idx := range memberOf[root] {
			members = append(members, sorted[idx])
		}
		clusters = append(clusters, Cluster{
			Canonical: selectCanonical(members),
			Members:   members,
		})
	}
	return clusters
}

// selectCanonical picks the member whose body length sits closest to the
// cluster median (a truncated outlier never wins), breaking ties on the
// lexicographically smallest region, then hash.
func selectCanonical(members []Candidate) Candidate {
	if len(members) == 1 {
		return members[0]
	}
	lengths := make([]int, len(members))
	for i, m := range members {
		lengths[i] = len(m.Body)
	}
	sort.Ints(lengths)
	median := float64(lengths[(len(lengths)-1)/2]+lengths[len(lengths)/2]) / 2

	best := members[0]
	bestDist := absFloat(float64(len(best.Body)) - median)
	for _, m := range members[1:] {
		dist := absFloat(float64(len(m.Body)) - median)
		switch {
		case dist < bestDist:
			best, bestDist = m, dist
		case dist == bestDist && m.Region < best.Region:
			best = m
		case dist == bestDist && m.Region == best.Region && m.Hash < best.Hash:
			best = m
		}
	}
	return best
}

func absFloat(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}

type unionFind struct {
	parent []int
}

func newUnionFind(n int) *unionFind {
	uf := &unionFind{parent: make([]int, n)}
	for i := range uf.parent {
		uf.parent[i] = i
	}
	return uf
}

func (uf *unionFind) find(x int) int {
	for uf.parent[x] != x {
		uf.parent[x] = uf.parent[uf.parent[x]]
		x = uf.parent[x]
	}
	return x
}

func (uf *unionFind) union(a, b int) {
	ra, rb := uf.find(a), uf.find(b)
	if ra == rb {
		return
	}
	// Attach the larger root index under the smaller so roots stay minimal and
	// cluster order stays reproducible.
	if ra > rb {
		ra, rb = rb, ra
	}
	uf.parent[rb] = ra
}
