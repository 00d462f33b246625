package classifier

import (
	"math/rand"
	"sort"
)

// node is either a leaf carrying a class or an internal split sending
// samples with x[feature] <= threshold to the left.
type node struct {
	leaf      bool
	class     int
	feature   int
	threshold float64
	left      *node
	right     *node
}

func (n *node) predict(x []float64) int {
	for !n.leaf {
		if x[n.feature] <= n.threshold {
			n = n.left
		} else {
			n = n.right
		}
	}
	return n.class
}

func (n *node) depth() int {
	if n.leaf {
		return 0
	}
	l, r := n.left.depth(), n.right.depth()
	if l > r {
		return l + 1
	}
	return r + 1
}

// treeBuilder grows a CART tree with the gini criterion. Features are visited
// in a per-node random order drawn from a seeded source, and only a strictly
// better split replaces the current best, so equal splits resolve the same way
// on every run.
type treeBuilder struct {
	rows     [][]float64
	labels   []int
	classes  int
	maxDepth int
	rng      *rand.Rand
}

func (b *treeBuilder) build(idx []int, depth int) *node {
	counts := b.classCounts(idx)
	leaf := &node{leaf: true, class: argmax(counts)}

	if depth >= b.maxDepth || len(idx) < 2 || gini(counts, len(idx)) == 0 {
		return leaf
	}

	feature, threshold, ok := b.bestSplit(idx)
	if !ok {
		return leaf
	}

	var left, right []int
	for _, i := range idx {
		if b.rows[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	if len(left) == 0 || len(right) == 0 {
		return leaf
	}

	return &node{
		feature:   feature,
		threshold: threshold,
		left:      b.build(left, depth+1),
		right:     b.build(right, depth+1),
	}
}

// bestSplit minimises the sample-weighted gini impurity of the two children.
func (b *treeBuilder) bestSplit(idx []int) (int, float64, bool) {
	n := len(idx)
	width := len(b.rows[idx[0]])

	bestFeature, bestThreshold := -1, 0.0
	bestCost := 0.0

	sorted := make([]int, n)
	leftCounts := make([]int, b.classes)
	rightCounts := make([]int, b.classes)

	for _, f := range b.rng.Perm(width) {
		copy(sorted, idx)
		sort.SliceStable(sorted, func(i, j int) bool {
			return b.rows[sorted[i]][f] < b.rows[sorted[j]][f]
		})
		if b.rows[sorted[0]][f] == b.rows[sorted[n-1]][f] {
			continue
		}

		for c := range leftCounts {
			leftCounts[c] = 0
			rightCounts[c] = 0
		}
		for _, i := range sorted {
			rightCounts[b.labels[i]]++
		}

		for pos := 0; pos < n-1; pos++ {
			label := b.labels[sorted[pos]]
			leftCounts[label]++
			rightCounts[label]--

			cur, next := b.rows[sorted[pos]][f], b.rows[sorted[pos+1]][f]
			if cur == next {
				continue
			}

			nl, nr := pos+1, n-pos-1
			cost := float64(nl)*gini(leftCounts, nl) + float64(nr)*gini(rightCounts, nr)
			if bestFeature < 0 || cost < bestCost {
				bestFeature, bestCost = f, cost
				bestThreshold = cur + (next-cur)/2
				if bestThreshold >= next {
					bestThreshold = cur
				}
			}
		}
	}

	return bestFeature, bestThreshold, bestFeature >= 0
}

func (b *treeBuilder) classCounts(idx []int) []int {
	counts := make([]int, b.classes)
	for _, i := range idx {
		counts[b.labels[i]]++
	}
	return counts
}

func gini(counts []int, total int) float64 {
	if total == 0 {
		return 0
	}
	impurity := 1.0
	for _, c := range counts {
		p := float64(c) / float64(total)
		impurity -= p * p
	}
	return impurity
}

// argmax returns the most frequent class, the lowest one on ties.
func argmax(counts []int) int {
	best := 0
	for c, n := range counts {
		if n > counts[best] {
			best = c
		}
	}
	return best
}
