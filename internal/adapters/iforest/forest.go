// Package iforest provides the default outlier model: a seeded isolation
// forest. Observations that isolate in short paths across the ensemble score
// high; the contamination fraction sets how many of the highest scores are
// flagged. A fixed seed keeps repeated runs reproducible.
package iforest

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/uforiaio/network-share-test-helper/internal/ports"
)

type Config struct {
	Trees         int     `yaml:"trees"`
	SampleSize    int     `yaml:"sample_size"`
	Contamination float64 `yaml:"contamination"`
	Seed          int64   `yaml:"seed"`
}

func (c *Config) ApplyDefaults() {
	if c.Trees == 0 {
		c.Trees = 100
	}
	if c.SampleSize == 0 {
		c.SampleSize = 256
	}
	if c.Contamination == 0 {
		c.Contamination = 0.1
	}
	if c.Seed == 0 {
		c.Seed = 42
	}
}

type Forest struct {
	cfg Config
}

func New(cfg Config) *Forest {
	cfg.ApplyDefaults()
	return &Forest{cfg: cfg}
}

// FitPredict grows the ensemble over the rows and flags the rows whose
// anomaly score exceeds the contamination-quantile threshold. Ties at the
// threshold are not flagged, so a constant matrix yields no outliers.
func (f *Forest) FitPredict(rows [][]float64) ([]bool, error) {
	n := len(rows)
	if n == 0 {
		return nil, nil
	}
	width := len(rows[0])
	for i, row := range rows {
		if len(row) != width {
			return nil, fmt.Errorf("iforest: row %d has %d features, want %d", i, len(row), width)
		}
	}
	if width == 0 {
		return nil, fmt.Errorf("iforest: rows have no features")
	}

	rng := rand.New(rand.NewSource(f.cfg.Seed))

	sampleSize := f.cfg.SampleSize
	if sampleSize > n {
		sampleSize = n
	}
	maxDepth := int(math.Ceil(math.Log2(float64(sampleSize)))) + 1

	trees := make([]*node, f.cfg.Trees)
	for i := range trees {
		sample := subsample(rows, sampleSize, rng)
		trees[i] = grow(sample, 0, maxDepth, rng)
	}

	norm := avgPathLength(sampleSize)
	scores := make([]float64, n)
	for i, row := range rows {
		var total float64
		for _, t := range trees {
			total += pathLength(t, row, 0)
		}
		mean := total / float64(len(trees))
		scores[i] = math.Pow(2, -mean/norm)
	}

	threshold := contaminationThreshold(scores, f.cfg.Contamination)
	flags := make([]bool, n)
	for i, s := range scores {
		flags[i] = s > threshold
	}
	return flags, nil
}

var _ ports.OutlierModel = (*Forest)(nil)

type node struct {
	left, right *node

	splitFeature int
	splitValue   float64

	// leaf fields
	size int
}

func (t *node) leaf() bool { return t.left == nil }

func grow(rows [][]float64, depth, maxDepth int, rng *rand.Rand) *node {
	if len(rows) <= 1 || depth >= maxDepth {
		return &node{size: len(rows)}
	}

	// Pick a feature with spread; identical data cannot be split further.
	width := len(rows[0])
	perm := rng.Perm(width)
	for _, feature := range perm {
		lo, hi := rows[0][feature], rows[0][feature]
		for _, row := range rows[1:] {
			if row[feature] < lo {
				lo = row[feature]
			}
			if row[feature] > hi {
				hi = row[feature]
			}
		}
		if hi <= lo {
			continue
		}

		split := lo + rng.Float64()*(hi-lo)
		var left, right [][]float64
		for _, row := range rows {
			if row[feature] < split {
				left = append(left, row)
			} else {
				right = append(right, row)
			}
		}
		if len(left) == 0 || len(right) == 0 {
			continue
		}
		return &node{
			left:         grow(left, depth+1, maxDepth, rng),
			right:        grow(right, depth+1, maxDepth, rng),
			splitFeature: feature,
			splitValue:   split,
		}
	}
	return &node{size: len(rows)}
}

func pathLength(t *node, row []float64, depth int) float64 {
	if t.leaf() {
		return float64(depth) + avgPathLength(t.size)
	}
	if row[t.splitFeature] < t.splitValue {
		return pathLength(t.left, row, depth+1)
	}
	return pathLength(t.right, row, depth+1)
}

// avgPathLength is c(n), the expected path length of an unsuccessful BST
// search, used to normalize scores and to credit unexpanded leaves.
func avgPathLength(n int) float64 {
	if n <= 1 {
		return 0
	}
	const eulerMascheroni = 0.5772156649
	h := math.Log(float64(n-1)) + eulerMascheroni
	return 2*h - 2*float64(n-1)/float64(n)
}

func subsample(rows [][]float64, size int, rng *rand.Rand) [][]float64 {
	if size >= len(rows) {
		return rows
	}
	idx := rng.Perm(len(rows))[:size]
	out := make([][]float64, size)
	for i, j := range idx {
		out[i] = rows[j]
	}
	return out
}

// contaminationThreshold returns the boundary score: the kth highest score
// where k is the expected outlier count.
func contaminationThreshold(scores []float64, contamination float64) float64 {
	k := int(contamination * float64(len(scores)))
	if k < 1 {
		k = 1
	}
	if k >= len(scores) {
		k = len(scores) - 1
	}
	sorted := append([]float64(nil), scores...)
	sort.Sort(sort.Reverse(sort.Float64Slice(sorted)))
	return sorted[k]
}
