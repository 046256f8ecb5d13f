package model

import (
	"fmt"
	"sort"
)

// Node is one node of a regression tree in flat-array form. Leaves have
// Feature == -1 and carry the prediction in Value; internal nodes route
// rows with value <= Threshold to Left, the rest to Right.
type Node struct {
	Feature   int     `json:"f"`
	Threshold float64 `json:"t"`
	Left      int32   `json:"l"`
	Right     int32   `json:"r"`
	Value     float64 `json:"v"`
}

// Tree is a CART regression tree serialized as a node array; index 0 is
// the root.
type Tree struct {
	Nodes []Node `json:"nodes"`
}

const (
	leafFeature     = -1
	minSamplesSplit = 2
	minSamplesLeaf  = 1
)

// buildTree grows a variance-reduction CART tree on the given sample
// index set, bounded by maxDepth. Feature iteration order is fixed and
// ties keep the first candidate, so identical inputs grow identical trees.
func buildTree(x [][]float64, y []float64, idx []int, maxDepth int) Tree {
	t := &Tree{}
	t.grow(x, y, idx, maxDepth)
	return *t
}

func (t *Tree) grow(x [][]float64, y []float64, idx []int, depthLeft int) int32 {
	node := int32(len(t.Nodes))
	t.Nodes = append(t.Nodes, Node{Feature: leafFeature, Value: meanAt(y, idx)})

	if depthLeft <= 0 || len(idx) < minSamplesSplit {
		return node
	}
	feat, thresh, ok := bestSplit(x, y, idx)
	if !ok {
		return node
	}

	var left, right []int
	for _, i := range idx {
		if x[i][feat] <= thresh {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	if len(left) < minSamplesLeaf || len(right) < minSamplesLeaf {
		return node
	}

	l := t.grow(x, y, left, depthLeft-1)
	r := t.grow(x, y, right, depthLeft-1)
	t.Nodes[node].Feature = feat
	t.Nodes[node].Threshold = thresh
	t.Nodes[node].Left = l
	t.Nodes[node].Right = r
	return node
}

// bestSplit scans every feature and every midpoint between adjacent
// distinct values, minimizing the weighted sum of child variances.
func bestSplit(x [][]float64, y []float64, idx []int) (int, float64, bool) {
	n := len(idx)
	if n < minSamplesSplit {
		return 0, 0, false
	}
	dim := len(x[idx[0]])

	bestScore := parentSSE(y, idx)
	if bestScore == 0 {
		return 0, 0, false // pure node
	}
	var (
		bestFeat   = -1
		bestThresh float64
	)

	order := make([]int, n)
	for feat := 0; feat < dim; feat++ {
		copy(order, idx)
		sort.SliceStable(order, func(a, b int) bool {
			return x[order[a]][feat] < x[order[b]][feat]
		})

		// prefix scan: leftSum/leftSq accumulate as the split point moves
		var leftSum, leftSq float64
		totSum, totSq := sums(y, idx)
		for k := 0; k < n-1; k++ {
			yi := y[order[k]]
			leftSum += yi
			leftSq += yi * yi
			if x[order[k]][feat] == x[order[k+1]][feat] {
				continue // no valid threshold between equal values
			}
			nl := float64(k + 1)
			nr := float64(n - k - 1)
			sse := (leftSq - leftSum*leftSum/nl) + ((totSq - leftSq) - (totSum-leftSum)*(totSum-leftSum)/nr)
			if sse < bestScore {
				bestScore = sse
				bestFeat = feat
				bestThresh = (x[order[k]][feat] + x[order[k+1]][feat]) / 2
			}
		}
	}
	if bestFeat < 0 {
		return 0, 0, false
	}
	return bestFeat, bestThresh, true
}

func sums(y []float64, idx []int) (sum, sq float64) {
	for _, i := range idx {
		sum += y[i]
		sq += y[i] * y[i]
	}
	return sum, sq
}

func parentSSE(y []float64, idx []int) float64 {
	sum, sq := sums(y, idx)
	n := float64(len(idx))
	return sq - sum*sum/n
}

func meanAt(y []float64, idx []int) float64 {
	var sum float64
	for _, i := range idx {
		sum += y[i]
	}
	return sum / float64(len(idx))
}

// Predict routes one standardized row to a leaf.
func (t Tree) Predict(row []float64) (float64, error) {
	if len(t.Nodes) == 0 {
		return 0, fmt.Errorf("predict: empty tree")
	}
	i := int32(0)
	for {
		n := t.Nodes[i]
		if n.Feature == leafFeature {
			return n.Value, nil
		}
		if n.Feature >= len(row) {
			return 0, fmt.Errorf("predict: node wants feature %d, row has %d", n.Feature, len(row))
		}
		if row[n.Feature] <= n.Threshold {
			i = n.Left
		} else {
			i = n.Right
		}
	}
}
