package regress

import "sort"

// Node is a single decision node. Leaf nodes carry the mean target value of
// the training samples routed to them; internal nodes route on
// row[Feature] <= Threshold.
type Node struct {
	Feature   int     `json:"feature"`
	Threshold float64 `json:"threshold"`
	Value     float64 `json:"value"`
	Leaf      bool    `json:"leaf"`
	Left      *Node   `json:"left,omitempty"`
	Right     *Node   `json:"right,omitempty"`
}

// Tree is a CART regression tree grown by recursive variance-reduction
// splitting.
type Tree struct {
	Root *Node `json:"root"`
}

// Predict routes a row to its leaf and returns the leaf value.
func (t *Tree) Predict(row []float64) float64 {
	node := t.Root
	for !node.Leaf {
		if row[node.Feature] <= node.Threshold {
			node = node.Left
		} else {
			node = node.Right
		}
	}
	return node.Value
}

// fitTree grows a tree on the samples selected by idx. Split quality is the
// decrease in sum of squared errors; each chosen split adds its decrease to
// importances[feature].
func fitTree(X [][]float64, y []float64, idx []int, minLeaf int, importances []float64) *Tree {
	return &Tree{Root: growNode(X, y, idx, minLeaf, importances)}
}

func growNode(X [][]float64, y []float64, idx []int, minLeaf int, importances []float64) *Node {
	sum, sumSq := 0.0, 0.0
	for _, i := range idx {
		sum += y[i]
		sumSq += y[i] * y[i]
	}
	n := float64(len(idx))
	mean := sum / n
	sse := sumSq - sum*sum/n

	if len(idx) < 2*minLeaf || sse <= 1e-12 {
		return &Node{Leaf: true, Value: mean}
	}

	feature, threshold, reduction, ok := bestSplit(X, y, idx, minLeaf, sse)
	if !ok {
		return &Node{Leaf: true, Value: mean}
	}

	importances[feature] += reduction

	var left, right []int
	for _, i := range idx {
		if X[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}

	return &Node{
		Feature:   feature,
		Threshold: threshold,
		Left:      growNode(X, y, left, minLeaf, importances),
		Right:     growNode(X, y, right, minLeaf, importances),
	}
}

// bestSplit scans every feature for the threshold with the largest SSE
// decrease, using prefix sums over the samples sorted by feature value.
func bestSplit(X [][]float64, y []float64, idx []int, minLeaf int, parentSSE float64) (feature int, threshold, reduction float64, ok bool) {
	nFeatures := len(X[idx[0]])
	sorted := append([]int(nil), idx...)

	for j := 0; j < nFeatures; j++ {
		sort.Slice(sorted, func(a, b int) bool {
			return X[sorted[a]][j] < X[sorted[b]][j]
		})

		leftSum, leftSumSq := 0.0, 0.0
		totalSum, totalSumSq := 0.0, 0.0
		for _, i := range sorted {
			totalSum += y[i]
			totalSumSq += y[i] * y[i]
		}

		for k := 0; k < len(sorted)-1; k++ {
			i := sorted[k]
			leftSum += y[i]
			leftSumSq += y[i] * y[i]

			leftN := k + 1
			rightN := len(sorted) - leftN
			if leftN < minLeaf || rightN < minLeaf {
				continue
			}

			// No valid threshold between equal values.
			if X[sorted[k]][j] == X[sorted[k+1]][j] {
				continue
			}

			rightSum := totalSum - leftSum
			rightSumSq := totalSumSq - leftSumSq

			leftSSE := leftSumSq - leftSum*leftSum/float64(leftN)
			rightSSE := rightSumSq - rightSum*rightSum/float64(rightN)

			gain := parentSSE - leftSSE - rightSSE
			if gain > reduction {
				feature = j
				threshold = (X[sorted[k]][j] + X[sorted[k+1]][j]) / 2
				reduction = gain
				ok = true
			}
		}
	}

	return feature, threshold, reduction, ok
}
