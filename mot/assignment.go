package mot

import "math"

// Unassigned marks a track row without a detection.
const Unassigned = -1

// infeasible reports whether the cost cell cannot take part in matching.
func infeasible(cost float64) bool {
	return math.IsNaN(cost) || math.IsInf(cost, 0) || cost < 0
}

// solveAssignment returns minimum-cost one-to-one matching for a rectangular cost matrix.
// Result has one entry per row: column index or Unassigned. Infeasible cells are never matched.
func solveAssignment(algorithm MatchingAlgorithm, cost [][]float64, numCols int) []int {
	assignment := make([]int, len(cost))
	for i := range assignment {
		assignment[i] = Unassigned
	}
	if len(cost) == 0 || numCols == 0 {
		return assignment
	}
	switch algorithm {
	case MatchingAlgorithmGreedy:
		performGreedyMatching(cost, numCols, assignment)
	default:
		performHungarianMatching(cost, len(cost), numCols, assignment)
	}
	return assignment
}

// performHungarianMatching solves the problem with Kuhn-Munkres (Jonker-Volgenant potentials) in O(n^3).
// Padding and infeasible cells cost bigM, which exceeds the sum of all feasible costs,
// so the optimum is the maximum-cardinality matching of the minimal total cost.
// Cells costing bigM are rejected afterwards.
func performHungarianMatching(cost [][]float64, numRows, numCols int, assignment []int) {
	bigM := 1.0
	feasible := false
	for i := 0; i < numRows; i++ {
		for j := 0; j < numCols; j++ {
			if !infeasible(cost[i][j]) {
				bigM += cost[i][j]
				feasible = true
			}
		}
	}
	if !feasible {
		return
	}

	// Make the matrix square by padding.
	dim := maxInt(numRows, numCols)
	c := make([][]float64, dim)
	for i := 0; i < dim; i++ {
		c[i] = make([]float64, dim)
		for j := 0; j < dim; j++ {
			if i < numRows && j < numCols && !infeasible(cost[i][j]) {
				c[i][j] = cost[i][j]
			} else {
				c[i][j] = bigM
			}
		}
	}

	// 1-indexed, column 0 is virtual
	const inf = math.MaxFloat64 / 2
	u := make([]float64, dim+1) // Row potentials
	v := make([]float64, dim+1) // Column potentials
	p := make([]int, dim+1)     // p[j] = row assigned to column j
	way := make([]int, dim+1)   // way[j] = previous column in augmenting path
	minv := make([]float64, dim+1)
	used := make([]bool, dim+1)

	for i := 1; i <= dim; i++ {
		p[0] = i
		j0 := 0
		for j := 1; j <= dim; j++ {
			minv[j] = inf
			used[j] = false
		}
		for {
			used[j0] = true
			i0 := p[j0]
			delta := inf
			j1 := -1
			for j := 1; j <= dim; j++ {
				if used[j] {
					continue
				}
				cur := c[i0-1][j-1] - u[i0] - v[j]
				if cur < minv[j] {
					minv[j] = cur
					way[j] = j0
				}
				if minv[j] < delta {
					delta = minv[j]
					j1 = j
				}
			}
			if j1 < 0 {
				break
			}
			for j := 0; j <= dim; j++ {
				if used[j] {
					u[p[j]] += delta
					v[j] -= delta
				} else {
					minv[j] -= delta
				}
			}
			j0 = j1
			if p[j0] == 0 {
				break
			}
		}
		// Augment along the path
		for j0 != 0 {
			p[j0] = p[way[j0]]
			j0 = way[j0]
		}
	}

	for j := 1; j <= numCols; j++ {
		row := p[j] - 1
		if row < 0 || row >= numRows || infeasible(cost[row][j-1]) {
			continue
		}
		assignment[row] = j - 1
	}
}

// performGreedyMatching repeatedly takes the cheapest pair whose row and column are both free.
func performGreedyMatching(cost [][]float64, numCols int, assignment []int) {
	priorityQueue := make(distanceHeap, 0, len(cost)*numCols)
	for i := range cost {
		for j := 0; j < numCols; j++ {
			if infeasible(cost[i][j]) {
				continue
			}
			priorityQueue.Push(&distancePair{row: i, col: j, distance: cost[i][j]})
		}
	}
	usedCols := make(map[int]struct{})
	for priorityQueue.Len() > 0 {
		pair := priorityQueue.Pop()
		if assignment[pair.row] != Unassigned {
			continue
		}
		if _, ok := usedCols[pair.col]; ok {
			continue
		}
		assignment[pair.row] = pair.col
		usedCols[pair.col] = struct{}{}
	}
}
