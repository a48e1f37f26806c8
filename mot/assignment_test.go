package mot

import (
	"math"
	"math/rand"
	"testing"
)

func TestHungarianMatchingOptimal(t *testing.T) {
	cost := [][]float64{
		{1, 2},
		{2, 100},
	}
	assignment := solveAssignment(MatchingAlgorithmHungarian, cost, 2)
	if assignment[0] != 1 || assignment[1] != 0 {
		t.Errorf("Wrong assignment: %v, correct answer: %v", assignment, []int{1, 0})
	}
}

func TestHungarianMatchingRegression(t *testing.T) {
	cost := [][]float64{
		{104, 481.5},
		{151, 404},
		{67, 474},
	}
	assignment := solveAssignment(MatchingAlgorithmHungarian, cost, 2)
	count, total := assignmentCost(cost, assignment)
	if count != 2 || math.Abs(total-471) > eps {
		t.Errorf("Wrong assignment: %v with %d pairs and total %v, correct total: %v", assignment, count, total, 471.0)
	}
}

// bruteForceAssignment returns the largest number of feasible pairs and the
// smallest total cost among matchings of that size.
func bruteForceAssignment(cost [][]float64, numCols int) (int, float64) {
	usedCols := make([]bool, numCols)
	bestCount, bestTotal := 0, 0.0
	var walk func(row, count int, total float64)
	walk = func(row, count int, total float64) {
		if row == len(cost) {
			if count > bestCount || (count == bestCount && total < bestTotal) {
				bestCount, bestTotal = count, total
			}
			return
		}
		walk(row+1, count, total)
		for j := 0; j < numCols; j++ {
			if usedCols[j] || infeasible(cost[row][j]) {
				continue
			}
			usedCols[j] = true
			walk(row+1, count+1, total+cost[row][j])
			usedCols[j] = false
		}
	}
	walk(0, 0, 0)
	return bestCount, bestTotal
}

func assignmentCost(cost [][]float64, assignment []int) (int, float64) {
	count, total := 0, 0.0
	for i, j := range assignment {
		if j == Unassigned {
			continue
		}
		count++
		total += cost[i][j]
	}
	return count, total
}

func randomCostMatrix(rnd *rand.Rand, numRows, numCols int, withInfeasible bool) [][]float64 {
	cost := make([][]float64, numRows)
	for i := range cost {
		cost[i] = make([]float64, numCols)
		for j := range cost[i] {
			// Integers and halves produce plenty of ties
			cost[i][j] = float64(rnd.Intn(1000)) / 2
			if withInfeasible && rnd.Intn(5) == 0 {
				cost[i][j] = math.Inf(1)
			}
		}
	}
	return cost
}

func TestHungarianMatchingRandomized(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))
	for iter := 0; iter < 2000; iter++ {
		numRows, numCols := 1+rnd.Intn(6), 1+rnd.Intn(6)
		cost := randomCostMatrix(rnd, numRows, numCols, iter%2 == 1)
		assignment := solveAssignment(MatchingAlgorithmHungarian, cost, numCols)

		usedCols := make(map[int]bool)
		for i, j := range assignment {
			if j == Unassigned {
				continue
			}
			if j < 0 || j >= numCols || usedCols[j] {
				t.Fatalf("Invalid assignment %v for %v", assignment, cost)
			}
			if infeasible(cost[i][j]) {
				t.Fatalf("Infeasible cell matched: %v for %v", assignment, cost)
			}
			usedCols[j] = true
		}

		count, total := assignmentCost(cost, assignment)
		wantCount, wantTotal := bruteForceAssignment(cost, numCols)
		if count != wantCount || math.Abs(total-wantTotal) > eps {
			t.Fatalf("Suboptimal assignment %v for %v: %d pairs with total %v, optimum: %d pairs with total %v", assignment, cost, count, total, wantCount, wantTotal)
		}
	}
}

func TestHungarianMatchingDeterministic(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	for iter := 0; iter < 200; iter++ {
		numRows, numCols := 2+rnd.Intn(9), 2+rnd.Intn(9)
		cost := make([][]float64, numRows)
		for i := range cost {
			cost[i] = make([]float64, numCols)
			for j := range cost[i] {
				// Few distinct values, many equally good answers
				cost[i][j] = float64(rnd.Intn(4))
			}
		}
		first := solveAssignment(MatchingAlgorithmHungarian, cost, numCols)
		for attempt := 0; attempt < 20; attempt++ {
			next := solveAssignment(MatchingAlgorithmHungarian, cost, numCols)
			for i := range first {
				if next[i] != first[i] {
					t.Fatalf("Assignment changed between runs for %v: %v vs %v", cost, first, next)
				}
			}
		}
	}
}

func TestGreedyMatching(t *testing.T) {
	cost := [][]float64{
		{1, 2},
		{2, 100},
	}
	assignment := solveAssignment(MatchingAlgorithmGreedy, cost, 2)
	if assignment[0] != 0 || assignment[1] != 1 {
		t.Errorf("Wrong assignment: %v, correct answer: %v", assignment, []int{0, 1})
	}
}

func TestRectangularMatching(t *testing.T) {
	// More detections than tracks
	cost := [][]float64{
		{30, 5, 40},
	}
	for _, algorithm := range []MatchingAlgorithm{MatchingAlgorithmHungarian, MatchingAlgorithmGreedy} {
		assignment := solveAssignment(algorithm, cost, 3)
		if assignment[0] != 1 {
			t.Errorf("[%s] Wrong assignment: %v", algorithm, assignment)
		}
	}
	// More tracks than detections
	cost = [][]float64{
		{10},
		{3},
		{7},
	}
	for _, algorithm := range []MatchingAlgorithm{MatchingAlgorithmHungarian, MatchingAlgorithmGreedy} {
		assignment := solveAssignment(algorithm, cost, 1)
		if assignment[0] != Unassigned || assignment[1] != 0 || assignment[2] != Unassigned {
			t.Errorf("[%s] Wrong assignment: %v", algorithm, assignment)
		}
	}
}

func TestInfeasibleCellsNeverMatched(t *testing.T) {
	cost := [][]float64{
		{math.NaN(), math.Inf(1)},
		{4, math.NaN()},
	}
	for _, algorithm := range []MatchingAlgorithm{MatchingAlgorithmHungarian, MatchingAlgorithmGreedy} {
		assignment := solveAssignment(algorithm, cost, 2)
		if assignment[0] != Unassigned {
			t.Errorf("[%s] Row with only infeasible cells must stay unassigned: %v", algorithm, assignment)
		}
		if assignment[1] != 0 {
			t.Errorf("[%s] Wrong assignment: %v", algorithm, assignment)
		}
	}
	allBad := [][]float64{{math.NaN()}}
	if got := solveAssignment(MatchingAlgorithmHungarian, allBad, 1); got[0] != Unassigned {
		t.Errorf("Infeasible matrix must produce no matches: %v", got)
	}
}

func TestEmptyAssignment(t *testing.T) {
	assignment := solveAssignment(MatchingAlgorithmHungarian, [][]float64{{}, {}}, 0)
	if len(assignment) != 2 || assignment[0] != Unassigned || assignment[1] != Unassigned {
		t.Errorf("Wrong assignment for zero detections: %v", assignment)
	}
}
