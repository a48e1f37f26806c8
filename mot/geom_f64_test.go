package mot

import (
	"math"
	"testing"
)

const (
	eps = 0.00001
)

func TestEuclideanDistance(t *testing.T) {
	p1 := Point{X: 341, Y: 264}
	p2 := Point{X: 421, Y: 427}
	correnctAnswer := 181.57367
	answer := euclideanDistance(p1, p2)
	if math.Abs(answer-correnctAnswer) > eps {
		t.Errorf("Wrong answer: %v, correct answer: %v", answer, correnctAnswer)
	}
}

func TestManhattanDistance(t *testing.T) {
	p1 := Point{X: 341, Y: 264}
	p2 := Point{X: 421, Y: 227}
	answer := manhattanDistance(p1, p2)
	if math.Abs(answer-117.0) > eps {
		t.Errorf("Wrong answer: %v, correct answer: %v", answer, 117.0)
	}
}

func TestRectangleInsetContains(t *testing.T) {
	frame := NewRect(0, 0, 200, 100)
	inner := frame.Inset(10)
	if inner.X != 10 || inner.Y != 10 || inner.Width != 180 || inner.Height != 80 {
		t.Fatalf("Wrong inset rectangle: %+v", inner)
	}
	cases := []struct {
		p      Point
		inside bool
	}{
		{Point{X: 100, Y: 50}, true},
		{Point{X: 10, Y: 10}, true},
		{Point{X: 190, Y: 90}, true},
		{Point{X: 5, Y: 50}, false},
		{Point{X: 100, Y: 95}, false},
	}
	for _, c := range cases {
		if inner.Contains(c.p) != c.inside {
			t.Errorf("Contains(%+v) should be %v", c.p, c.inside)
		}
	}
	tiny := NewRect(0, 0, 10, 10).Inset(20)
	if tiny.Width != 0 || tiny.Height != 0 {
		t.Errorf("Inset must not produce negative size: %+v", tiny)
	}
}

func TestPointIsFinite(t *testing.T) {
	if !NewPoint(1, 2).IsFinite() {
		t.Errorf("Point (1, 2) must be finite")
	}
	if NewPoint(math.NaN(), 2).IsFinite() {
		t.Errorf("Point with NaN must not be finite")
	}
	if NewPoint(1, math.Inf(-1)).IsFinite() {
		t.Errorf("Point with -Inf must not be finite")
	}
}
