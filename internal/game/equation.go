package game

import "arith-quiz-service/internal/domain"

const (
	maxAddend = 10
	maxSum    = 20
)

// EquationGenerator produces addition equations whose sum stays within maxSum.
type EquationGenerator struct {
	rnd *RandomRange
}

func NewEquationGenerator(rnd *RandomRange) *EquationGenerator {
	return &EquationGenerator{rnd: rnd}
}

// Generate draws a in [1,10] and b in [1, min(10, 20-a)], so the range for b is never empty.
func (g *EquationGenerator) Generate() domain.Equation {
	a := g.rnd.NextInt(1, maxAddend)
	b := g.rnd.NextInt(1, min(maxAddend, maxSum-a))
	return domain.Equation{
		A:        a,
		B:        b,
		Operator: domain.OperatorAdd,
		Answer:   a + b,
	}
}
