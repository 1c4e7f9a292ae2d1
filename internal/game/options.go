package game

import "arith-quiz-service/internal/domain"

const maxDistractorOffset = 10

// OptionSetGenerator builds the shuffled list of candidate answers for an equation.
type OptionSetGenerator struct {
	rnd         *RandomRange
	maxAttempts int
}

func NewOptionSetGenerator(rnd *RandomRange) *OptionSetGenerator {
	return &OptionSetGenerator{rnd: rnd, maxAttempts: MaxOptionAttempts}
}

// Generate returns count distinct positive integers, exactly one of which is eq.Answer.
// Distractors are sampled as answer+offset with offset in [-10,10]\{0}. If sampling has not
// produced enough values after maxAttempts draws, the remainder is filled with the nearest
// unused positive neighbours of the answer.
func (g *OptionSetGenerator) Generate(eq domain.Equation, count int) []int {
	if count < 1 {
		count = 1
	}

	values := make([]int, 0, count)
	seen := make(map[int]struct{}, count)
	add := func(v int) {
		if _, ok := seen[v]; ok {
			return
		}
		seen[v] = struct{}{}
		values = append(values, v)
	}
	add(eq.Answer)

	for attempts := 0; len(values) < count && attempts < g.maxAttempts; attempts++ {
		offset := g.rnd.NextInt(-maxDistractorOffset, maxDistractorOffset)
		if offset == 0 {
			continue
		}
		candidate := eq.Answer + offset
		if candidate <= 0 {
			continue
		}
		add(candidate)
	}

	for d := 1; len(values) < count; d++ {
		add(eq.Answer + d)
		if len(values) < count && eq.Answer-d > 0 {
			add(eq.Answer - d)
		}
	}

	g.rnd.Shuffle(values)
	return values
}
