package game

import (
	"testing"

	"arith-quiz-service/internal/domain"
)

func TestOptionSetProperties(t *testing.T) {
	rnd := NewRandomRange(nil)
	equations := NewEquationGenerator(rnd)
	options := NewOptionSetGenerator(rnd)

	for i := 0; i < 2000; i++ {
		eq := equations.Generate()
		got := options.Generate(eq, OptionCount)
		assertOptionSet(t, eq, got, OptionCount)
	}
}

func TestOptionSetSmallAnswer(t *testing.T) {
	options := NewOptionSetGenerator(NewRandomRange(nil))
	eq := domain.Equation{A: 1, B: 1, Operator: domain.OperatorAdd, Answer: 2}
	for i := 0; i < 500; i++ {
		assertOptionSet(t, eq, options.Generate(eq, OptionCount), OptionCount)
	}
}

func TestOptionSetFallsBackToDeterministicFill(t *testing.T) {
	// An exhausted source always draws offset -10, which is never a valid distractor for 2.
	options := NewOptionSetGenerator(NewRandomRange(&scriptedSource{}))
	eq := domain.Equation{A: 1, B: 1, Operator: domain.OperatorAdd, Answer: 2}

	got := options.Generate(eq, OptionCount)
	assertOptionSet(t, eq, got, OptionCount)

	want := map[int]bool{1: true, 2: true, 3: true, 4: true}
	for _, v := range got {
		if !want[v] {
			t.Fatalf("expected nearest neighbours {1,2,3,4}, got %v", got)
		}
	}
}

func TestOptionSetLargeCountTerminates(t *testing.T) {
	options := NewOptionSetGenerator(NewRandomRange(nil))
	eq := domain.Equation{A: 1, B: 2, Operator: domain.OperatorAdd, Answer: 3}
	assertOptionSet(t, eq, options.Generate(eq, 40), 40)
}

func TestOptionSetNonPositiveCount(t *testing.T) {
	options := NewOptionSetGenerator(NewRandomRange(nil))
	eq := domain.Equation{A: 2, B: 2, Operator: domain.OperatorAdd, Answer: 4}
	got := options.Generate(eq, 0)
	if len(got) != 1 || got[0] != 4 {
		t.Fatalf("expected only the answer, got %v", got)
	}
}

func assertOptionSet(t *testing.T, eq domain.Equation, got []int, count int) {
	t.Helper()
	if len(got) != count {
		t.Fatalf("expected %d options, got %v", count, got)
	}
	seen := make(map[int]bool, len(got))
	answers := 0
	for _, v := range got {
		if v <= 0 {
			t.Fatalf("non-positive option in %v", got)
		}
		if seen[v] {
			t.Fatalf("duplicate option in %v", got)
		}
		seen[v] = true
		if v == eq.Answer {
			answers++
		}
	}
	if answers != 1 {
		t.Fatalf("expected exactly one answer %d in %v", eq.Answer, got)
	}
}
