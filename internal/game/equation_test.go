package game

import "testing"

func TestEquationBounds(t *testing.T) {
	gen := NewEquationGenerator(NewRandomRange(nil))
	for i := 0; i < 5000; i++ {
		eq := gen.Generate()
		if eq.A < 1 || eq.A > 10 {
			t.Fatalf("a out of range: %+v", eq)
		}
		if eq.B < 1 {
			t.Fatalf("b out of range: %+v", eq)
		}
		if eq.A+eq.B > 20 {
			t.Fatalf("sum above 20: %+v", eq)
		}
		if eq.Answer != eq.A+eq.B {
			t.Fatalf("answer mismatch: %+v", eq)
		}
		if eq.Operator != "+" {
			t.Fatalf("unexpected operator %q", eq.Operator)
		}
	}
}

func TestEquationFromScriptedDraws(t *testing.T) {
	gen := NewEquationGenerator(NewRandomRange(&scriptedSource{values: []int{2, 3}}))
	eq := gen.Generate()
	if eq.A != 3 || eq.B != 4 || eq.Answer != 7 {
		t.Fatalf("expected 3 + 4 = 7, got %+v", eq)
	}
	if got := eq.String(); got != "3 + 4 = ?" {
		t.Fatalf("unexpected rendering %q", got)
	}
}

func TestEquationMaxAddendKeepsRangeNonEmpty(t *testing.T) {
	// a=10 leaves b in [1,10]; drawing the top of that range must still fit the sum cap.
	gen := NewEquationGenerator(NewRandomRange(&scriptedSource{values: []int{9, 9}}))
	eq := gen.Generate()
	if eq.A != 10 || eq.B != 10 || eq.Answer != 20 {
		t.Fatalf("expected 10 + 10 = 20, got %+v", eq)
	}
}
