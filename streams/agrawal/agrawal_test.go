package agrawal

import "testing"

func TestNewRejectsInvalidFunctionID(t *testing.T) {
	if _, err := New(0, false, 0, 0, 1); err == nil {
		t.Error("expected error for function 0")
	}
	if _, err := New(11, false, 0, 0, 1); err == nil {
		t.Error("expected error for function 11")
	}
}

func TestNewRejectsInvalidPerturb(t *testing.T) {
	if _, err := New(1, false, -0.01, 0, 1); err == nil {
		t.Error("expected error for negative perturb")
	}
	if _, err := New(1, false, 1.01, 0, 1); err == nil {
		t.Error("expected error for perturb > 1")
	}
}

func TestHeaderShape(t *testing.T) {
	g, err := New(1, false, 0, 1, 42)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	h := g.Header()
	if h.NumAttributes() != 10 {
		t.Errorf("got %d attributes, want 10", h.NumAttributes())
	}
	if h.ClassIndex != 0 {
		t.Errorf("got class index %d, want 0", h.ClassIndex)
	}
	if h.NumClasses() != 2 {
		t.Errorf("got %d classes, want 2", h.NumClasses())
	}
}

func TestMaxInstancesAndHasMore(t *testing.T) {
	g, err := New(7, false, 0, 3, 123)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for i := 0; i < 3; i++ {
		if !g.HasMore() {
			t.Fatalf("HasMore false before producing %d instances", 3)
		}
		if _, ok := g.Next(); !ok {
			t.Fatalf("Next returned false at index %d", i)
		}
	}
	if g.HasMore() {
		t.Error("HasMore should be false after maxInstances reached")
	}
	if _, ok := g.Next(); ok {
		t.Error("Next should return false once exhausted")
	}
}

func TestRestartReproducesSequence(t *testing.T) {
	g, err := New(9, false, 0, 20, 2024)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	a1, _ := g.Next()
	a2, _ := g.Next()

	if err := g.Restart(); err != nil {
		t.Fatalf("Restart: %v", err)
	}

	b1, _ := g.Next()
	b2, _ := g.Next()

	if a1.GetAttributeValue("salary") != b1.GetAttributeValue("salary") {
		t.Error("restart did not reproduce the first instance")
	}
	if a2.GetAttributeValue("salary") != b2.GetAttributeValue("salary") {
		t.Error("restart did not reproduce the second instance")
	}
}

func TestBalanceClassesAlternates(t *testing.T) {
	g, err := New(1, true, 0, 10, 7)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for i := 0; i < 10; i++ {
		inst, ok := g.Next()
		if !ok {
			t.Fatalf("Next returned false at index %d", i)
		}
		class := int(g.Header().ClassValue(inst))
		want := 0
		if i%2 == 0 {
			want = 1
		}
		if class != want {
			t.Errorf("index %d: got class %d, want %d", i, class, want)
		}
	}
}

func TestDetermineDispatchBounds(t *testing.T) {
	a := rawAttrs{salary: 80_000, commission: 10_000, age: 45, elevel: 2, car: 10, zipcode: 3, hvalue: 200_000, hyears: 15, loan: 100_000}
	for id := 1; id <= 10; id++ {
		got := determine(id, a)
		if got != 0 && got != 1 {
			t.Errorf("function %d: got %d, want 0 or 1", id, got)
		}
	}
}
