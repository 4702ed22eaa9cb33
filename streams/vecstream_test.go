package streams

import (
	"testing"

	"github.com/gustavo-munhoz/reason/core"
)

func TestVecStreamReplaysLabelsInOrder(t *testing.T) {
	s := NewVecStream([]int{0, 1, 1, 0})

	var got []int
	for s.HasMore() {
		inst, ok := s.Next()
		if !ok {
			t.Fatalf("Next returned false while HasMore was true")
		}
		got = append(got, int(s.Header().ClassValue(inst)))
	}

	want := []int{0, 1, 1, 0}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("index %d: got %d, want %d", i, got[i], want[i])
		}
	}

	if _, ok := s.Next(); ok {
		t.Error("Next should return false once exhausted")
	}
}

func TestVecStreamRestart(t *testing.T) {
	s := NewVecStream([]int{1, 0, 1})

	first, _ := s.Next()
	second, _ := s.Next()

	if err := s.Restart(); err != nil {
		t.Fatalf("Restart: %v", err)
	}

	firstAgain, _ := s.Next()
	secondAgain, _ := s.Next()

	if s.Header().ClassValue(first) != s.Header().ClassValue(firstAgain) {
		t.Error("restart did not reproduce the first instance")
	}
	if s.Header().ClassValue(second) != s.Header().ClassValue(secondAgain) {
		t.Error("restart did not reproduce the second instance")
	}
}

func TestMapStreamReplaysRows(t *testing.T) {
	model := binaryModel()
	rows := []core.MapInstance{
		{"class": "0", "x": 1.0},
		{"class": "1", "x": 2.0},
	}
	s := NewMapStream(model, rows)

	var classes []core.AttributeValue
	for s.HasMore() {
		inst, ok := s.Next()
		if !ok {
			t.Fatalf("Next returned false while HasMore was true")
		}
		classes = append(classes, model.ClassValue(inst))
	}
	if len(classes) != 2 {
		t.Fatalf("got %d instances, want 2", len(classes))
	}
	if classes[0].Index() != 0 || classes[1].Index() != 1 {
		t.Errorf("got classes %v, %v, want indices 0 and 1", classes[0], classes[1])
	}

	if err := s.Restart(); err != nil {
		t.Fatalf("Restart: %v", err)
	}
	if !s.HasMore() {
		t.Error("HasMore should be true after Restart")
	}
}
