package symexec

import (
	"math/rand"
	"testing"
)

// fakeContexts lets worklist tests avoid constructing a real z3-backed
// Context; the worklists never look inside the elements they hold.
func fakeContexts(n int) []*Context {
	out := make([]*Context, n)
	for i := range out {
		out[i] = &Context{}
	}
	return out
}

func TestDFSWorklist_LIFO(t *testing.T) {
	w := NewDFSWorklist()
	items := fakeContexts(3)
	for _, c := range items {
		w.Push(c)
	}
	for i := len(items) - 1; i >= 0; i-- {
		got, ok := w.Pop()
		if !ok {
			t.Fatalf("Pop returned !ok early")
		}
		if got != items[i] {
			t.Errorf("Pop order mismatch at position %d", i)
		}
	}
	if _, ok := w.Pop(); ok {
		t.Errorf("Pop on empty worklist returned ok")
	}
}

func TestBFSWorklist_FIFO(t *testing.T) {
	w := NewBFSWorklist()
	items := fakeContexts(3)
	for _, c := range items {
		w.Push(c)
	}
	for i := 0; i < len(items); i++ {
		got, ok := w.Pop()
		if !ok {
			t.Fatalf("Pop returned !ok early")
		}
		if got != items[i] {
			t.Errorf("Pop order mismatch at position %d", i)
		}
	}
}

func TestRandomWorklist_ReturnsAllPushed(t *testing.T) {
	w := NewRandomWorklist(rand.New(rand.NewSource(1)))
	items := fakeContexts(5)
	for _, c := range items {
		w.Push(c)
	}
	seen := make(map[*Context]bool)
	for w.Len() > 0 {
		c, ok := w.Pop()
		if !ok {
			t.Fatalf("Pop returned !ok while Len() > 0")
		}
		seen[c] = true
	}
	for _, c := range items {
		if !seen[c] {
			t.Errorf("item %p was never popped", c)
		}
	}
}
