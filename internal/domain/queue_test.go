package domain

import (
	"errors"
	"testing"
)

func TestQueueDrainIsFIFO(t *testing.T) {
	q := NewQueue()
	for _, id := range []string{"a", "b", "c", "d"} {
		if err := q.Enqueue(Participant{ID: id, DisplayName: id}); err != nil {
			t.Fatalf("enqueue %s: %v", id, err)
		}
	}

	first := q.Drain(2)
	if len(first) != 2 || first[0].ID != "a" || first[1].ID != "b" {
		t.Fatalf("first drain = %v, want [a b]", first)
	}

	second := q.Drain(2)
	if len(second) != 2 || second[0].ID != "c" || second[1].ID != "d" {
		t.Fatalf("second drain = %v, want [c d]", second)
	}

	if q.Len() != 0 {
		t.Fatalf("queue length after drains = %d, want 0", q.Len())
	}
}

func TestQueueDrainInsufficientEntries(t *testing.T) {
	q := NewQueue()
	q.Enqueue(Participant{ID: "a"})

	if group := q.Drain(2); group != nil {
		t.Fatalf("drain with one entry = %v, want nil", group)
	}
	if q.Len() != 1 {
		t.Fatalf("drain must not consume a partial group, length = %d", q.Len())
	}
}

func TestQueueRejectsDuplicateEntry(t *testing.T) {
	q := NewQueue()
	if err := q.Enqueue(Participant{ID: "a"}); err != nil {
		t.Fatalf("first enqueue: %v", err)
	}

	err := q.Enqueue(Participant{ID: "a"})
	if !errors.Is(err, ErrAlreadyQueued) {
		t.Fatalf("duplicate enqueue error = %v, want ErrAlreadyQueued", err)
	}
	if q.Len() != 1 {
		t.Fatalf("duplicate must not occupy a second slot, length = %d", q.Len())
	}
}

func TestQueueRemove(t *testing.T) {
	q := NewQueue()
	q.Enqueue(Participant{ID: "a"})
	q.Enqueue(Participant{ID: "b"})
	q.Enqueue(Participant{ID: "c"})

	if !q.Remove("b") {
		t.Fatal("expected b to be removed")
	}
	if q.Remove("b") {
		t.Fatal("second removal of b should report false")
	}

	group := q.Drain(2)
	if group[0].ID != "a" || group[1].ID != "c" {
		t.Fatalf("drain after removal = %v, want [a c]", group)
	}
}
