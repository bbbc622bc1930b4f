package pulse

import "testing"

func TestQueue_EnqueueDequeue(t *testing.T) {
	q := NewQueue()
	q.Enqueue(Event{EventType: "click"})

	dequeued, ok := q.Dequeue()
	if !ok || dequeued.EventType != "click" {
		t.Fatal("expected to dequeue event")
	}
}

func TestQueue_IsEmpty(t *testing.T) {
	q := NewQueue()
	if !q.IsEmpty() {
		t.Fatal("expected queue to be empty")
	}
	q.Enqueue(Event{EventType: "click"})
	if q.IsEmpty() {
		t.Fatal("expected queue not to be empty")
	}
}

func TestQueue_Len(t *testing.T) {
	q := NewQueue()
	if q.Len() != 0 {
		t.Fatal("expected length 0")
	}
	q.Enqueue(Event{EventType: "e1"})
	q.Enqueue(Event{EventType: "e2"})
	if q.Len() != 2 {
		t.Fatal("expected length 2")
	}
}

func TestQueue_Clear(t *testing.T) {
	q := NewQueue()
	q.Enqueue(Event{EventType: "click"})
	q.Clear()
	if !q.IsEmpty() {
		t.Fatal("expected queue to be empty after clear")
	}
}

func TestQueue_ToSlice(t *testing.T) {
	q := NewQueue()
	q.Enqueue(Event{EventType: "e1"})
	q.Enqueue(Event{EventType: "e2"})

	slice := q.ToSlice()
	if len(slice) != 2 || slice[0].EventType != "e1" || slice[1].EventType != "e2" {
		t.Fatal("expected slice with 2 events in order")
	}
}

func TestQueue_PrependSlicePreservesOrder(t *testing.T) {
	q := NewQueue()
	q.Enqueue(Event{EventType: "e4"})

	q.PrependSlice([]Event{{EventType: "e1"}, {EventType: "e2"}, {EventType: "e3"}})

	want := []string{"e1", "e2", "e3", "e4"}
	slice := q.ToSlice()
	if len(slice) != len(want) {
		t.Fatalf("expected %d events, got %d", len(want), len(slice))
	}
	for i, eventType := range want {
		if slice[i].EventType != eventType {
			t.Fatalf("position %d: expected %s, got %s", i, eventType, slice[i].EventType)
		}
	}
}

func TestQueue_DequeueEmpty(t *testing.T) {
	q := NewQueue()
	_, ok := q.Dequeue()
	if ok {
		t.Fatal("expected dequeue to fail on empty queue")
	}
}
