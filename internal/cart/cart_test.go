package cart

import (
	"reflect"
	"sync"
	"testing"
)

func TestCart_AddRemoveSequences(t *testing.T) {
	type op struct {
		action string // "add" or "remove"
		id     int64
	}

	tests := []struct {
		name string
		ops  []op
		want []int64
	}{
		{
			name: "duplicate add then remove other",
			ops:  []op{{"add", 1}, {"add", 2}, {"add", 1}, {"remove", 2}},
			want: []int64{1},
		},
		{
			name: "remove absent id is a no-op",
			ops:  []op{{"add", 3}, {"remove", 7}},
			want: []int64{3},
		},
		{
			name: "insertion order preserved",
			ops:  []op{{"add", 5}, {"add", 2}, {"add", 9}},
			want: []int64{5, 2, 9},
		},
		{
			name: "re-add after remove goes to the end",
			ops:  []op{{"add", 1}, {"add", 2}, {"remove", 1}, {"add", 1}},
			want: []int64{2, 1},
		},
		{
			name: "empty",
			ops:  nil,
			want: []int64{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New()
			for _, o := range tt.ops {
				switch o.action {
				case "add":
					c.Add(o.id)
				case "remove":
					c.Remove(o.id)
				}
			}

			got := c.List()
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("List() = %v, want %v", got, tt.want)
			}
			if c.Len() != len(tt.want) {
				t.Errorf("Len() = %d, want %d", c.Len(), len(tt.want))
			}
			for _, id := range tt.want {
				if !c.Contains(id) {
					t.Errorf("Contains(%d) = false, want true", id)
				}
			}
		})
	}
}

func TestCart_Clear(t *testing.T) {
	c := New()
	c.Add(1)
	c.Add(2)
	c.Clear()

	if c.Len() != 0 {
		t.Errorf("Len() after Clear = %d, want 0", c.Len())
	}
	if c.Contains(1) {
		t.Error("Contains(1) after Clear = true, want false")
	}

	// The cart stays usable after clearing
	c.Add(3)
	if !c.Contains(3) {
		t.Error("Contains(3) after re-add = false, want true")
	}
}

func TestCart_ListIsACopy(t *testing.T) {
	c := New()
	c.Add(1)
	c.Add(2)

	got := c.List()
	got[0] = 99

	if c.List()[0] != 1 {
		t.Error("mutating List() result changed cart state")
	}
}

func TestCart_ConcurrentMutations(t *testing.T) {
	// Two tabs of the same session hammering the cart at once must not
	// corrupt it; run with -race.
	c := New()

	const workers = 50
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func(id int64) {
			defer wg.Done()
			c.Add(id)
			c.Contains(id)
			c.List()
			if id%2 == 0 {
				c.Remove(id)
			}
		}(int64(i))
	}
	wg.Wait()

	if c.Len() != workers/2 {
		t.Errorf("Len() = %d, want %d", c.Len(), workers/2)
	}
	for i := int64(0); i < workers; i++ {
		want := i%2 != 0
		if c.Contains(i) != want {
			t.Errorf("Contains(%d) = %v, want %v", i, !want, want)
		}
	}
}

func TestCart_ConcurrentAddSameID(t *testing.T) {
	c := New()

	const workers = 50
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			c.Add(7)
		}()
	}
	wg.Wait()

	if got := c.List(); len(got) != 1 || got[0] != 7 {
		t.Errorf("List() = %v, want [7]", got)
	}
}

func TestStore_SessionLifecycle(t *testing.T) {
	s := NewStore()

	id := s.Start()
	if id == "" {
		t.Fatal("Start() returned empty session id")
	}

	c, err := s.Get(id)
	if err != nil {
		t.Fatalf("Get(%q) returned error: %v", id, err)
	}
	c.Add(42)

	again, err := s.Get(id)
	if err != nil {
		t.Fatalf("second Get returned error: %v", err)
	}
	if !again.Contains(42) {
		t.Error("cart state not shared across Get calls")
	}

	s.End(id)
	if _, err := s.Get(id); err != ErrSessionNotFound {
		t.Errorf("Get after End: err = %v, want ErrSessionNotFound", err)
	}

	// Ending twice is a no-op
	s.End(id)
}

func TestStore_SessionsAreIsolated(t *testing.T) {
	s := NewStore()

	a := s.Start()
	b := s.Start()
	if a == b {
		t.Fatal("Start() returned the same id twice")
	}

	cartA, _ := s.Get(a)
	cartA.Add(1)

	cartB, _ := s.Get(b)
	if cartB.Contains(1) {
		t.Error("item added to session A visible in session B")
	}
}
