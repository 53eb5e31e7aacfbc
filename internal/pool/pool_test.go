package pool

import (
	"sync"
	"testing"
)

func TestPoolGetPut(t *testing.T) {
	created := 0
	p := NewPool(func() *int {
		created++
		x := 42
		return &x
	})

	obj := p.Get()
	if *obj != 42 {
		t.Fatalf("Get() = %d, want 42", *obj)
	}
	p.Put(obj)
	p.Put(nil)
	if created < 1 {
		t.Fatal("factory never called")
	}
}

func TestPoolResetOnGet(t *testing.T) {
	p := NewPoolWithReset(
		func() *[]string { s := make([]string, 0, 4); return &s },
		func(s *[]string) { *s = (*s)[:0] },
	)
	for i := 0; i < 10; i++ {
		s := p.Get()
		if len(*s) != 0 {
			t.Fatalf("iteration %d: got dirty slice %v", i, *s)
		}
		*s = append(*s, "a", "b")
		p.Put(s)
	}
}

func TestPoolMaxSize(t *testing.T) {
	p := NewPool(func() *int { return new(int) })
	p.SetMaxSize(2)
	for i := 0; i < 5; i++ {
		p.Put(new(int))
	}
	count, maxSize := p.Stats()
	if maxSize != 2 {
		t.Fatalf("maxSize = %d, want 2", maxSize)
	}
	if count != 2 {
		t.Fatalf("count = %d, want 2", count)
	}
}

func TestPoolConcurrent(t *testing.T) {
	p := NewPoolWithReset(func() *int { return new(int) }, func(x *int) { *x = 0 })
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 1000; i++ {
				x := p.Get()
				if *x != 0 {
					t.Errorf("got unreset value %d", *x)
					return
				}
				*x = i + 1
				p.Put(x)
			}
		}()
	}
	wg.Wait()
}

func TestBufferPool(t *testing.T) {
	bp := NewBufferPool()
	tests := []struct {
		minCap  int
		wantCap int
	}{
		{1, 64},
		{64, 64},
		{100, 256},
		{1024, 1024},
		{5000, 5000},
	}
	for _, tt := range tests {
		buf := bp.Get(tt.minCap)
		if len(*buf) != 0 {
			t.Errorf("Get(%d) returned non-empty buffer", tt.minCap)
		}
		if cap(*buf) < tt.wantCap {
			t.Errorf("Get(%d) cap = %d, want >= %d", tt.minCap, cap(*buf), tt.wantCap)
		}
		*buf = append(*buf, "data"...)
		bp.Put(buf)
	}
	bp.Put(nil)

	buf := bp.Get(10)
	if len(*buf) != 0 {
		t.Fatalf("reused buffer not reset: %q", *buf)
	}
}
