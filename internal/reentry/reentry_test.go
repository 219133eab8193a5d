package reentry

import (
	"sync"
	"testing"
)

func TestEnterExitDepth(t *testing.T) {
	if d := Enter(); d != 1 {
		t.Errorf("first Enter = %d, want 1", d)
	}
	if d := Enter(); d != 2 {
		t.Errorf("second Enter = %d, want 2", d)
	}
	Exit()
	Exit()
	if d := Enter(); d != 1 {
		t.Errorf("Enter after full unwind = %d, want 1", d)
	}
	Exit()
}

func TestExitWithoutEnter(t *testing.T) {
	Exit() // must not panic or underflow
	if d := Enter(); d != 1 {
		t.Errorf("Enter after stray Exit = %d, want 1", d)
	}
	Exit()
}

func TestDepthPerGoroutine(t *testing.T) {
	Enter()
	defer Exit()

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if d := Enter(); d != 1 {
				t.Errorf("fresh goroutine Enter = %d, want 1", d)
			}
			Exit()
		}()
	}
	wg.Wait()
}

func TestGoroutineIDStable(t *testing.T) {
	a := goroutineID()
	b := goroutineID()
	if a == 0 {
		t.Fatal("goroutine id parsed as 0")
	}
	if a != b {
		t.Errorf("id changed between calls: %d then %d", a, b)
	}
}
