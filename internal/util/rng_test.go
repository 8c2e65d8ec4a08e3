package util

import "testing"

func TestNewIsDeterministic(t *testing.T) {
	a, b := New(42), New(42)
	for i := 0; i < 5; i++ {
		if a.Int63() != b.Int63() {
			t.Fatal("same seed produced different sequences")
		}
	}
	if New(0).Int63() != New(1).Int63() {
		t.Fatal("seed 0 should behave like seed 1")
	}
}

func TestJitter(t *testing.T) {
	r := New(7)
	for i := 0; i < 1000; i++ {
		v := Jitter(r, 100, 0.2)
		if v < 80 || v > 120 {
			t.Fatalf("Jitter(100, 0.2) = %d out of range", v)
		}
	}
	if got := Jitter(r, 50, 0); got != 50 {
		t.Fatalf("Jitter with f=0 = %d", got)
	}
	if got := Jitter(r, 0, 0.5); got != 0 {
		t.Fatalf("Jitter of 0 = %d", got)
	}
}
