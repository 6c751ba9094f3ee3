package kuramoto

import (
	"math"
	"math/rand"
	"testing"
)

func TestNewBank(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	b, err := NewBank(90, 1.1, 0.10, 10.0, 2.5, rng)
	if err != nil {
		t.Fatalf("NewBank failed: %v", err)
	}

	if b.N != 90 || len(b.Phases) != 90 || len(b.Omegas) != 90 {
		t.Fatal("bank has wrong dimensions")
	}

	mean := 2 * math.Pi * 1.1
	for i, w := range b.Omegas {
		if math.Abs(w-mean) > 1.0 {
			t.Errorf("omega[%d] = %f implausibly far from mean %f", i, w, mean)
		}
	}
	for i, p := range b.Phases {
		if p < -math.Pi || p > math.Pi {
			t.Errorf("initial phase[%d] = %f outside [-pi,pi]", i, p)
		}
	}
}

func TestNewBank_SeedReproducible(t *testing.T) {
	b1, _ := NewBank(30, 1.1, 0.10, 10.0, 2.5, rand.New(rand.NewSource(7)))
	b2, _ := NewBank(30, 1.1, 0.10, 10.0, 2.5, rand.New(rand.NewSource(7)))

	for i := 0; i < 30; i++ {
		if b1.Omegas[i] != b2.Omegas[i] {
			t.Fatalf("omega[%d] differs across identical seeds", i)
		}
		if b1.Phases[i] != b2.Phases[i] {
			t.Fatalf("phase[%d] differs across identical seeds", i)
		}
	}
}

func TestNewBank_Stagger(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	b, _ := NewBank(50, 1.1, 0.10, 10.0, 0, rng)

	// Before the window opens, some are still waiting; after it closes, all run.
	early := b.ActiveFlags(0.5)
	allEarly := true
	for _, a := range early {
		if !a {
			allEarly = false
			break
		}
	}
	if allEarly {
		t.Error("expected some oscillators inactive inside the stagger window")
	}

	late := b.ActiveFlags(10.0)
	for i, a := range late {
		if !a {
			t.Errorf("oscillator %d still inactive after the stagger window", i)
		}
	}
}

func TestNewBank_ZeroStagger(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	b, _ := NewBank(10, 1.1, 0, 0, 0, rng)

	for i, a := range b.ActiveFlags(0) {
		if !a {
			t.Errorf("oscillator %d inactive at t=0 with zero stagger", i)
		}
	}
}

func TestBank_Snapshot(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	b, _ := NewBank(5, 1.1, 0, 0, 0, rng)

	snap := b.Snapshot()
	snap[0] = 99.0
	if b.Phases[0] == 99.0 {
		t.Error("Snapshot did not copy the phase vector")
	}
}

func TestNewBank_Invalid(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	if _, err := NewBank(0, 1.1, 0.1, 10, 2.5, rng); err == nil {
		t.Error("expected error for zero n")
	}
	if _, err := NewBank(10, 1.1, -0.1, 10, 2.5, rng); err == nil {
		t.Error("expected error for negative spread")
	}
	if _, err := NewBank(10, 1.1, 0.1, -1, 2.5, rng); err == nil {
		t.Error("expected error for negative stagger")
	}
}
