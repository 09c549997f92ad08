package device

import (
	"errors"
	"testing"
)

func TestAllocateClaimsFirstFreePair(t *testing.T) {
	reg := NewMemRegistry()

	pair, err := Allocate(reg, 224, 228, 2)
	if err != nil {
		t.Fatalf("allocate: %v", err)
	}
	if pair.ReadID != 224 || pair.WriteID != 225 {
		t.Fatalf("expected pair 224/225, got %d/%d", pair.ReadID, pair.WriteID)
	}
}

func TestAllocateSkipsClaimedPairs(t *testing.T) {
	reg := NewMemRegistry()
	for _, id := range []int{224, 226} {
		if err := reg.OpenForRead(id, 0); err != nil {
			t.Fatalf("pre-claim %d: %v", id, err)
		}
	}

	pair, err := Allocate(reg, 224, 228, 2)
	if err != nil {
		t.Fatalf("allocate: %v", err)
	}
	if pair.ReadID != 228 || pair.WriteID != 229 {
		t.Fatalf("expected pair 228/229, got %d/%d", pair.ReadID, pair.WriteID)
	}
}

func TestAllocateExhaustedRange(t *testing.T) {
	reg := NewMemRegistry()
	for id := 224; id <= 230; id += 2 {
		if err := reg.OpenForRead(id, 0); err != nil {
			t.Fatalf("pre-claim %d: %v", id, err)
		}
	}

	if _, err := Allocate(reg, 224, 230, 2); !errors.Is(err, ErrNoFreeDevices) {
		t.Fatalf("expected ErrNoFreeDevices, got %v", err)
	}
}

func TestAllocateRangeDefaultsPairCount(t *testing.T) {
	reg := NewMemRegistry()

	pair, err := AllocateRange(reg, 100, 0)
	if err != nil {
		t.Fatalf("allocate: %v", err)
	}
	if pair.ReadID != 100 {
		t.Fatalf("expected read id 100, got %d", pair.ReadID)
	}

	// Claim the rest of the default range and confirm exhaustion.
	for i := 1; i < DefaultPairCount; i++ {
		if err := reg.OpenForRead(100+2*i, 0); err != nil {
			t.Fatalf("claim %d: %v", 100+2*i, err)
		}
	}
	if _, err := AllocateRange(reg, 100, 0); !errors.Is(err, ErrNoFreeDevices) {
		t.Fatalf("expected ErrNoFreeDevices, got %v", err)
	}
}

func TestAllocateReleasedPairIsReusable(t *testing.T) {
	reg := NewMemRegistry()

	pair, err := Allocate(reg, 224, 224, 2)
	if err != nil {
		t.Fatalf("allocate: %v", err)
	}
	if err := reg.Close(pair.ReadID); err != nil {
		t.Fatalf("close: %v", err)
	}

	again, err := Allocate(reg, 224, 224, 2)
	if err != nil {
		t.Fatalf("allocate after release: %v", err)
	}
	if again.ReadID != 224 {
		t.Fatalf("expected released pair to be reclaimed, got %d", again.ReadID)
	}
}
