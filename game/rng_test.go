package game

import "testing"

func TestDrawRange(t *testing.T) {
	r := NewRoller()
	for nonce := int64(0); nonce < 5000; nonce++ {
		draw, hash := r.Draw("client-seed", nonce)
		if draw < 0 || draw >= 1 {
			t.Fatalf("draw %v at nonce %d outside [0,1)", draw, nonce)
		}
		if len(hash) != 64 {
			t.Fatalf("roll hash should be 64 hex chars, got %d", len(hash))
		}
	}
}

func TestDrawDeterministic(t *testing.T) {
	r := NewRollerFromSeed("server-seed")
	a, ha := r.Draw("client", 42)
	b, hb := r.Draw("client", 42)
	if a != b || ha != hb {
		t.Fatal("same seed/nonce must give the same draw")
	}

	c, _ := r.Draw("client", 43)
	if a == c {
		t.Error("distinct nonces should give distinct draws")
	}
}

func TestVerifyDrawMatches(t *testing.T) {
	r := NewRoller()
	draw, hash := r.Draw("my-seed", 9)

	gotDraw, gotHash := VerifyDraw(r.ServerSeed(), "my-seed", 9)
	if gotDraw != draw || gotHash != hash {
		t.Fatal("revealed seed must reproduce the original draw")
	}
}

func TestSeedHashCommitment(t *testing.T) {
	r := NewRollerFromSeed("abc")
	if r.SeedHash() != NewRollerFromSeed("abc").SeedHash() {
		t.Error("commitment must be a pure function of the seed")
	}
	if r.SeedHash() == NewRollerFromSeed("abd").SeedHash() {
		t.Error("different seeds must commit differently")
	}
	if len(r.SeedHash()) != 64 {
		t.Errorf("commitment should be 64 hex chars, got %d", len(r.SeedHash()))
	}
}

func TestDrawDistribution(t *testing.T) {
	// Rough uniformity check over the launch wheel: the 0x segment holds
	// 45% of probability, so across 20k draws its share should be nowhere
	// near the 3% tail segment's.
	r := NewRoller()
	segments := DefaultSegments()
	counts := make(map[int]int)
	const n = 20000
	for nonce := int64(0); nonce < n; nonce++ {
		draw, _ := r.Draw("dist", nonce)
		seg, err := Resolve(segments, draw)
		if err != nil {
			t.Fatal(err)
		}
		counts[seg.Position]++
	}

	zero := float64(counts[0]) / n
	if zero < 0.40 || zero > 0.50 {
		t.Errorf("0x segment frequency %v, want ~0.45", zero)
	}
	ten := float64(counts[5]) / n
	if ten < 0.015 || ten > 0.045 {
		t.Errorf("10x segment frequency %v, want ~0.03", ten)
	}
}
