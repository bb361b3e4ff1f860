package game

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"math/big"
)

// Roller produces the server-side uniform draws behind every spin. The
// server commits to its seed by publishing SHA-256(serverSeed) before any
// draw; each draw is HMAC-SHA256(serverSeed, clientSeed:nonce), so a player
// can re-derive every outcome once the seed is revealed on rotation. Draws
// never come from the client.
type Roller struct {
	serverSeed string
}

func NewRoller() *Roller {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		panic(fmt.Sprintf("seed entropy unavailable: %v", err))
	}
	return &Roller{serverSeed: hex.EncodeToString(buf)}
}

// NewRollerFromSeed restores a committed seed, e.g. across restarts.
func NewRollerFromSeed(seed string) *Roller {
	return &Roller{serverSeed: seed}
}

// SeedHash is the public commitment to the current server seed.
func (r *Roller) SeedHash() string {
	sum := sha256.Sum256([]byte(r.serverSeed))
	return hex.EncodeToString(sum[:])
}

// ServerSeed exposes the raw seed for reveal on rotation.
func (r *Roller) ServerSeed() string {
	return r.serverSeed
}

// Draw returns a uniform value in [0,1) plus the full roll hash for the
// audit trail. Deterministic in (serverSeed, clientSeed, nonce).
func (r *Roller) Draw(clientSeed string, nonce int64) (float64, string) {
	return deriveDraw(r.serverSeed, clientSeed, nonce)
}

// VerifyDraw recomputes a draw from a revealed server seed so players can
// check past outcomes.
func VerifyDraw(serverSeed, clientSeed string, nonce int64) (float64, string) {
	return deriveDraw(serverSeed, clientSeed, nonce)
}

func deriveDraw(serverSeed, clientSeed string, nonce int64) (float64, string) {
	h := hmac.New(sha256.New, []byte(serverSeed))
	fmt.Fprintf(h, "%s:%d", clientSeed, nonce)
	hash := hex.EncodeToString(h.Sum(nil))

	// First 52 bits of the hash give a uniform value in [0,1) with full
	// float64 mantissa precision.
	n := new(big.Int)
	n.SetString(hash[:13], 16)
	draw := float64(n.Int64()) / math.Pow(2, 52)
	if draw >= 1 {
		draw = math.Nextafter(1, 0)
	}
	return draw, hash
}
