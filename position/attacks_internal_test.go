package position

import (
	"math/bits"
	"math/rand"
	"testing"
)

// The pext-indexed tables must agree with a plain ray scan for every square
// and a spread of occupancies.
func TestSliderTablesMatchRayScan(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for sq := 0; sq < 64; sq++ {
		for trial := 0; trial < 200; trial++ {
			occ := rng.Uint64() & rng.Uint64()
			if got, want := rookAttacks(Square(sq), occ), rookAttacksSlow(sq, occ); got != want {
				t.Fatalf("rook attacks from %v occ %#x: got %#x want %#x", Square(sq), occ, got, want)
			}
			if got, want := bishopAttacks(Square(sq), occ), bishopAttacksSlow(sq, occ); got != want {
				t.Fatalf("bishop attacks from %v occ %#x: got %#x want %#x", Square(sq), occ, got, want)
			}
		}
	}
}

func TestBetweenIncludesDestination(t *testing.T) {
	for s1 := Square(0); s1 < 64; s1++ {
		for s2 := Square(0); s2 < 64; s2++ {
			if s1 == s2 {
				// Degenerate entry holds just the square itself.
				continue
			}
			bb := betweenBB[s1][s2]
			if bb&squareBB(s2) == 0 {
				t.Fatalf("between %v-%v does not contain %v", s1, s2, s2)
			}
			if bb&squareBB(s1) != 0 {
				t.Fatalf("between %v-%v contains the origin", s1, s2)
			}
			if lineBB[s1][s2] == 0 && bb != squareBB(s2) {
				t.Fatalf("between %v-%v has segment bits off any line", s1, s2)
			}
		}
	}

	// a1-a8 spans the whole file minus the origin.
	if got := betweenBB[sqA1][sqA8]; bits.OnesCount64(got) != 7 {
		t.Fatalf("between a1-a8 has %d squares, want 7", bits.OnesCount64(got))
	}
}

func TestLineSpansBothEndpoints(t *testing.T) {
	a1, h8 := Square(0), Square(63)
	line := lineBB[a1][h8]
	if bits.OnesCount64(line) != 8 {
		t.Fatalf("a1-h8 line has %d squares, want 8", bits.OnesCount64(line))
	}
	if line&squareBB(a1) == 0 || line&squareBB(h8) == 0 {
		t.Fatalf("a1-h8 line misses an endpoint")
	}
	if lineBB[h8][a1] != line {
		t.Fatalf("line table is not symmetric")
	}
	if lineBB[a1][Square(10)] != 0 { // a1 and c2 share no line
		t.Fatalf("expected zero line for non-aligned squares")
	}
}

func TestPawnAttacks(t *testing.T) {
	e4 := makeSquare(4, 3)
	if pawnAttacks[White][e4] != squareBB(makeSquare(3, 4))|squareBB(makeSquare(5, 4)) {
		t.Fatalf("white pawn attacks from e4 wrong: %#x", pawnAttacks[White][e4])
	}
	if pawnAttacks[Black][e4] != squareBB(makeSquare(3, 2))|squareBB(makeSquare(5, 2)) {
		t.Fatalf("black pawn attacks from e4 wrong: %#x", pawnAttacks[Black][e4])
	}
	a2 := makeSquare(0, 1)
	if pawnAttacks[White][a2] != squareBB(makeSquare(1, 2)) {
		t.Fatalf("white pawn attacks from a2 must not wrap to the h-file")
	}
}
