package position_test

import (
	"testing"

	"github.com/87flowers/Stockfish/position"
)

// playUCIs applies a sequence of moves, keeping the snapshot chain alive in
// the returned slice.
func playUCIs(t *testing.T, p *position.Position, ucis ...string) []position.State {
	t.Helper()
	states := make([]position.State, len(ucis))
	for i, uci := range ucis {
		m := p.MoveFromUCI(uci)
		if m == position.MoveNone || !p.PseudoLegal(m) || !p.Legal(m) {
			t.Fatalf("move %q not playable at ply %d", uci, i)
		}
		p.DoMove(m, &states[i], p.GivesCheck(m))
	}
	return states
}

func TestRepetitionDistance(t *testing.T) {
	p := mustPosition(t, position.StartFEN)
	keep := playUCIs(t, p, "g1f3", "g8f6", "f3g1", "f6g8")
	_ = keep

	// The start position has returned, four plies back.
	if !p.IsRepetition(5) {
		t.Fatalf("repetition four plies back not seen from ply 5")
	}
	if p.IsRepetition(4) {
		t.Fatalf("repetition distance must be strictly below the node ply")
	}
	if !p.IsDraw(5) {
		t.Fatalf("IsDraw must report the repetition")
	}
}

func TestThreefoldBeforeRoot(t *testing.T) {
	p := mustPosition(t, position.StartFEN)
	keep := playUCIs(t, p,
		"g1f3", "g8f6", "f3g1", "f6g8",
		"g1f3", "g8f6", "f3g1", "f6g8")
	_ = keep

	// Third occurrence: drawn at any ply, even at the root.
	if !p.IsRepetition(0) {
		t.Fatalf("third occurrence not scored as a draw at the root")
	}
	if !p.HasRepeated() {
		t.Fatalf("HasRepeated missed the cycle")
	}
}

func TestNoRepetitionAcrossIrreversibleMove(t *testing.T) {
	p := mustPosition(t, position.StartFEN)
	keep := playUCIs(t, p,
		"g1f3", "g8f6",
		"e2e4", "e7e5", // pawn moves reset the clock
		"f3g1", "f6g8")
	_ = keep

	// The knights are home again, but with the center pawns advanced no
	// earlier position matches, and the clock keeps the scan short anyway.
	if p.IsRepetition(100) {
		t.Fatalf("repetition reported across the pawn moves")
	}
	if p.HasRepeated() {
		t.Fatalf("HasRepeated across a pawn move")
	}
}

func TestUpcomingRepetition(t *testing.T) {
	p := mustPosition(t, position.StartFEN)
	if p.UpcomingRepetition(10) {
		t.Fatalf("fresh position cannot have an upcoming repetition")
	}

	keep := playUCIs(t, p, "g1f3", "g8f6", "f3g1")
	_ = keep

	// Black can play Ng8 and complete the cycle back to the start position.
	if !p.UpcomingRepetition(4) {
		t.Fatalf("cycle through Ng8 not detected")
	}
	// At plies at or below the cycle length the start position would have
	// to be a repetition itself, which it is not.
	if p.UpcomingRepetition(1) {
		t.Fatalf("cycle accepted for a node inside the cycle")
	}
}

func TestUpcomingRepetitionOddCycle(t *testing.T) {
	p := mustPosition(t, position.StartFEN)
	keep := playUCIs(t, p, "g1f3", "e7e6", "b1c3", "f8e7", "c3b1", "e7f8")
	_ = keep

	// Replaying Nc3 re-reaches the position from three plies ago.
	if !p.UpcomingRepetition(4) {
		t.Fatalf("three-ply cycle through Nc3 not detected")
	}
	// Inside the cycle the earlier position was a first visit, so shallow
	// nodes must not score it.
	if p.UpcomingRepetition(2) {
		t.Fatalf("first-visit cycle accepted below its length")
	}
}

func TestFiftyMoveRule(t *testing.T) {
	p := mustPosition(t, "8/8/8/8/8/5k2/8/6K1 w - - 100 1")
	if !p.IsDraw(0) {
		t.Fatalf("halfmove clock at 100 must draw")
	}

	p = mustPosition(t, "8/8/8/8/8/5k2/8/6K1 w - - 99 1")
	if p.IsDraw(0) {
		t.Fatalf("halfmove clock at 99 must not draw")
	}

	// Mate delivered by the hundredth halfmove outranks the draw.
	p = mustPosition(t, "3R2k1/5ppp/8/8/8/8/8/6K1 b - - 100 1")
	if p.IsDraw(0) {
		t.Fatalf("checkmate on the hundredth halfmove scored as a draw")
	}
	if len(p.LegalMoves()) != 0 {
		t.Fatalf("test position is not mate")
	}
}
