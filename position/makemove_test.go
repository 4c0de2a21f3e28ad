package position_test

import (
	"testing"

	"github.com/87flowers/Stockfish/position"
)

var trickyFENs = []string{
	position.StartFEN,
	"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
	"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
	"r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2P1/R3K2R w KQkq - 0 1",
	"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8",
	"r4rk1/1pp1qppp/p1np1n2/2b1p1B1/2B1P1b1/P1NP1N2/1PP1QPPP/R4RK1 w - - 0 10",
	"8/8/8/8/k2pP2R/8/8/4K3 b - e3 0 1",
	"4k3/1P6/8/8/8/8/8/4K3 w - - 0 1",
}

// Every legal move must make, validate, and unmake cleanly, restoring the
// exact board, FEN, and all incremental keys. Validate recomputes the keys
// and check state from scratch, so a pass here certifies both the
// incremental updates in DoMove and the gives-check prediction that seeded
// the checker bitboard.
func TestDoUndoRoundTrip(t *testing.T) {
	for _, fen := range trickyFENs {
		p := mustPosition(t, fen)
		key := p.Key()
		var st, st2 position.State

		for _, m := range p.LegalMoves() {
			dp := p.DoMove(m, &st, p.GivesCheck(m))
			if err := p.Validate(); err != nil {
				t.Fatalf("%s after %s: %v", fen, p.MoveToUCI(m), err)
			}
			if dp.Moved == position.NoPiece {
				t.Fatalf("%s %s: dirty piece has no mover", fen, p.MoveToUCI(m))
			}

			// One more ply to exercise state chaining.
			inner := p.LegalMoves()
			if len(inner) > 0 {
				m2 := inner[0]
				p.DoMove(m2, &st2, p.GivesCheck(m2))
				if err := p.Validate(); err != nil {
					t.Fatalf("%s depth 2 after %s: %v", fen, p.MoveToUCI(m2), err)
				}
				p.UndoMove(m2)
			}

			p.UndoMove(m)
			if err := p.Validate(); err != nil {
				t.Fatalf("%s after undo %s: %v", fen, p.MoveToUCI(m), err)
			}
			if p.Key() != key {
				t.Fatalf("%s: key not restored after %s", fen, p.MoveToUCI(m))
			}
			if p.FEN() != fen {
				t.Fatalf("%s: board not restored after %s: %q", fen, p.MoveToUCI(m), p.FEN())
			}
		}
	}
}

func TestIncrementalKeyMatchesRebuild(t *testing.T) {
	p := mustPosition(t, position.StartFEN)
	ucis := []string{"e2e4", "c7c5", "g1f3", "d7d6", "d2d4", "c5d4", "f3d4", "g8f6", "b1c3", "a7a6"}
	states := make([]position.State, len(ucis))
	for i, uci := range ucis {
		m := p.MoveFromUCI(uci)
		if m == position.MoveNone || !p.PseudoLegal(m) || !p.Legal(m) {
			t.Fatalf("bad move %q at ply %d", uci, i)
		}
		p.DoMove(m, &states[i], p.GivesCheck(m))
	}

	rebuilt := mustPosition(t, p.FEN())
	if rebuilt.Key() != p.Key() {
		t.Fatalf("incremental key %#x, rebuilt %#x", p.Key(), rebuilt.Key())
	}

	// A null move must keep the incremental key consistent too.
	var nullSt position.State
	p.DoNullMove(&nullSt)
	if rebuilt := mustPosition(t, p.FEN()); rebuilt.Key() != p.Key() {
		t.Fatalf("after null move: incremental key %#x, rebuilt %#x", p.Key(), rebuilt.Key())
	}
	p.UndoNullMove()

	if rebuilt.PawnKey() != p.PawnKey() || rebuilt.MaterialKey() != p.MaterialKey() {
		t.Fatalf("pawn or material key drifted")
	}
	if rebuilt.MinorPieceKey() != p.MinorPieceKey() {
		t.Fatalf("minor piece key drifted")
	}
	for _, c := range []position.Color{position.White, position.Black} {
		if rebuilt.NonPawnKey(c) != p.NonPawnKey(c) {
			t.Fatalf("non-pawn key drifted for color %d", c)
		}
		if rebuilt.NonPawnMaterial(c) != p.NonPawnMaterial(c) {
			t.Fatalf("non-pawn material drifted for color %d", c)
		}
	}
}

func TestCaptureRestoresMaterial(t *testing.T) {
	p := mustPosition(t, "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	m := p.MoveFromUCI("e5g6") // knight takes pawn
	material := p.NonPawnMaterial(position.White) + p.NonPawnMaterial(position.Black)

	var st position.State
	dp := p.DoMove(m, &st, p.GivesCheck(m))
	if p.CapturedPiece() != position.BlackPawn {
		t.Fatalf("captured piece = %v", p.CapturedPiece())
	}
	if dp.Removed != position.BlackPawn {
		t.Fatalf("dirty piece removed = %v", dp.Removed)
	}
	if p.Rule50() != 0 {
		t.Fatalf("capture must reset the halfmove clock")
	}
	p.UndoMove(m)
	if got := p.NonPawnMaterial(position.White) + p.NonPawnMaterial(position.Black); got != material {
		t.Fatalf("material %d after undo, want %d", got, material)
	}
}

func TestPromotionUnderpromotion(t *testing.T) {
	p := mustPosition(t, "4k3/1P6/8/8/8/8/8/4K3 w - - 0 1")
	var st position.State
	for _, uci := range []string{"b7b8q", "b7b8n", "b7b8r", "b7b8b"} {
		m := p.MoveFromUCI(uci)
		if !p.PseudoLegal(m) || !p.Legal(m) {
			t.Fatalf("%s not playable", uci)
		}
		dp := p.DoMove(m, &st, p.GivesCheck(m))
		if dp.Added.Type() != m.PromotionType() {
			t.Fatalf("%s produced %v", uci, dp.Added)
		}
		if err := p.Validate(); err != nil {
			t.Fatalf("%s: %v", uci, err)
		}
		rebuilt := mustPosition(t, p.FEN())
		if rebuilt.NonPawnKey(position.White) != p.NonPawnKey(position.White) {
			t.Fatalf("%s: non-pawn key %#x, rebuilt %#x",
				uci, p.NonPawnKey(position.White), rebuilt.NonPawnKey(position.White))
		}
		p.UndoMove(m)
		if p.PieceAt(position.Square(49)) != position.WhitePawn {
			t.Fatalf("%s: pawn not restored", uci)
		}
	}
}

func TestCastlingBothWings(t *testing.T) {
	p := mustPosition(t, "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
	for _, uci := range []string{"e1g1", "e1c1"} {
		m := p.MoveFromUCI(uci)
		if m.Type() != position.CastlingMove {
			t.Fatalf("%s did not map to a castling move", uci)
		}
		var st position.State
		p.DoMove(m, &st, p.GivesCheck(m))
		if err := p.Validate(); err != nil {
			t.Fatalf("%s: %v", uci, err)
		}
		// The king's hash contribution must land on g1/c1, not on the
		// rook square the move encodes.
		if rebuilt := mustPosition(t, p.FEN()); rebuilt.Key() != p.Key() {
			t.Fatalf("%s: incremental key %#x, rebuilt %#x", uci, p.Key(), rebuilt.Key())
		}
		if p.CanCastle(position.CastlingWhite) {
			t.Fatalf("%s left white castling rights behind", uci)
		}
		if !p.CanCastle(position.CastlingBlack) {
			t.Fatalf("%s consumed black castling rights", uci)
		}
		p.UndoMove(m)
		if !p.CanCastle(position.CastlingWhite) {
			t.Fatalf("%s: rights not restored", uci)
		}
	}
}

func TestEnPassantCapture(t *testing.T) {
	p := mustPosition(t, "rnbqkbnr/ppp1pppp/8/8/3pP3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 2")
	m := p.MoveFromUCI("d4e3")
	if m.Type() != position.EnPassantMove {
		t.Fatalf("d4e3 did not map to en passant")
	}
	var st position.State
	dp := p.DoMove(m, &st, p.GivesCheck(m))
	if dp.RemovedSq != position.Square(28) { // the pawn on e4, not e3
		t.Fatalf("en passant removed from %v", dp.RemovedSq)
	}
	if err := p.Validate(); err != nil {
		t.Fatalf("after en passant: %v", err)
	}
	p.UndoMove(m)
	if p.PieceAt(position.Square(28)) != position.WhitePawn {
		t.Fatalf("en passant victim not restored")
	}
}

type recordingPrefetcher struct {
	keys []uint64
}

func (r *recordingPrefetcher) Prefetch(key uint64) { r.keys = append(r.keys, key) }

// Every DoMove must hand the key of the position just reached to the
// installed prefetcher.
func TestPrefetcherReceivesNewKeys(t *testing.T) {
	p := mustPosition(t, position.StartFEN)
	rec := &recordingPrefetcher{}
	p.SetPrefetcher(rec)

	states := make([]position.State, 2)
	for i, uci := range []string{"e2e4", "c7c5"} {
		m := p.MoveFromUCI(uci)
		p.DoMove(m, &states[i], p.GivesCheck(m))
		if len(rec.keys) != i+1 || rec.keys[i] != p.Key() {
			t.Fatalf("hint %d missing or stale", i)
		}
	}
}

func TestNullMove(t *testing.T) {
	p := mustPosition(t, "r4rk1/1pp1qppp/p1np1n2/2b1p1B1/2B1P1b1/P1NP1N2/1PP1QPPP/R4RK1 w - - 0 10")
	fen, key := p.FEN(), p.Key()

	var st position.State
	p.DoNullMove(&st)
	if p.SideToMove() != position.Black {
		t.Fatalf("null move did not pass the turn")
	}
	if p.Key() == key {
		t.Fatalf("null move did not change the key")
	}
	if err := p.Validate(); err != nil {
		t.Fatalf("after null move: %v", err)
	}
	p.UndoNullMove()
	if p.FEN() != fen || p.Key() != key {
		t.Fatalf("null move round trip failed")
	}
}
