package position_test

import (
	"math/rand"
	"sort"
	"strings"
	"testing"

	"github.com/corentings/chess/v2"
	dt "github.com/dylhunn/dragontoothmg"

	"github.com/87flowers/Stockfish/position"
)

func legalUCIs(p *position.Position) []string {
	var out []string
	for _, m := range p.LegalMoves() {
		out = append(out, p.MoveToUCI(m))
	}
	sort.Strings(out)
	return out
}

// Cross-check move legality against an independent bitboard generator on a
// set of positions that exercise pins, en passant, promotions and castling.
func TestLegalMovesAgreeWithDragontooth(t *testing.T) {
	for _, fen := range trickyFENs {
		p := mustPosition(t, fen)
		got := legalUCIs(p)

		b := dt.ParseFen(fen)
		var want []string
		for _, m := range b.GenerateLegalMoves() {
			want = append(want, m.String())
		}
		sort.Strings(want)

		if strings.Join(got, " ") != strings.Join(want, " ") {
			t.Fatalf("%s:\n got %v\nwant %v", fen, got, want)
		}
	}
}

// Play a long pseudo-random game in lockstep with the reference generator,
// comparing the full legal move set at every ply.
func TestRandomGameAgreesWithDragontooth(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	p := mustPosition(t, position.StartFEN)
	b := dt.ParseFen(dt.Startpos)
	states := make([]position.State, 200)

	for ply := 0; ply < 200; ply++ {
		got := legalUCIs(p)

		var want []string
		for _, m := range b.GenerateLegalMoves() {
			want = append(want, m.String())
		}
		sort.Strings(want)

		if strings.Join(got, " ") != strings.Join(want, " ") {
			t.Fatalf("ply %d (%s):\n got %v\nwant %v", ply, p.FEN(), got, want)
		}
		if len(got) == 0 {
			break
		}

		uci := got[rng.Intn(len(got))]
		m := p.MoveFromUCI(uci)
		p.DoMove(m, &states[ply], p.GivesCheck(m))
		if err := p.Validate(); err != nil {
			t.Fatalf("ply %d after %s: %v", ply, uci, err)
		}

		applied := false
		for _, dm := range b.GenerateLegalMoves() {
			if dm.String() == uci {
				b.Apply(dm)
				applied = true
				break
			}
		}
		if !applied {
			t.Fatalf("ply %d: reference rejected %s", ply, uci)
		}
	}
}

// Second, independent oracle for the same agreement property.
func TestLegalMovesAgreeWithChessLibrary(t *testing.T) {
	for _, fen := range trickyFENs {
		p := mustPosition(t, fen)
		got := legalUCIs(p)

		fenOpt, err := chess.FEN(fen)
		if err != nil {
			t.Fatalf("%s: %v", fen, err)
		}
		game := chess.NewGame(fenOpt)
		var want []string
		for _, m := range game.ValidMoves() {
			want = append(want, m.String())
		}
		sort.Strings(want)

		if strings.Join(got, " ") != strings.Join(want, " ") {
			t.Fatalf("%s:\n got %v\nwant %v", fen, got, want)
		}
	}
}

// A horizontally pinned en passant capture: taking exposes the king along
// the rank because both pawns leave it at once.
func TestEnPassantPinnedHorizontally(t *testing.T) {
	p := mustPosition(t, "8/8/8/8/k2pP2R/8/8/4K3 b - e3 0 1")
	if p.EpSquare() == position.NoSquare {
		t.Fatalf("en passant square missing")
	}
	m := p.MoveFromUCI("d4e3")
	if m.Type() != position.EnPassantMove {
		t.Fatalf("d4e3 did not map to en passant")
	}
	if !p.PseudoLegal(m) {
		t.Fatalf("d4e3 should be pseudo-legal")
	}
	if p.Legal(m) {
		t.Fatalf("d4e3 must be rejected, it exposes the king on the rank")
	}
	for _, uci := range legalUCIs(p) {
		if uci == "d4e3" {
			t.Fatalf("pinned en passant capture in the legal move list")
		}
	}
}

func TestGivesCheck(t *testing.T) {
	cases := []struct {
		fen  string
		uci  string
		want bool
	}{
		{"k7/8/8/8/8/8/1Q6/K7 w - - 0 1", "b2b7", true},    // direct
		{"k7/8/8/8/8/8/1Q6/K7 w - - 0 1", "b2c2", false},   //
		{"2k5/8/8/8/8/2N5/8/K1R5 w - - 0 1", "c3e4", true}, // discovered
		{"2k5/8/8/8/8/2N5/8/K1R5 w - - 0 1", "a1a2", false},
		{"5k2/8/8/8/8/8/8/4K2R w K - 0 1", "e1g1", true}, // castling rook
		{"4k3/1P6/8/8/8/8/8/4K3 w - - 0 1", "b7b8q", true},
		{"4k3/1P6/8/8/8/8/8/4K3 w - - 0 1", "b7b8n", false},
	}
	for _, tc := range cases {
		p := mustPosition(t, tc.fen)
		m := p.MoveFromUCI(tc.uci)
		if m == position.MoveNone {
			t.Fatalf("%s: cannot parse %s", tc.fen, tc.uci)
		}
		if got := p.GivesCheck(m); got != tc.want {
			t.Fatalf("%s %s: GivesCheck = %v, want %v", tc.fen, tc.uci, got, tc.want)
		}
	}
}

func TestPseudoLegalRejectsForeignMoves(t *testing.T) {
	p := mustPosition(t, position.StartFEN)
	bad := []position.Move{
		position.NewMove(position.Square(12), position.Square(12)), // from == to
		position.NewMove(position.Square(28), position.Square(36)), // empty origin
		position.NewMove(position.Square(57), position.Square(40)), // enemy piece
		position.NewMove(position.Square(1), position.Square(17)),  // knight to wrong square
		position.NewMove(position.Square(12), position.Square(36)), // e2e5, pawn cannot triple push
	}
	for _, m := range bad {
		if p.PseudoLegal(m) {
			t.Fatalf("accepted foreign move %v", m)
		}
	}
	// And every generated legal move must pass.
	for _, m := range p.LegalMoves() {
		if !p.PseudoLegal(m) || !p.Legal(m) {
			t.Fatalf("generated move %s rejected by its own oracle", p.MoveToUCI(m))
		}
	}
}
