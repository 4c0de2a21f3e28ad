package position

import (
	"fmt"
	"math/bits"
)

// Validate performs a full consistency check of the dual representation, the
// piece counts, and the incrementally maintained state against values
// recomputed from scratch. Intended for tests and debugging; normal operation
// never calls it.
func (p *Position) Validate() error {
	if p.byColorBB[White]&p.byColorBB[Black] != 0 {
		return fmt.Errorf("position: color occupancies overlap")
	}
	if p.byColorBB[White]|p.byColorBB[Black] != p.byTypeBB[PieceTypeNone] {
		return fmt.Errorf("position: color occupancies do not add up to the total")
	}

	var union uint64
	for pt := PieceTypePawn; pt <= PieceTypeKing; pt++ {
		for pt2 := pt + 1; pt2 <= PieceTypeKing; pt2++ {
			if p.byTypeBB[pt]&p.byTypeBB[pt2] != 0 {
				return fmt.Errorf("position: type occupancies %d and %d overlap", pt, pt2)
			}
		}
		union |= p.byTypeBB[pt]
	}
	if union != p.byTypeBB[PieceTypeNone] {
		return fmt.Errorf("position: type occupancies do not add up to the total")
	}

	counts := [16]int{}
	for sq := Square(0); sq < 64; sq++ {
		pc := p.board[sq]
		if pc == NoPiece {
			if p.byTypeBB[PieceTypeNone]&squareBB(sq) != 0 {
				return fmt.Errorf("position: %s occupied but empty on the board array", sq)
			}
			continue
		}
		if pc.Type() < PieceTypePawn || pc.Type() > PieceTypeKing {
			return fmt.Errorf("position: invalid piece %d on %s", pc, sq)
		}
		if p.byTypeBB[pc.Type()]&p.byColorBB[pc.Color()]&squareBB(sq) == 0 {
			return fmt.Errorf("position: bitboards disagree with %s on %s", string(pieceChars[pc]), sq)
		}
		counts[pc]++
	}
	for pc := WhitePawn; pc <= BlackKing; pc++ {
		if counts[pc] != p.pieceCount[pc] {
			return fmt.Errorf("position: pieceCount[%d] is %d, board has %d", pc, p.pieceCount[pc], counts[pc])
		}
	}

	if bits.OnesCount64(p.piecesCT(White, PieceTypeKing)) != 1 ||
		bits.OnesCount64(p.piecesCT(Black, PieceTypeKing)) != 1 {
		return fmt.Errorf("position: each side must have exactly one king")
	}

	// Recompute the derived state from scratch and compare.
	scratch := *p.st
	p.setState(&scratch)

	if scratch.key != p.st.key {
		return fmt.Errorf("position: incremental key %016x, recomputed %016x", p.st.key, scratch.key)
	}
	if scratch.pawnKey != p.st.pawnKey {
		return fmt.Errorf("position: incremental pawn key %016x, recomputed %016x", p.st.pawnKey, scratch.pawnKey)
	}
	if scratch.materialKey != p.st.materialKey {
		return fmt.Errorf("position: incremental material key %016x, recomputed %016x", p.st.materialKey, scratch.materialKey)
	}
	if scratch.minorPieceKey != p.st.minorPieceKey {
		return fmt.Errorf("position: incremental minor piece key %016x, recomputed %016x", p.st.minorPieceKey, scratch.minorPieceKey)
	}
	for c := White; c <= Black; c++ {
		if scratch.nonPawnKey[c] != p.st.nonPawnKey[c] {
			return fmt.Errorf("position: incremental non-pawn key %016x, recomputed %016x", p.st.nonPawnKey[c], scratch.nonPawnKey[c])
		}
		if scratch.nonPawnMaterial[c] != p.st.nonPawnMaterial[c] {
			return fmt.Errorf("position: incremental non-pawn material %d, recomputed %d", p.st.nonPawnMaterial[c], scratch.nonPawnMaterial[c])
		}
	}
	if scratch.checkersBB != p.st.checkersBB {
		return fmt.Errorf("position: stale checkers bitboard")
	}

	return nil
}
