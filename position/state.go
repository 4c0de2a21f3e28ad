package position

// State is the per-ply snapshot of everything a move cannot cheaply recompute
// when it is taken back. DoMove fills a caller-supplied State and links it to
// the previous one; UndoMove pops back along the chain. The core never
// allocates these, so a search can keep them in a preallocated stack.
type State struct {
	// Fields carried over from the previous state and updated incrementally.
	materialKey     uint64
	pawnKey         uint64
	nonPawnKey      [2]uint64
	minorPieceKey   uint64
	nonPawnMaterial [2]int
	castlingRights  CastlingRights
	rule50          int
	pliesFromNull   int
	epSquare        Square

	// Fields recomputed after every move.
	key             uint64
	checkersBB      uint64
	blockersForKing [2]uint64
	pinners         [2]uint64
	checkSquares    [7]uint64
	capturedPiece   Piece

	// repetition is the ply distance to the previous occurrence of this
	// position: positive for a first revisit, negative if that earlier
	// occurrence was itself a repetition, zero when unrepeated.
	repetition int

	previous *State
}

// Key returns the position hash, covering placement, side to move, castling
// rights and a capturable en passant square.
func (p *Position) Key() uint64 { return p.st.key }

// PawnKey hashes only the pawn placement of both sides.
func (p *Position) PawnKey() uint64 { return p.st.pawnKey }

// MaterialKey hashes the piece-count profile, independent of placement.
func (p *Position) MaterialKey() uint64 { return p.st.materialKey }

// MinorPieceKey hashes knight and bishop placement of both sides.
func (p *Position) MinorPieceKey() uint64 { return p.st.minorPieceKey }

// NonPawnKey hashes the non-pawn placement (king included) of one side.
func (p *Position) NonPawnKey(c Color) uint64 { return p.st.nonPawnKey[c] }

// NonPawnMaterial sums the piece values of one side's non-pawn, non-king material.
func (p *Position) NonPawnMaterial(c Color) int { return p.st.nonPawnMaterial[c] }

// Checkers returns the bitboard of pieces giving check to the side to move.
func (p *Position) Checkers() uint64 { return p.st.checkersBB }

// BlockersForKing returns the pieces of either color that stand alone between
// c's king and an enemy slider.
func (p *Position) BlockersForKing(c Color) uint64 { return p.st.blockersForKing[c] }

// Pinners returns c's sliders that pin an enemy piece to the enemy king.
func (p *Position) Pinners(c Color) uint64 { return p.st.pinners[c] }

// CheckSquares returns the squares from which a piece of the given type would
// check the opponent's king.
func (p *Position) CheckSquares(pt PieceType) uint64 { return p.st.checkSquares[pt] }

// EpSquare returns the en passant target square, or NoSquare. The square is
// only ever set when an en passant capture is actually playable.
func (p *Position) EpSquare() Square { return p.st.epSquare }

// CastlingRights returns the remaining castling rights of both sides.
func (p *Position) CastlingRights() CastlingRights { return p.st.castlingRights }

// CanCastle reports whether any of the rights in cr is still available.
func (p *Position) CanCastle(cr CastlingRights) bool { return p.st.castlingRights&cr != 0 }

// CastlingRookSquare returns the starting square of the rook for the given
// single castling right.
func (p *Position) CastlingRookSquare(cr CastlingRights) Square { return p.castlingRookSquare[cr] }

// Rule50 returns the halfmove clock used for the fifty-move rule.
func (p *Position) Rule50() int { return p.st.rule50 }

// CapturedPiece returns the piece taken by the last move, or NoPiece.
func (p *Position) CapturedPiece() Piece { return p.st.capturedPiece }

// GamePly returns the number of halfmoves played from the starting position.
func (p *Position) GamePly() int { return p.gamePly }

// Chess960 reports whether the position was set up with Chess960 castling rules.
func (p *Position) Chess960() bool { return p.chess960 }
