package position

// Position is an incrementally updated chess position: a dual board
// representation (bitboards plus a square-indexed mailbox), the castling
// geometry derived at setup, and a pointer to the current State snapshot.
//
// A Position is not safe for concurrent mutation; a search runs one Position
// per thread and clones via FEN round trips.
type Position struct {
	// board is the mailbox: the piece standing on each square.
	board [64]Piece
	// byTypeBB is indexed by PieceType; index 0 holds the union of all pieces.
	byTypeBB [7]uint64
	// byColorBB holds each side's pieces.
	byColorBB [2]uint64
	// pieceCount is indexed by piece code.
	pieceCount [16]int

	// Castling geometry, fixed at setup time.
	castlingRightsMask [64]CastlingRights
	castlingRookSquare [16]Square
	castlingPath       [16]uint64

	sideToMove Color
	gamePly    int
	chess960   bool

	st         *State
	prefetcher Prefetcher
}

// SideToMove reports which side is to play.
func (p *Position) SideToMove() Color { return p.sideToMove }

// PieceAt returns the piece standing on sq, or NoPiece.
func (p *Position) PieceAt(sq Square) Piece { return p.board[sq] }

// AllOccupancy returns the bitboard of every piece on the board.
func (p *Position) AllOccupancy() uint64 { return p.byTypeBB[PieceTypeNone] }

// ColorOccupancy returns the bitboard of one side's pieces.
func (p *Position) ColorOccupancy(c Color) uint64 { return p.byColorBB[c] }

// TypeOccupancy returns the bitboard of both sides' pieces of the given type.
func (p *Position) TypeOccupancy(pt PieceType) uint64 { return p.byTypeBB[pt] }

// KingSquare returns the square of c's king.
func (p *Position) KingSquare(c Color) Square {
	return lsb(p.byColorBB[c] & p.byTypeBB[PieceTypeKing])
}

// piecesT ORs the type bitboards of the given piece types.
func (p *Position) piecesT(pts ...PieceType) uint64 {
	var b uint64
	for _, pt := range pts {
		b |= p.byTypeBB[pt]
	}
	return b
}

// piecesCT restricts piecesT to one side.
func (p *Position) piecesCT(c Color, pts ...PieceType) uint64 {
	return p.byColorBB[c] & p.piecesT(pts...)
}

func (p *Position) empty(sq Square) bool { return p.board[sq] == NoPiece }

func (p *Position) putPiece(pc Piece, sq Square) {
	b := squareBB(sq)
	p.board[sq] = pc
	p.byTypeBB[PieceTypeNone] |= b
	p.byTypeBB[pc.Type()] |= b
	p.byColorBB[pc.Color()] |= b
	p.pieceCount[pc]++
}

func (p *Position) removePiece(sq Square) {
	pc := p.board[sq]
	b := squareBB(sq)
	p.byTypeBB[PieceTypeNone] ^= b
	p.byTypeBB[pc.Type()] ^= b
	p.byColorBB[pc.Color()] ^= b
	p.board[sq] = NoPiece
	p.pieceCount[pc]--
}

func (p *Position) movePiece(from, to Square) {
	pc := p.board[from]
	fromTo := squareBB(from) | squareBB(to)
	p.byTypeBB[PieceTypeNone] ^= fromTo
	p.byTypeBB[pc.Type()] ^= fromTo
	p.byColorBB[pc.Color()] ^= fromTo
	p.board[from] = NoPiece
	p.board[to] = pc
}

// AttackersTo returns the pieces of both colors attacking sq given the
// supplied occupancy.
func (p *Position) AttackersTo(sq Square, occupied uint64) uint64 {
	return (rookAttacks(sq, occupied) & p.piecesT(PieceTypeRook, PieceTypeQueen)) |
		(bishopAttacks(sq, occupied) & p.piecesT(PieceTypeBishop, PieceTypeQueen)) |
		(pawnAttacks[Black][sq] & p.piecesCT(White, PieceTypePawn)) |
		(pawnAttacks[White][sq] & p.piecesCT(Black, PieceTypePawn)) |
		(knightMoves[sq] & p.byTypeBB[PieceTypeKnight]) |
		(kingMoves[sq] & p.byTypeBB[PieceTypeKing])
}

// attackersToExist reports whether any piece of color c attacks sq given the
// supplied occupancy. The empty-board pre-checks make the common miss cheap.
func (p *Position) attackersToExist(sq Square, occupied uint64, c Color) bool {
	if rq := p.piecesCT(c, PieceTypeRook, PieceTypeQueen); rq != 0 &&
		attacksBB(PieceTypeRook, sq, 0)&rq != 0 && rookAttacks(sq, occupied)&rq != 0 {
		return true
	}
	if bq := p.piecesCT(c, PieceTypeBishop, PieceTypeQueen); bq != 0 &&
		attacksBB(PieceTypeBishop, sq, 0)&bq != 0 && bishopAttacks(sq, occupied)&bq != 0 {
		return true
	}
	leapers := (pawnAttacks[c.Other()][sq] & p.byTypeBB[PieceTypePawn]) |
		(knightMoves[sq] & p.byTypeBB[PieceTypeKnight]) |
		(kingMoves[sq] & p.byTypeBB[PieceTypeKing])
	return leapers&p.byColorBB[c] != 0
}

// updateSliderBlockers computes st.blockersForKing[c] and st.pinners[~c]: the
// pieces shielding c's king from an enemy slider, and the sliders doing the
// pinning when the shield belongs to c.
func (p *Position) updateSliderBlockers(st *State, c Color) {
	ksq := p.KingSquare(c)

	st.blockersForKing[c] = 0
	st.pinners[c.Other()] = 0

	// Snipers are sliders that would attack ksq if the board were empty
	// except for them.
	snipers := ((attacksBB(PieceTypeRook, ksq, 0) & p.piecesT(PieceTypeQueen, PieceTypeRook)) |
		(attacksBB(PieceTypeBishop, ksq, 0) & p.piecesT(PieceTypeQueen, PieceTypeBishop))) &
		p.byColorBB[c.Other()]
	occupancy := p.byTypeBB[PieceTypeNone] ^ snipers

	for snipers != 0 {
		sniperSq := popLSB(&snipers)
		b := betweenBB[ksq][sniperSq] & occupancy

		if b != 0 && !moreThanOne(b) {
			st.blockersForKing[c] |= b
			if b&p.byColorBB[c] != 0 {
				st.pinners[c.Other()] |= squareBB(sniperSq)
			}
		}
	}
}

// setCheckInfo refreshes the king-safety caches: slider blockers and pinners
// for both sides, and the squares from which each piece type would check the
// opponent of the side to move.
func (p *Position) setCheckInfo(st *State) {
	p.updateSliderBlockers(st, White)
	p.updateSliderBlockers(st, Black)

	ksq := p.KingSquare(p.sideToMove.Other())

	st.checkSquares[PieceTypePawn] = pawnAttacks[p.sideToMove.Other()][ksq]
	st.checkSquares[PieceTypeKnight] = knightMoves[ksq]
	st.checkSquares[PieceTypeBishop] = bishopAttacks(ksq, p.byTypeBB[PieceTypeNone])
	st.checkSquares[PieceTypeRook] = rookAttacks(ksq, p.byTypeBB[PieceTypeNone])
	st.checkSquares[PieceTypeQueen] = st.checkSquares[PieceTypeBishop] | st.checkSquares[PieceTypeRook]
	st.checkSquares[PieceTypeKing] = 0
}

// setState computes from scratch everything that is otherwise maintained
// incrementally: the hash keys, material totals, and checkers. It reads the
// already-set epSquare and castlingRights from st. Only used at setup.
func (p *Position) setState(st *State) {
	st.key = 0
	st.materialKey = 0
	st.minorPieceKey = 0
	st.nonPawnKey[White], st.nonPawnKey[Black] = 0, 0
	st.pawnKey = zobristNoPawns
	st.nonPawnMaterial[White], st.nonPawnMaterial[Black] = 0, 0
	st.checkersBB = p.AttackersTo(p.KingSquare(p.sideToMove), p.byTypeBB[PieceTypeNone]) & p.byColorBB[p.sideToMove.Other()]

	p.setCheckInfo(st)

	for b := p.byTypeBB[PieceTypeNone]; b != 0; {
		sq := popLSB(&b)
		pc := p.board[sq]
		st.key ^= zobristPsq[pc][sq]

		switch {
		case pc.Type() == PieceTypePawn:
			st.pawnKey ^= zobristPsq[pc][sq]
		case pc.Type() == PieceTypeKing:
			st.nonPawnKey[pc.Color()] ^= zobristPsq[pc][sq]
		default:
			st.nonPawnKey[pc.Color()] ^= zobristPsq[pc][sq]
			st.nonPawnMaterial[pc.Color()] += pieceValue[pc]
			if pc.Type() <= PieceTypeBishop {
				st.minorPieceKey ^= zobristPsq[pc][sq]
			}
		}
	}

	if st.epSquare != NoSquare {
		st.key ^= zobristEnPassant[st.epSquare.File()]
	}
	if p.sideToMove == Black {
		st.key ^= zobristSide
	}
	st.key ^= zobristCastling[st.castlingRights]

	for pc := WhitePawn; pc <= BlackKing; pc++ {
		for cnt := 0; cnt < p.pieceCount[pc]; cnt++ {
			st.materialKey ^= zobristPsq[pc][8+cnt]
		}
	}
}
