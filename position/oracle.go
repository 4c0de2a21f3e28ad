package position

// Legal reports whether a pseudo-legal move is actually legal: it does not
// leave or put the mover's king in check, and a castling king never crosses
// an attacked square. m must already be pseudo-legal for the position.
func (p *Position) Legal(m Move) bool {
	us := p.sideToMove
	from := m.From()
	to := m.To()

	// En passant removes two pawns from the capture rank, so pin tests do
	// not apply; simulate the resulting occupancy and look for sliders.
	if m.Type() == EnPassantMove {
		ksq := p.KingSquare(us)
		capsq := to - pawnPush(us)
		occupied := (p.byTypeBB[PieceTypeNone] ^ squareBB(from) ^ squareBB(capsq)) | squareBB(to)

		return rookAttacks(ksq, occupied)&p.piecesCT(us.Other(), PieceTypeQueen, PieceTypeRook) == 0 &&
			bishopAttacks(ksq, occupied)&p.piecesCT(us.Other(), PieceTypeQueen, PieceTypeBishop) == 0
	}

	// The castling path being free of enemy attacks is checked here, not
	// during candidate generation.
	if m.Type() == CastlingMove {
		kto := relativeSquare(us, sqC1)
		if to > from {
			kto = relativeSquare(us, sqG1)
		}
		step := Square(1)
		if kto > from {
			step = -1
		}
		for s := kto; s != from; s += step {
			if p.attackersToExist(s, p.byTypeBB[PieceTypeNone], us.Other()) {
				return false
			}
		}

		// In Chess960 the rook itself can be shielding the king, e.g. an
		// enemy queen on a1 with the castling rook on b1.
		return !p.chess960 || p.st.blockersForKing[us]&squareBB(to) == 0
	}

	// A king move is legal iff the destination is unattacked with the king
	// itself lifted off the board.
	if p.board[from].Type() == PieceTypeKing {
		return !p.attackersToExist(to, p.byTypeBB[PieceTypeNone]^squareBB(from), us.Other())
	}

	// Any other move is legal iff the piece is not pinned or stays on the
	// ray through its king.
	return p.st.blockersForKing[us]&squareBB(from) == 0 ||
		lineBB[from][to]&p.piecesCT(us, PieceTypeKing) != 0
}

// PseudoLegal reports whether m is a plausible move in this position: the
// right piece on the origin, a reachable destination, and, when in check, a
// move that could address the check. It accepts externally produced moves
// (a hashed best move, a UCI string) that may be stale or corrupted, so every
// field is distrusted. Legality proper is Legal's job.
func (p *Position) PseudoLegal(m Move) bool {
	if !m.IsOK() {
		return false
	}

	us := p.sideToMove
	from := m.From()
	to := m.To()
	pc := p.board[from]

	if m.Type() != NormalMove {
		return p.pseudoLegalSpecial(m)
	}

	if pc == NoPiece || pc.Color() != us {
		return false
	}

	// The destination cannot hold a friendly piece.
	if p.byColorBB[us]&squareBB(to) != 0 {
		return false
	}

	if pc.Type() == PieceTypePawn {
		// A pawn reaching the last rank must carry a promotion tag.
		if (rank8BB|rank1BB)&squareBB(to) != 0 {
			return false
		}

		isCapture := pawnAttacks[us][from]&p.byColorBB[us.Other()]&squareBB(to) != 0
		isSinglePush := from+pawnPush(us) == to && p.empty(to)
		isDoublePush := from+2*pawnPush(us) == to &&
			relativeRank(us, from) == 1 && p.empty(to) && p.empty(to-pawnPush(us))

		if !(isCapture || isSinglePush || isDoublePush) {
			return false
		}
	} else if attacksBB(pc.Type(), from, p.byTypeBB[PieceTypeNone])&squareBB(to) == 0 {
		return false
	}

	// While in check only evasions qualify; Legal relies on this filter.
	if p.st.checkersBB != 0 {
		if pc.Type() != PieceTypeKing {
			// In double check only the king may move.
			if moreThanOne(p.st.checkersBB) {
				return false
			}

			// Otherwise the move must block the check or take the checker.
			if betweenBB[p.KingSquare(us)][lsb(p.st.checkersBB)]&squareBB(to) == 0 {
				return false
			}
		} else if p.attackersToExist(to, p.byTypeBB[PieceTypeNone]^squareBB(from), us.Other()) {
			// The king must step off the checking ray, so test the
			// destination with the king lifted off the board.
			return false
		}
	}

	return true
}

// pseudoLegalSpecial validates promotion, en passant and castling moves by
// re-deriving the conditions under which each would be generated.
func (p *Position) pseudoLegalSpecial(m Move) bool {
	us := p.sideToMove
	them := us.Other()
	from := m.From()
	to := m.To()
	pc := p.board[from]

	switch m.Type() {
	case PromotionMove:
		if pc != PieceFromType(us, PieceTypePawn) || relativeRank(us, to) != 7 {
			return false
		}
		isCapture := pawnAttacks[us][from]&p.byColorBB[them]&squareBB(to) != 0
		isPush := from+pawnPush(us) == to && p.empty(to)
		if !(isCapture || isPush) {
			return false
		}

	case EnPassantMove:
		if p.st.epSquare == NoSquare || to != p.st.epSquare {
			return false
		}
		if pc != PieceFromType(us, PieceTypePawn) || pawnAttacks[us][from]&squareBB(to) == 0 {
			return false
		}

	case CastlingMove:
		// Castling is never an evasion.
		if p.st.checkersBB != 0 {
			return false
		}
		cr := castlingRightFor(us, from, to)
		if cr == 0 || !p.CanCastle(cr) {
			return false
		}
		if from != p.KingSquare(us) || to != p.castlingRookSquare[cr] {
			return false
		}
		return p.castlingPath[cr]&p.byTypeBB[PieceTypeNone] == 0
	}

	// Promotions and en passant still have to address a check.
	if p.st.checkersBB != 0 {
		if moreThanOne(p.st.checkersBB) {
			return false
		}
		if betweenBB[p.KingSquare(us)][lsb(p.st.checkersBB)]&squareBB(to) != 0 {
			return true
		}
		// An en passant capture can also evade by taking the checking pawn.
		return m.Type() == EnPassantMove && p.st.checkersBB == squareBB(to-pawnPush(us))
	}

	return true
}

// castlingRightFor maps a king-takes-rook move onto the single castling
// right it exercises, or 0 when from and to cannot describe castling.
func castlingRightFor(us Color, from, to Square) CastlingRights {
	cr := CastlingWhiteK
	if to < from {
		cr = CastlingWhiteQ
	}
	if us == Black {
		cr <<= 2
	}
	return cr
}

// GivesCheck reports whether a pseudo-legal move checks the opponent.
func (p *Position) GivesCheck(m Move) bool {
	us := p.sideToMove
	them := us.Other()
	from := m.From()
	to := m.To()

	// Direct check?
	if p.st.checkSquares[p.board[from].Type()]&squareBB(to) != 0 {
		return true
	}

	// Discovered check? Moving off the shared ray always discovers;
	// castling relocates the rook, which the direct test cannot see.
	if p.st.blockersForKing[them]&squareBB(from) != 0 {
		return lineBB[from][to]&p.piecesCT(them, PieceTypeKing) == 0 ||
			m.Type() == CastlingMove
	}

	switch m.Type() {
	case PromotionMove:
		// The new piece may check through the vacated origin square.
		return attacksBB(m.PromotionType(), to, p.byTypeBB[PieceTypeNone]^squareBB(from))&
			p.piecesCT(them, PieceTypeKing) != 0

	case EnPassantMove:
		// Direct and ordinary discovered checks were handled above; the
		// remaining case is a discovery through the captured pawn.
		capsq := makeSquare(to.File(), from.Rank())
		occupied := (p.byTypeBB[PieceTypeNone] ^ squareBB(from) ^ squareBB(capsq)) | squareBB(to)
		ksq := p.KingSquare(them)

		return rookAttacks(ksq, occupied)&p.piecesCT(us, PieceTypeQueen, PieceTypeRook) != 0 ||
			bishopAttacks(ksq, occupied)&p.piecesCT(us, PieceTypeQueen, PieceTypeBishop) != 0

	case CastlingMove:
		rto := relativeSquare(us, sqD1)
		if to > from {
			rto = relativeSquare(us, sqF1)
		}
		return p.st.checkSquares[PieceTypeRook]&squareBB(rto) != 0
	}

	return false
}

// candidateMoves appends every encodable candidate for the side to move:
// piece moves by attack table, pawn pushes, captures and promotions, en
// passant, and castling. Candidates are geometric only; callers filter with
// PseudoLegal and Legal.
func (p *Position) candidateMoves(moves []Move) []Move {
	us := p.sideToMove
	them := us.Other()
	occ := p.byTypeBB[PieceTypeNone]
	own := p.byColorBB[us]

	for b := own; b != 0; {
		from := popLSB(&b)
		pc := p.board[from]

		if pc.Type() != PieceTypePawn {
			for a := attacksBB(pc.Type(), from, occ) &^ own; a != 0; {
				moves = append(moves, NewMove(from, popLSB(&a)))
			}
			continue
		}

		appendPawn := func(to Square) []Move {
			if relativeRank(us, to) == 7 {
				for pt := PieceTypeQueen; pt >= PieceTypeKnight; pt-- {
					moves = append(moves, NewPromotionMove(from, to, pt))
				}
				return moves
			}
			return append(moves, NewMove(from, to))
		}

		for a := pawnAttacks[us][from] & p.byColorBB[them]; a != 0; {
			moves = appendPawn(popLSB(&a))
		}
		if to := from + pawnPush(us); occ&squareBB(to) == 0 {
			moves = appendPawn(to)
			if relativeRank(us, from) == 1 {
				if to2 := to + pawnPush(us); occ&squareBB(to2) == 0 {
					moves = append(moves, NewMove(from, to2))
				}
			}
		}
		if p.st.epSquare != NoSquare && pawnAttacks[us][from]&squareBB(p.st.epSquare) != 0 {
			moves = append(moves, NewEnPassantMove(from, p.st.epSquare))
		}
	}

	rights := [2]CastlingRights{CastlingWhiteK, CastlingWhiteQ}
	if us == Black {
		rights = [2]CastlingRights{CastlingBlackK, CastlingBlackQ}
	}
	for _, cr := range rights {
		if p.CanCastle(cr) {
			moves = append(moves, NewCastlingMove(p.KingSquare(us), p.castlingRookSquare[cr]))
		}
	}

	return moves
}

// LegalMoves returns every legal move in the position, derived by filtering
// the candidate set through the oracle. This is the enumeration used by the
// perft driver and the draw logic; a search would plug in its own generator.
func (p *Position) LegalMoves() []Move {
	candidates := p.candidateMoves(make([]Move, 0, 64))
	legal := candidates[:0]
	for _, m := range candidates {
		if p.PseudoLegal(m) && p.Legal(m) {
			legal = append(legal, m)
		}
	}
	return legal
}

// hasLegalMove reports whether the side to move has any legal move, without
// materializing the whole list.
func (p *Position) hasLegalMove() bool {
	var buf [128]Move
	for _, m := range p.candidateMoves(buf[:0]) {
		if p.PseudoLegal(m) && p.Legal(m) {
			return true
		}
	}
	return false
}
