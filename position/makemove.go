package position

// Prefetcher receives the hash key of the position that was just reached, so
// an external lookup table can pull the matching entry into cache before the
// search probes it. The hint is fire and forget; implementations must not
// touch the position.
type Prefetcher interface {
	Prefetch(key uint64)
}

// SetPrefetcher installs pf as the recipient of post-move key hints. A nil
// prefetcher disables the hint.
func (p *Position) SetPrefetcher(pf Prefetcher) { p.prefetcher = pf }

// DirtyPiece describes the board delta of one move for incremental consumers
// (an NNUE accumulator, a piece-square evaluator). Squares not involved are
// NoSquare.
type DirtyPiece struct {
	Moved Piece
	From  Square
	To    Square // NoSquare when the mover left the board (promotion)

	Removed   Piece
	RemovedSq Square // NoSquare when nothing was removed

	Added   Piece
	AddedSq Square // NoSquare unless a piece appeared (promotion, castling rook)
}

// DoMove makes a move on the board. m must be legal. newSt is the
// caller-supplied snapshot for the resulting position; it must not be the
// current one. givesCheck must be the result of GivesCheck(m), passed in so a
// search that already computed it does not pay for it twice.
func (p *Position) DoMove(m Move, newSt *State, givesCheck bool) DirtyPiece {
	k := p.st.key ^ zobristSide

	// Copy the old state, then switch the state pointer. The incremental
	// fields carry over; everything else is overwritten below.
	*newSt = *p.st
	newSt.previous = p.st
	p.st = newSt
	st := newSt

	// rule50 is reset further down on a capture or pawn move.
	p.gamePly++
	st.rule50++
	st.pliesFromNull++

	us := p.sideToMove
	them := us.Other()
	from := m.From()
	to := m.To()
	pc := p.board[from]
	captured := p.board[to]
	if m.Type() == EnPassantMove {
		captured = PieceFromType(them, PieceTypePawn)
	}

	checkEP := false

	dp := DirtyPiece{
		Moved: pc, From: from, To: to,
		RemovedSq: NoSquare, AddedSq: NoSquare,
	}

	if m.Type() == CastlingMove {
		// Here captured is our own rook (castling is encoded as king
		// takes rook); it relocates rather than leaving the board.
		kto, rfrom, rto := p.doCastling(true, us, from, to)
		dp.To = kto
		dp.Removed, dp.RemovedSq = captured, rfrom
		dp.Added, dp.AddedSq = captured, rto

		k ^= zobristPsq[captured][rfrom] ^ zobristPsq[captured][rto]
		st.nonPawnKey[us] ^= zobristPsq[captured][rfrom] ^ zobristPsq[captured][rto]
		captured = NoPiece

		// The king lands on kto, not on the rook square the move encoded;
		// the shared hash updates below must see the real destination.
		to = kto
	} else if captured != NoPiece {
		capsq := to

		// A pawn capture updates the pawn hash, any other capture the
		// non-pawn material and keys.
		if captured.Type() == PieceTypePawn {
			if m.Type() == EnPassantMove {
				capsq -= pawnPush(us)
			}
			st.pawnKey ^= zobristPsq[captured][capsq]
		} else {
			st.nonPawnMaterial[them] -= pieceValue[captured]
			st.nonPawnKey[them] ^= zobristPsq[captured][capsq]
			if captured.Type() <= PieceTypeBishop {
				st.minorPieceKey ^= zobristPsq[captured][capsq]
			}
		}

		dp.Removed, dp.RemovedSq = captured, capsq

		p.removePiece(capsq)

		k ^= zobristPsq[captured][capsq]
		st.materialKey ^= zobristPsq[captured][8+p.pieceCount[captured]]

		st.rule50 = 0
	}

	// Update hash key
	k ^= zobristPsq[pc][from] ^ zobristPsq[pc][to]

	// Reset en passant square
	if st.epSquare != NoSquare {
		k ^= zobristEnPassant[st.epSquare.File()]
		st.epSquare = NoSquare
	}

	// Update castling rights if needed
	if st.castlingRights != 0 && p.castlingRightsMask[from]|p.castlingRightsMask[to] != 0 {
		k ^= zobristCastling[st.castlingRights]
		st.castlingRights &^= p.castlingRightsMask[from] | p.castlingRightsMask[to]
		k ^= zobristCastling[st.castlingRights]
	}

	// Move the piece. Castling already handled its own shuffle.
	if m.Type() != CastlingMove {
		p.movePiece(from, to)
	}

	if pc.Type() == PieceTypePawn {
		if int(to)^int(from) == 16 {
			// Double push: decide below, with check info refreshed,
			// whether the en passant square is actually capturable.
			checkEP = true
		} else if m.Type() == PromotionMove {
			promotion := PieceFromType(us, m.PromotionType())

			p.removePiece(to)
			p.putPiece(promotion, to)

			dp.Added, dp.AddedSq = promotion, to
			dp.To = NoSquare

			// zobristPsq[pc][to] is zero on the last rank, so the pawn
			// needs no explicit clearing from k or the pawn key.
			k ^= zobristPsq[promotion][to]
			st.nonPawnKey[us] ^= zobristPsq[promotion][to]
			st.materialKey ^= zobristPsq[promotion][8+p.pieceCount[promotion]-1] ^
				zobristPsq[pc][8+p.pieceCount[pc]]

			if promotion.Type() <= PieceTypeBishop {
				st.minorPieceKey ^= zobristPsq[promotion][to]
			}

			st.nonPawnMaterial[us] += pieceValue[promotion]
		}

		st.pawnKey ^= zobristPsq[pc][from] ^ zobristPsq[pc][to]

		st.rule50 = 0
	} else {
		st.nonPawnKey[us] ^= zobristPsq[pc][from] ^ zobristPsq[pc][to]

		if pc.Type() <= PieceTypeBishop {
			st.minorPieceKey ^= zobristPsq[pc][from] ^ zobristPsq[pc][to]
		}
	}

	st.capturedPiece = captured

	st.checkersBB = 0
	if givesCheck {
		st.checkersBB = p.AttackersTo(p.KingSquare(them), p.byTypeBB[PieceTypeNone]) & p.byColorBB[us]
	}

	p.sideToMove = them

	p.setCheckInfo(st)

	if checkEP {
		epSq := to - pawnPush(us)
		if p.epCapturable(epSq, to, us) {
			st.epSquare = epSq
			k ^= zobristEnPassant[epSq.File()]
		}
	}

	st.key = k
	if p.prefetcher != nil {
		p.prefetcher.Prefetch(k)
	}

	// Ply distance to the previous occurrence of this position, negated
	// when that occurrence was itself a repetition (threefold from here).
	st.repetition = 0
	end := st.rule50
	if st.pliesFromNull < end {
		end = st.pliesFromNull
	}
	if end >= 4 {
		stp := st.previous.previous
		for i := 4; i <= end; i += 2 {
			stp = stp.previous.previous
			if stp.key == st.key {
				if stp.repetition != 0 {
					st.repetition = -i
				} else {
					st.repetition = i
				}
				break
			}
		}
	}

	return dp
}

// epCapturable reports whether, after a double push landing on to, an en
// passant capture on epSq could actually be played by the new side to move.
// Called with the side already flipped and check info current.
func (p *Position) epCapturable(epSq, to Square, us Color) bool {
	them := us.Other() // the side now to move

	pawns := pawnAttacks[us][epSq] & p.piecesCT(them, PieceTypePawn)

	// No pawn attacks the square: nothing to consider.
	if pawns == 0 {
		return false
	}

	// Any checker besides the pushed pawn makes the capture illegal.
	if p.st.checkersBB&^squareBB(to) != 0 {
		return false
	}

	if moreThanOne(pawns) {
		// With two candidate pawns of which at most one is pinned, the
		// unpinned one can always capture: a horizontal discovered
		// check would need both pawns gone.
		if !moreThanOne(p.st.blockersForKing[them] & pawns) {
			return true
		}

		// Both pawns pinned by bishops. If the king is not on a shared
		// file with one of them, either capture exposes the king.
		kingFile := fileBB(p.KingSquare(them).File())
		if kingFile&pawns == 0 {
			return false
		}

		// The pawn on the king's file can never capture legally; test
		// the other one below.
		pawns &^= kingFile
	}

	ksq := p.KingSquare(them)
	occupied := (p.byTypeBB[PieceTypeNone] ^ squareBB(lsb(pawns)) ^ squareBB(to)) | squareBB(epSq)

	return rookAttacks(ksq, occupied)&p.piecesCT(us, PieceTypeQueen, PieceTypeRook) == 0 &&
		bishopAttacks(ksq, occupied)&p.piecesCT(us, PieceTypeQueen, PieceTypeBishop) == 0
}

// UndoMove takes back a move. The position is restored to exactly the state
// before the matching DoMove.
func (p *Position) UndoMove(m Move) {
	p.sideToMove = p.sideToMove.Other()

	us := p.sideToMove
	from := m.From()
	to := m.To()

	if m.Type() == PromotionMove {
		p.removePiece(to)
		p.putPiece(PieceFromType(us, PieceTypePawn), to)
	}

	if m.Type() == CastlingMove {
		p.doCastling(false, us, from, to)
	} else {
		p.movePiece(to, from)

		if p.st.capturedPiece != NoPiece {
			capsq := to
			if m.Type() == EnPassantMove {
				capsq -= pawnPush(us)
			}
			p.putPiece(p.st.capturedPiece, capsq)
		}
	}

	p.st = p.st.previous
	p.gamePly--
}

// doCastling moves king and rook for castling (do) or moves them back
// (undo). from is the king's square and to the rook's; both pieces are
// removed before either is placed since the squares can overlap in Chess960.
func (p *Position) doCastling(do bool, us Color, from, to Square) (kto, rfrom, rto Square) {
	kingSide := to > from
	rfrom = to
	if kingSide {
		rto = relativeSquare(us, sqF1)
		kto = relativeSquare(us, sqG1)
	} else {
		rto = relativeSquare(us, sqD1)
		kto = relativeSquare(us, sqC1)
	}

	kRemove, rRemove := from, rfrom
	kPut, rPut := kto, rto
	if !do {
		kRemove, rRemove = kto, rto
		kPut, rPut = from, rfrom
	}

	p.removePiece(kRemove)
	p.removePiece(rRemove)
	p.putPiece(PieceFromType(us, PieceTypeKing), kPut)
	p.putPiece(PieceFromType(us, PieceTypeRook), rPut)
	return kto, rfrom, rto
}

// DoNullMove flips the side to move without touching the board, for null-move
// search heuristics. Must not be called while in check.
func (p *Position) DoNullMove(newSt *State) {
	*newSt = *p.st
	newSt.previous = p.st
	p.st = newSt
	st := newSt

	if st.epSquare != NoSquare {
		st.key ^= zobristEnPassant[st.epSquare.File()]
		st.epSquare = NoSquare
	}

	st.key ^= zobristSide
	if p.prefetcher != nil {
		p.prefetcher.Prefetch(st.key)
	}

	st.rule50++
	st.pliesFromNull = 0
	st.capturedPiece = NoPiece

	p.sideToMove = p.sideToMove.Other()

	p.setCheckInfo(st)

	st.repetition = 0
}

// UndoNullMove takes back a null move.
func (p *Position) UndoNullMove() {
	p.st = p.st.previous
	p.sideToMove = p.sideToMove.Other()
}
