package position

// SeeGe reports whether the static exchange evaluation of m is at least
// threshold: the net material outcome of the fullest reasonable capture
// sequence on the destination square, resolved without making any moves.
// The algorithm works like alpha-beta with a null window: each side in turn
// throws its least valuable remaining attacker at the square, pinned pieces
// sit out while their pinner stands, and x-ray attackers join as the pieces
// in front of them leave the board.
func (p *Position) SeeGe(m Move, threshold int) bool {
	// Only normal moves are resolved; the special moves pass a trivial SEE.
	if m.Type() != NormalMove {
		return 0 >= threshold
	}

	from, to := m.From(), m.To()

	swap := pieceValue[p.board[to]] - threshold
	if swap < 0 {
		return false
	}

	swap = pieceValue[p.board[from]] - swap
	if swap <= 0 {
		return true
	}

	// Removing 'to' from the occupancy matters for the pinned piece logic.
	occupied := p.byTypeBB[PieceTypeNone] ^ squareBB(from) ^ squareBB(to)
	stm := p.sideToMove
	attackers := p.AttackersTo(to, occupied)
	res := 1

	for {
		stm = stm.Other()
		attackers &= occupied

		// No more attackers: the side to move gives up.
		stmAttackers := attackers & p.byColorBB[stm]
		if stmAttackers == 0 {
			break
		}

		// Pinned pieces may not recapture while their pinner is still on
		// the board.
		if p.st.pinners[stm.Other()]&occupied != 0 {
			stmAttackers &^= p.st.blockersForKing[stm]
			if stmAttackers == 0 {
				break
			}
		}

		res ^= 1

		// Take with the least valuable attacker, and open up any x-ray
		// attackers standing behind it.
		if bb := stmAttackers & p.byTypeBB[PieceTypePawn]; bb != 0 {
			swap = PawnValue - swap
			if swap < res {
				break
			}
			occupied ^= squareBB(lsb(bb))

			attackers |= bishopAttacks(to, occupied) & p.piecesT(PieceTypeBishop, PieceTypeQueen)
		} else if bb := stmAttackers & p.byTypeBB[PieceTypeKnight]; bb != 0 {
			swap = KnightValue - swap
			if swap < res {
				break
			}
			occupied ^= squareBB(lsb(bb))
		} else if bb := stmAttackers & p.byTypeBB[PieceTypeBishop]; bb != 0 {
			swap = BishopValue - swap
			if swap < res {
				break
			}
			occupied ^= squareBB(lsb(bb))

			attackers |= bishopAttacks(to, occupied) & p.piecesT(PieceTypeBishop, PieceTypeQueen)
		} else if bb := stmAttackers & p.byTypeBB[PieceTypeRook]; bb != 0 {
			swap = RookValue - swap
			if swap < res {
				break
			}
			occupied ^= squareBB(lsb(bb))

			attackers |= rookAttacks(to, occupied) & p.piecesT(PieceTypeRook, PieceTypeQueen)
		} else if bb := stmAttackers & p.byTypeBB[PieceTypeQueen]; bb != 0 {
			swap = QueenValue - swap
			if swap < res {
				break
			}
			occupied ^= squareBB(lsb(bb))

			attackers |= (bishopAttacks(to, occupied) & p.piecesT(PieceTypeBishop, PieceTypeQueen)) |
				(rookAttacks(to, occupied) & p.piecesT(PieceTypeRook, PieceTypeQueen))
		} else {
			// King. If the opponent still has attackers the king cannot
			// actually take, which reverses the result.
			if attackers&^p.byColorBB[stm] != 0 {
				return res^1 == 1
			}
			return res == 1
		}
	}

	return res == 1
}
