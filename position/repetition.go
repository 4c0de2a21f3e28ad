package position

// IsDraw reports whether the position is drawn by the fifty-move rule or by
// repetition, judged from a node ply plies into the search. Stalemate is not
// detected here. The hundredth halfmove does not draw when it delivers mate,
// hence the legal-move existence check while in check.
func (p *Position) IsDraw(ply int) bool {
	if p.st.rule50 > 99 && (p.st.checkersBB == 0 || p.hasLegalMove()) {
		return true
	}
	return p.IsRepetition(ply)
}

// IsRepetition reports a draw score condition: the position repeats once
// earlier but strictly after the root (repetition distance below ply), or
// repeated twice before or at the root (negative distance).
func (p *Position) IsRepetition(ply int) bool {
	return p.st.repetition != 0 && p.st.repetition < ply
}

// HasRepeated reports whether any position since the last irreversible move
// was a repetition.
func (p *Position) HasRepeated() bool {
	stc := p.st
	end := p.st.rule50
	if p.st.pliesFromNull < end {
		end = p.st.pliesFromNull
	}
	for end >= 4 {
		if stc.repetition != 0 {
			return true
		}
		stc = stc.previous
		end--
	}
	return false
}

// UpcomingRepetition reports whether the side to move has a move that draws
// by repetition, matching the outcome of IsDraw over all legal moves without
// generating any. It walks the snapshot chain two plies at a time keeping a
// running XOR of keys; whenever the accumulator cancels, the remaining key
// difference is the signature of a single reversible move, which the cuckoo
// tables resolve to concrete squares so the path can be verified empty.
func (p *Position) UpcomingRepetition(ply int) bool {
	end := p.st.rule50
	if p.st.pliesFromNull < end {
		end = p.st.pliesFromNull
	}
	if end < 3 {
		return false
	}

	originalKey := p.st.key
	stp := p.st.previous
	other := originalKey ^ stp.key ^ zobristSide

	for i := 3; i <= end; i += 2 {
		stp = stp.previous
		other ^= stp.key ^ stp.previous.key ^ zobristSide
		stp = stp.previous

		if other != 0 {
			continue
		}

		moveKey := originalKey ^ stp.key
		j := cuckooH1(moveKey)
		if cuckoo[j] != moveKey {
			j = cuckooH2(moveKey)
			if cuckoo[j] != moveKey {
				continue
			}
		}

		move := cuckooMove[j]
		s1, s2 := move.From(), move.To()

		// The move is playable only if no piece stands between its squares.
		if (betweenBB[s1][s2]^squareBB(s2))&p.byTypeBB[PieceTypeNone] != 0 {
			continue
		}

		if ply > i {
			return true
		}

		// For nodes before or at the root, require the earlier position
		// to be a repetition itself rather than a first visit.
		if stp.repetition != 0 {
			return true
		}
	}
	return false
}
