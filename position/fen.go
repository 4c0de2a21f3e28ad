package position

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// StartFEN is the standard initial position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// NewPosition sets up a position from a FEN string. The castling field
// accepts the normal KQkq letters, Shredder-FEN rook files (A-H/a-h), and
// X-FEN inner-rook files. st is the caller-supplied snapshot slot backing the
// new position; it is overwritten.
func NewPosition(fen string, chess960 bool, st *State) (*Position, error) {
	if st == nil {
		return nil, errors.New("fen: nil state")
	}

	p := &Position{}
	*st = State{epSquare: NoSquare, capturedPiece: NoPiece}
	p.st = st
	p.chess960 = chess960

	parts := strings.Fields(fen)
	if len(parts) < 4 {
		return nil, errors.New("fen: expected at least 4 fields")
	}

	// 1. Piece placement
	ranks := strings.Split(parts[0], "/")
	if len(ranks) != 8 {
		return nil, errors.New("fen: expected 8 ranks")
	}
	for r, rankStr := range ranks {
		rank := 7 - r
		file := 0
		for i := 0; i < len(rankStr); i++ {
			ch := rankStr[i]
			if ch >= '1' && ch <= '8' {
				file += int(ch - '0')
				continue
			}
			idx := strings.IndexByte(pieceChars, ch)
			if idx <= 0 || file > 7 {
				return nil, fmt.Errorf("fen: bad piece placement %q", rankStr)
			}
			p.putPiece(Piece(idx), makeSquare(file, rank))
			file++
		}
		if file != 8 {
			return nil, fmt.Errorf("fen: rank %q does not describe 8 squares", rankStr)
		}
	}
	if p.pieceCount[WhiteKing] != 1 || p.pieceCount[BlackKing] != 1 {
		return nil, errors.New("fen: expected exactly one king per side")
	}

	// 2. Active color
	switch parts[1] {
	case "w":
		p.sideToMove = White
	case "b":
		p.sideToMove = Black
	default:
		return nil, fmt.Errorf("fen: bad active color %q", parts[1])
	}

	// 3. Castling availability
	for i := 0; i < len(parts[2]); i++ {
		tok := parts[2][i]
		if tok == '-' {
			continue
		}
		c := White
		if tok >= 'a' && tok <= 'z' {
			c = Black
		}
		rook := PieceFromType(c, PieceTypeRook)
		first, last := relativeSquare(c, sqA1), relativeSquare(c, sqH1)

		var rsq Square
		switch up := tok &^ 0x20; {
		case up == 'K':
			// Outermost rook toward the h file
			for rsq = last; rsq >= first && p.board[rsq] != rook; rsq-- {
			}
		case up == 'Q':
			// Outermost rook toward the a file
			for rsq = first; rsq <= last && p.board[rsq] != rook; rsq++ {
			}
		case up >= 'A' && up <= 'H':
			rsq = relativeSquare(c, Square(up-'A'))
		default:
			return nil, fmt.Errorf("fen: bad castling token %q", string(tok))
		}
		if rsq < first || rsq > last || p.board[rsq] != rook {
			return nil, errors.New("fen: castling right without a matching rook")
		}
		p.setCastlingRight(c, rsq)
	}

	// 4. En passant square. Accepted only if a capture on it could actually
	// be played: a friendly pawn attacks the square, the enemy pawn that
	// just double-pushed is in front of it, and both the square and the
	// square behind it are empty.
	enpassant := false
	if parts[3] != "-" {
		epSq := parseSquare(parts[3])
		expectRank := 5
		if p.sideToMove == Black {
			expectRank = 2
		}
		if epSq != NoSquare && epSq.Rank() == expectRank {
			st.epSquare = epSq
			them := p.sideToMove.Other()
			enpassant = pawnAttacks[them][epSq]&p.piecesCT(p.sideToMove, PieceTypePawn) != 0 &&
				p.piecesCT(them, PieceTypePawn)&squareBB(epSq+pawnPush(them)) != 0 &&
				p.byTypeBB[PieceTypeNone]&(squareBB(epSq)|squareBB(epSq+pawnPush(p.sideToMove))) == 0
		}
	}
	if !enpassant {
		st.epSquare = NoSquare
	}

	// 5-6. Halfmove clock and fullmove number
	fullmove := 1
	if len(parts) > 4 {
		v, err := strconv.Atoi(parts[4])
		if err != nil || v < 0 {
			return nil, fmt.Errorf("fen: bad halfmove clock %q", parts[4])
		}
		st.rule50 = v
	}
	if len(parts) > 5 {
		v, err := strconv.Atoi(parts[5])
		if err != nil {
			return nil, fmt.Errorf("fen: bad fullmove number %q", parts[5])
		}
		fullmove = v
	}

	// Convert the fullmove counter (starting at 1) to a game ply (starting
	// at 0); tolerate the common incorrect fullmove = 0.
	p.gamePly = 2 * (fullmove - 1)
	if p.gamePly < 0 {
		p.gamePly = 0
	}
	if p.sideToMove == Black {
		p.gamePly++
	}

	p.setState(st)
	return p, nil
}

// setCastlingRight records one castling right given the rook's starting
// square, and derives the path the right needs to be clear.
func (p *Position) setCastlingRight(c Color, rfrom Square) {
	kfrom := p.KingSquare(c)
	cr := CastlingKingSide
	if rfrom < kfrom {
		cr = CastlingQueenSide
	}
	if c == White {
		cr &= CastlingWhite
	} else {
		cr &= CastlingBlack
	}

	p.st.castlingRights |= cr
	p.castlingRightsMask[kfrom] |= cr
	p.castlingRightsMask[rfrom] |= cr
	p.castlingRookSquare[cr] = rfrom

	kto := relativeSquare(c, sqC1)
	rto := relativeSquare(c, sqD1)
	if cr&CastlingKingSide != 0 {
		kto = relativeSquare(c, sqG1)
		rto = relativeSquare(c, sqF1)
	}
	p.castlingPath[cr] = (betweenBB[rfrom][rto] | betweenBB[kfrom][kto]) &^
		(squareBB(kfrom) | squareBB(rfrom))
}

// FEN returns the position in Forsyth-Edwards notation, the exact inverse of
// NewPosition. Chess960 positions use Shredder-FEN rook files for castling.
func (p *Position) FEN() string {
	var sb strings.Builder

	for rank := 7; rank >= 0; rank-- {
		empties := 0
		for file := 0; file < 8; file++ {
			pc := p.board[makeSquare(file, rank)]
			if pc == NoPiece {
				empties++
				continue
			}
			if empties > 0 {
				sb.WriteByte(byte('0' + empties))
				empties = 0
			}
			sb.WriteByte(pieceChars[pc])
		}
		if empties > 0 {
			sb.WriteByte(byte('0' + empties))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}

	if p.sideToMove == White {
		sb.WriteString(" w ")
	} else {
		sb.WriteString(" b ")
	}

	if !p.CanCastle(CastlingAny) {
		sb.WriteByte('-')
	} else {
		rights := [4]struct {
			cr CastlingRights
			ch byte
		}{
			{CastlingWhiteK, 'K'}, {CastlingWhiteQ, 'Q'},
			{CastlingBlackK, 'k'}, {CastlingBlackQ, 'q'},
		}
		for _, r := range rights {
			if !p.CanCastle(r.cr) {
				continue
			}
			if p.chess960 {
				base := byte('A')
				if r.cr&CastlingBlack != 0 {
					base = 'a'
				}
				sb.WriteByte(base + byte(p.castlingRookSquare[r.cr].File()))
			} else {
				sb.WriteByte(r.ch)
			}
		}
	}

	sb.WriteByte(' ')
	sb.WriteString(p.st.epSquare.String())
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(p.st.rule50))
	sb.WriteByte(' ')
	black := 0
	if p.sideToMove == Black {
		black = 1
	}
	sb.WriteString(strconv.Itoa(1 + (p.gamePly-black)/2))

	return sb.String()
}

// String renders the board as an ASCII grid followed by the FEN, the hash
// key, and any checkers. Debug helper.
func (p *Position) String() string {
	var sb strings.Builder

	sb.WriteString("\n +---+---+---+---+---+---+---+---+\n")
	for rank := 7; rank >= 0; rank-- {
		for file := 0; file < 8; file++ {
			sb.WriteString(" | ")
			sb.WriteByte(pieceChars[p.board[makeSquare(file, rank)]])
		}
		fmt.Fprintf(&sb, " | %d\n +---+---+---+---+---+---+---+---+\n", rank+1)
	}
	sb.WriteString("   a   b   c   d   e   f   g   h\n")

	fmt.Fprintf(&sb, "\nFen: %s\nKey: %016X\nCheckers:", p.FEN(), p.st.key)
	for b := p.st.checkersBB; b != 0; {
		fmt.Fprintf(&sb, " %s", popLSB(&b))
	}
	sb.WriteByte('\n')

	return sb.String()
}

// Flip returns the position with the colors reversed: the board mirrored
// vertically, piece colors, side to move, castling rights and the en passant
// square all swapped. Useful for hunting evaluation symmetry bugs.
func (p *Position) Flip(st *State) (*Position, error) {
	parts := strings.Fields(p.FEN())

	ranks := strings.Split(parts[0], "/")
	for i, j := 0, len(ranks)-1; i < j; i, j = i+1, j-1 {
		ranks[i], ranks[j] = ranks[j], ranks[i]
	}
	board := swapCase(strings.Join(ranks, "/"))

	stm := "w"
	if parts[1] == "w" {
		stm = "b"
	}

	castle := swapCase(parts[2])

	ep := parts[3]
	if ep != "-" {
		rank := byte('6')
		if ep[1] == '6' {
			rank = '3'
		}
		ep = string([]byte{ep[0], rank})
	}

	fen := strings.Join([]string{board, stm, castle, ep, parts[4], parts[5]}, " ")
	return NewPosition(fen, p.chess960, st)
}

func swapCase(s string) string {
	b := []byte(s)
	for i, c := range b {
		switch {
		case c >= 'a' && c <= 'z':
			b[i] = c &^ 0x20
		case c >= 'A' && c <= 'Z':
			b[i] = c | 0x20
		}
	}
	return string(b)
}
