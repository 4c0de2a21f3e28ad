package position

// Move packs a move into 16 bits:
//
//	bits 0-5:   destination square
//	bits 6-11:  origin square
//	bits 12-13: promotion piece type minus knight (only meaningful for promotions)
//	bits 14-15: special move flag (normal, promotion, en passant, castling)
//
// Castling is encoded as "king captures friendly rook", which keeps the
// encoding unambiguous in Chess960 where the king and rook squares can
// coincide with the standard destination squares.
type Move uint16

// MoveNone and MoveNull share from == to, which no real move can have.
const (
	MoveNone Move = 0
	MoveNull Move = 65
)

// MoveType is the special-move tag stored in the top two bits of a Move.
type MoveType uint16

const (
	NormalMove    MoveType = 0
	PromotionMove MoveType = 1 << 14
	EnPassantMove MoveType = 2 << 14
	CastlingMove  MoveType = 3 << 14
)

// NewMove builds a normal move.
func NewMove(from, to Square) Move {
	return Move(from<<6) | Move(to)
}

// NewPromotionMove builds a promotion. pt must be knight, bishop, rook or queen.
func NewPromotionMove(from, to Square, pt PieceType) Move {
	return Move(PromotionMove) | Move(pt-PieceTypeKnight)<<12 | Move(from<<6) | Move(to)
}

// NewEnPassantMove builds an en passant capture; to is the en passant square.
func NewEnPassantMove(from, to Square) Move {
	return Move(EnPassantMove) | Move(from<<6) | Move(to)
}

// NewCastlingMove builds a castling move from the king square to the rook square.
func NewCastlingMove(kingFrom, rookTo Square) Move {
	return Move(CastlingMove) | Move(kingFrom<<6) | Move(rookTo)
}

// From returns the origin square.
func (m Move) From() Square { return Square(m>>6) & 63 }

// To returns the destination square. For castling this is the rook's square.
func (m Move) To() Square { return Square(m) & 63 }

// Type returns the special-move tag.
func (m Move) Type() MoveType { return MoveType(m) & CastlingMove }

// PromotionType returns the piece type a promotion creates. Only meaningful
// when Type() == PromotionMove.
func (m Move) PromotionType() PieceType { return PieceType(m>>12&3) + PieceTypeKnight }

// IsOK reports whether m is a real move rather than MoveNone or MoveNull.
func (m Move) IsOK() bool { return m.From() != m.To() }

// String renders the raw encoding in coordinate notation with a promotion
// suffix. Castling shows the king-to-rook form; use Position.MoveToUCI for
// standard notation.
func (m Move) String() string {
	if m == MoveNone {
		return "(none)"
	}
	if m == MoveNull {
		return "0000"
	}
	s := m.From().String() + m.To().String()
	if m.Type() == PromotionMove {
		s += string(pieceChars[Piece(m.PromotionType())|8]) // lowercase
	}
	return s
}

// MoveToUCI renders m the way a UCI driver expects: castling becomes the
// king's two-square hop unless the position is Chess960, where the
// king-takes-rook form is standard.
func (p *Position) MoveToUCI(m Move) string {
	if m == MoveNone {
		return "(none)"
	}
	if m == MoveNull {
		return "0000"
	}
	from, to := m.From(), m.To()
	if m.Type() == CastlingMove && !p.chess960 {
		if to > from {
			to = relativeSquare(p.sideToMove, sqG1)
		} else {
			to = relativeSquare(p.sideToMove, sqC1)
		}
	}
	s := from.String() + to.String()
	if m.Type() == PromotionMove {
		s += string(pieceChars[Piece(m.PromotionType())|8])
	}
	return s
}

// MoveFromUCI parses a move in UCI coordinate notation against the current
// position, mapping it onto the internal encoding. Returns MoveNone if the
// string does not describe an encodable move here.
func (p *Position) MoveFromUCI(s string) Move {
	if len(s) < 4 {
		return MoveNone
	}
	from := parseSquare(s[:2])
	to := parseSquare(s[2:4])
	if from == NoSquare || to == NoSquare {
		return MoveNone
	}
	pc := p.board[from]
	if pc == NoPiece || pc.Color() != p.sideToMove {
		return MoveNone
	}
	if len(s) >= 5 {
		pt := PieceType(0)
		switch s[4] {
		case 'n':
			pt = PieceTypeKnight
		case 'b':
			pt = PieceTypeBishop
		case 'r':
			pt = PieceTypeRook
		case 'q':
			pt = PieceTypeQueen
		default:
			return MoveNone
		}
		return NewPromotionMove(from, to, pt)
	}
	if pc.Type() == PieceTypeKing {
		// King lands on its own rook: Chess960 castling notation.
		if p.board[to] == PieceFromType(p.sideToMove, PieceTypeRook) {
			return NewCastlingMove(from, to)
		}
		// Standard notation: a two-file hop means castling.
		if !p.chess960 && from == relativeSquare(p.sideToMove, sqE1) && (to == relativeSquare(p.sideToMove, sqG1) || to == relativeSquare(p.sideToMove, sqC1)) {
			cr := CastlingWhiteK
			if to < from {
				cr = CastlingWhiteQ
			}
			if p.sideToMove == Black {
				cr <<= 2
			}
			if p.CanCastle(cr) {
				return NewCastlingMove(from, p.castlingRookSquare[cr])
			}
		}
	}
	if pc.Type() == PieceTypePawn && to == p.st.epSquare && p.st.epSquare != NoSquare {
		return NewEnPassantMove(from, to)
	}
	return NewMove(from, to)
}
