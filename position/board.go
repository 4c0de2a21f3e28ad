package position

// Piece constants and types for pieces and colors
type Piece uint8

const (
	NoPiece     Piece = 0
	WhitePawn   Piece = 1
	WhiteKnight Piece = 2
	WhiteBishop Piece = 3
	WhiteRook   Piece = 4
	WhiteQueen  Piece = 5
	WhiteKing   Piece = 6

	// Black pieces are encoded as (white piece type | 8) so that
	// - piece & 7 gives the type in [1..6]
	// - piece & 8 != 0 indicates Black
	BlackPawn   Piece = 1 | 8
	BlackKnight Piece = 2 | 8
	BlackBishop Piece = 3 | 8
	BlackRook   Piece = 4 | 8
	BlackQueen  Piece = 5 | 8
	BlackKing   Piece = 6 | 8
)

// PieceType is a colorless representation of a chess piece used for table lookups.
type PieceType uint8

const (
	PieceTypeNone   PieceType = 0
	PieceTypePawn   PieceType = 1
	PieceTypeKnight PieceType = 2
	PieceTypeBishop PieceType = 3
	PieceTypeRook   PieceType = 4
	PieceTypeQueen  PieceType = 5
	PieceTypeKing   PieceType = 6
)

// Type returns the colorless type of the piece (ignores side).
func (p Piece) Type() PieceType { return PieceType(p & 7) }

// Color returns the side that owns the piece. NoPiece defaults to White.
func (p Piece) Color() Color { return Color(p >> 3) }

// PieceFromType combines a colorless type with a side to produce a concrete Piece.
func PieceFromType(color Color, pt PieceType) Piece {
	if pt == PieceTypeNone {
		return NoPiece
	}
	return Piece(pt) | Piece(color<<3)
}

type Color uint8

const (
	White Color = 0
	Black Color = 1
)

// Other returns the opposing side.
func (c Color) Other() Color { return c ^ 1 }

// Castling rights bit flags
type CastlingRights uint8

const (
	// White king-side (short) castling
	CastlingWhiteK CastlingRights = 1 << iota
	// White queen-side (long) castling
	CastlingWhiteQ
	// Black king-side castling
	CastlingBlackK
	// Black queen-side castling
	CastlingBlackQ

	CastlingKingSide  = CastlingWhiteK | CastlingBlackK
	CastlingQueenSide = CastlingWhiteQ | CastlingBlackQ
	CastlingWhite     = CastlingWhiteK | CastlingWhiteQ
	CastlingBlack     = CastlingBlackK | CastlingBlackQ
	CastlingAny       = CastlingWhite | CastlingBlack
)

// Square represents a board position (0-63, a1 = 0, h8 = 63).
type Square int

const NoSquare Square = -1

// Back-rank squares referenced by the castling machinery.
const (
	sqA1 Square = 0
	sqC1 Square = 2
	sqD1 Square = 3
	sqE1 Square = 4
	sqF1 Square = 5
	sqG1 Square = 6
	sqH1 Square = 7
	sqA8 Square = 56
	sqH8 Square = 63
)

func makeSquare(file, rank int) Square { return Square(rank*8 + file) }

// File returns the square's file in [0..7] (0 = file a).
func (s Square) File() int { return int(s) & 7 }

// Rank returns the square's rank in [0..7] (0 = rank 1).
func (s Square) Rank() int { return int(s) >> 3 }

// relativeSquare mirrors s vertically for Black, so that the same back-rank
// constants describe both sides' castling geometry.
func relativeSquare(c Color, s Square) Square { return s ^ Square(56*int(c)) }

func relativeRank(c Color, s Square) int {
	if c == Black {
		return 7 - s.Rank()
	}
	return s.Rank()
}

// pawnPush is the square delta of a single pawn advance for the given side.
func pawnPush(c Color) Square {
	if c == White {
		return 8
	}
	return -8
}

// String returns the square in coordinate notation ("a1".."h8", "-" for NoSquare).
func (s Square) String() string {
	if s == NoSquare {
		return "-"
	}
	return string([]byte{byte('a' + s.File()), byte('1' + s.Rank())})
}

func parseSquare(s string) Square {
	if len(s) != 2 || s[0] < 'a' || s[0] > 'h' || s[1] < '1' || s[1] > '8' {
		return NoSquare
	}
	return makeSquare(int(s[0]-'a'), int(s[1]-'1'))
}

// Piece characters indexed by piece code, FEN convention.
const pieceChars = " PNBRQK  pnbrqk"

// Piece values used by the exchange evaluator and the non-pawn material totals.
const (
	PawnValue   = 208
	KnightValue = 781
	BishopValue = 825
	RookValue   = 1276
	QueenValue  = 2538
)

// pieceValue maps a piece code to its exchange value. Kings and empty squares
// stay at zero.
var pieceValue = [16]int{
	WhitePawn: PawnValue, WhiteKnight: KnightValue, WhiteBishop: BishopValue,
	WhiteRook: RookValue, WhiteQueen: QueenValue,
	BlackPawn: PawnValue, BlackKnight: KnightValue, BlackBishop: BishopValue,
	BlackRook: RookValue, BlackQueen: QueenValue,
}
