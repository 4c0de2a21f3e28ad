package position

import "math/rand"

// Zobrist hashing tables for pieces, castling, en passant, and side to move.
// The pawn entries on the first and last ranks are zeroed: pawns can never
// stand there, and a zero key lets promotion handling skip clearing the pawn
// contribution on the promotion square.
var zobristPsq [16][64]uint64
var zobristCastling [16]uint64
var zobristEnPassant [8]uint64
var zobristSide uint64
var zobristNoPawns uint64

// Cuckoo tables mapping the XOR signature of a reversible move (piece key on
// origin ^ piece key on destination ^ side key) back to that move. Keys are
// placed with two-slot cuckoo hashing so a lookup costs at most two probes.
const cuckooSize = 8192

var cuckoo [cuckooSize]uint64
var cuckooMove [cuckooSize]Move

func cuckooH1(key uint64) int { return int(key>>51) & 0x1fff }
func cuckooH2(key uint64) int { return int(key>>35) & 0x1fff }

// reversiblePairs is the number of (piece, origin, destination) combinations a
// non-pawn piece can move between on an empty board, counted once per
// unordered square pair. It depends only on board geometry.
const reversiblePairs = 3668

func init() {
	initZobrist()
	initCuckoo()
}

func initZobrist() {
	// Use a fixed seed for reproducibility in tests
	rnd := rand.New(rand.NewSource(0xC0DE))

	// Piece keys
	for p := 0; p < 16; p++ {
		for sq := 0; sq < 64; sq++ {
			zobristPsq[p][sq] = rnd.Uint64()
		}
	}

	// Castling rights keys
	for cr := 0; cr < 16; cr++ {
		zobristCastling[cr] = rnd.Uint64()
	}

	// En passant file keys
	for f := 0; f < 8; f++ {
		zobristEnPassant[f] = rnd.Uint64()
	}

	// Side to move key
	zobristSide = rnd.Uint64()

	// Seed key for the pawn-structure hash of a pawnless position
	zobristNoPawns = rnd.Uint64()

	// Zero the impossible pawn squares (see the table comment above)
	for sq := sqA1; sq <= sqH1; sq++ {
		zobristPsq[WhitePawn][sq] = 0
		zobristPsq[BlackPawn][sq] = 0
	}
	for sq := sqA8; sq <= sqH8; sq++ {
		zobristPsq[WhitePawn][sq] = 0
		zobristPsq[BlackPawn][sq] = 0
	}
}

func initCuckoo() {
	pieces := [10]Piece{
		WhiteKnight, WhiteBishop, WhiteRook, WhiteQueen, WhiteKing,
		BlackKnight, BlackBishop, BlackRook, BlackQueen, BlackKing,
	}
	count := 0
	for _, pc := range pieces {
		for s1 := Square(0); s1 < 64; s1++ {
			for s2 := s1 + 1; s2 < 64; s2++ {
				if attacksBB(pc.Type(), s1, 0)&squareBB(s2) == 0 {
					continue
				}
				move := NewMove(s1, s2)
				key := zobristPsq[pc][s1] ^ zobristPsq[pc][s2] ^ zobristSide
				i := cuckooH1(key)
				for {
					cuckoo[i], key = key, cuckoo[i]
					cuckooMove[i], move = move, cuckooMove[i]
					if move == MoveNone { // arrived at an empty slot
						break
					}
					// Push the victim to its alternative slot
					if i == cuckooH1(key) {
						i = cuckooH2(key)
					} else {
						i = cuckooH1(key)
					}
				}
				count++
			}
		}
	}
	if count != reversiblePairs {
		panic("position: cuckoo table construction placed an unexpected number of moves")
	}
}
