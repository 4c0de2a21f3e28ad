package main

import (
	"flag"
	"fmt"
	"os"
	"runtime/pprof"
	"time"

	"golang.org/x/exp/slices"

	"github.com/87flowers/Stockfish/position"
)

func main() {
	fen := flag.String("fen", position.StartFEN, "FEN string (defaults to initial position)")
	depth := flag.Int("depth", 0, "Perft depth (required)")
	divide := flag.Bool("divide", false, "Print per-move node counts at root")
	chess960 := flag.Bool("chess960", false, "Interpret castling as Chess960 (Shredder-FEN rook files)")
	repeat := flag.Int("repeat", 1, "Repeat perft N times and report aggregate (for steadier timings)")
	label := flag.String("label", "", "Optional label prefix for one-line output")
	cpuProf := flag.String("cpuprofile", "", "Write CPU profile to file during run")
	memProf := flag.String("memprofile", "", "Write heap profile to file after run")
	flag.Parse()

	if *depth <= 0 {
		fmt.Fprintln(os.Stderr, "-depth must be > 0")
		os.Exit(2)
	}

	var st position.State
	pos, err := position.NewPosition(*fen, *chess960, &st)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fen error: %v\n", err)
		os.Exit(2)
	}

	// Optional divide output
	if *divide {
		type kv struct {
			uci string
			n   uint64
		}
		states := make([]position.State, *depth)
		var arr []kv
		var sum uint64
		for _, m := range pos.LegalMoves() {
			pos.DoMove(m, &states[0], pos.GivesCheck(m))
			n := perft(pos, *depth-1, states[1:])
			pos.UndoMove(m)
			arr = append(arr, kv{pos.MoveToUCI(m), n})
			sum += n
		}
		// Sort moves for stable output
		slices.SortFunc(arr, func(a, b kv) int {
			switch {
			case a.uci < b.uci:
				return -1
			case a.uci > b.uci:
				return 1
			}
			return 0
		})
		for _, x := range arr {
			fmt.Printf("%s: %d\n", x.uci, x.n)
		}
		fmt.Printf("Total: %d\n", sum)
		return
	}

	// Optional CPU profiling
	if *cpuProf != "" {
		f, err := os.Create(*cpuProf)
		if err != nil {
			fmt.Fprintf(os.Stderr, "creating cpuprofile: %v\n", err)
			os.Exit(2)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			fmt.Fprintf(os.Stderr, "start cpu profile: %v\n", err)
			os.Exit(2)
		}
		defer func() {
			pprof.StopCPUProfile()
			_ = f.Close()
		}()
	}

	// Timing loop
	states := make([]position.State, *depth)
	var totalNodes uint64
	start := time.Now()
	for i := 0; i < *repeat; i++ {
		totalNodes += perft(pos, *depth, states)
	}
	elapsed := time.Since(start)
	nps := float64(totalNodes) / elapsed.Seconds()

	// Single line: Depth Nodes Time NPS
	fmt.Printf("%s \t%d \t\t%d \t\t%s \t%.0f\n", *label, *depth, totalNodes, elapsed, nps)

	// Optional heap profile after run
	if *memProf != "" {
		f, err := os.Create(*memProf)
		if err != nil {
			fmt.Fprintf(os.Stderr, "creating memprofile: %v\n", err)
			os.Exit(2)
		}
		if err := pprof.WriteHeapProfile(f); err != nil {
			fmt.Fprintf(os.Stderr, "write heap profile: %v\n", err)
			os.Exit(2)
		}
		_ = f.Close()
	}
}

func perft(p *position.Position, depth int, states []position.State) uint64 {
	moves := p.LegalMoves()
	if depth <= 1 {
		if depth == 0 {
			return 1
		}
		return uint64(len(moves))
	}
	var nodes uint64
	for _, m := range moves {
		p.DoMove(m, &states[0], p.GivesCheck(m))
		nodes += perft(p, depth-1, states[1:])
		p.UndoMove(m)
	}
	return nodes
}
