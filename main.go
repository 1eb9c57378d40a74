package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"strings"

	"sweeper-royale/internal/game"
)

// Terminal playground for the board engine: reveal tiles on a seeded board
// and watch the flood fill cascade. Handy for eyeballing seeds and cascades
// without a browser; the real server lives in cmd/server.
func main() {
	opt := game.Options{
		Width:       9,
		Height:      9,
		Mines:       10,
		Mode:        game.ModeTurn,
		StunSmall:   3,
		StunBig:     10,
		TurnSeconds: 10,
	}
	seed := uint32(rand.Int31())
	if len(os.Args) > 1 {
		if n, err := strconv.ParseUint(os.Args[1], 10, 32); err == nil {
			seed = uint32(n)
		}
	}
	g := game.NewSession(opt, seed)
	g.Started = true

	fmt.Printf("seed %d, %dx%d, %d mines\n", g.Seed, g.Width, g.Height, g.Mines)
	fmt.Println("Enter moves as: x y (0-based)")

	reader := bufio.NewReader(os.Stdin)
	for g.MinesLeft() > 0 && g.RevealedCount() < g.Width*g.Height {
		printBoard(g)
		fmt.Print("> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			break
		}
		parts := strings.Fields(line)
		if len(parts) != 2 {
			fmt.Println("Need two numbers, e.g.: 4 4")
			continue
		}
		x, _ := strconv.Atoi(parts[0])
		y, _ := strconv.Atoi(parts[1])
		if !g.InBounds(x, y) {
			fmt.Println("Out of bounds.")
			continue
		}
		updates, hitMine, err := g.Reveal("you", x, y)
		if err != nil {
			fmt.Println("Invalid move:", err)
			continue
		}
		if hitMine {
			fmt.Println("BOOM! That's a point in this game.")
		} else {
			fmt.Printf("Opened %d tile(s).\n", len(updates))
		}
	}

	printBoard(g)
	fmt.Println("\nDone!")
	js, _ := json.MarshalIndent(map[string]interface{}{
		"seed":   g.Seed,
		"scores": g.Scores,
		"found":  g.FoundMines(),
	}, "", "  ")
	fmt.Println(string(js))
}

func printBoard(g *game.Session) {
	mines := g.MineSet()
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			if !g.IsRevealed(x, y) {
				fmt.Print(". ")
				continue
			}
			if _, ok := mines[game.Coord{X: x, Y: y}]; ok {
				fmt.Print("* ")
				continue
			}
			n := 0
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					if _, ok := mines[game.Coord{X: x + dx, Y: y + dy}]; ok && !(dx == 0 && dy == 0) {
						n++
					}
				}
			}
			fmt.Printf("%d ", n)
		}
		fmt.Println()
	}
}
