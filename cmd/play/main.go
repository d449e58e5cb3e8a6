// Command play runs one board in the terminal. Each input line holds the
// "x y" of a cell to reveal.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"hash/maphash"
	"io"
	"math/rand/v2"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/mineboard/internal/board"
)

func main() {
	var (
		width  = flag.Int("width", 9, "board width")
		height = flag.Int("height", 9, "board height")
		mines  = flag.Int("mines", 10, "number of mines")
		seed   = flag.Uint64("seed", 0, "mine layout seed, 0 for a random one")
	)
	flag.Parse()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{ForceColors: true})

	b, err := board.New(*width, *height, *mines)
	if err != nil {
		log.WithError(err).Fatal("unable to create board")
	}

	s := *seed
	if s == 0 {
		s = new(maphash.Hash).Sum64()
	}
	b.Start(rand.New(rand.NewPCG(s, s)))
	log.WithField("seed", s).Debug("board started")

	if err := play(b, os.Stdin, os.Stdout); err != nil {
		log.WithError(err).Fatal("unable to read input")
	}
}

// play reveals the cells named on each line of in, printing the board after
// every move, until a mine goes off or in runs dry.
func play(b *board.Board, in io.Reader, out io.Writer) error {
	fmt.Fprint(out, b.View())

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		var x, y int
		if _, err := fmt.Sscan(scanner.Text(), &x, &y); err != nil {
			fmt.Fprintln(out, "expected: x y")
			continue
		}

		res := b.Reveal(x, y)
		fmt.Fprint(out, b.View())

		if res.Kind == board.MineTriggered {
			fmt.Fprintf(out, "mine at %d %d, game over\n", res.Trigger.X, res.Trigger.Y)
			return nil
		}
	}
	return scanner.Err()
}
