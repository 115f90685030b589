// Package render turns world snapshots into the simulator's textual output:
// a per-tick counter line followed by the grid in aligned columns. It is a
// pure consumer of snapshots and never touches the world.
package render

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/daniacca/ecosim/internal/eco"
)

const (
	cellWidth   = 2
	emptySymbol = "."
)

// asciiSymbols replaces the default pictographic symbols on terminals
// without wide-glyph support.
var asciiSymbols = map[eco.Species]string{
	eco.Plant:     "*",
	eco.Herbivore: "H",
	eco.Carnivore: "C",
}

// Renderer writes snapshots to an output stream.
type Renderer struct {
	out   io.Writer
	ascii bool
}

// New creates a renderer writing to out.
func New(out io.Writer) *Renderer {
	return &Renderer{out: out}
}

// SetASCII switches the renderer to single-width ASCII symbols.
func (r *Renderer) SetASCII(ascii bool) {
	r.ascii = ascii
}

// Banner writes the opening header before the first frame.
func (r *Renderer) Banner(width int) {
	fmt.Fprintln(r.out, "Ecosystem simulation starting...")
	fmt.Fprintf(r.out, "\n%s\n\n", separator(width))
}

// Render writes one frame: the counter line, the grid, and a separator.
func (r *Renderer) Render(s eco.Snapshot) {
	grid := make([][]string, s.Height)
	for y := range grid {
		grid[y] = make([]string, s.Width)
		for x := range grid[y] {
			grid[y][x] = emptySymbol
		}
	}
	for _, o := range s.Organisms {
		sym := o.Symbol
		if r.ascii {
			sym = asciiSymbols[o.Species]
		}
		grid[o.Y][o.X] = sym
	}

	fmt.Fprintf(r.out, "Tick: %d, Plants: %d, Herbivores: %d, Carnivores: %d\n",
		s.Tick, s.Counts.Plants, s.Counts.Herbivores, s.Counts.Carnivores)

	for _, row := range grid {
		for _, cell := range row {
			// Single-width symbols get a trailing space so columns stay
			// aligned next to double-width glyphs.
			if r.ascii || isNarrow(cell) {
				fmt.Fprintf(r.out, "%s ", pad(cell))
			} else {
				fmt.Fprint(r.out, pad(cell))
			}
		}
		fmt.Fprintln(r.out)
	}

	fmt.Fprintf(r.out, "\n%s\n\n", separator(s.Width))
}

// isNarrow reports whether the symbol occupies a single terminal column.
// Emoji and other pictographs render double-width.
func isNarrow(sym string) bool {
	r, _ := utf8.DecodeRuneInString(sym)
	return r < 0x1F000
}

func pad(sym string) string {
	n := cellWidth - utf8.RuneCountInString(sym)
	if n <= 0 {
		return sym
	}
	return sym + strings.Repeat(" ", n)
}

func separator(width int) string {
	return strings.Repeat("=", width*(cellWidth+1))
}
