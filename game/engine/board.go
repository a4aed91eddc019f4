package engine

import (
	"fmt"
	"sort"
)

// Options parameterizes board construction.
type Options struct {
	Size    int `json:"size" yaml:"size"`
	Colors  int `json:"colors" yaml:"colors"`
	Chips   int `json:"chips" yaml:"chips"`
	Mirrors int `json:"mirrors" yaml:"mirrors"`
}

// DefaultOptions returns the only supported layout, with mirrors enabled.
func DefaultOptions() Options {
	return Options{
		Size:    BoardSize,
		Colors:  NumColors,
		Chips:   ChipsPerColor,
		Mirrors: MirrorsPerColor,
	}
}

// Validate rejects every parameterization other than the fixed one. Mirrors
// may only be toggled between 0 and MirrorsPerColor.
func (o Options) Validate() error {
	if o.Size != BoardSize {
		return fmt.Errorf("%w: size must be %d, got %d", ErrConfiguration, BoardSize, o.Size)
	}
	if o.Colors != NumColors {
		return fmt.Errorf("%w: colors must be %d, got %d", ErrConfiguration, NumColors, o.Colors)
	}
	if o.Chips != ChipsPerColor {
		return fmt.Errorf("%w: chips per color must be %d, got %d", ErrConfiguration, ChipsPerColor, o.Chips)
	}
	if o.Mirrors != 0 && o.Mirrors != MirrorsPerColor {
		return fmt.Errorf("%w: mirrors per color must be 0 or %d, got %d", ErrConfiguration, MirrorsPerColor, o.Mirrors)
	}
	return nil
}

// Board is the static description of the grid. It is never mutated after
// construction and may be shared freely between goroutines.
type Board struct {
	opts  Options
	cells [][]Cell // [row][col]
	goals map[Goal]Coordinate
	pawns PawnSet
}

// NewBoard generates the fixed default board for opts.
func NewBoard(opts Options) (*Board, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	b := newEmptyBoard(opts)
	walls := generateWalls(opts.Size)
	for row := range walls {
		for col := range walls[row] {
			b.cells[row][col].Walls = walls[row][col]
		}
	}

	for color, shapes := range chipTable {
		for shape, p := range shapes {
			b.placeGoal(Coordinate{X: p.col, Y: p.row}, Goal{Color: Color(color), Shape: Shape(shape)})
		}
	}

	if opts.Mirrors > 0 {
		for color, mirrors := range mirrorTable {
			for _, m := range mirrors {
				b.cells[m.row][m.col].Mirror = &Mirror{Owner: Color(color), Angle: m.angle}
			}
		}
	}

	for color, p := range initialPawns {
		b.pawns[color] = Coordinate{X: p.col, Y: p.row}
	}

	return b, nil
}

// MustDefaultBoard returns the default board and panics on failure, which
// cannot happen for DefaultOptions.
func MustDefaultBoard() *Board {
	b, err := NewBoard(DefaultOptions())
	if err != nil {
		panic(err)
	}
	return b
}

func newEmptyBoard(opts Options) *Board {
	cells := make([][]Cell, opts.Size)
	for i := range cells {
		cells[i] = make([]Cell, opts.Size)
	}
	return &Board{
		opts:  opts,
		cells: cells,
		goals: make(map[Goal]Coordinate),
	}
}

func (b *Board) placeGoal(c Coordinate, g Goal) {
	goal := g
	b.cells[c.Y][c.X].Goal = &goal
	b.goals[g] = c
}

// Size returns the side length of the square grid.
func (b *Board) Size() int {
	return b.opts.Size
}

// Options returns the parameters the board was built with.
func (b *Board) Options() Options {
	return b.opts
}

// InBounds reports whether c lies on the grid.
func (b *Board) InBounds(c Coordinate) bool {
	return c.X >= 0 && c.Y >= 0 && c.X < b.opts.Size && c.Y < b.opts.Size
}

// WallAt reports whether cell c has a wall on side d. Cells off the grid are
// treated as fully walled.
func (b *Board) WallAt(c Coordinate, d Direction) bool {
	if !b.InBounds(c) || !d.Valid() {
		return true
	}
	return b.cells[c.Y][c.X].Walls[d]
}

// Walls returns the wall mask of cell c.
func (b *Board) Walls(c Coordinate) WallMask {
	if !b.InBounds(c) {
		return WallMask{true, true, true, true}
	}
	return b.cells[c.Y][c.X].Walls
}

// MirrorAt returns the mirror on cell c, if any.
func (b *Board) MirrorAt(c Coordinate) (Mirror, bool) {
	if !b.InBounds(c) {
		return Mirror{}, false
	}
	m := b.cells[c.Y][c.X].Mirror
	if m == nil {
		return Mirror{}, false
	}
	return *m, true
}

// GoalAt returns the chip on cell c, if any.
func (b *Board) GoalAt(c Coordinate) (Goal, bool) {
	if !b.InBounds(c) {
		return Goal{}, false
	}
	g := b.cells[c.Y][c.X].Goal
	if g == nil {
		return Goal{}, false
	}
	return *g, true
}

// GoalLocation returns the cell holding the (color, shape) chip.
func (b *Board) GoalLocation(color Color, shape Shape) (Coordinate, error) {
	c, ok := b.goals[Goal{Color: color, Shape: shape}]
	if !ok {
		return Coordinate{}, fmt.Errorf("%w: %s %s", ErrGoalNotFound, color, shape)
	}
	return c, nil
}

// Goals lists every chip on the board ordered by color, then shape.
func (b *Board) Goals() []GoalPlacement {
	result := make([]GoalPlacement, 0, len(b.goals))
	for g, c := range b.goals {
		result = append(result, GoalPlacement{Goal: g, Location: c})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Goal.Color != result[j].Goal.Color {
			return result[i].Goal.Color < result[j].Goal.Color
		}
		return result[i].Goal.Shape < result[j].Goal.Shape
	})
	return result
}

// InitialPawns returns the starting pawn positions.
func (b *Board) InitialPawns() PawnSet {
	return b.pawns
}

// Cell returns a copy of the content of cell c.
func (b *Board) Cell(c Coordinate) Cell {
	if !b.InBounds(c) {
		return Cell{Walls: WallMask{true, true, true, true}}
	}
	cell := b.cells[c.Y][c.X]
	out := Cell{Walls: cell.Walls}
	if cell.Mirror != nil {
		m := *cell.Mirror
		out.Mirror = &m
	}
	if cell.Goal != nil {
		g := *cell.Goal
		out.Goal = &g
	}
	return out
}

// ValidatePawns checks that every pawn is on the grid and no two pawns share a cell.
func (b *Board) ValidatePawns(pawns PawnSet) error {
	seen := make(map[Coordinate]Color, len(pawns))
	for i, p := range pawns {
		if !b.InBounds(p) {
			return fmt.Errorf("%w: %s pawn at %s is off the board", ErrInvalidPawn, Color(i), p)
		}
		if other, ok := seen[p]; ok {
			return fmt.Errorf("%w: %s and %s pawns share %s", ErrInvalidPawn, other, Color(i), p)
		}
		seen[p] = Color(i)
	}
	return nil
}
