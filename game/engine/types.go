package engine

import (
	"fmt"
	"strings"
)

// Fixed board parameters. Only these values are accepted by NewBoard and ParseSeed.
const (
	BoardSize        = 16
	NumColors        = 4
	ChipsPerColor    = 4
	MirrorsPerColor  = 2
	NumDirections    = 4
	noParent         = -1
	maxBouncesFactor = 4
)

// Coordinate is a cell position. X is the column, Y the row.
type Coordinate struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (c Coordinate) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Step returns the neighbouring coordinate in direction d.
func (c Coordinate) Step(d Direction) Coordinate {
	dx, dy := d.Delta()
	return Coordinate{X: c.X + dx, Y: c.Y + dy}
}

// Direction is one of the four slide directions. Its value indexes a WallMask.
type Direction int

const (
	Up Direction = iota
	Right
	Down
	Left
)

// Directions lists the slide directions in expansion order.
var Directions = [NumDirections]Direction{Up, Right, Down, Left}

var directionNames = [NumDirections]string{"up", "right", "down", "left"}

func (d Direction) String() string {
	if d < 0 || int(d) >= NumDirections {
		return fmt.Sprintf("direction(%d)", int(d))
	}
	return directionNames[d]
}

// Delta returns the column and row offsets of one step in direction d.
func (d Direction) Delta() (dx, dy int) {
	switch d {
	case Up:
		return 0, -1
	case Right:
		return 1, 0
	case Down:
		return 0, 1
	case Left:
		return -1, 0
	}
	return 0, 0
}

// Opposite returns the reverse direction.
func (d Direction) Opposite() Direction {
	return (d + 2) % NumDirections
}

// Valid reports whether d is one of the four directions.
func (d Direction) Valid() bool {
	return d >= Up && d <= Left
}

// ParseDirection accepts "up", "right", "down", "left" (any case) or their
// compass aliases "n", "e", "s", "w".
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up", "north", "n":
		return Up, nil
	case "right", "east", "e":
		return Right, nil
	case "down", "south", "s":
		return Down, nil
	case "left", "west", "w":
		return Left, nil
	}
	return 0, fmt.Errorf("unknown direction %q", s)
}

// WallMask holds the walls of a single cell, indexed by Direction (N, E, S, W).
type WallMask [NumDirections]bool

// Count returns the number of walls set on the cell.
func (w WallMask) Count() int {
	n := 0
	for _, set := range w {
		if set {
			n++
		}
	}
	return n
}

// Color identifies a pawn and the owner of chips and mirrors.
type Color int

const (
	Red Color = iota
	Green
	Blue
	Yellow
)

var colorNames = [NumColors]string{"red", "green", "blue", "yellow"}

func (c Color) String() string {
	if c < 0 || int(c) >= NumColors {
		return fmt.Sprintf("color(%d)", int(c))
	}
	return colorNames[c]
}

// Valid reports whether c names one of the board colors.
func (c Color) Valid() bool {
	return c >= Red && int(c) < NumColors
}

// ParseColor accepts a color name or its numeric id.
func ParseColor(s string) (Color, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range colorNames {
		if s == name || s == fmt.Sprint(i) {
			return Color(i), nil
		}
	}
	return 0, fmt.Errorf("unknown color %q", s)
}

// Shape identifies a chip within its color.
type Shape int

const (
	Circle Shape = iota
	Square
	Triangle
	Star
)

var shapeNames = [ChipsPerColor]string{"circle", "square", "triangle", "star"}

func (s Shape) String() string {
	if s < 0 || int(s) >= ChipsPerColor {
		return fmt.Sprintf("shape(%d)", int(s))
	}
	return shapeNames[s]
}

// Valid reports whether s names one of the chip shapes.
func (s Shape) Valid() bool {
	return s >= Circle && int(s) < ChipsPerColor
}

// ParseShape accepts a shape name or its numeric id.
func ParseShape(s string) (Shape, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range shapeNames {
		if s == name || s == fmt.Sprint(i) {
			return Shape(i), nil
		}
	}
	return 0, fmt.Errorf("unknown shape %q", s)
}

// Angle is a mirror orientation in degrees.
type Angle int

const (
	// Angle45 deflects like "\".
	Angle45 Angle = 45
	// Angle135 deflects like "/".
	Angle135 Angle = 135
)

// Mirror deflects pawns of its owner color and is transparent to the others.
type Mirror struct {
	Owner Color `json:"owner"`
	Angle Angle `json:"angle"`
}

// Goal is a chip: the cell the pawn of Color must reach.
type Goal struct {
	Color Color `json:"color"`
	Shape Shape `json:"shape"`
}

func (g Goal) String() string {
	return fmt.Sprintf("%s %s", g.Color, g.Shape)
}

// GoalPlacement pairs a goal with the cell it sits on.
type GoalPlacement struct {
	Goal     Goal       `json:"goal"`
	Location Coordinate `json:"location"`
}

// PawnSet holds one position per pawn, indexed by Color.
type PawnSet [NumColors]Coordinate

// At reports which pawn occupies c, if any.
func (p PawnSet) At(c Coordinate) (Color, bool) {
	for i, pos := range p {
		if pos == c {
			return Color(i), true
		}
	}
	return 0, false
}

// With returns a copy of p where pawn has moved to c.
func (p PawnSet) With(pawn Color, c Coordinate) PawnSet {
	p[pawn] = c
	return p
}

// Move is a single slide in a solution: pawn ends on To.
type Move struct {
	Pawn Color      `json:"pawn"`
	To   Coordinate `json:"to"`
}

func (m Move) String() string {
	return fmt.Sprintf("%s->%s", m.Pawn, m.To)
}

// Cell is the static content of a board square.
type Cell struct {
	Walls  WallMask `json:"walls"`
	Mirror *Mirror  `json:"mirror,omitempty"`
	Goal   *Goal    `json:"goal,omitempty"`
}
