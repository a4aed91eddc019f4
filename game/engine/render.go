package engine

import (
	"fmt"
	"strings"
)

var colorLetters = [NumColors]byte{'r', 'g', 'b', 'y'}

var shapeSymbols = [ChipsPerColor]byte{'o', '#', '^', '*'}

// Render draws the board as ASCII art. Every cell is three characters wide.
// Pawns are shown as " R ", chips as "r# " style pairs (color letter and
// shape symbol), mirrors as "r\" or "r/". The target chip, when given, is
// wrapped in brackets.
func Render(b *Board, pawns PawnSet, target *Goal) string {
	var sb strings.Builder
	size := b.Size()

	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			sb.WriteByte('+')
			if b.WallAt(Coordinate{X: x, Y: y}, Up) {
				sb.WriteString("---")
			} else {
				sb.WriteString("   ")
			}
		}
		sb.WriteString("+\n")

		for x := 0; x < size; x++ {
			c := Coordinate{X: x, Y: y}
			if b.WallAt(c, Left) {
				sb.WriteByte('|')
			} else {
				sb.WriteByte(' ')
			}
			sb.WriteString(renderCell(b, pawns, target, c))
		}
		if b.WallAt(Coordinate{X: size - 1, Y: y}, Right) {
			sb.WriteString("|\n")
		} else {
			sb.WriteString(" \n")
		}
	}

	for x := 0; x < size; x++ {
		sb.WriteByte('+')
		if b.WallAt(Coordinate{X: x, Y: size - 1}, Down) {
			sb.WriteString("---")
		} else {
			sb.WriteString("   ")
		}
	}
	sb.WriteString("+\n")
	return sb.String()
}

func renderCell(b *Board, pawns PawnSet, target *Goal, c Coordinate) string {
	if pawn, ok := pawns.At(c); ok {
		return fmt.Sprintf(" %c ", colorLetters[pawn]-'a'+'A')
	}
	if m, ok := b.MirrorAt(c); ok {
		glyph := byte('\\')
		if m.Angle == Angle135 {
			glyph = '/'
		}
		return fmt.Sprintf("%c%c ", colorLetters[m.Owner], glyph)
	}
	if g, ok := b.GoalAt(c); ok {
		if target != nil && *target == g {
			return fmt.Sprintf("[%c]", shapeSymbols[g.Shape])
		}
		return fmt.Sprintf("%c%c ", colorLetters[g.Color], shapeSymbols[g.Shape])
	}
	return "   "
}

// Legend explains the glyphs used by Render.
func Legend() string {
	return strings.Join([]string{
		"R G B Y  pawns (red, green, blue, yellow)",
		"r g b y  chip or mirror owner color",
		"o # ^ *  chip shapes (circle, square, triangle, star)",
		"\\ /      mirrors at 45 and 135 degrees",
		"[x]      current target",
	}, "\n")
}
