package engine

import "fmt"

type reflectionKey struct {
	dir   Direction
	angle Angle
}

// reflections maps an incoming direction and mirror angle to the outgoing direction.
var reflections = map[reflectionKey]Direction{
	{Up, Angle45}:     Left,
	{Up, Angle135}:    Right,
	{Right, Angle135}: Up,
	{Right, Angle45}:  Down,
	{Down, Angle45}:   Right,
	{Down, Angle135}:  Left,
	{Left, Angle45}:   Up,
	{Left, Angle135}:  Down,
}

// Reflect returns the direction a pawn travelling in d leaves a mirror of the
// given angle.
func Reflect(d Direction, angle Angle) (Direction, error) {
	out, ok := reflections[reflectionKey{d, angle}]
	if !ok {
		return 0, fmt.Errorf("%w: direction %s, angle %d", ErrInvalidReflection, d, angle)
	}
	return out, nil
}

// Resolve returns the cell pawn slides to when pushed in direction dir.
//
// The pawn stops on a cell with a wall facing its travel direction, in front
// of another pawn, or on the last cell before the board edge. Mirrors owned by
// the pawn's color turn it; other mirrors are transparent. A result equal to
// the pawn's current cell means the move is impossible.
func Resolve(b *Board, pawns PawnSet, pawn Color, dir Direction) (Coordinate, error) {
	if !pawn.Valid() {
		return Coordinate{}, fmt.Errorf("%w: %d", ErrInvalidPawn, int(pawn))
	}
	if !dir.Valid() {
		return Coordinate{}, fmt.Errorf("%w: direction %d", ErrInvalidReflection, int(dir))
	}

	pos := pawns[pawn]
	if b.WallAt(pos, dir) {
		return pos, nil
	}

	// Each (cell, direction) pair can be entered once on a path that ends.
	budget := maxBouncesFactor * b.Size() * b.Size()
	for steps := 0; ; steps++ {
		if steps > budget {
			return Coordinate{}, fmt.Errorf("%w: %s pawn from %s heading %s", ErrReflectionLoop, pawn, pawns[pawn], dir)
		}

		next := pos.Step(dir)
		if !b.InBounds(next) {
			return pos, nil
		}
		prev := pos
		pos = next

		if m, ok := b.MirrorAt(pos); ok {
			if m.Owner != pawn {
				continue
			}
			turned, err := Reflect(dir, m.Angle)
			if err != nil {
				return Coordinate{}, err
			}
			dir = turned
			if b.WallAt(pos, dir) {
				return pos, nil
			}
			continue
		}

		if other, ok := pawns.At(pos); ok && other != pawn {
			return prev, nil
		}

		if b.WallAt(pos, dir) {
			return pos, nil
		}
	}
}

// Destinations resolves pawn in every direction, in expansion order.
func Destinations(b *Board, pawns PawnSet, pawn Color) ([NumDirections]Coordinate, error) {
	var out [NumDirections]Coordinate
	for _, d := range Directions {
		dest, err := Resolve(b, pawns, pawn, d)
		if err != nil {
			return out, err
		}
		out[d] = dest
	}
	return out, nil
}
