package engine

// ManhattanDistance calculates the Manhattan distance between two cells
func ManhattanDistance(from, to Coordinate) int {
	dx := from.X - to.X
	if dx < 0 {
		dx = -dx
	}
	dy := from.Y - to.Y
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}

// CountWalls counts wall sides over the whole board. A wall shared by two
// cells counts twice.
func CountWalls(b *Board) int {
	count := 0
	for y := 0; y < b.Size(); y++ {
		for x := 0; x < b.Size(); x++ {
			count += b.Walls(Coordinate{X: x, Y: y}).Count()
		}
	}
	return count
}

// CountMirrors counts the mirrors on the board
func CountMirrors(b *Board) int {
	count := 0
	for y := 0; y < b.Size(); y++ {
		for x := 0; x < b.Size(); x++ {
			if _, ok := b.MirrorAt(Coordinate{X: x, Y: y}); ok {
				count++
			}
		}
	}
	return count
}

// ReachableCells returns every cell pawn can stop on when it is the only pawn
// allowed to move, including its starting cell.
func ReachableCells(b *Board, pawns PawnSet, pawn Color) (map[Coordinate]bool, error) {
	start := pawns[pawn]
	seen := map[Coordinate]bool{start: true}
	queue := []Coordinate{start}
	for len(queue) > 0 {
		pos := queue[0]
		queue = queue[1:]
		for _, d := range Directions {
			dest, err := Resolve(b, pawns.With(pawn, pos), pawn, d)
			if err != nil {
				return nil, err
			}
			if !seen[dest] {
				seen[dest] = true
				queue = append(queue, dest)
			}
		}
	}
	return seen, nil
}
