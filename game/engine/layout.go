package engine

// Fixed layout tables of the default board. Entries are (row, col).

type gridPoint struct {
	row, col int
}

// horizontalWalls puts a wall on the south side of each cell.
var horizontalWalls = []gridPoint{
	{1, 10}, {2, 0}, {2, 6}, {2, 12}, {3, 2}, {4, 3}, {4, 15}, {5, 5}, {5, 8}, {5, 13},
	{8, 4}, {8, 11}, {8, 15}, {9, 0}, {9, 14}, {12, 6}, {12, 10}, {13, 9}, {14, 3},
}

// verticalWalls puts a wall on the east side of each cell.
var verticalWalls = []gridPoint{
	{0, 4}, {0, 8}, {1, 9}, {2, 6}, {2, 12}, {3, 11}, {4, 2}, {5, 7}, {6, 4}, {5, 13},
	{8, 10}, {9, 4}, {10, 14}, {12, 6}, {13, 5}, {13, 9}, {14, 2}, {15, 5}, {15, 12},
}

// chipTable is indexed by color, then shape.
var chipTable = [NumColors][ChipsPerColor]gridPoint{
	{{1, 10}, {4, 3}, {10, 14}, {14, 3}}, // red
	{{3, 12}, {4, 2}, {13, 6}, {13, 10}}, // green
	{{2, 6}, {2, 12}, {8, 11}, {12, 6}},  // blue
	{{6, 5}, {6, 13}, {9, 4}, {13, 9}},   // yellow
}

type mirrorPlacement struct {
	gridPoint
	angle Angle
}

// mirrorTable is indexed by owner color.
var mirrorTable = [NumColors][MirrorsPerColor]mirrorPlacement{
	{{gridPoint{2, 14}, Angle45}, {gridPoint{11, 8}, Angle135}}, // red
	{{gridPoint{3, 9}, Angle45}, {gridPoint{11, 1}, Angle135}},  // green
	{{gridPoint{1, 4}, Angle135}, {gridPoint{14, 13}, Angle45}}, // blue
	{{gridPoint{3, 6}, Angle135}, {gridPoint{10, 7}, Angle45}},  // yellow
}

// initialPawns is indexed by color.
var initialPawns = [NumColors]gridPoint{
	{5, 1},   // red
	{10, 12}, // green
	{12, 1},  // blue
	{4, 14},  // yellow
}

// generateWalls builds the default wall grid: the walled center zone, the
// board border and the fixed interior segments.
func generateWalls(size int) [][]WallMask {
	walls := make([][]WallMask, size)
	for i := range walls {
		walls[i] = make([]WallMask, size)
	}

	center := size / 2
	start := center - 1
	end := center
	if size%2 != 0 {
		end = center + 1
	}
	for row := start; row <= end; row++ {
		for col := start; col <= end; col++ {
			if row == start {
				setWall(walls, row, col, Up)
			}
			if row == end {
				setWall(walls, row, col, Down)
			}
			if col == start {
				setWall(walls, row, col, Left)
			}
			if col == end {
				setWall(walls, row, col, Right)
			}
		}
	}

	last := size - 1
	for i := 0; i < size; i++ {
		walls[0][i][Up] = true
		walls[last][i][Down] = true
		walls[i][0][Left] = true
		walls[i][last][Right] = true
	}

	for _, p := range horizontalWalls {
		setWall(walls, p.row, p.col, Down)
	}
	for _, p := range verticalWalls {
		setWall(walls, p.row, p.col, Right)
	}
	return walls
}

// setWall sets the wall on side d of (row, col) and the matching wall of the
// neighbour sharing it, when that neighbour is on the board.
func setWall(walls [][]WallMask, row, col int, d Direction) {
	walls[row][col][d] = true
	dx, dy := d.Delta()
	nr, nc := row+dy, col+dx
	if nr >= 0 && nr < len(walls) && nc >= 0 && nc < len(walls[nr]) {
		walls[nr][nc][d.Opposite()] = true
	}
}
