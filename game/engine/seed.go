package engine

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	seedSections  = 5
	headerFields  = 4
	seedSeparator = "|"
	listSeparator = ";"
	fieldSep      = ","
)

// Seed encodes the complete static configuration of the board:
//
//	sizeHex-colorsHex-chipsHex-mirrorsHex|walls|chips|mirrors|pawns
//
// Walls are "row,col,dir", chips "row,col,color,shape", mirrors
// "row,col,color,angle" and pawns "row,col". Entries are listed in row-major
// order, so the encoding is deterministic.
func (b *Board) Seed() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%x-%x-%x-%x", b.opts.Size, b.opts.Colors, b.opts.Chips, b.opts.Mirrors)

	var walls, chips, mirrors []string
	for row, cells := range b.cells {
		for col, cell := range cells {
			for d, set := range cell.Walls {
				if set {
					walls = append(walls, fmt.Sprintf("%d,%d,%d", row, col, d))
				}
			}
			if cell.Goal != nil {
				chips = append(chips, fmt.Sprintf("%d,%d,%d,%d", row, col, cell.Goal.Color, cell.Goal.Shape))
			}
			if cell.Mirror != nil {
				mirrors = append(mirrors, fmt.Sprintf("%d,%d,%d,%d", row, col, cell.Mirror.Owner, cell.Mirror.Angle))
			}
		}
	}

	pawns := make([]string, 0, len(b.pawns))
	for _, p := range b.pawns {
		pawns = append(pawns, fmt.Sprintf("%d,%d", p.Y, p.X))
	}

	for _, section := range [][]string{walls, chips, mirrors, pawns} {
		sb.WriteString(seedSeparator)
		sb.WriteString(strings.Join(section, listSeparator))
	}
	return sb.String()
}

// ParseSeed rebuilds a board from its seed. The header is validated like
// NewBoard; entries must be well formed and on the grid. Re-encoding the
// result with Seed yields the original string.
func ParseSeed(seed string) (*Board, error) {
	parts := strings.Split(strings.TrimSpace(seed), seedSeparator)
	if len(parts) != seedSections {
		return nil, fmt.Errorf("%w: expected %d sections, got %d", ErrMalformedSeed, seedSections, len(parts))
	}

	opts, err := parseHeader(parts[0])
	if err != nil {
		return nil, err
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	b := newEmptyBoard(opts)

	if err := eachEntry(parts[1], 3, func(v []int) error {
		c, err := b.entryCoordinate(v[0], v[1])
		if err != nil {
			return err
		}
		d := Direction(v[2])
		if !d.Valid() {
			return fmt.Errorf("direction %d out of range", v[2])
		}
		b.cells[c.Y][c.X].Walls[d] = true
		return nil
	}); err != nil {
		return nil, fmt.Errorf("%w: walls: %w", ErrMalformedSeed, err)
	}
	if err := b.checkWallPairs(); err != nil {
		return nil, fmt.Errorf("%w: walls: %w", ErrMalformedSeed, err)
	}

	if err := eachEntry(parts[2], 4, func(v []int) error {
		c, err := b.entryCoordinate(v[0], v[1])
		if err != nil {
			return err
		}
		g := Goal{Color: Color(v[2]), Shape: Shape(v[3])}
		if int(g.Color) >= opts.Colors || g.Color < 0 || int(g.Shape) >= opts.Chips || g.Shape < 0 {
			return fmt.Errorf("chip %d,%d out of range", v[2], v[3])
		}
		if _, dup := b.goals[g]; dup {
			return fmt.Errorf("chip %s placed twice", g)
		}
		if b.cells[c.Y][c.X].Goal != nil {
			return fmt.Errorf("two chips on %s", c)
		}
		b.placeGoal(c, g)
		return nil
	}); err != nil {
		return nil, fmt.Errorf("%w: chips: %w", ErrMalformedSeed, err)
	}

	if err := eachEntry(parts[3], 4, func(v []int) error {
		if opts.Mirrors == 0 {
			return fmt.Errorf("mirror entry %d,%d on a board without mirrors", v[0], v[1])
		}
		c, err := b.entryCoordinate(v[0], v[1])
		if err != nil {
			return err
		}
		owner, angle := Color(v[2]), Angle(v[3])
		if owner < 0 || int(owner) >= opts.Colors {
			return fmt.Errorf("mirror owner %d out of range", v[2])
		}
		if angle != Angle45 && angle != Angle135 {
			return fmt.Errorf("mirror angle %d: %w", v[3], ErrInvalidReflection)
		}
		if b.cells[c.Y][c.X].Mirror != nil {
			return fmt.Errorf("two mirrors on %s", c)
		}
		b.cells[c.Y][c.X].Mirror = &Mirror{Owner: owner, Angle: angle}
		return nil
	}); err != nil {
		return nil, fmt.Errorf("%w: mirrors: %w", ErrMalformedSeed, err)
	}

	n := 0
	if err := eachEntry(parts[4], 2, func(v []int) error {
		if n >= len(b.pawns) {
			return fmt.Errorf("more than %d pawns", len(b.pawns))
		}
		c, err := b.entryCoordinate(v[0], v[1])
		if err != nil {
			return err
		}
		b.pawns[n] = c
		n++
		return nil
	}); err != nil {
		return nil, fmt.Errorf("%w: pawns: %w", ErrMalformedSeed, err)
	}
	if n != len(b.pawns) {
		return nil, fmt.Errorf("%w: pawns: expected %d, got %d", ErrMalformedSeed, len(b.pawns), n)
	}
	if err := b.ValidatePawns(b.pawns); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedSeed, err)
	}

	return b, nil
}

// checkWallPairs requires every interior wall to be set on both cells it
// separates, as board generation does.
func (b *Board) checkWallPairs() error {
	for row, cells := range b.cells {
		for col, cell := range cells {
			c := Coordinate{X: col, Y: row}
			for _, d := range Directions {
				if !cell.Walls[d] {
					continue
				}
				n := c.Step(d)
				if b.InBounds(n) && !b.cells[n.Y][n.X].Walls[d.Opposite()] {
					return fmt.Errorf("wall %s of %s has no counterpart on %s", d, c, n)
				}
			}
		}
	}
	return nil
}

func parseHeader(header string) (Options, error) {
	fields := strings.Split(header, "-")
	if len(fields) != headerFields {
		return Options{}, fmt.Errorf("%w: header %q must have %d fields", ErrMalformedSeed, header, headerFields)
	}
	values := make([]int, headerFields)
	for i, f := range fields {
		v, err := strconv.ParseUint(f, 16, 16)
		if err != nil {
			return Options{}, fmt.Errorf("%w: header field %q: %v", ErrMalformedSeed, f, err)
		}
		values[i] = int(v)
	}
	return Options{Size: values[0], Colors: values[1], Chips: values[2], Mirrors: values[3]}, nil
}

// eachEntry splits a section into entries of exactly arity decimal integers.
func eachEntry(section string, arity int, fn func([]int) error) error {
	if section == "" {
		return nil
	}
	for _, entry := range strings.Split(section, listSeparator) {
		fields := strings.Split(entry, fieldSep)
		if len(fields) != arity {
			return fmt.Errorf("entry %q must have %d fields", entry, arity)
		}
		values := make([]int, arity)
		for i, f := range fields {
			v, err := strconv.Atoi(f)
			if err != nil {
				return fmt.Errorf("entry %q: %v", entry, err)
			}
			values[i] = v
		}
		if err := fn(values); err != nil {
			return err
		}
	}
	return nil
}

func (b *Board) entryCoordinate(row, col int) (Coordinate, error) {
	c := Coordinate{X: col, Y: row}
	if !b.InBounds(c) {
		return Coordinate{}, fmt.Errorf("cell %d,%d is off the board", row, col)
	}
	return c, nil
}
