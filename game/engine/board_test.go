package engine

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBoard_Defaults(t *testing.T) {
	b, err := NewBoard(DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, BoardSize, b.Size())
	assert.Len(t, b.Goals(), NumColors*ChipsPerColor)
	assert.Equal(t, NumColors*MirrorsPerColor, CountMirrors(b))

	pawns := b.InitialPawns()
	assert.Equal(t, Coordinate{X: 1, Y: 5}, pawns[Red])
	assert.Equal(t, Coordinate{X: 12, Y: 10}, pawns[Green])
	assert.Equal(t, Coordinate{X: 1, Y: 12}, pawns[Blue])
	assert.Equal(t, Coordinate{X: 14, Y: 4}, pawns[Yellow])
	assert.NoError(t, b.ValidatePawns(pawns))
}

func TestNewBoard_WithoutMirrors(t *testing.T) {
	opts := DefaultOptions()
	opts.Mirrors = 0

	b, err := NewBoard(opts)
	require.NoError(t, err)
	assert.Equal(t, 0, CountMirrors(b))
	assert.Len(t, b.Goals(), NumColors*ChipsPerColor)
}

func TestOptionsValidate_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Options)
	}{
		{"size", func(o *Options) { o.Size = 8 }},
		{"colors", func(o *Options) { o.Colors = 3 }},
		{"chips", func(o *Options) { o.Chips = 5 }},
		{"mirrors", func(o *Options) { o.Mirrors = 1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			tt.mutate(&opts)
			b, err := NewBoard(opts)
			assert.Nil(t, b)
			assert.True(t, errors.Is(err, ErrConfiguration), "got %v", err)
		})
	}
}

func TestBoard_WallsAreSymmetric(t *testing.T) {
	b := MustDefaultBoard()

	for y := 0; y < b.Size(); y++ {
		for x := 0; x < b.Size(); x++ {
			c := Coordinate{X: x, Y: y}
			for _, d := range Directions {
				n := c.Step(d)
				if !b.InBounds(n) {
					assert.True(t, b.WallAt(c, d), "border wall missing at %s side %s", c, d)
					continue
				}
				assert.Equal(t, b.WallAt(c, d), b.WallAt(n, d.Opposite()),
					"wall between %s and %s is one-sided", c, n)
			}
		}
	}
}

func TestBoard_CenterZoneIsWalled(t *testing.T) {
	b := MustDefaultBoard()

	assert.True(t, b.WallAt(Coordinate{X: 7, Y: 7}, Up))
	assert.True(t, b.WallAt(Coordinate{X: 7, Y: 7}, Left))
	assert.True(t, b.WallAt(Coordinate{X: 8, Y: 8}, Down))
	assert.True(t, b.WallAt(Coordinate{X: 8, Y: 8}, Right))
	assert.False(t, b.WallAt(Coordinate{X: 7, Y: 7}, Right))
}

func TestBoard_GoalLocation(t *testing.T) {
	b := MustDefaultBoard()

	loc, err := b.GoalLocation(Red, Square)
	require.NoError(t, err)
	assert.Equal(t, Coordinate{X: 3, Y: 4}, loc)

	g, ok := b.GoalAt(loc)
	require.True(t, ok)
	assert.Equal(t, Goal{Color: Red, Shape: Square}, g)

	empty := newEmptyBoard(DefaultOptions())
	_, err = empty.GoalLocation(Red, Square)
	assert.ErrorIs(t, err, ErrGoalNotFound)
}

func TestBoard_GoalsOrdered(t *testing.T) {
	goals := MustDefaultBoard().Goals()
	for i := 1; i < len(goals); i++ {
		prev, cur := goals[i-1].Goal, goals[i].Goal
		if prev.Color == cur.Color {
			assert.Less(t, prev.Shape, cur.Shape)
		} else {
			assert.Less(t, prev.Color, cur.Color)
		}
	}
}

func TestBoard_MirrorAt(t *testing.T) {
	b := MustDefaultBoard()

	m, ok := b.MirrorAt(Coordinate{X: 14, Y: 2})
	require.True(t, ok)
	assert.Equal(t, Mirror{Owner: Red, Angle: Angle45}, m)

	_, ok = b.MirrorAt(Coordinate{X: 0, Y: 0})
	assert.False(t, ok)
	_, ok = b.MirrorAt(Coordinate{X: -1, Y: 0})
	assert.False(t, ok)
}

func TestBoard_CellReturnsCopy(t *testing.T) {
	b := MustDefaultBoard()
	c := Coordinate{X: 14, Y: 2}

	cell := b.Cell(c)
	require.NotNil(t, cell.Mirror)
	cell.Mirror.Angle = Angle135

	m, _ := b.MirrorAt(c)
	assert.Equal(t, Angle45, m.Angle)
}

func TestBoard_ValidatePawns(t *testing.T) {
	b := MustDefaultBoard()

	shared := b.InitialPawns()
	shared[Green] = shared[Red]
	assert.ErrorIs(t, b.ValidatePawns(shared), ErrInvalidPawn)

	off := b.InitialPawns()
	off[Blue] = Coordinate{X: 16, Y: 0}
	assert.ErrorIs(t, b.ValidatePawns(off), ErrInvalidPawn)
}
