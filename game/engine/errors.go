package engine

import "errors"

var (
	// ErrConfiguration is returned when a board is requested with unsupported
	// size, color, chip or mirror counts. No partial board is ever returned.
	ErrConfiguration = errors.New("unsupported board configuration")

	// ErrGoalNotFound is returned when a (color, shape) chip is absent from the board.
	ErrGoalNotFound = errors.New("goal not found")

	// ErrInvalidReflection is returned for a (direction, angle) pair outside
	// the reflection table.
	ErrInvalidReflection = errors.New("invalid reflection")

	// ErrReflectionLoop is returned when a ray keeps bouncing between owned
	// mirrors without ever stopping.
	ErrReflectionLoop = errors.New("reflection loop")

	// ErrInvalidPawn is returned for a pawn id outside the pawn set.
	ErrInvalidPawn = errors.New("invalid pawn")

	// ErrMalformedSeed is returned when a seed string cannot be decoded.
	ErrMalformedSeed = errors.New("malformed seed")

	// ErrNoTarget is returned when solving before a target was chosen.
	ErrNoTarget = errors.New("no target selected")

	// ErrNoTargetsLeft is returned when every goal of the board was already drawn.
	ErrNoTargetsLeft = errors.New("no targets left")
)
