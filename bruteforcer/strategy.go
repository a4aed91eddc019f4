package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/wricardo/mcp-training/ricochet/game/engine"
	"github.com/wricardo/mcp-training/ricochet/game/service"
)

// errExhausted ends a run once a strategy has no target left to pick.
var errExhausted = errors.New("no more targets")

// Strategy decides which target the next solve is for.
type Strategy interface {
	Name() string
	Next(ctx context.Context, c *Client) (*service.TargetResult, error)
}

// NewStrategy returns the strategy called name for the session described by info.
func NewStrategy(name string, info *service.SessionInfo) (Strategy, error) {
	switch name {
	case "draw", "":
		return &drawStrategy{}, nil
	case "systematic":
		return newSystematicStrategy(info), nil
	default:
		return nil, fmt.Errorf("unknown strategy %q (use draw or systematic)", name)
	}
}

// drawStrategy lets the server draw targets until none are left.
type drawStrategy struct{}

func (s *drawStrategy) Name() string { return "draw" }

func (s *drawStrategy) Next(ctx context.Context, c *Client) (*service.TargetResult, error) {
	result, err := c.NextTarget(ctx)
	if IsNoTargetsLeft(err) {
		return nil, errExhausted
	}
	return result, err
}

// systematicStrategy walks the board's chips in row-major order.
type systematicStrategy struct {
	goals []engine.Goal
	next  int
}

func newSystematicStrategy(info *service.SessionInfo) *systematicStrategy {
	s := &systematicStrategy{}
	for _, placement := range info.Goals {
		s.goals = append(s.goals, placement.Goal)
	}
	return s
}

func (s *systematicStrategy) Name() string { return "systematic" }

func (s *systematicStrategy) Next(ctx context.Context, c *Client) (*service.TargetResult, error) {
	if s.next >= len(s.goals) {
		return nil, errExhausted
	}
	goal := s.goals[s.next]
	s.next++
	return c.SetTarget(ctx, goal.Color.String(), goal.Shape.String())
}

// Report summarizes a run.
type Report struct {
	Targets       int
	Solved        int
	Unsolvable    int
	TotalMoves    int
	Longest       int
	LongestTarget string
	Failures      []string
}

// run solves targets picked by strategy until it is exhausted or maxTargets
// is reached, checking every solution against the resolve endpoint.
func run(ctx context.Context, c *Client, strategy Strategy, maxTargets int) (*Report, error) {
	report := &Report{}
	for maxTargets <= 0 || report.Targets < maxTargets {
		target, err := strategy.Next(ctx, c)
		if errors.Is(err, errExhausted) {
			break
		}
		if err != nil {
			return report, fmt.Errorf("pick target: %w", err)
		}

		result, err := c.Solve(ctx)
		if err != nil {
			return report, fmt.Errorf("solve %s: %w", target.Target.Name, err)
		}
		report.Targets++

		if !result.Solved {
			report.Unsolvable++
			continue
		}
		report.Solved++
		report.TotalMoves += len(result.Moves)
		if len(result.Moves) > report.Longest {
			report.Longest = len(result.Moves)
			report.LongestTarget = result.Target.Name
		}

		if err := verify(ctx, c, result); err != nil {
			report.Failures = append(report.Failures, fmt.Sprintf("%s: %v", result.Target.Name, err))
		}
	}
	return report, nil
}

// verify checks that the moves chain up, end on the target and that the
// first slide matches what the server resolves from the initial position.
func verify(ctx context.Context, c *Client, result *service.SolveResult) error {
	if len(result.Moves) == 0 {
		return nil
	}

	for i := 1; i < len(result.Moves); i++ {
		prev, cur := result.Moves[i-1], result.Moves[i]
		if cur.From != prev.To {
			return fmt.Errorf("move %d starts at %s, previous ended at %s", cur.Idx, cur.From, prev.To)
		}
	}

	last := result.Moves[len(result.Moves)-1]
	if last.To != result.Target.Location {
		return fmt.Errorf("last move ends at %s, target is at %s", last.To, result.Target.Location)
	}

	first := result.Moves[0]
	preview, err := c.Resolve(ctx, first.Pawn, first.Direction)
	if err != nil {
		return fmt.Errorf("resolve first move: %w", err)
	}
	if preview.From != first.From || preview.To != first.To {
		return fmt.Errorf("first move %s %s resolves to %s -> %s, solution says %s -> %s",
			first.Pawn, first.Direction, preview.From, preview.To, first.From, first.To)
	}
	return nil
}
