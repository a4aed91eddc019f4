package mcp

import (
	"fmt"
	"strings"
	"time"

	"github.com/wricardo/mcp-training/ricochet/game/engine"
	"github.com/wricardo/mcp-training/ricochet/game/service"
)

func formatSessionInfo(session *service.SessionInfo) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Session: %s\n", session.ID)
	fmt.Fprintf(&sb, "Board: %s\n", session.BoardName)
	fmt.Fprintf(&sb, "Seed: %s\n", session.Seed)
	sb.WriteString(formatPawns(session.Pawns))
	if session.Target != nil {
		fmt.Fprintf(&sb, "Target: %s at %s\n", session.Target.Name, session.Target.Location)
	} else {
		sb.WriteString("Target: none (use set_target or next_target)\n")
	}
	fmt.Fprintf(&sb, "Chips: %d, targets drawn: %d, solves: %d\n",
		len(session.Goals), session.TargetsUsed, session.SolveCount)
	return sb.String()
}

func formatPawns(pawns engine.PawnSet) string {
	parts := make([]string, 0, len(pawns))
	for i, pos := range pawns {
		parts = append(parts, fmt.Sprintf("%s %s", engine.Color(i), pos))
	}
	return "Pawns: " + strings.Join(parts, ", ") + "\n"
}

func formatSessionList(sessions []*service.SessionInfo) string {
	if len(sessions) == 0 {
		return "No active sessions\n"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "Active sessions (%d):\n", len(sessions))
	for _, s := range sessions {
		target := "no target"
		if s.Target != nil {
			target = "target " + s.Target.Name
		}
		fmt.Fprintf(&sb, "- %s: board %s, %s, %d solves, last used %s\n",
			s.ID, s.BoardName, target, s.SolveCount, s.LastAccessedAt.Format(time.RFC3339))
	}
	return sb.String()
}

func formatTargetResult(result *service.TargetResult) string {
	return fmt.Sprintf("Target: %s at %s\nTargets drawn: %d, left: %d\n",
		result.Target.Name, result.Target.Location, result.TargetsUsed, result.TargetsLeft)
}

func formatMoves(moves []service.MoveInfo) string {
	var sb strings.Builder
	for _, m := range moves {
		fmt.Fprintf(&sb, "%d. %s %s %s -> %s\n", m.Idx, m.Pawn, m.Direction, m.From, m.To)
	}
	return sb.String()
}

func formatSolveResult(result *service.SolveResult) string {
	var sb strings.Builder
	if result.Solved {
		fmt.Fprintf(&sb, "✓ %s\n", result.Message)
		sb.WriteString(formatMoves(result.Moves))
	} else {
		fmt.Fprintf(&sb, "✗ %s\n", result.Message)
	}
	fmt.Fprintf(&sb, "Search: %d expanded, %d enqueued, %d dead ends in %s\n",
		result.Stats.Expanded, result.Stats.Enqueued, result.Stats.DeadEnds, result.Duration)
	return sb.String()
}

func formatResolveResult(result *service.ResolveResult) string {
	if !result.Moved {
		return fmt.Sprintf("%s %s: blocked, stays at %s\n", result.Pawn, result.Direction, result.From)
	}
	out := fmt.Sprintf("%s %s: %s -> %s\n", result.Pawn, result.Direction, result.From, result.To)
	if result.OnGoal != nil {
		out += fmt.Sprintf("Lands on the %s chip\n", result.OnGoal)
	}
	return out
}

func formatHistory(history *service.HistoryResponse) string {
	if history.TotalSolves == 0 {
		return "No solves yet\n"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "Solve history (page %d/%d, %d total):\n", history.Page, history.TotalPages, history.TotalSolves)
	for _, rec := range history.Solves {
		status := "unsolvable"
		if rec.Solved {
			status = fmt.Sprintf("%d moves", len(rec.Moves))
		}
		fmt.Fprintf(&sb, "#%d %s: %s (%s)\n", rec.Number, rec.Target, status, rec.Duration)
	}
	if history.HasNext {
		sb.WriteString("More entries on the next page\n")
	}
	return sb.String()
}

func formatBoards(boards []*service.BoardInfo) string {
	if len(boards) == 0 {
		return "No board descriptors; sessions use the built-in board\n"
	}
	var sb strings.Builder
	sb.WriteString("Available boards:\n")
	for _, b := range boards {
		kind := "generated"
		if b.Seeded {
			kind = "seeded"
		}
		mirrors := "no mirrors"
		if b.Mirrors {
			mirrors = "mirrors"
		}
		fmt.Fprintf(&sb, "- %s: %s (%s, %s)\n", b.BoardID, b.Description, kind, mirrors)
	}
	return sb.String()
}

func formatBoardView(view *service.BoardView) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Session %s (%dx%d)\n", view.SessionID, view.Size, view.Size)
	if view.Target != nil {
		fmt.Fprintf(&sb, "Target: %s at %s\n", view.Target.Name, view.Target.Location)
	}
	sb.WriteString(view.Board)
	sb.WriteString(view.Legend)
	sb.WriteString("\n")
	return sb.String()
}
