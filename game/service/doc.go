// Package service provides the business logic layer of the Ricochet solver.
//
// The service package implements:
//   - Session lifecycle: create, get, list, delete
//   - Target selection, explicit or drawn at random without repetition
//   - Solving the current target and previewing single slides
//   - Paginated solve history
//   - Board catalogue access
//
// Architecture:
//
// GameService is the single entry point used by the REST API and, through
// it, by the MCP tools. It depends on two interfaces, SessionManager and
// ConfigManager, implemented by the session and config packages.
//
// Usage:
//
//	svc := service.NewGameService(sessionManager, configManager)
//
//	info, err := svc.CreateSession(ctx, "classic")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	if _, err := svc.SetTarget(ctx, info.ID, "red", "square"); err != nil {
//		log.Fatal(err)
//	}
//	result, err := svc.Solve(ctx, info.ID)
//
// Errors:
//
// ErrSessionNotFound and ErrInvalidArgument are wrapped with %w, as are the
// engine sentinels (engine.ErrGoalNotFound, engine.ErrNoTarget, ...), so
// callers can map them with errors.Is.
package service
