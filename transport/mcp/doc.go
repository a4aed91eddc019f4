// Package mcp exposes the solver to AI agents over the Model Context Protocol.
//
// The Client is a thin proxy: every tool call becomes one REST call against
// the api package, and the JSON answer is rendered as short text.
//
// Tools:
//   - create_session, list_sessions, get_session
//   - set_target, next_target
//   - solve: shortest move list for the current target
//   - resolve_move: where one slide would stop, nothing is moved
//   - solve_history: paginated past solves
//   - list_boards: board descriptors known to the server
//   - describe_board: ASCII board with walls, mirrors, chips, pawns and target
//
// Arguments are coerced with spf13/cast, so clients that send colors and
// shapes as numeric ids (0-3) work as well as those sending names.
//
// Errors from the API are reported as tool errors, never as protocol errors.
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	if err := client.ServeStdio(); err != nil {
//		log.Fatal(err)
//	}
package mcp
