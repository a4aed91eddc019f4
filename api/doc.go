// Package api exposes the solver service over HTTP.
//
// Endpoints:
//
// Sessions:
//   - POST /api/sessions - Create a session ({"board_id": "classic"}, empty for the default board)
//   - GET /api/sessions - List sessions (?sort=created|accessed&order=asc|desc&limit=N)
//   - GET /api/sessions/{id} - Session details: seed, pawns, goals, current target
//   - DELETE /api/sessions/{id} - Delete a session
//
// Solving:
//   - POST /api/sessions/{id}/target - Set the target ({"color": "red", "shape": "square"})
//   - POST /api/sessions/{id}/target/next - Draw a target not drawn before
//   - POST /api/sessions/{id}/solve - Solve the current target
//   - POST /api/sessions/{id}/resolve - Preview one slide ({"pawn": "blue", "direction": "down"})
//   - GET /api/sessions/{id}/history - Solve history (?page=1&limit=20&order=desc)
//   - GET /api/sessions/{id}/board - ASCII view (?format=text for plain text)
//
// Boards:
//   - GET /api/boards - List board descriptors
//   - GET /api/boards/{name} - Load one descriptor
//   - POST /api/boards - Save a descriptor
//
// Other:
//   - GET /api/health - Liveness and session count
//   - GET /ws?session={id} - Subscribe to target and solution events
//
// Errors are returned as {"error": "..."} with a status derived from the
// wrapped sentinel: 404 for unknown sessions, boards and chips, 400 for bad
// arguments and malformed boards, 409 when no target is set or none are left,
// 422 for reflection loops and 500 otherwise.
//
// Every request gets an X-Request-ID header (kept when the client sends one)
// and one log line on completion.
package api
