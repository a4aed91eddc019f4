// Package websocket pushes session events to browser or tool subscribers.
//
// A single Hub owns every connection. Clients subscribe to one session by
// connecting to /ws?session=<id>; the API server then publishes events for
// that session with BroadcastEvent:
//
//   - "target": a new target was set or drawn
//   - "solution": a solve finished (solved or not)
//   - "session_deleted": the session is gone, clients should disconnect
//
// Frames are JSON:
//
//	{"session_id": "ab12", "event": "solution", "data": {...}}
//
// Incoming frames are read and discarded. Broadcasting never blocks the
// caller: events are queued and dropped with a warning when the queue is
// full, and a client that cannot keep up is disconnected.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run(ctx)
//	router.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
//		hub.ServeWS(w, r, r.URL.Query().Get("sessionId"))
//	})
package websocket
