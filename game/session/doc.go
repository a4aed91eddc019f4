// Package session provides session management for the Ricochet solver.
//
// The session package implements:
//   - Thread-safe session storage and retrieval
//   - Unique session ID generation
//   - Session lifecycle management
//   - Seed-only file persistence
//   - Session cleanup and expiration
//
// Core Types:
//
// Manager holds the sessions, each wrapping its own engine.GameEngine built
// from a board descriptor. FilePersistence writes a single <id>.seed file per
// session containing the board seed; everything else (target, drawn targets,
// solve history) lives only in memory.
//
// Session Identifiers:
//
// Sessions use 4-character hex IDs generated with crypto/rand. Lookups are
// case-insensitive.
//
// Usage:
//
//	persistence, err := session.NewFilePersistence("sessions")
//	if err != nil {
//		log.Fatal(err)
//	}
//	manager := session.NewManagerWithPersistence(persistence)
//
//	sess, err := manager.Create("", descriptor)
//	sess, err = manager.Get(sess.ID)
//
// Cleanup:
//
// CleanupExpiredSessions evicts idle sessions from memory; their seeds stay
// on disk and are reloaded on the next Get.
package session
