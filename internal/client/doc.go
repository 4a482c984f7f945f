// Package client implements the local-first sync client.
//
// It logs in over REST to obtain a JWT, then holds a WebSocket connection to
// the server's sync endpoint: frames are routed through an opcode handler
// map, every broadcast is mirrored into a SQLite-backed local note cache, and
// mutations issued while offline are kept in a pending set that is flushed on
// reconnect. Reconnects follow a capped exponential backoff; once the
// attempts are exhausted the client degrades to local-only reads.
package client
