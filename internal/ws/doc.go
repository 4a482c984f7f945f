// Package ws implements the WebSocket transport for real-time note
// synchronization: the upgrade handler, per-connection sessions with
// read/write pumps, the per-user connection registry used for directed
// broadcast, and the opcode dispatcher that enforces the authentication
// handshake before any other operation is accepted.
package ws
