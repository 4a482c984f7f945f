// Package sync implements the real-time synchronization core: the binary
// wire-protocol codec and the FIFO operation queue that serializes note
// update/delete side effects and drives per-user broadcasts.
//
// The wire format is a single-byte opcode followed by an opaque payload;
// message boundaries come from the transport's own framing (one WebSocket
// message = one logical message). The queue is drained by a single consumer
// goroutine, which structurally guarantees that no two operations are ever
// processed concurrently and that operations are handled strictly in enqueue
// order.
package sync
