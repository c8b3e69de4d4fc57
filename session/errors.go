package session

import "errors"

var (
	// ErrNoValidPackets is returned when the image source was exhausted
	// without ever successfully parsing a single packet.
	ErrNoValidPackets = errors.New("session: no valid packets found")
	// ErrInsufficientPackets is returned when the image source was
	// exhausted with the erasure decoder still pending, but at least one
	// packet besides the one that pinned the session matched the pinned
	// session (a repeated delivery of an already-seen ESI counts).
	ErrInsufficientPackets = errors.New("session: insufficient packets to reconstruct file")
	// ErrInconsistentSession is returned when a session was pinned by its
	// first accepted packet but every packet seen after that one belonged
	// to a different transfer (mismatched T/packet_size) — a wrong-channel
	// mixup rather than ordinary data loss.
	ErrInconsistentSession = errors.New("session: no packets matched the pinned session after the first")
)
