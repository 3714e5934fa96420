// Package ws fans converted telemetry deltas out to WebSocket subscribers.
//
// The hub accepts upgrades, assigns each subscriber a UUID, and broadcasts
// every delta after running it through the streaming conversion path (which
// never fails; bad values pass through). Each subscriber has a bounded send
// buffer; a subscriber that cannot keep up has messages dropped rather than
// stalling the broadcast, and is disconnected after too many consecutive
// drops.
package ws
