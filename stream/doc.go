// Package stream bridges raw telemetry deltas on NATS into converted deltas.
//
// The bridge subscribes to an input subject carrying raw delta JSON, runs
// every path value through the streaming conversion entry point (errors
// degrade to pass-through, the stream never stalls), and republishes the
// converted deltas on an output subject. An optional in-process sink receives
// each raw delta as well, which is how the WebSocket hub is fed without a
// second NATS round trip.
package stream
