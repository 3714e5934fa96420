// Package signalkunits is the root of the units-preference engine, a service
// that converts raw telemetry values into user-preferred display units.
//
// # Architecture
//
// Raw telemetry arrives as dot-separated paths with canonical SI values
// ("navigation.speedOverGround" in m/s, temperatures in kelvin). The engine
// answers one question per value: what should this look like for this user?
//
// The core is four packages with no internal goroutines:
//
//   - formula: sandboxed arithmetic evaluator over the single variable
//     "value", plus duration formatting and date pattern rendering
//   - pattern: wildcard path matching (* within a segment, ** across
//     segments) with priority-ordered rules
//   - resolver: five-stage metadata resolution (explicit metadata, path
//     override, pattern rule, live telemetry units, last-segment heuristic)
//     with a memoization cache invalidated on preference changes
//   - convert: target selection and execution, dispatched on value kind,
//     with two entry points: the streaming path never fails (errors degrade
//     to logged pass-through), the request path propagates typed errors
//
// Around the core sit the collaborators: defaults (built-in category and
// conversion tables), store (JSON persistence with schema validation, atomic
// writes and file watching), gateway/httpapi (REST), gateway/ws (WebSocket
// delta fan-out), stream (NATS delta bridge), and metric (Prometheus
// registry). cmd/unitsd wires everything together.
//
// # Error taxonomy
//
// Every error the core raises is a typed value from the errors package,
// unwrapping to a sentinel: invalid input, unsafe formula, formula
// evaluation, date format, unresolvable metadata, conversion not found.
// Unresolvable metadata is a normal terminal state, not a failure: the value
// passes through unchanged with category "none".
package signalkunits
