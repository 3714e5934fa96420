// Package httpapi is the REST boundary of the units-preference engine.
//
// It exposes the conversion surface (path conversion metadata, path value
// conversion, ad-hoc unit conversion), preference CRUD (category preferences,
// path overrides, pattern rules, explicit path metadata, custom units),
// presets, backup/restore, health and Prometheus metrics.
//
// Typed core errors map to status codes: invalid input, unsafe or failing
// formulas and bad dates are 400s, a missing conversion target is a 404,
// everything unexpected is a 500. Every response carries an X-Request-ID
// header, taken from the request when present.
package httpapi
