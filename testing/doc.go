// Package testing provides helpers for testing code built on the peergrade
// engine: a *testing.T backed logger, an embedded NATS server with JetStream
// for store tests, and in-memory fixture implementations of the engine's
// read-side collaborators.
package testing
