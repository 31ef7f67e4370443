// Package store provides types.ProfileStore implementations.
//
// Two backends are available:
//   - Memory: process-local store for tests and single-node deployments
//   - NATSKV: JetStream KeyValue backed store for shared deployments
//
// Both return deep copies from reads; writes only take effect through the
// Put methods. The engine serializes mutations per profile, so stores only
// need basic thread safety.
package store
