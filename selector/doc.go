// Package selector provides reviewer selection strategies for the peergrade
// engine.
//
// Two selectors are available:
//   - LoadBalance: greedy ascending-workload prefix selection
//   - TopicAffinity: topic-aware sequential selection used when threaded
//     grading is enabled
//
// Both are stateless and deterministic; ties are broken by ascending user id.
package selector
