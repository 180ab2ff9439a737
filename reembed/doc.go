// Package reembed re-embeds every stored event with the current embedder.
//
// Run it after switching embedding models: vectors from different models are
// not comparable, so stored events would otherwise rank as noise. Events are
// processed in batches with retry and exponential backoff, and every vector
// is normalized to unit length before it is written back.
package reembed
