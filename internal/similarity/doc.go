// Package similarity scores how closely a link text matches a target
// concept.
//
// A score blends a lexical ratio (the matching-blocks ratio of two
// character sequences) with the cosine similarity of two embeddings.
// Near-identical strings are scored lexically only. The embedding backend
// is pluggable through the Embedder interface; HashingEmbedder is a
// dependency-free default built on snowball stemming.
package similarity
