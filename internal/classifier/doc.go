// Package classifier asks an LLM to judge content relevance and produce
// a structured verdict. The client rotates across multiple configured
// endpoints, retries transient failures per endpoint, and converts every
// unrecoverable error into a deterministic fallback verdict so that a
// bad model response can never abort the processing pipeline.
package classifier
