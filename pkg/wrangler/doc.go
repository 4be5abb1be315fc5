// Package wrangler compiles deployment configurations into wrangler.toml
// artifacts and recovers structured views back out of existing ones.
//
// # Overview
//
// The write path resolves a validated configuration into the set of artifact
// sections it requires (ResolveSections), renders them in a fixed order
// (Compile), and replaces the on-disk artifact whole-file (WriteArtifact).
// Compilation is deterministic: equal configurations produce byte-identical
// artifacts.
//
// The read path (ExtractView, ExtractOpenNextView) performs best-effort field
// recovery over raw text. The artifact may be hand-edited or predate this
// tool, so each field extractor scans independently for an anchored pattern
// and absence is represented rather than treated as failure. Only a missing
// file is an error, and it carries the not-found class so callers can tell
// "file absent" from "file present but sparse".
//
// # Caching ladder
//
// The caching strategies form a capability ladder: static assets, then a
// shared R2 cache, then a write-ordering durable object queue, then a sharded
// tag index. Sections are emitted additively along the ladder rather than via
// a per-strategy lookup table, which keeps the ladder invariant in one place.
package wrangler
