// Package locator implements the semantic text-region locator pipeline.
//
// The pipeline turns a screenshot plus a natural-language description into
// ranked on-screen coordinates:
//
//  1. Extract: run OCR over the image and translate raw detections into
//     TextRegion values with pixel geometry.
//  2. Consolidate: merge overlapping and word-fragmented detections into
//     logical regions (OCR routinely splits one label into several words).
//  3. Embed: map each region's text and the query into a shared vector space,
//     memoized by an LRU cache so repeated text never re-pays the model call.
//  4. Match: score regions against the query by cosine similarity and return
//     the best candidates above a threshold.
//
// Data flows strictly forward; no stage calls back upstream. Every stage is
// either pure or memoizing-but-content-addressed, so repeated Locate calls
// with the same inputs and configuration yield identical ranked results.
//
// # Collaborators
//
// The OCR engine and the embedding model are injected as interfaces
// (ocr.Engine, embed.Embedder) and are treated as black boxes. All
// collaborator invocations go through a shared admission gate that bounds
// concurrency and applies a per-call timeout.
//
// # Errors
//
// Failures carry one of four kinds (extraction, embedding, timeout,
// configuration) plus the stage that raised them, so callers can tell "bad
// image" apart from "embedding backend down". An empty match list is a
// normal outcome, never an error.
package locator
