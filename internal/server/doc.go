// Package server exposes the locator over HTTP.
//
// Two routes:
//
//	POST /locate   {image: <base64>, query: string, top_k?: int, min_score?: float}
//	               -> {matches: [{text, box, score, rank, source_count}], count}
//	GET  /healthz  -> liveness plus engine/model identity and cache counters
//
// # Status mapping
//
// The core's error taxonomy maps onto HTTP status categories:
//
//	bad JSON / undecodable image / blank query  -> 400
//	collaborator timeout                        -> 504
//	OCR engine or embedding model fault         -> 502
//	anything else                               -> 500
//
// "No match found" is a 200 with an empty matches array, never an error.
//
// Every request carries a generated request id, echoed in error bodies and
// the structured request log.
package server
