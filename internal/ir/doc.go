// Package ir provides the canonical JSON encoding and the domain
// separated hashes used for stable scenario IDs and report digests.
//
// Key design constraints:
//   - NO float values - amounts travel as decimal strings
//   - NO null values
//   - Object keys ordered by UTF-16 code units (RFC 8785)
package ir
