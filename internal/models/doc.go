// Package models defines the core domain records for snapsplit.
//
// # Records
//
//   - Receipt: structured data extracted from a receipt image
//   - Assignment: one line item plus the set of people sharing it
//   - SplitRequest: everything needed to compute and fingerprint a split
//   - SplitResult / PersonSplit / ItemShare: the computed per-person breakdown
//   - SplitRecord: the persisted, append-only snapshot keyed by fingerprint
//
// People are identified by name strings. Names are unique within a split and
// their order never matters; anything derived from them (fingerprints, stored
// records) sorts them first.
//
// # Design Principles
//
//  1. Records are plain structs with JSON tags matching the wire format.
//  2. Numeric fields coming from OCR keep their raw text (RawNumber) so that
//     parsing stays explicit and fingerprints see exactly what was extracted.
//  3. A SplitRecord is never mutated after creation; there is no update path.
package models
