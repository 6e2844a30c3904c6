// Package ir provides the canonical value representation used to fingerprint
// case state.
//
// Everything that must hash identically across runs (truth snapshots,
// evidence sets, journal action records) is lowered to Value and serialized
// with MarshalCanonical before hashing.
//
// Key design constraints:
//   - NO float types (traits and probabilities are stored as integer percents)
//   - NO null; absent values are omitted keys
//   - Object keys are ordered by UTF-16 code units (RFC 8785)
//   - Strings are NFC normalized at the serialization boundary
package ir
