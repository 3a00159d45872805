// Package sanitizer provides input normalization for reservation and room data.
//
// All normalization functions are idempotent - applying them multiple times produces
// the same result. Functions handle invalid input gracefully, typically by returning
// empty strings or empty slices rather than errors.
//
// Normalization is applied before validation and storage:
//   - Strings: Collapse whitespace, trim leading/trailing spaces
//   - Contacts: Trim surrounding whitespace, keep the rest verbatim
//   - Participants: Trim each entry, drop blank entries, keep order and duplicates
//   - Locations: Collapse whitespace; LocationKey lowercases for comparisons
//   - Metadata: Trim keys and values, drop entries with blank keys
package sanitizer
