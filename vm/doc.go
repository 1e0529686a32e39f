// Package vm implements the value and object model of the jscore runtime.
//
// This package contains:
//   - The Value sum type, including inline short strings
//   - The string interner (an AA tree keyed by content)
//   - Objects, properties, prototype-chain lookup and for-in enumeration
//   - The ECMAScript coercions (ToPrimitive, ToNumber, ToString, ...)
//   - The heap arena that exposes mark bits to an external collector
//
// A State owns one interner, one heap and one set of builtin prototypes.
// Nothing in this package is safe for concurrent use; a State and every
// value reachable from it belong to a single goroutine.
package vm
