// Package codec serializes blueprint trees to an opaque byte stream and
// back.
//
// The stream carries the blueprint only: target tags, frozen flags, field
// order, and field values, recursively for nested configs. Runtime state of
// constructed components is never serialized.
//
// # Wire Format
//
// Trees are encoded as a msgpack envelope, one record per tree node. Plain
// field values travel as a ctyjson value/type pair, which keeps the format
// self-describing without Go-specific type information, and are decoded back
// to native Go values. Values that cannot be expressed as cty values (live
// components, channels, functions) fail Marshal with ErrUnsupportedValue.
//
// Round-trips reproduce an equivalent tree, not a byte-identical stream.
package codec
