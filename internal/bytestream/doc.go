// Package bytestream implements the length-prefixed little-endian wire
// encoding used for the module interface binary (§4.2, §6). It is a thin,
// hand-rolled codec rather than a generic serialization library: the format
// is bit-specified by the spec and must round-trip exactly, so it is not a
// good fit for a reflection-based encoder like msgpack (that library is used
// instead for the on-disk interface cache in internal/modcache, which has no
// cross-process format contract to honor).
package bytestream
