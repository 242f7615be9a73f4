// Package mangle derives the stable loader symbol under which a compiled
// script module is registered inside a linked executable's bootstrap table.
package mangle

import (
	"crypto/sha1"
	"encoding/hex"
)

// Symbol returns the globally unique loader symbol for module m exported
// from package pkg: "zz_" followed by a 160-bit content hash of "pkg/m".
//
// sha1 is used rather than one of the corpus's non-cryptographic checksums
// (xxhash, CRC) because the loader symbol must be collision-resistant across
// every module any package ever exports, not just fast to compute.
func Symbol(pkg, module string) string {
	sum := sha1.Sum([]byte(pkg + "/" + module))
	return "zz_" + hex.EncodeToString(sum[:])
}
