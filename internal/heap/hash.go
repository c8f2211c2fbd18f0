package heap

import "hash/fnv"

// HashKey reduces a UTF-8 map/record key to the 64-bit digest spec §3/§4.8
// specifies as the actual map key ("the engine never stores the original
// key"). FNV-1a is the standard library's non-cryptographic string hash;
// no third-party hash package appears anywhere in the example pack (the
// teacher's crypto usage is all cryptographic, sha256/aes/rsa, wrong tool
// for a hash-map digest), so this stays on hash/fnv rather than importing
// one merely to avoid stdlib.
func HashKey(key string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(key))
	return h.Sum64()
}
