package pst

import "hash/crc32"

// computeCRC is the CRC-32 variant used throughout the format: the IEEE
// polynomial without the initial and final inversion.
func computeCRC(p []byte) uint32 {
	return ^crc32.Update(^uint32(0), crc32.IEEETable, p)
}

// computeSig derives the 16-bit signature stored in page and block
// trailers.
func computeSig(ib int64, bid BID) uint16 {
	v := uint64(ib) ^ uint64(bid)
	return uint16(v>>16) ^ uint16(v)
}
