package eventstream

import "hash/crc32"

// Checksum returns the CRC32 of data using the IEEE 802.3 polynomial.
// Both guards in a frame, the prelude CRC and the trailing message CRC,
// use this function.
func Checksum(data []byte) uint32 {
	return crc32.ChecksumIEEE(data)
}
