package hasher

import (
	"encoding/binary"
	"encoding/hex"
	"io"
	"math"

	"github.com/cespare/xxhash/v2"
)

// ContentHash computes the xxHash64 of data and returns a hex string
// truncated to the given length. 16 hex chars (64 bits) is what the
// run reports embed; it is collision-safe for practical image counts.
func ContentHash(data []byte, hexLen int) string {
	h := xxhash.Sum64(data)
	full := hex.EncodeToString(uint64ToBytes(h))
	if hexLen > 0 && hexLen < len(full) {
		return full[:hexLen]
	}
	return full
}

// ContentHashReader computes xxHash64 from a reader, streaming.
func ContentHashReader(r io.Reader, hexLen int) (string, error) {
	h := xxhash.New()
	if _, err := io.Copy(h, r); err != nil {
		return "", err
	}
	full := hex.EncodeToString(uint64ToBytes(h.Sum64()))
	if hexLen > 0 && hexLen < len(full) {
		return full[:hexLen], nil
	}
	return full, nil
}

// Planes hashes a float32 pixel buffer by its IEEE-754 bit patterns, so
// two buffers hash equal exactly when every sample is bit-identical.
// Used to fingerprint denoiser outputs in reports and determinism checks.
func Planes(data []float32, hexLen int) string {
	h := xxhash.New()
	var buf [8]byte
	for i := 0; i+1 < len(data); i += 2 {
		binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(data[i]))
		binary.LittleEndian.PutUint32(buf[4:8], math.Float32bits(data[i+1]))
		h.Write(buf[:])
	}
	if len(data)%2 == 1 {
		binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(data[len(data)-1]))
		h.Write(buf[:4])
	}
	full := hex.EncodeToString(uint64ToBytes(h.Sum64()))
	if hexLen > 0 && hexLen < len(full) {
		return full[:hexLen]
	}
	return full
}

func uint64ToBytes(v uint64) []byte {
	b := make([]byte, 8)
	b[0] = byte(v >> 56)
	b[1] = byte(v >> 48)
	b[2] = byte(v >> 40)
	b[3] = byte(v >> 32)
	b[4] = byte(v >> 24)
	b[5] = byte(v >> 16)
	b[6] = byte(v >> 8)
	b[7] = byte(v)
	return b
}
