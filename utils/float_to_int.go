// SPDX-License-Identifier: EPL-2.0

package utils

import (
	"encoding/binary"
	"math"
)

// Float32ToInt16 scales x by 2^15, rounds to nearest and clips to the int16
// range, so 1.0 maps to 32767 and -1.0 to -32768.
func Float32ToInt16(x float32) int16 {
	v := math.RoundToEven(float64(x) * 32768.0)
	if v > math.MaxInt16 {
		return math.MaxInt16
	}
	if v < math.MinInt16 {
		return math.MinInt16
	}
	return int16(v)
}

// PutInt16LE writes s at b[0:2] little-endian.
func PutInt16LE(b []byte, s int16) {
	binary.LittleEndian.PutUint16(b, uint16(s))
}

// BytesToInt16 decodes little-endian int16 values from b into dst and returns
// how many were written. A trailing odd byte is ignored.
func BytesToInt16(dst []int16, b []byte) int {
	n := min(len(dst), len(b)/2)
	for i := range n {
		dst[i] = int16(binary.LittleEndian.Uint16(b[2*i:]))
	}
	return n
}
