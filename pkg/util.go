package pkg

import (
	"unsafe"
)

// BytesToString converts a byte slice to a string without copying.
// The input buffer must not be modified afterwards.
func BytesToString(buf []byte) string {
	return *(*string)(unsafe.Pointer(&buf))
}
