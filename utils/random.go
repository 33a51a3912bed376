// utils/random.go
package utils

import (
	"crypto/rand"
	"math/big"
)

const randomAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GenerateRandomString returns n characters from an unambiguous alphabet,
// used for invoice and order numbers.
func GenerateRandomString(n int) string {
	b := make([]byte, n)
	for i := range b {
		idx, err := rand.Int(rand.Reader, big.NewInt(int64(len(randomAlphabet))))
		if err != nil {
			panic("failed to read random source")
		}
		b[i] = randomAlphabet[idx.Int64()]
	}
	return string(b)
}
