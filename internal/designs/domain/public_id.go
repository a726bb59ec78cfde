package domain

import (
	"crypto/rand"
	"math/big"
)

const (
	publicIDAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	publicIDLength   = 6
)

// NewPublicID generates a short shareable id for a design, e.g. "k4x09z".
// No uniqueness check is made against the store; with 36^6 combinations
// the collision probability is accepted as low.
func NewPublicID() (string, error) {
	max := big.NewInt(int64(len(publicIDAlphabet)))
	b := make([]byte, publicIDLength)
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b[i] = publicIDAlphabet[n.Int64()]
	}
	return string(b), nil
}
