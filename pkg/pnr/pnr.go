// Package pnr generates passenger record locators.
//
// A PNR is 6 characters: the first uniformly from A-Z, the remaining five
// from A-Z0-9, giving a space of roughly 1.6e9 codes. The generator does not
// check for collisions; global uniqueness is enforced by the unique index on
// the booking collection, and a duplicate surfaces as a write failure that
// aborts the enclosing booking transaction.
package pnr

import (
	"crypto/rand"
	"math/big"
)

const (
	letters  = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	alphanum = letters + "0123456789"

	Length = 6
)

// Generate returns a fresh record locator.
func Generate() string {
	code := make([]byte, Length)
	code[0] = letters[randIndex(len(letters))]
	for i := 1; i < Length; i++ {
		code[i] = alphanum[randIndex(len(alphanum))]
	}
	return string(code)
}

func randIndex(n int) int {
	idx, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		// crypto/rand reading from the OS source does not fail in practice;
		// if it ever does there is nothing sensible to fall back to.
		panic(err)
	}
	return int(idx.Int64())
}
