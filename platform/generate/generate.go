package generate

import (
	"math/rand"
)

const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// RandomString returns an alphanumeric string of the wanted length.
func RandomString(n int) string {
	bs := make([]byte, n)

	for i := range bs {
		bs[i] = charset[rand.Intn(len(charset))]
	}

	return string(bs)
}
