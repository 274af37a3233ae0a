package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	pnrAlphabet     = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	pnrSuffixLength = 5
)

// GeneratePNR builds a passenger reference code of the form
// PNR<booking id padded to 4 digits><5 random chars>.  Each suffix
// character is drawn uniformly from A-Z0-9 using crypto/rand.  Uniqueness
// is not guaranteed here; the ticket table's unique index is authoritative.
func GeneratePNR(bookingID uint64) (string, error) {
	suffix, err := randomCode(pnrSuffixLength)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("PNR%04d%s", bookingID, suffix), nil
}

func randomCode(n int) (string, error) {
	max := big.NewInt(int64(len(pnrAlphabet)))
	buf := make([]byte, n)
	for i := range buf {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = pnrAlphabet[idx.Int64()]
	}
	return string(buf), nil
}
