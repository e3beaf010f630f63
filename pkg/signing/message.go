package signing

import (
	"strconv"

	"golang.org/x/crypto/sha3"
)

const messagePrefix = "\x17Elrond Signed Message:\n"

// ComputeMessageHash returns keccak256 of the prefixed message, the digest wallets sign for
// off-chain messages
func ComputeMessageHash(message []byte) []byte {
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(messagePrefix))
	h.Write([]byte(strconv.Itoa(len(message))))
	h.Write(message)
	return h.Sum(nil)
}
