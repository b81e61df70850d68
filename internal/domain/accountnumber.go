package domain

import (
	"crypto/rand"
	"fmt"
	"strconv"
	"time"
)

// NumberGenerator produces candidate account numbers. A candidate is not
// guaranteed to be unique; callers must verify against the store and
// regenerate on conflict.
type NumberGenerator interface {
	Generate() string
}

const (
	base36Alphabet  = "0123456789abcdefghijklmnopqrstuvwxyz"
	randomSuffixLen = 6
)

// AccountNumberGenerator builds short opaque account numbers from a base36
// millisecond timestamp followed by six random base36 characters.
type AccountNumberGenerator struct{}

// NewAccountNumberGenerator creates a new AccountNumberGenerator.
func NewAccountNumberGenerator() *AccountNumberGenerator {
	return &AccountNumberGenerator{}
}

// Generate returns a new candidate account number.
func (g *AccountNumberGenerator) Generate() string {
	ts := strconv.FormatInt(time.Now().UnixMilli(), 36)

	buf := make([]byte, randomSuffixLen)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand never fails on supported platforms
		panic(fmt.Sprintf("account number generator: %v", err))
	}
	for i, b := range buf {
		buf[i] = base36Alphabet[int(b)%len(base36Alphabet)]
	}

	return ts + string(buf)
}
