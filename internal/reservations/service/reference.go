package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
	"time"

	apperrors "stayledger/pkg/errors"
)

const (
	referenceRandomLength = 4
	referenceMaxAttempts  = 5
	referenceAlphabet     = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
)

// ReferenceExistsFunc reports whether a candidate reference is already taken.
type ReferenceExistsFunc func(ctx context.Context, reference string) (bool, error)

// ReferenceGenerator produces human-shareable booking references of the form
// PREFIX-TTTTTT-RRRR where TTTTTT is a timestamp suffix and RRRR is random.
// Candidates are collision-checked against the store before acceptance.
type ReferenceGenerator struct {
	prefix string
	exists ReferenceExistsFunc
}

func NewReferenceGenerator(prefix string, exists ReferenceExistsFunc) *ReferenceGenerator {
	return &ReferenceGenerator{
		prefix: prefix,
		exists: exists,
	}
}

func (g *ReferenceGenerator) Generate(ctx context.Context) (string, error) {
	for attempt := 0; attempt < referenceMaxAttempts; attempt++ {
		candidate, err := g.candidate()
		if err != nil {
			return "", apperrors.Internal("Failed to generate booking reference", err)
		}

		taken, err := g.exists(ctx, candidate)
		if err != nil {
			return "", apperrors.Internal("Failed to check booking reference uniqueness", err)
		}
		if !taken {
			return candidate, nil
		}
	}

	return "", apperrors.Internal("Exhausted booking reference attempts",
		fmt.Errorf("no unique reference after %d attempts", referenceMaxAttempts))
}

func (g *ReferenceGenerator) candidate() (string, error) {
	millis := strconv.FormatInt(time.Now().UnixMilli(), 10)
	timestampSuffix := millis[len(millis)-6:]

	random := make([]byte, referenceRandomLength)
	for i := range random {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(referenceAlphabet))))
		if err != nil {
			return "", err
		}
		random[i] = referenceAlphabet[n.Int64()]
	}

	return fmt.Sprintf("%s-%s-%s", g.prefix, timestampSuffix, string(random)), nil
}
