package handoff

import "github.com/jaevor/go-nanoid"

const tokenLength = 21

// NewTokenGenerator returns the default token generator: URL-safe nanoids,
// long enough that tokens are unguessable.
func NewTokenGenerator() (TokenGenerator, error) {
	gen, err := nanoid.Standard(tokenLength)
	if err != nil {
		return nil, err
	}

	return TokenGenerator(gen), nil
}
