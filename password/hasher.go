package password

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost matches the cost of the hashes already stored in user rows.
const DefaultCost = bcrypt.DefaultCost

const minPassBytes = 6

var (
	// ErrTooShort is returned when hashing a password shorter than six bytes.
	ErrTooShort = errors.New("password must be at least 6 bytes")
	// ErrUnknownFormat is returned for a stored hash that is not bcrypt.
	ErrUnknownFormat = errors.New("unrecognized password hash format")
	// ErrCostRange is returned by NewHasher for a cost bcrypt rejects.
	ErrCostRange = errors.New("bcrypt cost out of range")
)

// Hasher hashes with bcrypt at a fixed cost and verifies any bcrypt hash,
// whatever cost it was written with. Safe for concurrent use.
type Hasher struct {
	cost int
}

// NewHasher returns a Hasher writing hashes at cost. Zero selects DefaultCost.
func NewHasher(cost int) (*Hasher, error) {
	if cost == 0 {
		cost = DefaultCost
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, ErrCostRange
	}
	return &Hasher{cost: cost}, nil
}

// NewDefaultHasher returns a Hasher at DefaultCost.
func NewDefaultHasher() (*Hasher, error) {
	return NewHasher(DefaultCost)
}

// Cost returns the cost new hashes are written with.
func (h *Hasher) Cost() int { return h.cost }

// Hash encodes password. The bytes are used as given, without normalization.
func (h *Hasher) Hash(password string) (string, error) {
	if len(password) < minPassBytes {
		return "", ErrTooShort
	}
	out, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// Verify reports whether password matches encodedHash. A mismatch is not an
// error; a hash in any other format is.
func (h *Hasher) Verify(password, encodedHash string) (bool, error) {
	if !isBcrypt(encodedHash) {
		return false, ErrUnknownFormat
	}
	err := bcrypt.CompareHashAndPassword([]byte(encodedHash), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, err
	}
}

// NeedsUpgrade reports whether encodedHash was written below the configured
// cost.
func (h *Hasher) NeedsUpgrade(encodedHash string) (bool, error) {
	if !isBcrypt(encodedHash) {
		return false, ErrUnknownFormat
	}
	cost, err := bcrypt.Cost([]byte(encodedHash))
	if err != nil {
		return false, err
	}
	return cost < h.cost, nil
}

func isBcrypt(encodedHash string) bool {
	return strings.HasPrefix(encodedHash, "$2a$") ||
		strings.HasPrefix(encodedHash, "$2b$") ||
		strings.HasPrefix(encodedHash, "$2y$")
}
