// Package codec maps internal numeric record ids to short public codes.
//
// Codes are built with hashids EncodeHex over the decimal digits of the id,
// salted per entity type, so id 10 is encoded as the hex string "10". With a
// zero minimum length this yields the same codes the earlier system issued. The mapping is obfuscation, not a security boundary: a code minted
// under another salt may still decode to some unrelated id, so callers treat
// a successful decode as "syntactically valid" and rely on the store lookup
// for existence.
package codec

import (
	"fmt"
	"strconv"

	"github.com/speps/go-hashids/v2"

	"github.com/heartmarshall/contracthub-backend/internal/domain"
)

// DefaultMinLength is the minimum length of generated codes.
const DefaultMinLength = 6

// Codec encodes and decodes ids for a single salt.
type Codec struct {
	salt string
	h    *hashids.HashID
}

// New creates a Codec for the given salt. minLength pads short codes.
func New(salt string, minLength int) (*Codec, error) {
	data := hashids.NewData()
	data.Salt = salt
	data.MinLength = minLength

	h, err := hashids.NewWithData(data)
	if err != nil {
		return nil, fmt.Errorf("codec: %w", err)
	}
	return &Codec{salt: salt, h: h}, nil
}

// Salt returns the salt the codec was built with.
func (c *Codec) Salt() string { return c.salt }

// Encode returns the public code for id. Negative ids are rejected.
func (c *Codec) Encode(id int64) (string, error) {
	if id < 0 {
		return "", fmt.Errorf("codec: encode %d: negative id", id)
	}
	code, err := c.h.EncodeHex(strconv.FormatInt(id, 10))
	if err != nil {
		return "", fmt.Errorf("codec: encode %d: %w", id, err)
	}
	return code, nil
}

// Decode returns the id behind code.
// Returns domain.ErrMalformedCode when code cannot be parsed under this salt.
func (c *Codec) Decode(code string) (int64, error) {
	if code == "" {
		return 0, fmt.Errorf("codec: empty code: %w", domain.ErrMalformedCode)
	}

	digits, err := decodeHex(c.h, code)
	if err != nil || !isDecimal(digits) {
		return 0, fmt.Errorf("codec: decode %q: %w", code, domain.ErrMalformedCode)
	}

	id, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("codec: decode %q: %w", code, domain.ErrMalformedCode)
	}
	return id, nil
}

func isDecimal(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// decodeHex guards against panics inside hashids on hostile input.
func decodeHex(h *hashids.HashID, code string) (hex string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("hashids: %v", r)
		}
	}()
	return h.DecodeHex(code)
}
