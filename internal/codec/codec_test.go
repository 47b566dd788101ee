package codec

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/contracthub-backend/internal/domain"
)

func mustNew(t *testing.T, salt string) *Codec {
	t.Helper()
	c, err := New(salt, DefaultMinLength)
	require.NoError(t, err)
	return c
}

func sampleIDs() []int64 {
	ids := make([]int64, 0, 1100)
	for i := int64(0); i < 1000; i++ {
		ids = append(ids, i)
	}
	return append(ids, 4095, 4096, 1<<31, 1<<40+17, math.MaxInt64-1, math.MaxInt64)
}

func TestCodec_RoundTrip(t *testing.T) {
	t.Parallel()

	for _, salt := range []string{"contracts", "organizations", "relationships", ""} {
		c := mustNew(t, salt)
		for _, id := range sampleIDs() {
			code, err := c.Encode(id)
			require.NoError(t, err)
			require.GreaterOrEqual(t, len(code), DefaultMinLength)

			got, err := c.Decode(code)
			require.NoError(t, err, "salt=%q id=%d code=%q", salt, id, code)
			require.Equal(t, id, got, "salt=%q code=%q", salt, code)
		}
	}
}

func TestCodec_KnownCodes(t *testing.T) {
	t.Parallel()

	c, err := New("contracts", 0)
	require.NoError(t, err)

	tests := []struct {
		id   int64
		code string
	}{
		{10, "ggFv"},
		{100, "vgFnu3"},
	}
	for _, tt := range tests {
		code, err := c.Encode(tt.id)
		require.NoError(t, err)
		assert.Equal(t, tt.code, code, "id %d", tt.id)

		id, err := c.Decode(tt.code)
		require.NoError(t, err)
		assert.Equal(t, tt.id, id)
	}
}

func TestCodec_Deterministic(t *testing.T) {
	t.Parallel()

	a := mustNew(t, "contracts")
	b := mustNew(t, "contracts")

	codeA, err := a.Encode(42)
	require.NoError(t, err)
	codeB, err := b.Encode(42)
	require.NoError(t, err)
	assert.Equal(t, codeA, codeB)
}

func TestCodec_DistinctIDsDistinctCodes(t *testing.T) {
	t.Parallel()

	c := mustNew(t, "relationships")
	seen := make(map[string]int64)
	for _, id := range sampleIDs() {
		code, err := c.Encode(id)
		require.NoError(t, err)
		if prev, dup := seen[code]; dup {
			t.Fatalf("ids %d and %d share code %q", prev, id, code)
		}
		seen[code] = id
	}
}

func TestCodec_CrossSalt(t *testing.T) {
	t.Parallel()

	contracts := mustNew(t, "contracts")
	orgs := mustNew(t, "organizations")

	for _, id := range sampleIDs() {
		codeA, err := contracts.Encode(id)
		require.NoError(t, err)
		codeB, err := orgs.Encode(id)
		require.NoError(t, err)
		require.NotEqual(t, codeA, codeB, "id %d collides across salts", id)

		// A foreign code either fails to parse or points at another id.
		got, err := orgs.Decode(codeA)
		if err == nil {
			assert.NotEqual(t, id, got, "foreign code %q resolved to the original id", codeA)
		} else {
			assert.ErrorIs(t, err, domain.ErrMalformedCode)
		}
	}
}

func TestCodec_Encode_Negative(t *testing.T) {
	t.Parallel()

	_, err := mustNew(t, "contracts").Encode(-1)
	require.Error(t, err)
}

func TestCodec_Decode_Malformed(t *testing.T) {
	t.Parallel()

	c := mustNew(t, "contracts")

	// A hashid of numbers outside the hex-nibble range is well formed for
	// hashids but not a code.
	nonHex, err := c.h.EncodeInt64([]int64{5})
	require.NoError(t, err)
	// Valid hex that is not a run of decimal digits.
	hexLetters, err := c.h.EncodeHex("a1")
	require.NoError(t, err)

	tests := []struct {
		name string
		code string
	}{
		{"empty", ""},
		{"punctuation", "!!!"},
		{"space", "ab cd"},
		{"non hex payload", nonHex},
		{"hex letters", hexLetters},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := c.Decode(tt.code)
			require.ErrorIs(t, err, domain.ErrMalformedCode)
		})
	}
}

func TestRegistry(t *testing.T) {
	t.Parallel()

	r, err := NewRegistry("", DefaultMinLength)
	require.NoError(t, err)

	for _, typ := range domain.EntityTypes {
		require.NotNil(t, r.For(typ), typ)
		assert.Equal(t, typ.Collection(), r.For(typ).Salt())
	}

	code, err := r.Encode(domain.EntityTypeContract, 12)
	require.NoError(t, err)
	id, err := r.Decode(domain.EntityTypeContract, code)
	require.NoError(t, err)
	assert.Equal(t, int64(12), id)

	_, err = r.Encode(domain.EntityType("invoice"), 1)
	require.Error(t, err)
	_, err = r.Decode(domain.EntityType("invoice"), code)
	require.Error(t, err)
}

func TestRegistry_SecretChangesCodes(t *testing.T) {
	t.Parallel()

	plain, err := NewRegistry("", DefaultMinLength)
	require.NoError(t, err)
	salted, err := NewRegistry("s3cr3t-", DefaultMinLength)
	require.NoError(t, err)

	a, err := plain.Encode(domain.EntityTypeGoal, 99)
	require.NoError(t, err)
	b, err := salted.Encode(domain.EntityTypeGoal, 99)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
	assert.Equal(t, "s3cr3t-goals", salted.For(domain.EntityTypeGoal).Salt())
}
