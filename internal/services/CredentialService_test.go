package services

import (
	"aprd/internal/clock"
	"aprd/internal/models"
	"aprd/internal/structures"
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func TestCredentialService_Constraints(t *testing.T) {
	conf := &structures.Config{SsidLength: 6, PasswordLength: 16}
	cs := NewCredentialService(conf, clock.Fake(epoch))

	for i := 0; i < 200; i++ {
		cred, err := cs.Generate("ssb-")
		require.NoError(t, err)

		require.True(t, strings.HasPrefix(cred.SSID, "ssb-"))
		suffix := strings.TrimPrefix(cred.SSID, "ssb-")
		assert.Len(t, suffix, 6)
		for _, r := range suffix {
			assert.True(t, strings.ContainsRune(ssidAlphabet, r), "unexpected ssid rune %q", r)
		}

		assert.Len(t, cred.Password, 16)
		for _, r := range cred.Password {
			assert.True(t, strings.ContainsRune(passwordAlphabet, r), "unexpected password rune %q", r)
		}
		assert.LessOrEqual(t, len(cred.SSID), models.MaxSSIDLength)
		assert.Equal(t, epoch, cred.GeneratedAt)
	}
}

func TestCredentialService_Distinct(t *testing.T) {
	cs := NewCredentialService(&structures.Config{SsidLength: 6, PasswordLength: 16}, clock.Real())

	seen := make(map[string]bool)
	for i := 0; i < 500; i++ {
		cred, err := cs.Generate("")
		require.NoError(t, err)
		assert.False(t, seen[cred.Password], "password repeated")
		seen[cred.Password] = true
	}
}

func TestCredentialService_Deterministic(t *testing.T) {
	// Byte 0 maps to the first alphabet character.
	random := bytes.NewReader(make([]byte, 64))
	cs := NewCredentialServiceWithReader(random, clock.Fake(epoch), 4, 8)

	cred, err := cs.Generate("x-")
	require.NoError(t, err)
	assert.Equal(t, "x-aaaa", cred.SSID)
	assert.Equal(t, "AAAAAAAA", cred.Password)
}

func TestCredentialService_RejectsBiasedBytes(t *testing.T) {
	// 255 is above the largest multiple of 36 and must be skipped.
	src := append(bytes.Repeat([]byte{255}, 8), bytes.Repeat([]byte{1}, 64)...)
	cs := NewCredentialServiceWithReader(bytes.NewReader(src), clock.Fake(epoch), 4, 8)

	cred, err := cs.Generate("")
	require.NoError(t, err)
	assert.Equal(t, "bbbb", cred.SSID)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("entropy unavailable") }

func TestCredentialService_RandomnessFailure(t *testing.T) {
	cs := NewCredentialServiceWithReader(failingReader{}, clock.Fake(epoch), 6, 16)

	_, err := cs.Generate("ssb-")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRandomness)
}

func TestCredentialService_SSIDTooLong(t *testing.T) {
	cs := NewCredentialServiceWithReader(bytes.NewReader(make([]byte, 256)), clock.Fake(epoch), 6, 8)

	_, err := cs.Generate(strings.Repeat("p", 30))
	assert.Error(t, err)
}
