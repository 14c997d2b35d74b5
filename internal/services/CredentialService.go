package services

import (
	"aprd/internal/clock"
	"aprd/internal/models"
	"aprd/internal/structures"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
)

const (
	ssidAlphabet     = "abcdefghijklmnopqrstuvwxyz0123456789"
	passwordAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
)

// ErrRandomness means the random source failed. Callers must not fall back
// to a weaker source.
var ErrRandomness = errors.New("randomness source failure")

type CredentialServiceInterface interface {
	Generate(prefix string) (models.Credential, error)
}

type CredentialService struct {
	random         io.Reader
	clock          clock.Clock
	ssidLength     int
	passwordLength int
}

func NewCredentialService(conf *structures.Config, clk clock.Clock) CredentialServiceInterface {
	return NewCredentialServiceWithReader(rand.Reader, clk, conf.SsidLength, conf.PasswordLength)
}

func NewCredentialServiceWithReader(random io.Reader, clk clock.Clock, ssidLength, passwordLength int) *CredentialService {
	return &CredentialService{
		random:         random,
		clock:          clk,
		ssidLength:     ssidLength,
		passwordLength: passwordLength,
	}
}

func (cs *CredentialService) Generate(prefix string) (models.Credential, error) {
	suffix, err := cs.randomString(ssidAlphabet, cs.ssidLength)
	if err != nil {
		return models.Credential{}, err
	}
	password, err := cs.randomString(passwordAlphabet, cs.passwordLength)
	if err != nil {
		return models.Credential{}, err
	}
	ssid := prefix + suffix
	if len(ssid) > models.MaxSSIDLength {
		return models.Credential{}, fmt.Errorf("ssid %q exceeds %d bytes", ssid, models.MaxSSIDLength)
	}
	return models.Credential{
		SSID:        ssid,
		Password:    password,
		GeneratedAt: cs.clock.Now(),
	}, nil
}

// randomString draws uniformly from alphabet, rejecting bytes above the
// largest multiple of len(alphabet) to avoid modulo bias.
func (cs *CredentialService) randomString(alphabet string, n int) (string, error) {
	limit := 256 - 256%len(alphabet)
	out := make([]byte, 0, n)
	buf := make([]byte, n*2)
	for len(out) < n {
		if _, err := io.ReadFull(cs.random, buf); err != nil {
			return "", fmt.Errorf("%w: %v", ErrRandomness, err)
		}
		for _, b := range buf {
			if int(b) >= limit {
				continue
			}
			out = append(out, alphabet[int(b)%len(alphabet)])
			if len(out) == n {
				break
			}
		}
	}
	return string(out), nil
}
