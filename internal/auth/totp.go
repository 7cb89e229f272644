// Copyright 2025 Tom Barlow
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package auth

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base32"
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
	"time"
)

// totpStep is the RFC 6238 time step in seconds.
const totpStep = 30

// GenerateTOTP derives the 6-digit one-time code for the given base32
// secret and time-skew window. windowOffset shifts the 30-second counter
// by whole steps: 0 is the current window, -1 the previous, +1 the next.
func GenerateTOTP(secret string, windowOffset int) (string, error) {
	return generateTOTPAt(secret, windowOffset, time.Now())
}

// generateTOTPAt is the testable core with an explicit clock.
func generateTOTPAt(secret string, windowOffset int, now time.Time) (string, error) {
	key, err := decodeSecret(secret)
	if err != nil {
		return "", err
	}

	counter := now.Unix()/totpStep + int64(windowOffset)
	var msg [8]byte
	binary.BigEndian.PutUint64(msg[:], uint64(counter))

	mac := hmac.New(sha1.New, key)
	mac.Write(msg[:])
	digest := mac.Sum(nil)

	// RFC 4226 dynamic truncation: 4 bytes at the offset given by the
	// low nibble of the last digest byte, top bit masked.
	offset := digest[len(digest)-1] & 0x0f
	code := binary.BigEndian.Uint32(digest[offset:offset+4]) & 0x7fffffff

	return fmt.Sprintf("%06d", code%1000000), nil
}

// decodeSecret normalizes and base32-decodes a shared secret. Secrets
// pasted from provisioning URLs may carry a "secret=" prefix, spacing,
// hyphens, or padding.
func decodeSecret(secret string) ([]byte, error) {
	s := strings.TrimSpace(secret)
	if idx := strings.Index(s, "secret="); idx != -1 {
		s = s[idx+len("secret="):]
		if amp := strings.IndexAny(s, "&?"); amp != -1 {
			s = s[:amp]
		}
	}
	s = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r', '-', '=':
			return -1
		}
		return r
	}, s)
	s = strings.ToUpper(s)
	if s == "" {
		return nil, errEmptySecret
	}

	key, err := base32.StdEncoding.WithPadding(base32.NoPadding).DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid TOTP secret: %w", err)
	}
	return key, nil
}

// errEmptySecret is returned when a TOTP secret normalizes to nothing.
var errEmptySecret = errors.New("TOTP secret must not be empty")
