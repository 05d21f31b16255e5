package utils

import (
	"crypto/rand"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ==================== UUID & TOKEN ====================

func GenerateUUID() uuid.UUID {
	return uuid.New()
}

func ParseUUID(uuidStr string) (uuid.UUID, error) {
	return uuid.Parse(uuidStr)
}

func GenerateSessionToken() uuid.UUID {
	return uuid.New()
}

// ==================== BOOKING CODE ====================

// Crockford-style alphabet, no 0/1/O/I to keep codes readable over the phone.
const codeAlphabet = "23456789ABCDEFGHJKMNPQRSTVWXYZ"

const codeSuffixLength = 8

// Largest multiple of the alphabet size that fits in a byte. Bytes at
// or above it are discarded so every character is equally likely.
const codeMaxUsableByte = 256 - 256%len(codeAlphabet)

// GenerateBookingCode creates the external booking reference shown to
// users and payment systems. Format: PREFIX-YYYYMMDD-XXXXXXXX with a
// random suffix drawn from crypto/rand; the suffix space is large
// enough that collisions within a day are negligible, and the unique
// index on bookings.booking_code is the backstop.
func GenerateBookingCode(prefix string) string {
	if prefix == "" {
		prefix = "BTX"
	}

	suffix, err := randomCodeSuffix()
	if err != nil {
		// crypto/rand failing means the platform is broken; fall back
		// to a uuid so booking creation still proceeds.
		return fmt.Sprintf("%s-%s", prefix, uuid.New().String())
	}

	datePart := time.Now().Format("20060102")
	return fmt.Sprintf("%s-%s-%s", prefix, datePart, suffix)
}

func randomCodeSuffix() (string, error) {
	suffix := make([]byte, 0, codeSuffixLength)
	buf := make([]byte, codeSuffixLength*2)

	for len(suffix) < codeSuffixLength {
		if _, err := rand.Read(buf); err != nil {
			return "", err
		}
		for _, b := range buf {
			if int(b) >= codeMaxUsableByte {
				continue
			}
			suffix = append(suffix, codeAlphabet[int(b)%len(codeAlphabet)])
			if len(suffix) == codeSuffixLength {
				break
			}
		}
	}

	return string(suffix), nil
}
