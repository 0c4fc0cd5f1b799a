// Package guard generates Steam Guard one-time codes.
//
// The vendor's two-factor scheme is TOTP with two deviations from RFC
// 6238: the code is five characters drawn from a 26-symbol alphabet
// instead of decimal digits, and the shared secret is exchanged as
// base64. The 30-second interval and HMAC-SHA1 truncation are standard.
//
// Code generation is pure computation over the shared secret and a
// clock; it needs neither the native bridge nor network access.
package guard

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/wippyai/steamworks-go"
	"github.com/wippyai/steamworks-go/errors"
)

// Interval is the code rotation period.
const Interval = 30 * time.Second

// CodeLength is the number of characters in one code.
const CodeLength = 5

// alphabet is the vendor's code character set. Chosen to avoid
// ambiguous glyphs; order is fixed by the scheme.
const alphabet = "23456789BCDFGHJKMNPQRTVWXY"

// Code derives the one-time code for the given moment. sharedSecret is
// the base64 secret issued when the authenticator was added.
func Code(sharedSecret string, at time.Time) (string, error) {
	const op = "guard.code"

	secret, err := base64.StdEncoding.DecodeString(sharedSecret)
	if err != nil {
		return "", errors.Wrap(op, errors.KindNativeCallFailure, err,
			"shared secret is not valid base64")
	}
	if len(secret) == 0 {
		return "", errors.NativeCall(op, "shared secret is empty")
	}

	var counter [8]byte
	binary.BigEndian.PutUint64(counter[:], uint64(at.Unix())/uint64(Interval/time.Second))

	mac := hmac.New(sha1.New, secret)
	mac.Write(counter[:])
	digest := mac.Sum(nil)

	offset := digest[len(digest)-1] & 0x0F
	full := binary.BigEndian.Uint32(digest[offset:offset+4]) & 0x7FFFFFFF

	code := make([]byte, CodeLength)
	for i := range code {
		code[i] = alphabet[full%uint32(len(alphabet))]
		full /= uint32(len(alphabet))
	}
	return string(code), nil
}

// CodeNow derives the code for the current wall clock.
func CodeNow(sharedSecret string) (string, error) {
	return Code(sharedSecret, time.Now())
}

// DeviceID derives the stable device identifier registered alongside an
// authenticator: an "android:" prefix over a UUID-shaped digest of the
// account identifier.
func DeviceID(id steamworks.SteamID) string {
	sum := sha1.Sum([]byte(id.String()))
	digest := hex.EncodeToString(sum[:])
	return fmt.Sprintf("android:%s-%s-%s-%s-%s",
		digest[0:8], digest[8:12], digest[12:16], digest[16:20], digest[20:32])
}
