package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// Version suffix enables future algorithm migration.
const (
	DomainTruth  = "noir/truth/v1"
	DomainAction = "noir/action/v1"
)

// hashWithDomain computes SHA256(domain + 0x00 + data).
// The null separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Fingerprint hashes the canonical form of v under the given domain.
func Fingerprint(domain string, v Value) (string, error) {
	canonical, err := MarshalCanonical(v)
	if err != nil {
		return "", fmt.Errorf("fingerprint %s: %w", domain, err)
	}
	return hashWithDomain(domain, canonical), nil
}

// ActionID computes the content-addressed id of a journaled action.
// The id is stable across replays given the same case, action and seq.
func ActionID(caseID, action string, args Object, seq int64) (string, error) {
	obj := Object{
		"case_id": String(caseID),
		"action":  String(action),
		"args":    args,
		"seq":     Int(seq),
	}
	return Fingerprint(DomainAction, obj)
}

// MustFingerprint is like Fingerprint but panics on error.
// Use only in tests or when the value is known to be valid.
func MustFingerprint(domain string, v Value) string {
	fp, err := Fingerprint(domain, v)
	if err != nil {
		panic(err)
	}
	return fp
}
