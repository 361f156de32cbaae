package repository

import (
	"errors"

	"bench_survey_backend/pkg/database"
)

// allocAttempts bounds the collision-retry loop. Collisions on 128-bit UUIDs
// or 32-char secrets are vanishingly rare, so hitting the bound means
// something is structurally wrong rather than bad luck.
const allocAttempts = 10

// ErrAllocExhausted is returned when every attempt collided.
var ErrAllocExhausted = errors.New("identifier allocation: retry attempts exhausted")

// Allocate generates candidates with gen and hands each to persist until one
// commits. A uniqueness-constraint violation triggers a fresh candidate; any
// other error aborts immediately. persist closures that own tables with
// several unique columns must translate the violations that are NOT about the
// generated column into typed errors before returning, otherwise those would
// be retried too.
func Allocate(gen func() string, persist func(candidate string) error) (string, error) {
	for i := 0; i < allocAttempts; i++ {
		candidate := gen()
		err := persist(candidate)
		if err == nil {
			return candidate, nil
		}
		if _, ok := database.AsUniqueViolation(err); ok {
			continue
		}
		return "", err
	}
	return "", ErrAllocExhausted
}
