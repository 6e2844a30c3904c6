package testutil

import (
	"fmt"

	"github.com/google/uuid"
)

// ID returns a fixed, human-readable UUID for fixtures:
// ID(7) is 00000000-0000-0000-0000-000000000007.
func ID(n int) uuid.UUID {
	return uuid.MustParse(fmt.Sprintf("00000000-0000-0000-0000-%012d", n))
}
