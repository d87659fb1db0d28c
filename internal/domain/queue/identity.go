package queue

import (
	"fmt"

	"github.com/attritiongame/attrition-core/internal/domain/catalog"
	"github.com/attritiongame/attrition-core/internal/domain/shared"
)

// IdentityKey deterministically encodes one logical unit of queued work:
// (empire, base, catalog key, target level, slot ordinal). Two requests that
// produce the same identity key are the same request, and the uniqueness
// constraint on this value is what makes slot allocation race-safe.
type IdentityKey string

// NewIdentityKey builds the canonical identity key for a queue slot
func NewIdentityKey(empireID shared.EmpireID, coord shared.Coordinate, key catalog.Key, targetLevel, slot int) IdentityKey {
	return IdentityKey(fmt.Sprintf("%s:%s:%s:L%d:Q%d", empireID, coord, key, targetLevel, slot))
}

// String returns the key's canonical string form
func (k IdentityKey) String() string {
	return string(k)
}
