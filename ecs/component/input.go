package component

import (
	"fmt"
	"strings"

	"github.com/milk9111/charctl/common"
)

// AbilityKey identifies an ability intent, already resolved from raw input.
type AbilityKey int

const (
	KeyAttack AbilityKey = iota
	KeySpell
	KeyDash
)

func (k AbilityKey) String() string {
	switch k {
	case KeyAttack:
		return "attack"
	case KeySpell:
		return "spell"
	case KeyDash:
		return "dash"
	}
	return fmt.Sprintf("key(%d)", int(k))
}

// ParseAbilityKey accepts the key names and the Q/W/E bindings.
func ParseAbilityKey(s string) (AbilityKey, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "attack", "q":
		return KeyAttack, nil
	case "spell", "w":
		return KeySpell, nil
	case "dash", "e":
		return KeyDash, nil
	}
	return 0, fmt.Errorf("component: unknown ability key %q", s)
}

// Aim stores the latest pointer projection onto the ground plane. Valid is
// false when the pointer did not hit the ground.
type Aim struct {
	Point common.Vec3
	Valid bool
}

var AimComponent = NewComponent[Aim]()
