package session

import (
	"math/rand"

	"github.com/BioLogIn001/spellweavers-engine-sub001/internal/match"
)

// Gestures are drawn from this weighted pool; stabs and idle hands are rarer.
const gesturePool = "FFPPSSWWDDCC>-"

// RandomOrders draws plain gesture orders for each id. Spell choice,
// targeting and monster orders are left to the engine's defaults.
func RandomOrders(rng *rand.Rand, ids []int) map[int]*match.Orders {
	out := make(map[int]*match.Orders, len(ids))
	for _, id := range ids {
		out[id] = &match.Orders{
			LeftGesture:  string(gesturePool[rng.Intn(len(gesturePool))]),
			RightGesture: string(gesturePool[rng.Intn(len(gesturePool))]),
		}
	}
	return out
}
