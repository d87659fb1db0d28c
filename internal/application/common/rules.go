package common

// Rules carries the configurable gameplay parameters the engine consults at
// runtime. Whether a base runs one construction at a time or many is a
// deployment choice, not a fixed assumption.
type Rules struct {
	// MaxActivePerBase caps concurrently active queue items per base.
	// Zero means unlimited: every submission is scheduled immediately.
	MaxActivePerBase int
}
