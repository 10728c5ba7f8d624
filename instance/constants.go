package instance

// --- Simulation Constants ---
const (
	// TICK_PERIOD is how many Tick calls make up one relocation step.
	TICK_PERIOD = 4
)
