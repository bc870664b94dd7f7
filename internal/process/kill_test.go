package process

import "testing"

// ---------------------------------------------------------------------------
// TestKillProcessGroup - Invalid PID Handling
// ---------------------------------------------------------------------------

// Only a PID that cannot exist is safe here: 0 would target the test's own
// process group. Real termination is covered by the printer's Close.
func TestKillProcessGroup_InvalidPID(t *testing.T) {
	t.Parallel()

	KillProcessGroup(999999999)
}
