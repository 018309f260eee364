package combat

// AttackResult records one resolved attack.
type AttackResult struct {
	AttackerID string
	DefenderID string
	// Rolled is the raw damage roll before any power applied.
	Rolled int
	// Damage is the value left after the offense and defense pipelines.
	Damage int
	// Blocked is the block the defender spent.
	Blocked int
	// Dealt is the hit points the defender actually lost.
	Dealt  int
	Killed bool
}
