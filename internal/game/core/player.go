package core

const (
	PlayerOne = 0
	PlayerTwo = 1

	// NoPlayer marks an unset player slot, e.g. the winner of a running game.
	NoPlayer = -1
)

// OtherPlayer returns the opponent of player.
func OtherPlayer(player int) int {
	if player == PlayerTwo {
		return PlayerOne
	}
	return PlayerTwo
}

// IsValidPlayer reports whether id names one of the two seats.
func IsValidPlayer(id int) bool {
	return id == PlayerOne || id == PlayerTwo
}
