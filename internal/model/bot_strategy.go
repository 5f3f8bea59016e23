package model

// Bot strategy names
const (
	BotStrategyRandom = "random"
	BotStrategyGreedy = "greedy"
)

// BotStrategyDisplayName returns a human-readable label for a strategy
func BotStrategyDisplayName(strategy string) string {
	switch strategy {
	case BotStrategyRandom:
		return "Random"
	case BotStrategyGreedy:
		return "Greedy"
	default:
		return strategy
	}
}

// ValidBotStrategies returns all valid bot strategy names
func ValidBotStrategies() []string {
	return []string{BotStrategyRandom, BotStrategyGreedy}
}

// IsValidBotStrategy returns true if the strategy name is known
func IsValidBotStrategy(strategy string) bool {
	for _, s := range ValidBotStrategies() {
		if s == strategy {
			return true
		}
	}
	return false
}
