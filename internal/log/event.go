package log

// EventType enumerates all observable game events.
type EventType int

const (
	EventPhaseChange EventType = iota
	EventNewTurn
	EventDraw
	EventShuffle
	EventCardPlayed
	EventRejected
	EventDamage
	EventHeal
	EventDefense
	EventTokens
	EventBoost
	EventComboPending
	EventComboActivated
	EventComboDiscarded
	EventAbility
	EventAttack
	EventStats
	EventPathogenSpawned
	EventPathogenDefeated
	EventTargetChanged
	EventTimerExpired
	EventPurchase
	EventGameOver
)

func (e EventType) String() string {
	switch e {
	case EventPhaseChange:
		return "TurnPhaseChanged"
	case EventNewTurn:
		return "NewTurn"
	case EventDraw:
		return "Draw"
	case EventShuffle:
		return "Shuffle"
	case EventCardPlayed:
		return "CardPlayed"
	case EventRejected:
		return "Rejected"
	case EventDamage:
		return "Damage"
	case EventHeal:
		return "Heal"
	case EventDefense:
		return "Defense"
	case EventTokens:
		return "Tokens"
	case EventBoost:
		return "Boost"
	case EventComboPending:
		return "ComboPending"
	case EventComboActivated:
		return "ComboActivated"
	case EventComboDiscarded:
		return "ComboDiscarded"
	case EventAbility:
		return "Ability"
	case EventAttack:
		return "Attack"
	case EventStats:
		return "PlayerStatsChanged"
	case EventPathogenSpawned:
		return "PathogenSpawned"
	case EventPathogenDefeated:
		return "PathogenDefeated"
	case EventTargetChanged:
		return "TargetChanged"
	case EventTimerExpired:
		return "TimerExpired"
	case EventPurchase:
		return "Purchase"
	case EventGameOver:
		return "GameOver"
	default:
		return "Unknown"
	}
}

// GameEvent represents a single observable event in a game.
type GameEvent struct {
	Seq      int       // monotonic sequence number
	Turn     int       // which turn (1-based)
	Phase    string    // current phase name (e.g. "Player Turn")
	Type     EventType // event type
	Card     string    // card name (if applicable)
	Pathogen string    // pathogen name (if applicable)
	Value    int       // amount carried by the event (damage, heal, tokens...)
	Details  string    // human-readable detail string
}
