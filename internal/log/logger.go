package log

import (
	"fmt"
	"io"
	"strings"
)

// EventLogger is the interface for logging game events.
type EventLogger interface {
	Log(event GameEvent)
	Events() []GameEvent
}

// --- MemoryLogger: stores events in memory for test assertions ---

type MemoryLogger struct {
	events []GameEvent
	seq    int
}

func NewMemoryLogger() *MemoryLogger {
	return &MemoryLogger{}
}

func (l *MemoryLogger) Log(event GameEvent) {
	l.seq++
	event.Seq = l.seq
	l.events = append(l.events, event)
}

func (l *MemoryLogger) Events() []GameEvent {
	return l.events
}

// EventsOfType returns all events matching the given type.
func (l *MemoryLogger) EventsOfType(t EventType) []GameEvent {
	var result []GameEvent
	for _, e := range l.events {
		if e.Type == t {
			result = append(result, e)
		}
	}
	return result
}

// LastEvent returns the most recent event, or a zero event if none.
func (l *MemoryLogger) LastEvent() GameEvent {
	if len(l.events) == 0 {
		return GameEvent{}
	}
	return l.events[len(l.events)-1]
}

// --- TextLogger: writes human-readable lines to an io.Writer ---

type TextLogger struct {
	MemoryLogger
	w io.Writer
}

func NewTextLogger(w io.Writer) *TextLogger {
	return &TextLogger{w: w}
}

func (l *TextLogger) Log(event GameEvent) {
	l.MemoryLogger.Log(event)
	fmt.Fprintln(l.w, FormatEvent(event))
}

// --- Formatting ---

// FormatEvent formats a single event as a human-readable line.
func FormatEvent(e GameEvent) string {
	phase := e.Phase
	if phase == "" {
		phase = "          "
	}
	// Pad phase to 14 chars for alignment
	for len(phase) < 14 {
		phase += " "
	}

	return fmt.Sprintf("T%-2d %s| %s", e.Turn, phase, e.Details)
}

// FormatAll formats all events as a multi-line string.
func FormatAll(events []GameEvent) string {
	var sb strings.Builder
	for _, e := range events {
		sb.WriteString(FormatEvent(e))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// --- Helper constructors for common events ---

func NewPhaseChangeEvent(turn int, phase string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Type:    EventPhaseChange,
		Details: fmt.Sprintf("Phase → %s", phase),
	}
}

func NewTurnEvent(turn int, phase string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Type:    EventNewTurn,
		Details: fmt.Sprintf("=== Turn %d ===", turn),
	}
}

func NewDrawEvent(turn int, phase string, cardName string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Type:    EventDraw,
		Card:    cardName,
		Details: fmt.Sprintf("Player draws %s", cardName),
	}
}

func NewShuffleEvent(turn int, phase string, size int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Type:    EventShuffle,
		Value:   size,
		Details: fmt.Sprintf("Discard pile shuffled back into the deck (%d cards)", size),
	}
}

func NewCardPlayedEvent(turn int, phase string, cardName string, pathogen string) GameEvent {
	details := fmt.Sprintf("Player plays %s", cardName)
	if pathogen != "" {
		details = fmt.Sprintf("Player plays %s → %s", cardName, pathogen)
	}
	return GameEvent{
		Turn:     turn,
		Phase:    phase,
		Type:     EventCardPlayed,
		Card:     cardName,
		Pathogen: pathogen,
		Details:  details,
	}
}

func NewRejectedEvent(turn int, phase string, cardName string, reason string) GameEvent {
	details := fmt.Sprintf("Action rejected: %s", reason)
	if cardName != "" {
		details = fmt.Sprintf("%s rejected: %s", cardName, reason)
	}
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Type:    EventRejected,
		Card:    cardName,
		Details: details,
	}
}

// NewDamageEvent reports HP lost by a combatant. target is "Player" or a pathogen name.
func NewDamageEvent(turn int, phase string, target string, nominal, actual, oldHP, newHP int) GameEvent {
	ev := GameEvent{
		Turn:    turn,
		Phase:   phase,
		Type:    EventDamage,
		Value:   actual,
		Details: fmt.Sprintf("%s takes %d damage (%d before defense), HP: %d → %d", target, actual, nominal, oldHP, newHP),
	}
	if target != "Player" {
		ev.Pathogen = target
	}
	return ev
}

func NewHealEvent(turn int, phase string, target string, amount, oldHP, newHP int) GameEvent {
	ev := GameEvent{
		Turn:    turn,
		Phase:   phase,
		Type:    EventHeal,
		Value:   amount,
		Details: fmt.Sprintf("%s heals %d, HP: %d → %d", target, amount, oldHP, newHP),
	}
	if target != "Player" {
		ev.Pathogen = target
	}
	return ev
}

func NewDefenseEvent(turn int, phase string, cardName string, flat, percent int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Type:    EventDefense,
		Card:    cardName,
		Details: fmt.Sprintf("Player defense now %d flat / %d%%", flat, percent),
	}
}

func NewTokensEvent(turn int, phase string, delta, total int, reason string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Type:    EventTokens,
		Value:   delta,
		Details: fmt.Sprintf("Tokens %+d → %d (%s)", delta, total, reason),
	}
}

func NewBoostEvent(turn int, phase string, cardName string, consumed bool) GameEvent {
	details := fmt.Sprintf("%s primes a boost for the next card", cardName)
	if consumed {
		details = fmt.Sprintf("Boost doubles %s", cardName)
	}
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Type:    EventBoost,
		Card:    cardName,
		Details: details,
	}
}

func NewComboPendingEvent(turn int, phase string, cardName string, partner string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Type:    EventComboPending,
		Card:    cardName,
		Details: fmt.Sprintf("%s waits on the field for a %s partner", cardName, partner),
	}
}

func NewComboActivatedEvent(turn int, phase string, cardName string, partner string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Type:    EventComboActivated,
		Card:    cardName,
		Details: fmt.Sprintf("%s activates with partner %s", cardName, partner),
	}
}

func NewComboDiscardedEvent(turn int, phase string, cardName string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Type:    EventComboDiscarded,
		Card:    cardName,
		Details: fmt.Sprintf("%s found no partner and is discarded", cardName),
	}
}

func NewAbilityEvent(turn int, phase string, pathogen string, ability string, value int) GameEvent {
	return GameEvent{
		Turn:     turn,
		Phase:    phase,
		Type:     EventAbility,
		Pathogen: pathogen,
		Value:    value,
		Details:  fmt.Sprintf("%s uses %s (%d)", pathogen, ability, value),
	}
}

func NewAttackEvent(turn int, phase string, pathogen string, power int) GameEvent {
	return GameEvent{
		Turn:     turn,
		Phase:    phase,
		Type:     EventAttack,
		Pathogen: pathogen,
		Value:    power,
		Details:  fmt.Sprintf("%s attacks the player (power %d)", pathogen, power),
	}
}

func NewStatsEvent(turn int, phase string, hp, maxHP, flat, percent, tokens int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Type:    EventStats,
		Value:   hp,
		Details: fmt.Sprintf("Player HP %d/%d, defense %d/%d%%, tokens %d", hp, maxHP, flat, percent, tokens),
	}
}

func NewPathogenSpawnedEvent(turn int, phase string, pathogen string, hp int) GameEvent {
	return GameEvent{
		Turn:     turn,
		Phase:    phase,
		Type:     EventPathogenSpawned,
		Pathogen: pathogen,
		Value:    hp,
		Details:  fmt.Sprintf("%s appears (HP %d)", pathogen, hp),
	}
}

func NewPathogenDefeatedEvent(turn int, phase string, pathogen string, reward int) GameEvent {
	return GameEvent{
		Turn:     turn,
		Phase:    phase,
		Type:     EventPathogenDefeated,
		Pathogen: pathogen,
		Value:    reward,
		Details:  fmt.Sprintf("%s is defeated", pathogen),
	}
}

func NewTargetChangedEvent(turn int, phase string, pathogen string) GameEvent {
	return GameEvent{
		Turn:     turn,
		Phase:    phase,
		Type:     EventTargetChanged,
		Pathogen: pathogen,
		Details:  fmt.Sprintf("Targeting %s", pathogen),
	}
}

func NewTimerExpiredEvent(turn int, phase string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Type:    EventTimerExpired,
		Details: "Turn timer expired",
	}
}

func NewPurchaseEvent(turn int, phase string, cardName string, cost int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Type:    EventPurchase,
		Card:    cardName,
		Value:   cost,
		Details: fmt.Sprintf("Player buys %s for %d tokens", cardName, cost),
	}
}

func NewGameOverEvent(turn int, phase string, outcome string, reason string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Type:    EventGameOver,
		Details: fmt.Sprintf("%s! (%s)", outcome, reason),
	}
}
