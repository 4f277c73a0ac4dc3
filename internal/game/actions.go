package game

import (
	"errors"
	"fmt"
)

var rejections = []error{
	ErrWrongPhase, ErrLocked, ErrNotInHand, ErrCardBlocked, ErrCardLimit, ErrFieldFull,
	ErrNoTarget, ErrUnknownTarget, ErrGameOver, ErrInsufficientTokens, ErrHandFull,
	ErrUnknownItem, ErrAlreadyStarted,
}

// IsRejection reports whether err is one of the engine's rejection errors.
func IsRejection(err error) bool {
	for _, r := range rejections {
		if errors.Is(err, r) {
			return true
		}
	}
	return false
}

// LegalActions lists every action the player may take right now.
// Identical cards in hand are offered once.
func (e *Engine) LegalActions() []Action {
	if e.turn.Phase != PhasePlayerTurn || e.IsOver() {
		return nil
	}
	var actions []Action

	if e.turn.CardsPlayed < e.rules.CardsPerTurn {
		seen := make(map[Card]bool)
		for i, card := range e.player.Hand {
			if seen[card] {
				continue
			}
			seen[card] = true
			if e.queue.IsCardBlocked(card.Kind) {
				continue
			}
			if e.combo.Admit(card, e.player.Played) != nil {
				continue
			}

			if !card.NeedsTarget() {
				actions = append(actions, Action{
					Type:      ActionPlayCard,
					Card:      card,
					HandIndex: i,
					Desc:      fmt.Sprintf("Play %s (%s)", card.Name, card.Summary()),
				})
				continue
			}
			for _, p := range e.queue.Active() {
				actions = append(actions, Action{
					Type:      ActionPlayCard,
					Card:      card,
					HandIndex: i,
					Target:    p.ID,
					Desc:      fmt.Sprintf("Play %s (%s) → %s", card.Name, card.Summary(), p),
				})
			}
		}
	}

	if e.player.FreeHandSlots() > 0 {
		for _, item := range e.shop {
			if e.player.Tokens < item.Cost {
				continue
			}
			actions = append(actions, Action{
				Type: ActionBuyItem,
				Card: item,
				Desc: fmt.Sprintf("Buy %s for %d tokens (%s)", item.Name, item.Cost, item.Summary()),
			})
		}
	}

	actions = append(actions, Action{Type: ActionEndTurn, Desc: "End turn"})
	return actions
}

// Apply performs a chosen action.
func (e *Engine) Apply(a Action) error {
	switch a.Type {
	case ActionPlayCard:
		return e.PlayCard(a.Card, a.Target)
	case ActionBuyItem:
		return e.Purchase(a.Card.Name)
	case ActionEndTurn:
		return e.EndPlayerTurn()
	default:
		return fmt.Errorf("unknown action type %d", a.Type)
	}
}
