package game

import "math/rand"

// PathogenQueue holds the backlog of templates and the active instances.
type PathogenQueue struct {
	backlog  []*PathogenTemplate
	active   []*PathogenInstance
	capacity int
	target   int // ID of the targeted instance, 0 if none
	nextID   int
}

// NewPathogenQueue creates a queue with the given active-slot capacity (minimum 1).
func NewPathogenQueue(templates []*PathogenTemplate, capacity int) *PathogenQueue {
	if capacity < 1 {
		capacity = 1
	}
	backlog := make([]*PathogenTemplate, 0, len(templates))
	for _, t := range templates {
		if t == nil {
			panic("pathogen queue: nil template")
		}
		backlog = append(backlog, t)
	}
	return &PathogenQueue{backlog: backlog, capacity: capacity}
}

// Shuffle randomizes the backlog order. Called once at game start.
func (q *PathogenQueue) Shuffle(rng *rand.Rand) {
	rng.Shuffle(len(q.backlog), func(i, j int) {
		q.backlog[i], q.backlog[j] = q.backlog[j], q.backlog[i]
	})
}

// SpawnNext dequeues and activates the next pathogen if there is a free slot.
// The new instance becomes the target.
func (q *PathogenQueue) SpawnNext() (*PathogenInstance, bool) {
	if len(q.active) >= q.capacity || len(q.backlog) == 0 {
		return nil, false
	}
	t := q.backlog[0]
	q.backlog = q.backlog[1:]
	q.nextID++
	inst := NewPathogenInstance(q.nextID, t)
	q.active = append(q.active, inst)
	q.target = inst.ID
	return inst, true
}

// Fill spawns until the active slots are full or the backlog is empty.
func (q *PathogenQueue) Fill() []*PathogenInstance {
	var spawned []*PathogenInstance
	for {
		inst, ok := q.SpawnNext()
		if !ok {
			return spawned
		}
		spawned = append(spawned, inst)
	}
}

// Remove drops a dead instance from the active set. It reports victory when nothing is
// left anywhere, and spawns the next pathogen when the active set has emptied.
func (q *PathogenQueue) Remove(inst *PathogenInstance) (victory bool, spawned *PathogenInstance) {
	for i, a := range q.active {
		if a.ID == inst.ID {
			q.active = append(q.active[:i], q.active[i+1:]...)
			break
		}
	}
	if q.target == inst.ID {
		q.target = 0
		if len(q.active) > 0 {
			q.target = q.active[0].ID
		}
	}
	if len(q.active) == 0 {
		if len(q.backlog) == 0 {
			return true, nil
		}
		spawned, _ = q.SpawnNext()
	}
	return false, spawned
}

// Active returns a snapshot of the active instances.
func (q *PathogenQueue) Active() []*PathogenInstance {
	out := make([]*PathogenInstance, len(q.active))
	copy(out, q.active)
	return out
}

// Get returns the active instance with the given ID.
func (q *PathogenQueue) Get(id int) *PathogenInstance {
	for _, a := range q.active {
		if a.ID == id {
			return a
		}
	}
	return nil
}

// Target returns the targeted instance, or nil.
func (q *PathogenQueue) Target() *PathogenInstance {
	return q.Get(q.target)
}

// SetTarget targets an active instance. Returns false for unknown IDs.
func (q *PathogenQueue) SetTarget(id int) bool {
	if q.Get(id) == nil {
		return false
	}
	q.target = id
	return true
}

// IsCardBlocked reports whether any active pathogen blocks the card kind.
func (q *PathogenQueue) IsCardBlocked(kind CardKind) bool {
	for _, a := range q.active {
		if a.Alive() && a.IsCardBlocked(kind) {
			return true
		}
	}
	return false
}

// Remaining returns the number of templates still waiting in the backlog.
func (q *PathogenQueue) Remaining() int {
	return len(q.backlog)
}

// Cleared reports whether every pathogen has been defeated.
func (q *PathogenQueue) Cleared() bool {
	return len(q.active) == 0 && len(q.backlog) == 0
}
