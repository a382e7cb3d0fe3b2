package game

import (
	"fmt"
	"strconv"
	"strings"
)

// PartyID identifies one side of a battle.
type PartyID int

const (
	PartyA PartyID = iota
	PartyB
)

func (p PartyID) String() string {
	switch p {
	case PartyA:
		return "A"
	case PartyB:
		return "B"
	}
	return "?"
}

// Opponent returns the other party.
func (p PartyID) Opponent() PartyID {
	if p == PartyA {
		return PartyB
	}
	return PartyA
}

func (p PartyID) Valid() bool { return p == PartyA || p == PartyB }

// ParsePartyID accepts "a", "b", "party_a" or "party_b" in any case.
func ParsePartyID(s string) (PartyID, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "a", "party_a":
		return PartyA, true
	case "b", "party_b":
		return PartyB, true
	}
	return 0, false
}

// Phase is the battle's top-level state.
type Phase string

const (
	PhaseSelection Phase = "selection"
	PhaseCombat    Phase = "combat"
	PhaseFinished  Phase = "finished"
)

// Winner is the terminal designation of a battle.
type Winner string

const (
	WinnerNone   Winner = "none"
	WinnerPartyA Winner = "party_a"
	WinnerPartyB Winner = "party_b"
	WinnerDraw   Winner = "draw"
)

// WinnerFor maps a party to its winner value.
func WinnerFor(p PartyID) Winner {
	if p == PartyA {
		return WinnerPartyA
	}
	return WinnerPartyB
}

// ParticipantID is "<party>:<slot>", e.g. "A:0".
type ParticipantID string

// NewParticipantID formats the id for a roster slot.
func NewParticipantID(party PartyID, slot int) ParticipantID {
	return ParticipantID(party.String() + ":" + strconv.Itoa(slot))
}

// Parse splits the id back into party and slot.
func (id ParticipantID) Parse() (PartyID, int, error) {
	party, slot, ok := strings.Cut(string(id), ":")
	if !ok {
		return 0, 0, fmt.Errorf("participant id %q: missing separator", string(id))
	}
	p, ok := ParsePartyID(party)
	if !ok {
		return 0, 0, fmt.Errorf("participant id %q: unknown party", string(id))
	}
	n, err := strconv.Atoi(slot)
	if err != nil || n < 0 {
		return 0, 0, fmt.Errorf("participant id %q: bad slot", string(id))
	}
	return p, n, nil
}

// Participant is a combatant's mutable instance within one battle.
type Participant struct {
	ID        ParticipantID
	Party     PartyID
	Slot      int
	Combatant *Combatant

	Health             int
	InitiativeModifier int
	DamageModifier     int

	// Per-turn selection state, cleared on every return to selection.
	Spell     *Spell
	Target    ParticipantID
	Committed bool
}

func (p *Participant) Alive() bool { return p.Health > 0 }

func (p *Participant) Name() string { return p.Combatant.Name }

func (p *Participant) MaxHealth() int { return p.Combatant.MaxHealth }

func (p *Participant) Level() int { return p.Combatant.Level() }

func (p *Participant) Experience() int { return p.Combatant.Experience }

// TotalInitiative is base initiative plus accumulated buffs.
func (p *Participant) TotalInitiative() int {
	return p.Combatant.BaseInitiative + p.InitiativeModifier
}

// CurrentDamage is base damage plus accumulated damage buffs.
func (p *Participant) CurrentDamage() int {
	return p.Combatant.BaseDamage + p.DamageModifier
}

// ClearSelection drops the per-turn choice and commit flag.
func (p *Participant) ClearSelection() {
	p.Spell = nil
	p.Target = ""
	p.Committed = false
}

// Battle is the root aggregate of one match.
type Battle struct {
	Parties  [2][]*Participant
	Phase    Phase
	Turn     int
	Locked   [2]bool
	Winner   Winner
	LastTurn *TurnResult
}

// NewBattle wraps both rosters in fresh participants at full health.
// Combatant definitions are copied so the battle owns its runtime stats.
func NewBattle(partyA, partyB []*Combatant) *Battle {
	b := &Battle{Phase: PhaseSelection, Winner: WinnerNone}
	for party, roster := range [2][]*Combatant{partyA, partyB} {
		pid := PartyID(party)
		members := make([]*Participant, 0, len(roster))
		for slot, c := range roster {
			def := c.Clone()
			members = append(members, &Participant{
				ID:        NewParticipantID(pid, slot),
				Party:     pid,
				Slot:      slot,
				Combatant: def,
				Health:    def.MaxHealth,
			})
		}
		b.Parties[party] = members
	}
	return b
}

// Party returns the ordered members of a party.
func (b *Battle) Party(p PartyID) []*Participant {
	return b.Parties[p]
}

// Participant looks a participant up by id.
func (b *Battle) Participant(id ParticipantID) *Participant {
	party, slot, err := id.Parse()
	if err != nil {
		return nil
	}
	members := b.Parties[party]
	if slot >= len(members) {
		return nil
	}
	return members[slot]
}

// All returns party A followed by party B, in roster order.
func (b *Battle) All() []*Participant {
	out := make([]*Participant, 0, len(b.Parties[0])+len(b.Parties[1]))
	out = append(out, b.Parties[PartyA]...)
	return append(out, b.Parties[PartyB]...)
}

// Defeated reports whether every member of the party is dead. An empty
// party counts as defeated.
func (b *Battle) Defeated(p PartyID) bool {
	for _, m := range b.Parties[p] {
		if m.Alive() {
			return false
		}
	}
	return true
}
