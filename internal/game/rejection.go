package game

import "fmt"

// RejectionCode names why an input was refused.
type RejectionCode string

const (
	CodeWrongPhase          RejectionCode = "BATTLE_WRONG_PHASE"
	CodeBattleFinished      RejectionCode = "BATTLE_FINISHED"
	CodeUnknownParticipant  RejectionCode = "BATTLE_UNKNOWN_PARTICIPANT"
	CodeParticipantDead     RejectionCode = "BATTLE_PARTICIPANT_DEAD"
	CodePartyLocked         RejectionCode = "BATTLE_PARTY_LOCKED"
	CodeUnknownParty        RejectionCode = "BATTLE_UNKNOWN_PARTY"
	CodeSpellNotKnown       RejectionCode = "BATTLE_SPELL_NOT_KNOWN"
	CodeSpellNotEligible    RejectionCode = "BATTLE_SPELL_NOT_ELIGIBLE"
	CodeInvalidTarget       RejectionCode = "BATTLE_INVALID_TARGET"
	CodeTargetNotApplicable RejectionCode = "BATTLE_TARGET_NOT_APPLICABLE"
	CodeEmptyRoster         RejectionCode = "BATTLE_EMPTY_ROSTER"
)

// Rejection is a synchronous refusal of a contract-violating call. A
// rejected call never mutates the battle.
type Rejection struct {
	Code    RejectionCode
	Message string
}

func (r *Rejection) Error() string {
	if r.Message == "" {
		return string(r.Code)
	}
	return string(r.Code) + ": " + r.Message
}

// Is matches any rejection with the same code, so callers can use the
// exported sentinels with errors.Is.
func (r *Rejection) Is(target error) bool {
	t, ok := target.(*Rejection)
	return ok && t.Code == r.Code
}

// Reject builds a rejection with a formatted message.
func Reject(code RejectionCode, format string, args ...any) *Rejection {
	return &Rejection{Code: code, Message: fmt.Sprintf(format, args...)}
}

var (
	ErrWrongPhase          = &Rejection{Code: CodeWrongPhase}
	ErrBattleFinished      = &Rejection{Code: CodeBattleFinished}
	ErrUnknownParticipant  = &Rejection{Code: CodeUnknownParticipant}
	ErrParticipantDead     = &Rejection{Code: CodeParticipantDead}
	ErrPartyLocked         = &Rejection{Code: CodePartyLocked}
	ErrUnknownParty        = &Rejection{Code: CodeUnknownParty}
	ErrSpellNotKnown       = &Rejection{Code: CodeSpellNotKnown}
	ErrSpellNotEligible    = &Rejection{Code: CodeSpellNotEligible}
	ErrInvalidTarget       = &Rejection{Code: CodeInvalidTarget}
	ErrTargetNotApplicable = &Rejection{Code: CodeTargetNotApplicable}
	ErrEmptyRoster         = &Rejection{Code: CodeEmptyRoster}
)
