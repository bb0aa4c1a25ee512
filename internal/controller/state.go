package controller

import (
	"fmt"

	"adcraft/internal/domain/adcopy"
)

// Phase is the active variant of State.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseSuccess
	PhaseError
)

var phaseNames = [...]string{"idle", "loading", "success", "error"}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return fmt.Sprintf("phase(%d)", int(p))
	}
	return phaseNames[p]
}

func (p Phase) MarshalText() ([]byte, error) {
	if p < 0 || int(p) >= len(phaseNames) {
		return nil, fmt.Errorf("unknown phase %d", int(p))
	}
	return []byte(phaseNames[p]), nil
}

// State is the result envelope shown next to the form. Result is set only in
// PhaseSuccess and Message only in PhaseError; use the constructors below so
// the variants never mix.
type State struct {
	Phase   Phase
	Seq     uint64
	Result  *adcopy.AdResponse
	Message string
}

func Idle() State {
	return State{Phase: PhaseIdle}
}

func Loading(seq uint64) State {
	return State{Phase: PhaseLoading, Seq: seq}
}

func Succeeded(seq uint64, res *adcopy.AdResponse) State {
	return State{Phase: PhaseSuccess, Seq: seq, Result: res}
}

func Failed(seq uint64, message string) State {
	return State{Phase: PhaseError, Seq: seq, Message: message}
}

// Terminal reports whether the state ends a submission.
func (s State) Terminal() bool {
	return s.Phase == PhaseSuccess || s.Phase == PhaseError
}
