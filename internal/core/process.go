package core

import "encoding/json"

// ProcessPhase is the progress of an asynchronous fetch.
type ProcessPhase int

const (
	PhaseLoading ProcessPhase = iota
	PhaseDone
	PhaseError
)

func (p ProcessPhase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseDone:
		return "done"
	case PhaseError:
		return "error"
	default:
		return "unknown"
	}
}

// MarshalJSON renders the phase as its lowercase name.
func (p ProcessPhase) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

// ProcessState is the three-way indicator driving rendering of any
// asynchronous fetch: Loading while in flight, Done once data is populated,
// Error with a human-readable message when the fetch failed or came back
// empty. There is no transition out of Done or Error except a fresh fetch.
type ProcessState struct {
	Phase   ProcessPhase `json:"state"`
	Message string       `json:"message,omitempty"`
}

func Loading() ProcessState               { return ProcessState{Phase: PhaseLoading} }
func Done() ProcessState                  { return ProcessState{Phase: PhaseDone} }
func ProcessError(msg string) ProcessState { return ProcessState{Phase: PhaseError, Message: msg} }

func (s ProcessState) IsLoading() bool { return s.Phase == PhaseLoading }
func (s ProcessState) IsDone() bool    { return s.Phase == PhaseDone }
func (s ProcessState) IsError() bool   { return s.Phase == PhaseError }
