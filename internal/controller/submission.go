package controller

import "context"

// Submission tracks one call to Submit.
type Submission struct {
	Seq uint64

	done    chan struct{}
	state   State
	applied bool
}

func newSubmission(seq uint64) *Submission {
	return &Submission{Seq: seq, done: make(chan struct{})}
}

func (s *Submission) finish(st State, applied bool) {
	s.state = st
	s.applied = applied
	close(s.done)
}

// Done is closed once the submission reached a terminal state.
func (s *Submission) Done() <-chan struct{} {
	return s.done
}

// State returns the terminal state this submission produced. It is only
// meaningful after Done is closed.
func (s *Submission) State() State {
	<-s.done
	return s.state
}

// Applied reports whether the terminal state reached the controller. It is
// false when a newer submission or a reset superseded this one.
func (s *Submission) Applied() bool {
	<-s.done
	return s.applied
}

// Wait blocks until the submission finishes or ctx is done.
func (s *Submission) Wait(ctx context.Context) (State, error) {
	select {
	case <-s.done:
		return s.state, nil
	case <-ctx.Done():
		return State{}, ctx.Err()
	}
}
