package workflow

import "taskctl/internal/service"

// Mode says whether the draft describes a new task or an edit of an existing one.
type Mode int

const (
	ModeCreate Mode = iota
	ModeUpdate
)

func (m Mode) String() string {
	if m == ModeUpdate {
		return "update"
	}
	return "create"
}

// Phase is the coarse position of the form in its lifecycle.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseEditing
	PhaseSubmitting
)

func (p Phase) String() string {
	switch p {
	case PhaseEditing:
		return "editing"
	case PhaseSubmitting:
		return "submitting"
	default:
		return "idle"
	}
}

// EditSession tracks whether the draft targets an existing task.
// Active implies TargetID was returned by the server.
type EditSession struct {
	Active   bool       `json:"active"`
	TargetID service.ID `json:"targetId,omitempty"`
}

// Mode returns ModeUpdate for an active session.
func (s EditSession) Mode() Mode {
	if s.Active {
		return ModeUpdate
	}
	return ModeCreate
}

// State is everything the form and list show: the local copy of the remote
// collection, the draft and the edit session.
type State struct {
	Tasks   []service.Task `json:"tasks"`
	Draft   service.Draft  `json:"draft"`
	Session EditSession    `json:"session"`
}

// Phase derives the lifecycle phase from the draft and session.
func (s State) Phase() Phase {
	if s.Session.Active || !s.Draft.IsEmpty() {
		return PhaseEditing
	}
	return PhaseIdle
}

// clone returns a copy that shares no memory with s.
func (s State) clone() State {
	c := s
	if s.Tasks != nil {
		c.Tasks = make([]service.Task, len(s.Tasks))
		copy(c.Tasks, s.Tasks)
	}
	return c
}

// resetForm returns the form to Idle, keeping the collection.
func (s *State) resetForm() {
	s.Draft = service.Draft{}
	s.Session = EditSession{}
}

func (s State) indexOf(id service.ID) int {
	for i, task := range s.Tasks {
		if task.ID == id {
			return i
		}
	}
	return -1
}

// removeAll drops every entry with id and reports how many were removed.
func (s *State) removeAll(id service.ID) int {
	kept := s.Tasks[:0:0]
	for _, task := range s.Tasks {
		if task.ID != id {
			kept = append(kept, task)
		}
	}
	removed := len(s.Tasks) - len(kept)
	s.Tasks = kept
	return removed
}
