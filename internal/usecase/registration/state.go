package registration

import (
	"fmt"

	"registration-agent/internal/domain/entity"
)

// transitions lists the forward edges of the workflow. Failed is reachable
// from every non-terminal state and is not listed.
var transitions = map[entity.WorkflowState][]entity.WorkflowState{
	entity.StateInitialized:          {entity.StateSessionReady},
	entity.StateSessionReady:         {entity.StatePageLoaded},
	entity.StatePageLoaded:           {entity.StateSlotSelected},
	entity.StateSlotSelected:         {entity.StateFormFilled},
	entity.StateFormFilled:           {entity.StateAwaitingConfirmation, entity.StateConfirmed},
	entity.StateAwaitingConfirmation: {entity.StateConfirmed, entity.StateCancelled},
	entity.StateConfirmed:            {entity.StateSubmitted},
	entity.StateCancelled:            {entity.StateSucceeded},
	entity.StateSubmitted:            {entity.StateSucceeded},
}

func canTransition(from, to entity.WorkflowState) bool {
	if from.Terminal() {
		return false
	}
	if to == entity.StateFailed {
		return true
	}
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

type stateMachine struct {
	current entity.WorkflowState
	history []entity.WorkflowState
}

func newStateMachine() *stateMachine {
	return &stateMachine{
		current: entity.StateInitialized,
		history: []entity.WorkflowState{entity.StateInitialized},
	}
}

func (m *stateMachine) advance(to entity.WorkflowState) error {
	if !canTransition(m.current, to) {
		return fmt.Errorf("illegal transition %s -> %s", m.current, to)
	}
	m.current = to
	m.history = append(m.history, to)
	return nil
}
