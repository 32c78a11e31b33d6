package engine

import (
	"github.com/felixgeelhaar/statekit"
)

// State is a chart core lifecycle state.
type State string

const (
	StateCreated     State = "created"
	StateInitialized State = "initialized"
	StateRendered    State = "rendered"
	StateUpdated     State = "updated"
	StateDestroyed   State = "destroyed"
)

const (
	eventInit    statekit.EventType = "INIT"
	eventRender  statekit.EventType = "RENDER"
	eventUpdate  statekit.EventType = "UPDATE"
	eventDestroy statekit.EventType = "DESTROY"
)

// transitions mirrors the statechart below. The interpreter panics on events
// a state does not accept, so every event is checked here first.
var transitions = map[State]map[statekit.EventType]State{
	StateCreated: {
		eventInit:    StateInitialized,
		eventDestroy: StateDestroyed,
	},
	StateInitialized: {
		eventRender:  StateRendered,
		eventDestroy: StateDestroyed,
	},
	StateRendered: {
		eventUpdate:  StateUpdated,
		eventDestroy: StateDestroyed,
	},
	StateUpdated: {
		eventDestroy: StateDestroyed,
	},
}

type machineContext struct{}

func sid(s State) statekit.StateID { return statekit.StateID(s) }

// newChartMachine builds the lifecycle statechart shared by every chart core.
func newChartMachine() (*statekit.MachineConfig[machineContext], error) {
	return statekit.NewMachine[machineContext]("chart").
		WithInitial(sid(StateCreated)).
		WithContext(machineContext{}).
		State(sid(StateCreated)).
			On(eventInit).Target(sid(StateInitialized)).
			On(eventDestroy).Target(sid(StateDestroyed)).
			Done().
		State(sid(StateInitialized)).
			On(eventRender).Target(sid(StateRendered)).
			On(eventDestroy).Target(sid(StateDestroyed)).
			Done().
		State(sid(StateRendered)).
			On(eventUpdate).Target(sid(StateUpdated)).
			On(eventDestroy).Target(sid(StateDestroyed)).
			Done().
		State(sid(StateUpdated)).
			On(eventDestroy).Target(sid(StateDestroyed)).
			Done().
		State(sid(StateDestroyed)).
			Final().
			Done().
		Build()
}

// lifecycle wraps a statekit interpreter for one chart instance.
type lifecycle struct {
	interp *statekit.Interpreter[machineContext]
}

func newLifecycle() *lifecycle {
	machine, err := newChartMachine()
	if err != nil {
		// The statechart is static; a build failure is a programming error.
		panic("engine: invalid lifecycle statechart: " + err.Error())
	}
	interp := statekit.NewInterpreter(machine)
	interp.Start()
	return &lifecycle{interp: interp}
}

func (l *lifecycle) state() State {
	return State(l.interp.State().Value)
}

// send fires ev if the current state accepts it and reports whether the
// state changed. Re-entering the updated state is a no-op.
func (l *lifecycle) send(ev statekit.EventType) bool {
	next, ok := transitions[l.state()][ev]
	if !ok {
		return false
	}
	l.interp.Send(statekit.Event{Type: ev})
	return l.state() == next
}
