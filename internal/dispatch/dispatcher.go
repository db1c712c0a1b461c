package dispatch

import "strings"

// Target identifies where a submitted command was routed.
type Target string

const (
	TargetRemote Target = "remote"
	TargetLocal  Target = "local"
)

// Sender is the live transport surface the dispatcher routes to.
type Sender interface {
	Connected() bool
	Send(command string) error
}

// Observers are fire-and-forget telemetry callbacks. They run on the
// dispatching goroutine and must never block the session; panics are
// swallowed at the call site.
type Observers struct {
	// OnCommand fires for every dispatched command, either path.
	OnCommand func(command string, target Target)
	// OnOutput fires for locally simulated output only; remote output
	// arrives through the transport handler.
	OnOutput func(output string, isError bool)
}

// Result reports how one submission was handled.
type Result struct {
	Target Target
	Sim    SimResult // populated for TargetLocal only
	Err    error     // remote send failure, never retried
}

// Dispatcher routes each submitted command line to either the live
// transport or the local simulator. Exactly one target per submission.
type Dispatcher struct {
	sender    Sender
	observers Observers
}

// NewDispatcher creates a dispatcher. The sender may be nil, in which
// case every command is simulated locally.
func NewDispatcher(sender Sender, observers Observers) *Dispatcher {
	return &Dispatcher{sender: sender, observers: observers}
}

// Dispatch handles one command line. Input that trims to empty is
// silently ignored (ok is false, nothing fires). When the transport is
// connected the command goes over the wire and output arrives
// asynchronously; otherwise the local simulator answers immediately.
func (d *Dispatcher) Dispatch(command string) (result Result, ok bool) {
	trimmed := strings.TrimSpace(command)
	if trimmed == "" {
		return Result{}, false
	}

	if d.sender != nil && d.sender.Connected() {
		err := d.sender.Send(trimmed)
		d.notifyCommand(trimmed, TargetRemote)
		return Result{Target: TargetRemote, Err: err}, true
	}

	sim := Simulate(trimmed)
	d.notifyCommand(trimmed, TargetLocal)
	if sim.Output != "" {
		d.notifyOutput(sim.Output, sim.IsError)
	}
	return Result{Target: TargetLocal, Sim: sim}, true
}

// notifyCommand invokes the OnCommand observer behind a panic guard
func (d *Dispatcher) notifyCommand(command string, target Target) {
	if d.observers.OnCommand == nil {
		return
	}
	defer func() { _ = recover() }()
	d.observers.OnCommand(command, target)
}

// notifyOutput invokes the OnOutput observer behind a panic guard
func (d *Dispatcher) notifyOutput(output string, isError bool) {
	if d.observers.OnOutput == nil {
		return
	}
	defer func() { _ = recover() }()
	d.observers.OnOutput(output, isError)
}
