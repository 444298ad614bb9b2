package monitor

// SSHProbe checks whether the SSH-backed side of an agent is reachable.
// When the orchestrator is given no probe it uses one that reports every
// agent reachable; tests supply a stub.
type SSHProbe interface {
	Reachable(agent string) bool
}

// FuncProbe adapts a plain function to SSHProbe.
type FuncProbe func(agent string) bool

func (f FuncProbe) Reachable(agent string) bool { return f(agent) }
