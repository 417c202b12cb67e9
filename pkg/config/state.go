package config

import "fmt"

// State is the startup lifecycle of the runtime configuration.
type State int

const (
	StateLoading State = iota
	StateInvalid
	StateReady
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateInvalid:
		return "invalid"
	case StateReady:
		return "ready"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Loaded is the typed outcome of a load: Config is set only in StateReady
// and Err only in StateInvalid.
type Loaded struct {
	State  State
	Config *Config
	Err    error
}

func Pending() Loaded {
	return Loaded{State: StateLoading}
}

// Resolve turns the result of Manager.Load into a Loaded value.
func Resolve(cfg *Config, err error) Loaded {
	if err != nil {
		return Loaded{State: StateInvalid, Err: err}
	}
	if cfg == nil {
		return Loaded{State: StateInvalid, Err: fmt.Errorf("configuration is empty")}
	}
	return Loaded{State: StateReady, Config: cfg}
}

func (l Loaded) Ready() bool {
	return l.State == StateReady && l.Config != nil
}
