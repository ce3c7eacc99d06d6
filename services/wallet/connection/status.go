package connection

import (
	"sync"
	"time"
)

type StateValue int

const (
	StateValueUnknown StateValue = iota
	StateValueConnected
	StateValueDisconnected
)

type State struct {
	Value         StateValue `json:"value"`
	LastCheckedAt int64      `json:"last_checked_at"`
	LastSuccessAt int64      `json:"last_success_at"`
}

type StateChangeCb func(State)

// Status tracks reachability of a remote service. The callback fires only
// when the connected/disconnected value flips.
type Status struct {
	stateChangeCb StateChangeCb
	state         State
	stateLock     sync.RWMutex
}

func NewStatus() *Status {
	return &Status{
		state: State{Value: StateValueUnknown},
	}
}

func (c *Status) SetStateChangeCb(stateChangeCb StateChangeCb) {
	c.stateLock.Lock()
	defer c.stateLock.Unlock()
	c.stateChangeCb = stateChangeCb
}

func (c *Status) GetState() State {
	c.stateLock.RLock()
	defer c.stateLock.RUnlock()
	return c.state
}

func (c *Status) IsConnected() bool {
	return c.GetState().Value == StateValueConnected
}

func (c *Status) SetIsConnected(value bool) {
	now := time.Now().Unix()

	c.stateLock.Lock()
	prev := c.state.Value
	c.state.LastCheckedAt = now
	if value {
		c.state.Value = StateValueConnected
		c.state.LastSuccessAt = now
	} else {
		c.state.Value = StateValueDisconnected
	}
	state := c.state
	cb := c.stateChangeCb
	c.stateLock.Unlock()

	if cb != nil && prev != state.Value {
		cb(state)
	}
}
