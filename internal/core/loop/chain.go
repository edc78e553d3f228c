package loop

import "time"

// Update is a single callback attached to a phase chain.
// Identity is the pointer: two Updates wrapping the same func are distinct.
type Update struct {
	Name string
	Fn   func(dt time.Duration)
}

func NewUpdate(name string, fn func(dt time.Duration)) *Update {
	return &Update{Name: name, Fn: fn}
}

// Chain is an ordered multicast list of updates. Duplicates are kept.
type Chain struct {
	entries []*Update
}

// NewChain builds a chain holding the given updates in order.
func NewChain(updates ...*Update) Chain {
	var c Chain
	for _, u := range updates {
		c.Append(u)
	}
	return c
}

// Append adds u to the end of the chain, even if it is already present.
// A nil update is ignored.
func (c *Chain) Append(u *Update) {
	if u == nil {
		return
	}
	c.entries = append(c.entries, u)
}

// Remove drops the first occurrence of u and reports whether one was found.
func (c *Chain) Remove(u *Update) bool {
	for i, e := range c.entries {
		if e == u {
			c.entries = append(c.entries[:i:i], c.entries[i+1:]...)
			return true
		}
	}
	return false
}

// Count returns how many times u appears in the chain.
func (c Chain) Count(u *Update) int {
	n := 0
	for _, e := range c.entries {
		if e == u {
			n++
		}
	}
	return n
}

func (c Chain) Len() int { return len(c.entries) }

// Entries returns a copy of the chain in invocation order.
func (c Chain) Entries() []*Update {
	out := make([]*Update, len(c.entries))
	copy(out, c.entries)
	return out
}

// Invoke calls every update in registration order.
func (c Chain) Invoke(dt time.Duration) {
	for _, u := range c.entries {
		if u.Fn != nil {
			u.Fn(dt)
		}
	}
}

func (c Chain) clone() Chain {
	if len(c.entries) == 0 {
		return Chain{}
	}
	return Chain{entries: c.Entries()}
}
