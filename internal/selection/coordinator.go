// Package selection owns the process-wide "which country is selected"
// state and keeps the spatial and list views in agreement about it.
package selection

import "sync"

// View is a presentation surface that can mark one country active.
// Marking an id implies unmarking every other id on that surface.
type View interface {
	MarkActive(id string)
	ClearActive()
}

// Coordinator is the single writer of the selection state. Views and
// actions read through it; nothing else may mutate the selection.
type Coordinator struct {
	mu     sync.Mutex
	active string
	views  []View
}

// New creates a Coordinator over the given views.
func New(views ...View) *Coordinator {
	return &Coordinator{views: views}
}

// Select makes id the selected country and marks it active in every
// view, replacing any previous selection.
func (c *Coordinator) Select(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.active = id
	for _, v := range c.views {
		v.MarkActive(id)
	}
}

// Clear removes the selection and the distinguishing marks everywhere.
func (c *Coordinator) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.active = ""
	for _, v := range c.views {
		v.ClearActive()
	}
}

// Active returns the selected country id, or "" when none.
func (c *Coordinator) Active() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}
