// SPDX-License-Identifier: BSD-3-Clause

package sm

// Start takes the initial transition if the descriptor is stopped. It is
// idempotent: calling Start on an already-started descriptor is a no-op.
func (d *Descriptor) Start() error {
	if d.IsStarted() {
		return nil
	}
	d.smExecCnt = 0
	d.stateExecCnt = 0
	it := d.topo.transitions[0]
	d.runAction(it.action)

	dest, ok := d.resolve(it.dest)
	if !ok {
		return ErrCheckFailed
	}
	d.enter(dest)
	return nil
}

// Stop runs the current state's exit chain (embedded SM first, bottom-up)
// and returns the descriptor to Stopped.
func (d *Descriptor) Stop() error {
	if !d.IsStarted() {
		return nil
	}
	d.exit(d.currentState)
	d.currentState = 0
	return nil
}

// Execute scans the current state's outgoing transitions, in declaration
// order, for the first whose trigger matches t and whose guard is true. If
// one is found, the engine leaves the current state (stopping and exiting
// any embedded SM), runs the transition's action, and enters the
// destination. Otherwise it runs the current state's do action followed by
// its embedded SM's Execute, if any.
func (d *Descriptor) Execute(t Trigger) error {
	if !d.IsStarted() {
		return ErrNotStarted
	}
	d.smExecCnt++

	st := d.topo.states[d.currentState-1]
	for i := 0; i < st.outCnt; i++ {
		tr := d.topo.transitions[st.outIdx+i]
		if tr.trigger == t && d.guardTrue(tr.guard) {
			d.exit(d.currentState)
			d.runAction(tr.action)
			dest, ok := d.resolve(tr.dest)
			if !ok {
				return ErrCheckFailed
			}
			d.enter(dest)
			return nil
		}
	}

	d.runAction(st.doAction)
	d.stateExecCnt++
	if emb := d.embedded[d.currentState-1]; emb != nil && emb.IsStarted() {
		_ = emb.Execute(t)
	}
	return nil
}

// enter makes proper state k current (or leaves the descriptor stopped if
// dest resolved to the Final Pseudo-State): host entry action, then the host
// enters the state, then the embedded SM starts, then the host's do action
// runs for the first time.
func (d *Descriptor) enter(k int) {
	if k == FPS {
		d.currentState = 0
		return
	}
	d.currentState = k
	d.stateExecCnt = 0
	st := d.topo.states[k-1]
	d.runAction(st.entryAction)
	if emb := d.embedded[k-1]; emb != nil {
		_ = emb.Start()
	}
	d.runAction(st.doAction)
}

// exit stops the embedded SM rooted in k (if any, recursively running its own
// exit chain) before running k's own exit action.
func (d *Descriptor) exit(k int) {
	if k == FPS {
		return
	}
	if emb := d.embedded[k-1]; emb != nil && emb.IsStarted() {
		_ = emb.Stop()
	}
	st := d.topo.states[k-1]
	d.runAction(st.exitAct)
}

// resolve follows a transition's raw destination through any chain of choice
// pseudo-states, taking the first true-guarded outgoing transition at each
// choice in declaration order and running its action. A cycle through the
// same choice twice, or a choice with no true guard, sets ErrTransErr and
// leaves the descriptor in its previous state (ok=false; caller must not
// change currentState).
func (d *Descriptor) resolve(dest int) (int, bool) {
	visited := make(map[int]bool)
	for dest < 0 {
		id := -dest
		if visited[id] {
			d.errCode = ErrTransErr
			return 0, false
		}
		visited[id] = true
		c := d.topo.choices[id-1]
		found := false
		for i := 0; i < c.outCnt && !found; i++ {
			tr := d.topo.transitions[c.outIdx+i]
			if d.guardTrue(tr.guard) {
				d.runAction(tr.action)
				dest = tr.dest
				found = true
			}
		}
		if !found {
			d.errCode = ErrTransErr
			return 0, false
		}
	}
	return dest, true
}

func (d *Descriptor) runAction(idx int) {
	if fn := d.actions[idx]; fn != nil {
		fn(d)
	}
}

func (d *Descriptor) guardTrue(idx int) bool {
	if idx < 0 {
		return false
	}
	if fn := d.guards[idx]; fn != nil {
		return fn(d)
	}
	return true
}
