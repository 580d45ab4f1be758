// SPDX-License-Identifier: BSD-3-Clause

package pr

// Action runs when an action node is entered.
type Action func(d *Descriptor)

// Guard is consulted before taking a control flow. Table slot 0 is always
// the dummy guard and always evaluates true.
type Guard func(d *Descriptor) bool

// Final is the destination value meaning the procedure's terminal node.
const Final = 0

func dummyAction(*Descriptor) {}

func dummyGuard(*Descriptor) bool { return true }

// actionNode is the topology-owned description of an action node: its single
// action-table slot and the index of its single outgoing flow.
type actionNode struct {
	filled    bool
	actionIdx int
	outFlow   int
}

// decisionNode is the topology-owned description of a decision node: a
// reserved range in the shared flow array, like a choice state in pkg/sm.
type decisionNode struct {
	filled         bool
	outIdx, outCnt int
}

// flowRec is one entry of the shared control-flow array. guard is -1 until
// AddInitialFlow/AddFlow fills the reserved slot.
type flowRec struct {
	filled bool
	dest   int
	guard  int
}

// topology is the base, derivation-shared part of a descriptor: the node and
// flow arrays plus the bookkeeping used while a fresh descriptor is being
// configured. It never changes once Check succeeds, so sharing a *topology
// pointer across derived descriptors is safe without further synchronization.
type topology struct {
	nActionNodes   int
	nDecisionNodes int
	actionNodes    []actionNode
	decisionNodes  []decisionNode
	flows          []flowRec

	actionFill   []int
	decisionFill []int

	nActions int
	nGuards  int

	initialSet bool
	checked    bool
}

func newTopology(nActionNodes, nDecisionNodes, nFlows, nActions, nGuards int) (*topology, error) {
	if nActionNodes < 1 || nDecisionNodes < 0 || nFlows < 2 || nActions < 1 || nGuards < 1 {
		return nil, ErrInvalidConfig
	}
	t := &topology{
		nActionNodes:   nActionNodes,
		nDecisionNodes: nDecisionNodes,
		actionNodes:    make([]actionNode, nActionNodes),
		decisionNodes:  make([]decisionNode, nDecisionNodes),
		flows:          make([]flowRec, nFlows),
		actionFill:     make([]int, nActionNodes),
		decisionFill:   make([]int, nDecisionNodes),
		nActions:       nActions,
		nGuards:        nGuards,
	}
	for i := range t.flows {
		t.flows[i].guard = -1
	}
	return t, nil
}
