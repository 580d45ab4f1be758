// SPDX-License-Identifier: BSD-3-Clause

// Package pr implements an activity-style procedure engine: action nodes
// with a single action and a single outgoing flow, decision nodes resolved
// immediately via guards, and a single-sweep Execute that keeps advancing
// through action and decision nodes for as long as the outgoing guard stays
// true. It shares pkg/sm's topology/extension split and sticky ErrorCode
// error model.
//
// # Configuration
//
//	d := pr.NewPR(2, 1, 5, 3, 3)
//	d.AddActionNode(1, stepOne)
//	d.AddActionNode(2, stepTwo)
//	d.AddDecisionNode(1, 2)
//	d.AddInitialFlow(1, nil)
//	d.AddFlow(1, -1, nil)
//	d.AddFlow(-1, 2, doneGuard)
//	d.AddFlow(-1, pr.Final, notDoneGuard)
//	d.AddFlow(2, pr.Final, nil)
//	if err := d.Check(); err != nil {
//		log.Fatal(d.ErrorCode())
//	}
//	d.Run()
//
// # curNode encoding
//
// curNode is 0 when stopped, -1 when positioned at the virtual initial node,
// and +k when positioned at action node k. FlowCnt() (0 for a derived
// descriptor) is the procedure analogue of pkg/sm's TransCnt.
package pr
