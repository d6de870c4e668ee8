// Package configadapter implements the Config Adapter (spec §4.2): initial
// configuration load in containment order, a three-phase CCB (validate,
// complete, apply) that creates top-down and deletes bottom-up, runtime-
// attribute callbacks, and a SERVICE_PARAM-shaped environment-variable
// fallback for attributes a configuration object leaves unset.
package configadapter

// RawObject is one configuration object's attributes by name, the shape both
// the CCB caller and internal/xmlimport hand in — text values only, the way
// an IMM-style configuration store presents them; Handler implementations
// are responsible for parsing.
type RawObject map[string]string

// ObjectClass names one of the entity kinds the Config Adapter accepts
// objects for (spec §3 classes).
type ObjectClass string

const (
	ClassCluster       ObjectClass = "AmfCluster"
	ClassNode          ObjectClass = "AmfNode"
	ClassNodeGroup     ObjectClass = "AmfNodeGroup"
	ClassSG            ObjectClass = "AmfSG"
	ClassSU            ObjectClass = "AmfSU"
	ClassComponentType ObjectClass = "AmfCompType"
	ClassComponent     ObjectClass = "AmfComp"
	ClassSI            ObjectClass = "AmfSI"
	ClassCSI           ObjectClass = "AmfCSI"
)

// classDepth orders classes by containment depth so CCB.Apply can create
// top-down and delete bottom-up (spec §4.2). ComponentType sits alongside
// Cluster at depth 0: both are parentless catalog objects.
var classDepth = map[ObjectClass]int{
	ClassCluster:       0,
	ClassComponentType: 0,
	ClassNode:          1,
	ClassNodeGroup:     1,
	ClassSG:            1,
	ClassSU:            2,
	ClassSI:            2,
	ClassComponent:     3,
	ClassCSI:           3,
}
