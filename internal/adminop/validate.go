package adminop

import "amfcore/internal/model"

type entityKind int

const (
	kindUnknown entityKind = iota
	kindNode
	kindNodeGroup
	kindSG
	kindSU
	kindSI
	kindComponent
)

// resolveKind finds which entity map targetDN belongs to. DNs are opaque
// strings to this package; the acceptance matrix needs to know the kind to
// enforce which operations apply to which object type (spec §4.4 "target-
// state acceptance matrix").
func (e *Engine) resolveKind(dn string) entityKind {
	if _, ok := e.m.GetNode(dn); ok {
		return kindNode
	}
	if _, ok := e.m.GetNodeGroup(dn); ok {
		return kindNodeGroup
	}
	if _, ok := e.m.GetSG(dn); ok {
		return kindSG
	}
	if _, ok := e.m.GetSU(dn); ok {
		return kindSU
	}
	if _, ok := e.m.GetSI(dn); ok {
		return kindSI
	}
	if _, ok := e.m.GetComponent(dn); ok {
		return kindComponent
	}
	return kindUnknown
}

// validate enforces the target-state acceptance matrix: which admin
// operation is legal against which entity kind (spec §4.4).
func (e *Engine) validate(dn string, op model.AdminOperation) error {
	kind := e.resolveKind(dn)
	if kind == kindUnknown {
		return model.NewFault(model.KindNotExist, dn, "target entity does not exist")
	}
	switch op {
	case model.OpUnlock, model.OpLock, model.OpShutdown:
		switch kind {
		case kindNode, kindNodeGroup, kindSG, kindSU, kindSI:
			return nil
		default:
			return model.NewFault(model.KindValidation, dn, "%s is not valid on this entity kind", op)
		}
	case model.OpLockInstantiation, model.OpUnlockInstantiation:
		if kind != kindNode && kind != kindSU {
			return model.NewFault(model.KindValidation, dn, "%s is only valid on Node or SU", op)
		}
		return nil
	case model.OpRestart:
		if kind != kindComponent {
			return model.NewFault(model.KindValidation, dn, "RESTART is only valid on Component")
		}
		return nil
	case model.OpSISwap:
		if kind != kindSI {
			return model.NewFault(model.KindValidation, dn, "SI-SWAP is only valid on SI")
		}
		return nil
	case model.OpEAMStart, model.OpEAMStop, model.OpChangeFilter:
		return nil // rejected uniformly in Execute regardless of kind
	default:
		return model.NewFault(model.KindValidation, dn, "unknown admin operation")
	}
}
