package configadapter

import (
	"sort"

	"amfcore/internal/model"
)

// OpKind identifies one CCB operation's kind.
type OpKind int

const (
	OpCreate OpKind = iota
	OpModify
	OpDelete
)

// Operation is one pending object change within a CCB.
type Operation struct {
	Kind     OpKind
	Class    ObjectClass
	DN       string
	ParentDN string // only meaningful for OpCreate
	Attrs    RawObject
}

// CCB batches a set of object creates/modifies/deletes applied together,
// mirroring the IMM Configuration Change Bundle protocol the spec calls out
// by name (§4.2): validate checks the batch is well-formed, apply commits it
// in containment order (creates top-down, modifies in submission order,
// deletes bottom-up). Handler bodies are stateless (spec §4.2 note); the CCB
// itself only sequences calls into them.
//
// This implementation's validate phase is a best-effort static check, not a
// full dry-run against a cloned Model: referential validation (parent
// exists, no dependency cycle, DN uniqueness) happens for real inside each
// Handler.Create/Modify/Delete call during Apply, and a mid-batch failure
// there is NOT rolled back. A production IMM server gives the whole bundle
// atomicity; this core trades that for simplicity, on the grounds that a
// single cooperative event-loop (spec §5) means no concurrent writer can
// observe the partial state before the Config Adapter decides what to do
// about the failure (documented in DESIGN.md).
type CCB struct {
	id       string
	registry map[ObjectClass]Handler
	ops      []Operation
}

// New builds an empty CCB against registry (use Registry() for the default
// table, or a test double with fewer classes registered).
func New(id string, registry map[ObjectClass]Handler) *CCB {
	return &CCB{id: id, registry: registry}
}

func (c *CCB) ID() string { return c.id }

func (c *CCB) AddCreate(class ObjectClass, dn, parentDN string, attrs RawObject) {
	c.ops = append(c.ops, Operation{Kind: OpCreate, Class: class, DN: dn, ParentDN: parentDN, Attrs: attrs})
}

func (c *CCB) AddModify(class ObjectClass, dn string, attrs RawObject) {
	c.ops = append(c.ops, Operation{Kind: OpModify, Class: class, DN: dn, Attrs: attrs})
}

func (c *CCB) AddDelete(class ObjectClass, dn string) {
	c.ops = append(c.ops, Operation{Kind: OpDelete, Class: class, DN: dn})
}

// Validate is the CCB's validate phase: every operation names a class this
// CCB's registry knows about, every operation carries a non-empty DN, and
// creates at depth 2 and below (SU, SI, Component, CSI) carry a ParentDN;
// Node, NodeGroup and SG are top-level objects.
func (c *CCB) Validate() error {
	for _, op := range c.ops {
		if _, ok := c.registry[op.Class]; !ok {
			return model.NewFault(model.KindValidation, string(op.Class), "unknown class")
		}
		if op.DN == "" {
			return model.NewFault(model.KindValidation, string(op.Class), "operation carries no DN")
		}
		if op.Kind == OpCreate && classDepth[op.Class] > 1 && op.ParentDN == "" {
			return model.NewFault(model.KindValidation, op.DN, "create for %s requires a parent DN", op.Class)
		}
	}
	return nil
}

// Apply is the CCB's complete-then-apply phase: Validate is re-run, then
// creates are applied top-down by containment depth, modifies in submission
// order, and deletes bottom-up by containment depth (spec §4.2).
func (c *CCB) Apply(m *model.Model) error {
	if err := c.Validate(); err != nil {
		return err
	}

	var creates, modifies, deletes []Operation
	for _, op := range c.ops {
		switch op.Kind {
		case OpCreate:
			creates = append(creates, op)
		case OpModify:
			modifies = append(modifies, op)
		case OpDelete:
			deletes = append(deletes, op)
		}
	}

	sort.SliceStable(creates, func(i, j int) bool {
		return classDepth[creates[i].Class] < classDepth[creates[j].Class]
	})
	sort.SliceStable(deletes, func(i, j int) bool {
		return classDepth[deletes[i].Class] > classDepth[deletes[j].Class]
	})

	for _, op := range creates {
		if err := c.registry[op.Class].Create(m, op.DN, op.ParentDN, op.Attrs); err != nil {
			return err
		}
	}
	for _, op := range modifies {
		if err := c.registry[op.Class].Modify(m, op.DN, op.Attrs); err != nil {
			return err
		}
	}
	for _, op := range deletes {
		if err := c.registry[op.Class].Delete(m, op.DN); err != nil {
			return err
		}
	}
	return nil
}
