package configadapter

import "amfcore/internal/model"

// Object is one configuration object as read from the initial load source
// (a config file, the XML importer, or any future backing store).
type Object struct {
	Class    ObjectClass
	DN       string
	ParentDN string
	Attrs    RawObject
}

// LoadInitial applies objs to m in the class order spec §4.2 requires for
// initial load: Cluster and ComponentType first (parentless catalog
// objects), then Node/NodeGroup/SG, then SU/SI, then Component/CSI. Within a
// class, objects are applied in the order given, matching the behavior of a
// single CCB whose creates are sorted by depth (see CCB.Apply) collapsed
// into one straight-line pass since initial load never modifies or deletes.
func LoadInitial(m *model.Model, registry map[ObjectClass]Handler, objs []Object) error {
	ccb := New("initial-load", registry)
	for _, o := range objs {
		ccb.AddCreate(o.Class, o.DN, o.ParentDN, o.Attrs)
	}
	return ccb.Apply(m)
}
