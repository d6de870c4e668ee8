package configadapter

import (
	"time"

	"amfcore/internal/assignment"
	"amfcore/internal/model"
)

// clusterHandler handles the single cluster-wide singleton object (spec §3).
type clusterHandler struct{}

func (clusterHandler) Create(m *model.Model, dn, parentDN string, attrs RawObject) error {
	m.SetCluster(&model.Cluster{
		DN:           dn,
		StartTimeout: time.Duration(attrInt64(attrs, "saAmfClusterStartupTimeout", 60000)) * time.Millisecond,
		InitialViewTS: time.Time{},
	})
	return nil
}

func (clusterHandler) Modify(m *model.Model, dn string, attrs RawObject) error {
	c := m.Cluster()
	if c == nil {
		return model.NewFault(model.KindNotExist, dn, "cluster does not exist")
	}
	if v, ok := attrs["saAmfClusterStartupTimeout"]; ok && v != "" {
		c.StartTimeout = time.Duration(attrInt64(attrs, "saAmfClusterStartupTimeout", int64(c.StartTimeout/time.Millisecond))) * time.Millisecond
	}
	m.SetCluster(c)
	return nil
}

func (clusterHandler) Delete(m *model.Model, dn string) error {
	return model.NewFault(model.KindPrecondition, dn, "the cluster singleton cannot be deleted")
}

// nodeHandler handles AmfNode objects. Env resolves a couple of the Node
// tunables through the §6 SERVICE_PARAM environment fallback before falling
// back to a compiled-in default, the way the teacher's config loader layers
// env/file sources.
type nodeHandler struct {
	Env EnvFallback
}

func (h nodeHandler) Create(m *model.Model, dn, parentDN string, attrs RawObject) error {
	return m.CreateNode(&model.Node{
		DN:                             dn,
		CLMRef:                         attrString(attrs, "saAmfNodeClmNode", ""),
		OperState:                      model.OperDisabled,
		AdminState:                     parseAdminState(attrs, "saAmfNodeAdminState", model.AdminLocked),
		NodeState:                      model.NodeAbsent,
		SUFailoverProbation:            model.Millis(attrInt64(attrs, "saAmfNodeSuFailoverProb", 0)),
		SUFailoverMax:                  h.Env.Int(attrs, "saAmfNodeSuFailOverMax", "AMF_NODE_SU_FAIL_OVER_MAX", 0),
		AutoRepair:                     h.Env.Bool(attrs, "saAmfNodeAutoRepair", "AMF_NODE_AUTO_REPAIR", true),
		FailfastOnTerminationFailure:   attrBool(attrs, "saAmfNodeFailfastOnTermFailure", false),
		FailfastOnInstantiationFailure: attrBool(attrs, "saAmfNodeFailfastOnInstFailure", false),
	})
}

func (nodeHandler) Modify(m *model.Model, dn string, attrs RawObject) error {
	n, ok := m.GetNode(dn)
	if !ok {
		return model.NewFault(model.KindNotExist, dn, "node does not exist")
	}
	if v, ok := attrs["saAmfNodeSuFailOverMax"]; ok && v != "" {
		n.SUFailoverMax = attrInt(attrs, "saAmfNodeSuFailOverMax", n.SUFailoverMax)
	}
	if v, ok := attrs["saAmfNodeAutoRepair"]; ok && v != "" {
		n.AutoRepair = attrBool(attrs, "saAmfNodeAutoRepair", n.AutoRepair)
	}
	if _, ok := attrs["saAmfNodeAdminState"]; ok {
		return m.SetNodeAdminState(dn, parseAdminState(attrs, "saAmfNodeAdminState", n.AdminState))
	}
	return nil
}

func (nodeHandler) Delete(m *model.Model, dn string) error {
	return m.DeleteNode(dn)
}

// nodeGroupHandler handles AmfNodeGroup objects.
type nodeGroupHandler struct{}

func (nodeGroupHandler) Create(m *model.Model, dn, parentDN string, attrs RawObject) error {
	return m.CreateNodeGroup(&model.NodeGroup{
		DN:         dn,
		AdminState: parseAdminState(attrs, "saAmfNGAdminState", model.AdminUnlocked),
		NodeDNs:    attrList(attrs, "saAmfNGNodeList"),
	})
}

func (nodeGroupHandler) Modify(m *model.Model, dn string, attrs RawObject) error {
	if _, ok := attrs["saAmfNGAdminState"]; ok {
		g, ok := m.GetNodeGroup(dn)
		if !ok {
			return model.NewFault(model.KindNotExist, dn, "node group does not exist")
		}
		return m.SetNodeGroupAdminState(dn, parseAdminState(attrs, "saAmfNGAdminState", g.AdminState))
	}
	return nil
}

func (nodeGroupHandler) Delete(m *model.Model, dn string) error {
	return model.NewFault(model.KindPrecondition, dn, "node group deletion is not implemented by this core")
}

// sgHandler handles AmfSG objects. Assignment is the injected collaborator
// Modify drives a realign through after a preferred-count change, the same
// way nodeHandler holds an injected Env — neither is mutable handler state,
// both are fixed at Registry construction time.
type sgHandler struct {
	Assignment *assignment.Engine
}

func (sgHandler) Create(m *model.Model, dn, parentDN string, attrs RawObject) error {
	return m.CreateSG(&model.SG{
		DN:                        dn,
		RedundancyModel:           parseRedundancyModel(attrs, "saAmfSGRedundancyModel"),
		PreferredInServiceSUs:     attrInt(attrs, "saAmfSGNumPrefInserviceSUs", 0),
		PreferredAssignedSUs:      attrInt(attrs, "saAmfSGNumPrefAssignedSUs", 0),
		PreferredNumActiveSUs:     attrInt(attrs, "saAmfSGNumPrefActiveSUs", 1),
		PreferredNumStandbySUs:    attrInt(attrs, "saAmfSGNumPrefStandbySUs", 1),
		SURestartProbation:        model.Millis(attrInt64(attrs, "saAmfSGSuRestartProb", 0)),
		SURestartMax:              attrInt(attrs, "saAmfSGSuRestartMax", 0),
		ComponentRestartProbation: model.Millis(attrInt64(attrs, "saAmfSGCompRestartProb", 0)),
		ComponentRestartMax:       attrInt(attrs, "saAmfSGCompRestartMax", 0),
		AutoAdjust:                attrBool(attrs, "saAmfSGAutoAdjust", false),
		AutoRepair:                attrBool(attrs, "saAmfSGAutoRepair", true),
		AdminState:                parseAdminState(attrs, "saAmfSGAdminState", model.AdminUnlocked),
		FSMState:                  model.SGStable,
	})
}

func (h sgHandler) Modify(m *model.Model, dn string, attrs RawObject) error {
	g, ok := m.GetSG(dn)
	if !ok {
		return model.NewFault(model.KindNotExist, dn, "SG does not exist")
	}
	_, activeChanged := attrs["saAmfSGNumPrefActiveSUs"]
	_, standbyChanged := attrs["saAmfSGNumPrefStandbySUs"]
	if activeChanged || standbyChanged {
		active := attrInt(attrs, "saAmfSGNumPrefActiveSUs", g.PreferredNumActiveSUs)
		standby := attrInt(attrs, "saAmfSGNumPrefStandbySUs", g.PreferredNumStandbySUs)
		if err := m.SetSGPreferredCounts(dn, active, standby); err != nil {
			return err
		}
		if h.Assignment != nil {
			if err := h.Assignment.RealignSG(dn); err != nil {
				return err
			}
		}
	}
	g.AutoAdjust = attrBool(attrs, "saAmfSGAutoAdjust", g.AutoAdjust)
	g.AutoRepair = attrBool(attrs, "saAmfSGAutoRepair", g.AutoRepair)
	return nil
}

func (sgHandler) Delete(m *model.Model, dn string) error {
	return m.DeleteSG(dn)
}

// suHandler handles AmfSU objects.
type suHandler struct{}

func (suHandler) Create(m *model.Model, dn, parentDN string, attrs RawObject) error {
	return m.CreateSU(&model.SU{
		DN:              dn,
		ParentSGDN:      parentDN,
		ParentNodeDN:    attrString(attrs, "saAmfSUHostedByNode", ""),
		Rank:            attrInt(attrs, "saAmfSURank", 0),
		PreInstantiable: attrBool(attrs, "saAmfSUPreInstantiable", true),
		AdminState:      parseAdminState(attrs, "saAmfSUAdminState", model.AdminUnlocked),
		OperState:       model.OperDisabled,
		Presence:        model.PresenceUninstantiated,
		Readiness:       model.ReadinessOutOfService,
	})
}

func (suHandler) Modify(m *model.Model, dn string, attrs RawObject) error {
	if _, ok := attrs["saAmfSUAdminState"]; ok {
		su, ok := m.GetSU(dn)
		if !ok {
			return model.NewFault(model.KindNotExist, dn, "SU does not exist")
		}
		return m.SetSUAdminState(dn, parseAdminState(attrs, "saAmfSUAdminState", su.AdminState))
	}
	return nil
}

func (suHandler) Delete(m *model.Model, dn string) error {
	return m.DeleteSU(dn)
}

// componentTypeHandler handles AmfCompType objects.
type componentTypeHandler struct{}

func (componentTypeHandler) Create(m *model.Model, dn, parentDN string, attrs RawObject) error {
	return m.CreateComponentType(&model.ComponentType{
		DN:                      dn,
		DefaultInstantiate:      parseClcCommand(attrs, "saAmfCtDefaultClcCliInstantiate"),
		DefaultTerminate:        parseClcCommand(attrs, "saAmfCtDefaultClcCliTerminate"),
		DefaultCleanup:          parseClcCommand(attrs, "saAmfCtDefaultClcCliCleanup"),
		DefaultAmStart:          parseClcCommand(attrs, "saAmfCtDefaultClcCliAmStart"),
		DefaultAmStop:           parseClcCommand(attrs, "saAmfCtDefaultClcCliAmStop"),
		DefaultHealthcheck:      parseClcCommand(attrs, "saAmfCtDefaultClcCliHealthcheck"),
		DefaultCategory:         parseCategory(attrs, "saAmfCtCompCategory"),
		DefaultRecovery:         parseRecovery(attrs, "saAmfCtDefRecoveryOnError"),
		DefaultQuiescingTimeout: model.Millis(attrInt64(attrs, "saAmfCtDefQuiescingCompleteTimeout", 0)),
		DefaultDisableRestart:   attrBool(attrs, "saAmfCtDefDisableRestart", false),
	})
}

func (componentTypeHandler) Modify(m *model.Model, dn string, attrs RawObject) error {
	return model.NewFault(model.KindPrecondition, dn, "component type modify is not implemented by this core")
}

func (componentTypeHandler) Delete(m *model.Model, dn string) error {
	return m.DeleteComponentType(dn)
}

// componentHandler handles AmfComp objects.
type componentHandler struct{}

func (componentHandler) Create(m *model.Model, dn, parentDN string, attrs RawObject) error {
	ct, ok := m.GetComponentType(attrString(attrs, "saAmfCompType", ""))
	if !ok {
		return model.NewFault(model.KindNotExist, attrs["saAmfCompType"], "component type does not exist")
	}
	comp := model.NewComponentFromType(dn, parentDN, ct)
	if v, ok := attrs["saAmfCompCategory"]; ok && v != "" {
		comp.Category = parseCategory(attrs, "saAmfCompCategory")
		comp.InheritedMask &^= model.InheritCategory
	}
	comp.Capability = parseCapability(attrs, "saAmfCompCapability")
	return m.CreateComponent(comp)
}

func (componentHandler) Modify(m *model.Model, dn string, attrs RawObject) error {
	return model.NewFault(model.KindPrecondition, dn, "component modify is not implemented by this core")
}

func (componentHandler) Delete(m *model.Model, dn string) error {
	return m.DeleteComponent(dn)
}

// siHandler handles AmfSI objects.
type siHandler struct{}

func (siHandler) Create(m *model.Model, dn, parentDN string, attrs RawObject) error {
	return m.CreateSI(&model.SI{
		DN:                          dn,
		ParentSGDN:                  parentDN,
		ServiceType:                 attrString(attrs, "saAmfSvcType", ""),
		Rank:                        attrInt(attrs, "saAmfSIRank", 0),
		PreferredActiveAssignments:  attrInt(attrs, "saAmfSIPrefActiveAssignments", 1),
		PreferredStandbyAssignments: attrInt(attrs, "saAmfSIPrefStandbyAssignments", 1),
		AdminState:                  parseAdminState(attrs, "saAmfSIAdminState", model.AdminUnlocked),
		AssignmentState:             model.SIUnassigned,
		DependencyDNs:               attrList(attrs, "saAmfSIDependencies"),
		PreferredSUDNs:              attrList(attrs, "saAmfSIPrefSUList"),
	})
}

func (siHandler) Modify(m *model.Model, dn string, attrs RawObject) error {
	si, ok := m.GetSI(dn)
	if !ok {
		return model.NewFault(model.KindNotExist, dn, "SI does not exist")
	}
	si.PreferredActiveAssignments = attrInt(attrs, "saAmfSIPrefActiveAssignments", si.PreferredActiveAssignments)
	si.PreferredStandbyAssignments = attrInt(attrs, "saAmfSIPrefStandbyAssignments", si.PreferredStandbyAssignments)
	if v, ok := attrs["saAmfSIPrefSUList"]; ok && v != "" {
		si.PreferredSUDNs = attrList(attrs, "saAmfSIPrefSUList")
	}
	return nil
}

func (siHandler) Delete(m *model.Model, dn string) error {
	return m.DeleteSI(dn)
}

// csiHandler handles AmfCSI objects.
type csiHandler struct{}

func (csiHandler) Create(m *model.Model, dn, parentDN string, attrs RawObject) error {
	csi := model.NewCSI(dn, parentDN, attrString(attrs, "saAmfCSType", ""))
	csi.DependencyDNs = attrList(attrs, "saAmfCSIDependencies")
	csi.ListenerDNs = attrList(attrs, "saAmfCSIProtectionGroup")
	return m.CreateCSI(csi)
}

func (csiHandler) Modify(m *model.Model, dn string, attrs RawObject) error {
	return model.NewFault(model.KindPrecondition, dn, "CSI dependency modify is not implemented by this core; delete and recreate instead")
}

func (csiHandler) Delete(m *model.Model, dn string) error {
	return m.DeleteCSI(dn)
}
