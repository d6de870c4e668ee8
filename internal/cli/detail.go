package cli

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"amfcore/internal/model"
)

// Kind names the entity classes the get/list commands operate on, matching
// the spec §3 class names.
type Kind string

const (
	KindNode      Kind = "node"
	KindNodeGroup Kind = "nodegroup"
	KindSG        Kind = "sg"
	KindSU        Kind = "su"
	KindComponent Kind = "component"
	KindSI        Kind = "si"
	KindCSI       Kind = "csi"
)

// ParseKind maps a --type flag value onto a Kind, accepting common synonyms.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "node", "nodes":
		return KindNode, nil
	case "nodegroup", "nodegroups", "node-group":
		return KindNodeGroup, nil
	case "sg", "sgs":
		return KindSG, nil
	case "su", "sus":
		return KindSU, nil
	case "component", "components", "comp":
		return KindComponent, nil
	case "si", "sis":
		return KindSI, nil
	case "csi", "csis":
		return KindCSI, nil
	default:
		return "", fmt.Errorf("unknown entity type %q", s)
	}
}

// RenderList dispatches to the per-kind table/yaml renderer in render.go.
func RenderList(snap model.Snapshot, kind Kind, format OutputFormat) error {
	switch kind {
	case KindNode:
		return RenderNodes(snap, format)
	case KindSG:
		return RenderSGs(snap, format)
	case KindSU:
		return RenderSUs(snap, format)
	case KindSI:
		return RenderSIs(snap, format)
	case KindComponent:
		return RenderComponents(snap, format)
	default:
		return fmt.Errorf("list is not supported for type %q", kind)
	}
}

// RenderDetail prints every field of a single named object as a key/value
// table (or as YAML), the way `kubectl get <kind> <name> -o yaml` reports a
// single object rather than a summary row (mirrors the teacher's
// table_formatter.go detail views, e.g. formatWorkflowExecutionStatus).
func RenderDetail(snap model.Snapshot, kind Kind, dn string, format OutputFormat) error {
	fields, err := detailFields(snap, kind, dn)
	if err != nil {
		return err
	}
	if format == OutputFormatYAML {
		return renderYAML(fields)
	}
	t := newTable()
	t.AppendHeader(header("FIELD", "VALUE"))
	for _, f := range fields {
		t.AppendRow(table.Row{f[0], f[1]})
	}
	t.Render()
	return nil
}

func detailFields(snap model.Snapshot, kind Kind, dn string) ([][2]string, error) {
	switch kind {
	case KindNode:
		n, ok := snap.Nodes[dn]
		if !ok {
			return nil, model.NewFault(model.KindNotExist, dn, "no such node")
		}
		return [][2]string{
			{"dn", n.DN}, {"adminState", n.AdminState.String()}, {"operState", n.OperState.String()},
			{"nodeState", n.NodeState.String()}, {"autoRepair", fmt.Sprint(n.AutoRepair)},
			{"middlewareSUs", strings.Join(n.MiddlewareSUDNs, ", ")}, {"applicationSUs", strings.Join(n.ApplicationSUDNs, ", ")},
			{"nodeGroups", strings.Join(n.NodeGroupDNs, ", ")},
		}, nil
	case KindSG:
		g, ok := snap.SGs[dn]
		if !ok {
			return nil, model.NewFault(model.KindNotExist, dn, "no such service group")
		}
		return [][2]string{
			{"dn", g.DN}, {"redundancyModel", g.RedundancyModel.String()}, {"adminState", g.AdminState.String()},
			{"fsmState", g.FSMState.String()}, {"autoAdjust", fmt.Sprint(g.AutoAdjust)}, {"autoRepair", fmt.Sprint(g.AutoRepair)},
			{"sus", strings.Join(g.SUDNs, ", ")}, {"sis", strings.Join(g.SIDNs, ", ")},
		}, nil
	case KindSU:
		s, ok := snap.SUs[dn]
		if !ok {
			return nil, model.NewFault(model.KindNotExist, dn, "no such service unit")
		}
		return [][2]string{
			{"dn", s.DN}, {"parentSG", s.ParentSGDN}, {"parentNode", s.ParentNodeDN},
			{"adminState", s.AdminState.String()}, {"operState", s.OperState.String()},
			{"presence", s.Presence.String()}, {"readiness", s.Readiness.String()},
			{"restartCount", fmt.Sprint(s.RestartCount)}, {"components", strings.Join(s.ComponentDNs, ", ")},
		}, nil
	case KindSI:
		si, ok := snap.SIs[dn]
		if !ok {
			return nil, model.NewFault(model.KindNotExist, dn, "no such service instance")
		}
		return [][2]string{
			{"dn", si.DN}, {"parentSG", si.ParentSGDN}, {"adminState", si.AdminState.String()},
			{"assignmentState", si.AssignmentState.String()}, {"currentActive", fmt.Sprint(si.CurrentActiveAssignments)},
			{"currentStandby", fmt.Sprint(si.CurrentStandbyAssignments)}, {"dependencies", strings.Join(si.DependencyDNs, ", ")},
			{"csis", strings.Join(si.CSIDNs, ", ")},
		}, nil
	case KindComponent:
		c, ok := snap.Components[dn]
		if !ok {
			return nil, model.NewFault(model.KindNotExist, dn, "no such component")
		}
		return [][2]string{
			{"dn", c.DN}, {"parentSU", c.ParentSUDN}, {"presenceState", c.PresenceState.String()},
			{"operState", c.OperState.String()}, {"readiness", c.Readiness.String()},
			{"restartCount", fmt.Sprint(c.RestartCount)}, {"defaultRecovery", c.DefaultRecovery.String()},
			{"assignedCSIs", strings.Join(c.AssignedCSIDNs, ", ")},
		}, nil
	case KindCSI:
		csi, ok := snap.CSIs[dn]
		if !ok {
			return nil, model.NewFault(model.KindNotExist, dn, "no such component service instance")
		}
		return [][2]string{
			{"dn", csi.DN}, {"dependencies", strings.Join(csi.DependencyDNs, ", ")},
			{"listeners", strings.Join(csi.ListenerDNs, ", ")},
		}, nil
	default:
		return nil, fmt.Errorf("unknown entity type %q", kind)
	}
}
