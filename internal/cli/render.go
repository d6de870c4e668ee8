package cli

import (
	"fmt"
	"os"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"gopkg.in/yaml.v3"

	"amfcore/internal/model"
)

func header(cols ...string) table.Row {
	row := make(table.Row, len(cols))
	for i, c := range cols {
		row[i] = text.Colors{text.FgHiBlue, text.Bold}.Sprint(c)
	}
	return row
}

func newTable() table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleRounded)
	return t
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func renderYAML(v interface{}) error {
	out, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("format as yaml: %w", err)
	}
	fmt.Print(string(out))
	return nil
}

// NodeRow is the YAML-friendly projection of a model.Node.
type NodeRow struct {
	DN         string `yaml:"dn"`
	AdminState string `yaml:"adminState"`
	OperState  string `yaml:"operState"`
	NodeState  string `yaml:"nodeState"`
	SUs        int    `yaml:"suCount"`
}

// RenderNodes lists every Node in snap in DN order.
func RenderNodes(snap model.Snapshot, format OutputFormat) error {
	keys := sortedKeys(snap.Nodes)
	if format == OutputFormatYAML {
		rows := make([]NodeRow, 0, len(keys))
		for _, dn := range keys {
			n := snap.Nodes[dn]
			rows = append(rows, NodeRow{DN: n.DN, AdminState: n.AdminState.String(), OperState: n.OperState.String(), NodeState: n.NodeState.String(), SUs: len(n.AllSUDNs())})
		}
		return renderYAML(rows)
	}
	t := newTable()
	t.AppendHeader(header("DN", "ADMIN", "OPER", "NODE-STATE", "SUS"))
	for _, dn := range keys {
		n := snap.Nodes[dn]
		t.AppendRow(table.Row{n.DN, n.AdminState, n.OperState, n.NodeState, len(n.AllSUDNs())})
	}
	t.Render()
	return nil
}

// SGRow is the YAML-friendly projection of a model.SG.
type SGRow struct {
	DN              string `yaml:"dn"`
	RedundancyModel string `yaml:"redundancyModel"`
	AdminState      string `yaml:"adminState"`
	FSMState        string `yaml:"fsmState"`
	SUs             int    `yaml:"suCount"`
	SIs             int    `yaml:"siCount"`
}

// RenderSGs lists every SG in snap in DN order.
func RenderSGs(snap model.Snapshot, format OutputFormat) error {
	keys := sortedKeys(snap.SGs)
	if format == OutputFormatYAML {
		rows := make([]SGRow, 0, len(keys))
		for _, dn := range keys {
			g := snap.SGs[dn]
			rows = append(rows, SGRow{DN: g.DN, RedundancyModel: g.RedundancyModel.String(), AdminState: g.AdminState.String(), FSMState: g.FSMState.String(), SUs: len(g.SUDNs), SIs: len(g.SIDNs)})
		}
		return renderYAML(rows)
	}
	t := newTable()
	t.AppendHeader(header("DN", "REDUNDANCY", "ADMIN", "FSM-STATE", "SUS", "SIS"))
	for _, dn := range keys {
		g := snap.SGs[dn]
		t.AppendRow(table.Row{g.DN, g.RedundancyModel, g.AdminState, g.FSMState, len(g.SUDNs), len(g.SIDNs)})
	}
	t.Render()
	return nil
}

// SURow is the YAML-friendly projection of a model.SU.
type SURow struct {
	DN         string `yaml:"dn"`
	ParentSG   string `yaml:"parentSG"`
	ParentNode string `yaml:"parentNode"`
	AdminState string `yaml:"adminState"`
	OperState  string `yaml:"operState"`
	Presence   string `yaml:"presence"`
	Readiness  string `yaml:"readiness"`
}

// RenderSUs lists every SU in snap in DN order.
func RenderSUs(snap model.Snapshot, format OutputFormat) error {
	keys := sortedKeys(snap.SUs)
	if format == OutputFormatYAML {
		rows := make([]SURow, 0, len(keys))
		for _, dn := range keys {
			s := snap.SUs[dn]
			rows = append(rows, SURow{DN: s.DN, ParentSG: s.ParentSGDN, ParentNode: s.ParentNodeDN, AdminState: s.AdminState.String(), OperState: s.OperState.String(), Presence: s.Presence.String(), Readiness: s.Readiness.String()})
		}
		return renderYAML(rows)
	}
	t := newTable()
	t.AppendHeader(header("DN", "SG", "NODE", "ADMIN", "OPER", "PRESENCE", "READINESS"))
	for _, dn := range keys {
		s := snap.SUs[dn]
		t.AppendRow(table.Row{s.DN, s.ParentSGDN, s.ParentNodeDN, s.AdminState, s.OperState, s.Presence, s.Readiness})
	}
	t.Render()
	return nil
}

// SIRow is the YAML-friendly projection of a model.SI.
type SIRow struct {
	DN              string `yaml:"dn"`
	ParentSG        string `yaml:"parentSG"`
	AdminState      string `yaml:"adminState"`
	AssignmentState string `yaml:"assignmentState"`
	Active          int    `yaml:"currentActive"`
	Standby         int    `yaml:"currentStandby"`
}

// RenderSIs lists every SI in snap in DN order.
func RenderSIs(snap model.Snapshot, format OutputFormat) error {
	keys := sortedKeys(snap.SIs)
	if format == OutputFormatYAML {
		rows := make([]SIRow, 0, len(keys))
		for _, dn := range keys {
			si := snap.SIs[dn]
			rows = append(rows, SIRow{DN: si.DN, ParentSG: si.ParentSGDN, AdminState: si.AdminState.String(), AssignmentState: si.AssignmentState.String(), Active: si.CurrentActiveAssignments, Standby: si.CurrentStandbyAssignments})
		}
		return renderYAML(rows)
	}
	t := newTable()
	t.AppendHeader(header("DN", "SG", "ADMIN", "ASSIGNMENT-STATE", "ACTIVE", "STANDBY"))
	for _, dn := range keys {
		si := snap.SIs[dn]
		t.AppendRow(table.Row{si.DN, si.ParentSGDN, si.AdminState, si.AssignmentState, si.CurrentActiveAssignments, si.CurrentStandbyAssignments})
	}
	t.Render()
	return nil
}

// ComponentRow is the YAML-friendly projection of a model.Component.
type ComponentRow struct {
	DN        string `yaml:"dn"`
	ParentSU  string `yaml:"parentSU"`
	Presence  string `yaml:"presenceState"`
	OperState string `yaml:"operState"`
	Readiness string `yaml:"readiness"`
	Restarts  int    `yaml:"restartCount"`
}

// RenderComponents lists every Component in snap in DN order.
func RenderComponents(snap model.Snapshot, format OutputFormat) error {
	keys := sortedKeys(snap.Components)
	if format == OutputFormatYAML {
		rows := make([]ComponentRow, 0, len(keys))
		for _, dn := range keys {
			c := snap.Components[dn]
			rows = append(rows, ComponentRow{DN: c.DN, ParentSU: c.ParentSUDN, Presence: c.PresenceState.String(), OperState: c.OperState.String(), Readiness: c.Readiness.String(), Restarts: c.RestartCount})
		}
		return renderYAML(rows)
	}
	t := newTable()
	t.AppendHeader(header("DN", "SU", "PRESENCE", "OPER", "READINESS", "RESTARTS"))
	for _, dn := range keys {
		c := snap.Components[dn]
		t.AppendRow(table.Row{c.DN, c.ParentSUDN, c.PresenceState, c.OperState, c.Readiness, c.RestartCount})
	}
	t.Render()
	return nil
}
