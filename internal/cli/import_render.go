package cli

import (
	"github.com/jedib0t/go-pretty/v6/table"

	"amfcore/internal/xmlimport"
)

// RenderImportResultTable prints the objects an XML import would load as a
// class/dn/parent table, the "import --output table" view (cmd/import.go).
func RenderImportResultTable(r *xmlimport.Result) {
	t := newTable()
	t.AppendHeader(header("CLASS", "DN", "PARENT"))
	for _, o := range r.Objects {
		t.AppendRow(table.Row{string(o.Class), o.DN, o.ParentDN})
	}
	t.Render()
}

// importObjectRow is the YAML-friendly projection of a configadapter.Object.
type importObjectRow struct {
	Class    string `yaml:"class"`
	DN       string `yaml:"dn"`
	ParentDN string `yaml:"parentDN"`
}

// RenderImportResultYAML renders the same objects as YAML.
func RenderImportResultYAML(r *xmlimport.Result) error {
	rows := make([]importObjectRow, 0, len(r.Objects))
	for _, o := range r.Objects {
		rows = append(rows, importObjectRow{Class: string(o.Class), DN: o.DN, ParentDN: o.ParentDN})
	}
	return renderYAML(rows)
}
