package template

import "testing"

func TestRenderArgsSubstitutesValues(t *testing.T) {
	args := []string{"--node={{ .node }}", "--level={{ .level }}"}
	out, err := RenderArgs(args, Context{"node": "safAmfNode=node1", "level": "1"})
	if err != nil {
		t.Fatalf("RenderArgs: %v", err)
	}
	if out[0] != "--node=safAmfNode=node1" || out[1] != "--level=1" {
		t.Fatalf("unexpected render: %v", out)
	}
}

func TestRenderArgsMissingVariableFails(t *testing.T) {
	_, err := RenderArgs([]string{"--node={{ .node }}"}, Context{})
	if err == nil {
		t.Fatal("expected error for missing template variable")
	}
}

func TestRenderSprigFunction(t *testing.T) {
	out, err := Render(`{{ .node | upper }}`, Context{"node": "node1"})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if out != "NODE1" {
		t.Fatalf("expected NODE1, got %s", out)
	}
}
