package fancy_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/atlanticdynamic/jscompiler/internal/fancy"
)

func TestTree(t *testing.T) {
	tree := fancy.Tree()
	assert.NotNil(t, tree)

	tree.Root("Root Node")
	child := tree.Child("Child Node")
	child.Child("Grandchild")

	out := tree.String()
	assert.Contains(t, out, "Root Node")
	assert.Contains(t, out, "Child Node")
	assert.Contains(t, out, "Grandchild")
}

func TestBranchNode(t *testing.T) {
	node := fancy.BranchNode("Source roots", "(5)")
	out := node.String()
	assert.Contains(t, out, "Source roots")
	assert.Contains(t, out, "(5)")
}

func TestTruncateString(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		max    int
		expect string
	}{
		{"shorter", "short", 20, "short"},
		{"exact", "exactly", 7, "exactly"},
		{"longer", "js/app/main.js", 10, "js/app/..."},
		{"tiny max", "abcdef", 2, "ab"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, fancy.TruncateString(tt.in, tt.max))
		})
	}
}

func TestComponentTree(t *testing.T) {
	ct := fancy.NewComponentTree("Logging")
	ct.AddChild("Format: text")
	ct.AddChild(fancy.SourceText("js/app.js"))

	out := ct.Tree().String()
	assert.Contains(t, out, "Logging")
	assert.Contains(t, out, "Format: text")
	assert.Contains(t, out, "js/app.js")
}

func TestStyleHelpers(t *testing.T) {
	for _, render := range []func(string) string{
		fancy.SourceText,
		fancy.ArtifactText,
		fancy.ListenerText,
		fancy.ValidText,
		fancy.ErrorText,
		fancy.PathText,
		fancy.CountText,
	} {
		assert.Contains(t, render("sample"), "sample")
	}
}
