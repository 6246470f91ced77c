package logs

import (
	"fmt"

	"github.com/atlanticdynamic/jscompiler/internal/fancy"
)

// ToTree returns a tree visualization of the log configuration
func (lc *Config) ToTree() *fancy.ComponentTree {
	tree := fancy.NewComponentTree(fancy.HeaderStyle.Render("Logging"))
	tree.AddChild(fmt.Sprintf("Format: %s", lc.EffectiveFormat()))
	tree.AddChild(fmt.Sprintf("Level: %s", lc.EffectiveLevel()))
	output := lc.Output
	if output == "" {
		output = "stdout"
	}
	tree.AddChild(fmt.Sprintf("Output: %s", fancy.PathText(output)))
	return tree
}
