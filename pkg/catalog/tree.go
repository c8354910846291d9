package catalog

import (
	"fmt"

	tp "github.com/xlab/treeprint"
)

// ToTree prints the extension hierarchy as an indented tree, one root per
// base component. With opts.Detailed each entry carries its declaration
// counts.
func (c *Catalog) ToTree(opts DOTOptions) string {
	p := tp.New()
	for _, n := range c.graph.Sources() {
		c.addTreeNode(p, n.ID, opts)
	}
	return p.String()
}

func (c *Catalog) addTreeNode(p tp.Tree, id string, opts DOTOptions) {
	var meta string
	if opts.Detailed {
		n, _ := c.graph.Node(id)
		static, _ := n.Meta[MetaStatic].([]string)
		dynamic, _ := n.Meta[MetaDynamic].([]string)
		meta = fmt.Sprintf("%d static, %d dynamic", len(static), len(dynamic))
	}

	if c.graph.OutDegree(id) == 0 {
		if meta != "" {
			p.AddMetaNode(meta, id)
		} else {
			p.AddNode(id)
		}
		return
	}

	var branch tp.Tree
	if meta != "" {
		branch = p.AddMetaBranch(meta, id)
	} else {
		branch = p.AddBranch(id)
	}
	for _, child := range c.graph.Children(id) {
		c.addTreeNode(branch, child, opts)
	}
}
