package pack

import (
	"fmt"
	"strings"

	"github.com/springforge/springforge"
)

// RenderTree formats a project's directory tree the way `tree` prints it,
// for logs and generation reports.
func RenderTree(project *springforge.GeneratedProject) string {
	root := project.Tree()
	var b strings.Builder
	b.WriteString(root.Name)
	b.WriteString("/\n")
	renderChildren(&b, root, "")
	return b.String()
}

func renderChildren(b *strings.Builder, n *springforge.TreeNode, indent string) {
	for i, c := range n.Children {
		last := i == len(n.Children)-1
		connector, childIndent := "├── ", indent+"│   "
		if last {
			connector, childIndent = "└── ", indent+"    "
		}
		b.WriteString(indent)
		b.WriteString(connector)
		b.WriteString(c.Name)
		if c.Dir {
			b.WriteString("/")
		}
		b.WriteString("\n")
		if c.Dir {
			renderChildren(b, c, childIndent)
		}
	}
}

// Summary is a one-line description of a packaged project for history
// records.
func Summary(project *springforge.GeneratedProject) string {
	s := project.Stats()
	return fmt.Sprintf("%d files, %d lines, %d bytes", s.TotalFiles, s.TotalLines, s.TotalSize)
}
