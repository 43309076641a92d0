package output

import (
	"path/filepath"
	"sort"
	"strings"
)

const (
	treeEdge  = "├── "
	treeLast  = "└── "
	treeVert  = "│   "
	treeSpace = "    "

	// statusColumn is where change statuses start.
	statusColumn = 40
)

// changeNode is a directory or file in a rendered change tree.
type changeNode struct {
	name     string
	status   string
	isDir    bool
	children []*changeNode
}

// RenderChangeTree renders the files touched by a run as a tree rooted at
// root, with each file's status aligned in a column. changes maps
// slash-separated project-relative paths to a status.
func RenderChangeTree(root string, changes map[string]string) string {
	if len(changes) == 0 {
		return ""
	}

	top := &changeNode{name: root, isDir: true}

	for path, status := range changes {
		parts := strings.Split(filepath.ToSlash(path), "/")
		current := top

		for i, part := range parts {
			isLast := i == len(parts)-1

			var child *changeNode
			for _, c := range current.children {
				if c.name == part {
					child = c
					break
				}
			}
			if child == nil {
				child = &changeNode{name: part, isDir: !isLast}
				current.children = append(current.children, child)
			}
			if isLast {
				child.status = status
			}
			current = child
		}
	}

	sortChanges(top)

	var sb strings.Builder
	sb.WriteString(GetStyles().Bold.Render(strings.TrimSuffix(top.name, "/") + "/"))
	sb.WriteString("\n")
	for i, child := range top.children {
		renderChange(&sb, child, "", i == len(top.children)-1)
	}
	return sb.String()
}

// sortChanges orders directories first, then alphabetically.
func sortChanges(node *changeNode) {
	sort.Slice(node.children, func(i, j int) bool {
		a, b := node.children[i], node.children[j]
		if a.isDir != b.isDir {
			return a.isDir
		}
		return a.name < b.name
	})
	for _, child := range node.children {
		sortChanges(child)
	}
}

func renderChange(sb *strings.Builder, node *changeNode, prefix string, isLast bool) {
	connector := treeEdge
	if isLast {
		connector = treeLast
	}

	name := node.name
	if node.isDir {
		name += "/"
	}
	line := prefix + connector + name

	if node.status != "" {
		padding := statusColumn - len([]rune(line))
		if padding < 2 {
			padding = 2
		}
		line += strings.Repeat(" ", padding) + StatusStyle(node.status).Render(node.status)
	}

	sb.WriteString(line)
	sb.WriteString("\n")

	childPrefix := prefix + treeVert
	if isLast {
		childPrefix = prefix + treeSpace
	}
	for i, child := range node.children {
		renderChange(sb, child, childPrefix, i == len(node.children)-1)
	}
}
