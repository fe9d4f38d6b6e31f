package springforge

import (
	"path"
	"sort"
	"strings"
	"time"
)

// ArtifactKind identifies the kind of source artifact a generated file holds.
type ArtifactKind string

const (
	ArtifactEntity     ArtifactKind = "ENTITY"
	ArtifactRepository ArtifactKind = "REPOSITORY"
	ArtifactService    ArtifactKind = "SERVICE"
	ArtifactController ArtifactKind = "CONTROLLER"
	ArtifactDTO        ArtifactKind = "DTO"
	ArtifactConfig     ArtifactKind = "CONFIG"
	ArtifactBuild      ArtifactKind = "BUILD"
	ArtifactDoc        ArtifactKind = "DOC"
	ArtifactTest       ArtifactKind = "TEST"
)

// GeneratedFile is a single file produced by a generation run, with its
// project-relative location and size accounting.
type GeneratedFile struct {
	Kind         ArtifactKind `json:"type"`
	ClassName    string       `json:"className,omitempty"`
	RelativePath string       `json:"relativePath"`
	Content      string       `json:"content"`
	SizeBytes    int          `json:"sizeBytes"`
	LinesOfCode  int          `json:"linesOfCode"`
	Extension    string       `json:"extension"`
}

// NewGeneratedFile records content at a project-relative path, deriving
// size, line count and extension from the content and path.
func NewGeneratedFile(kind ArtifactKind, className, relativePath, content string) GeneratedFile {
	lines := 0
	if content != "" {
		lines = strings.Count(content, "\n")
		if !strings.HasSuffix(content, "\n") {
			lines++
		}
	}
	return GeneratedFile{
		Kind:         kind,
		ClassName:    className,
		RelativePath: relativePath,
		Content:      content,
		SizeBytes:    len(content),
		LinesOfCode:  lines,
		Extension:    strings.TrimPrefix(path.Ext(relativePath), "."),
	}
}

// GeneratedProject is the in-memory result of a generation run before it is
// written to a workspace and archived.
type GeneratedProject struct {
	Config      ProjectConfig   `json:"config"`
	Files       []GeneratedFile `json:"files"`
	GeneratedAt time.Time       `json:"generatedAt"`
}

// Add appends a file to the project.
func (p *GeneratedProject) Add(f GeneratedFile) {
	p.Files = append(p.Files, f)
}

// FileCount returns the number of files in the project.
func (p *GeneratedProject) FileCount() int { return len(p.Files) }

// TotalSize returns the combined content size of every file in bytes.
func (p *GeneratedProject) TotalSize() int {
	var n int
	for i := range p.Files {
		n += p.Files[i].SizeBytes
	}
	return n
}

// TotalLines returns the combined line count of every file.
func (p *GeneratedProject) TotalLines() int {
	var n int
	for i := range p.Files {
		n += p.Files[i].LinesOfCode
	}
	return n
}

// CountByKind returns how many files of each artifact kind the project holds.
func (p *GeneratedProject) CountByKind() map[ArtifactKind]int {
	counts := make(map[ArtifactKind]int, len(p.Files))
	for i := range p.Files {
		counts[p.Files[i].Kind]++
	}
	return counts
}

// Statistics summarises a generated project for reporting.
type Statistics struct {
	TotalFiles  int                  `json:"totalFiles"`
	TotalSize   int                  `json:"totalSize"`
	TotalLines  int                  `json:"totalLines"`
	ByKind      map[ArtifactKind]int `json:"byKind"`
	ByExtension map[string]int       `json:"byExtension"`
	ClassNames  []string             `json:"classNames"`
	Largest     []GeneratedFile      `json:"largest,omitempty"`
	GeneratedAt time.Time            `json:"generatedAt"`
}

// maxLargest bounds the largest-files report.
const maxLargest = 10

// Stats computes reporting statistics for the project. Class names are
// deduplicated and sorted; Largest holds up to ten files by size,
// biggest first, without their content.
func (p *GeneratedProject) Stats() Statistics {
	seen := make(map[string]struct{})
	ext := make(map[string]int)
	for i := range p.Files {
		if name := p.Files[i].ClassName; name != "" {
			seen[name] = struct{}{}
		}
		ext[p.Files[i].Extension]++
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)

	largest := make([]GeneratedFile, len(p.Files))
	copy(largest, p.Files)
	sort.SliceStable(largest, func(i, j int) bool {
		return largest[i].SizeBytes > largest[j].SizeBytes
	})
	if len(largest) > maxLargest {
		largest = largest[:maxLargest]
	}
	for i := range largest {
		largest[i].Content = ""
	}

	return Statistics{
		TotalFiles:  p.FileCount(),
		TotalSize:   p.TotalSize(),
		TotalLines:  p.TotalLines(),
		ByKind:      p.CountByKind(),
		ByExtension: ext,
		ClassNames:  names,
		Largest:     largest,
		GeneratedAt: p.GeneratedAt,
	}
}

// TreeNode is one node of the rendered project layout, either a directory
// with children or a file leaf.
type TreeNode struct {
	Name     string      `json:"name"`
	Dir      bool        `json:"dir"`
	Size     int         `json:"size,omitempty"`
	Children []*TreeNode `json:"children,omitempty"`
}

// Tree builds the directory tree of the project from its file paths.
// Children are sorted directories-first, then by name.
func (p *GeneratedProject) Tree() *TreeNode {
	root := &TreeNode{Name: p.Config.ArtifactID, Dir: true}
	for i := range p.Files {
		f := &p.Files[i]
		node := root
		parts := strings.Split(f.RelativePath, "/")
		for j, part := range parts {
			if part == "" {
				continue
			}
			leaf := j == len(parts)-1
			child := node.child(part)
			if child == nil {
				child = &TreeNode{Name: part, Dir: !leaf}
				if leaf {
					child.Size = f.SizeBytes
				}
				node.Children = append(node.Children, child)
			}
			node = child
		}
	}
	root.sortRec()
	return root
}

func (n *TreeNode) child(name string) *TreeNode {
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func (n *TreeNode) sortRec() {
	sort.Slice(n.Children, func(i, j int) bool {
		a, b := n.Children[i], n.Children[j]
		if a.Dir != b.Dir {
			return a.Dir
		}
		return a.Name < b.Name
	})
	for _, c := range n.Children {
		c.sortRec()
	}
}
