// Package pack writes generated projects to a workspace filesystem and
// archives them for download.
package pack

import (
	"archive/zip"
	"bytes"
	"io"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/spf13/afero"

	"github.com/springforge/springforge"
)

// Packager materializes generated projects on a filesystem. The zero value
// is not usable; construct with NewPackager.
type Packager struct {
	fs   afero.Fs
	root string
}

// NewPackager creates a packager writing under root on the given
// filesystem. Pass afero.NewOsFs() for real output or a memory filesystem
// in tests.
func NewPackager(fsys afero.Fs, root string) *Packager {
	return &Packager{fs: fsys, root: root}
}

// Write materializes the project under root/<dir> and returns that path.
// Any previous content at the path is removed first.
func (p *Packager) Write(project *springforge.GeneratedProject, dir string) (string, error) {
	if dir == "" {
		return "", springforge.NewPackagingError("", "output directory name is required", nil)
	}
	out := path.Join(p.root, dir)
	if err := p.fs.RemoveAll(out); err != nil {
		return "", springforge.NewPackagingError(out, "clean output directory", err)
	}
	for _, f := range project.Files {
		target := path.Join(out, f.RelativePath)
		if err := p.fs.MkdirAll(path.Dir(target), 0o755); err != nil {
			return "", springforge.NewPackagingError(target, "create directory", err)
		}
		if err := afero.WriteFile(p.fs, target, []byte(f.Content), 0o644); err != nil {
			return "", springforge.NewPackagingError(target, "write file", err)
		}
	}
	return out, nil
}

// Archive zips the project into root/<name>.zip and returns the archive
// path. Entries are prefixed with the project's artifact id and written in
// path order, so identical projects produce identical archives.
func (p *Packager) Archive(project *springforge.GeneratedProject, name string) (string, error) {
	if name == "" {
		name = project.Config.ArtifactID
	}
	files := make([]springforge.GeneratedFile, len(project.Files))
	copy(files, project.Files)
	sort.Slice(files, func(i, j int) bool {
		return files[i].RelativePath < files[j].RelativePath
	})

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	stamp := project.GeneratedAt
	if stamp.IsZero() {
		stamp = time.Now()
	}
	prefix := project.Config.ArtifactID
	for _, f := range files {
		hdr := &zip.FileHeader{
			Name:     prefix + "/" + f.RelativePath,
			Method:   zip.Deflate,
			Modified: stamp,
		}
		hdr.SetMode(0o644)
		w, err := zw.CreateHeader(hdr)
		if err != nil {
			zw.Close()
			return "", springforge.NewPackagingError(f.RelativePath, "add archive entry", err)
		}
		if _, err := io.Copy(w, strings.NewReader(f.Content)); err != nil {
			zw.Close()
			return "", springforge.NewPackagingError(f.RelativePath, "write archive entry", err)
		}
	}
	if err := zw.Close(); err != nil {
		return "", springforge.NewPackagingError(name, "finalize archive", err)
	}

	out := path.Join(p.root, name+".zip")
	if err := p.fs.MkdirAll(p.root, 0o755); err != nil {
		return "", springforge.NewPackagingError(p.root, "create archive directory", err)
	}
	if err := afero.WriteFile(p.fs, out, buf.Bytes(), 0o644); err != nil {
		return "", springforge.NewPackagingError(out, "write archive", err)
	}
	return out, nil
}

// Open returns a reader over a previously written archive.
func (p *Packager) Open(archivePath string) (io.ReadCloser, error) {
	f, err := p.fs.Open(archivePath)
	if err != nil {
		return nil, springforge.NewPackagingError(archivePath, "open archive", err)
	}
	return f, nil
}

// Remove deletes a workspace directory or archive written earlier.
func (p *Packager) Remove(target string) error {
	if !strings.HasPrefix(path.Clean(target), path.Clean(p.root)) {
		return springforge.NewPackagingError(target, "target is outside the workspace root", nil)
	}
	if err := p.fs.RemoveAll(target); err != nil {
		return springforge.NewPackagingError(target, "remove", err)
	}
	return nil
}
