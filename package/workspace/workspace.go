package workspace

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"go.scnd.dev/open/upgrader"
	"go.scnd.dev/open/upgrader/package/erroring"
	"go.uber.org/zap"
)

// Workspace performs every filesystem mutation of a run. With DryRun set,
// reads still happen and mutations are logged and reported as done.
type Workspace struct {
	DryRun bool
	Logger *zap.Logger
}

func New(config *upgrader.Config, logger *zap.Logger) *Workspace {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Workspace{
		DryRun: config.DryRun != nil && *config.DryRun,
		Logger: logger,
	}
}

func (r *Workspace) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (r *Workspace) IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func (r *Workspace) ReadFile(path string) ([]byte, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &erroring.MissingArtifactError{Path: path}
		}
		return nil, &erroring.FileOperationError{Op: "read", Source: path, Err: err}
	}
	return content, nil
}

// WriteFile replaces path atomically and reports whether the content differed.
// Unchanged files are left alone so their timestamps stay intact.
func (r *Workspace) WriteFile(path string, content []byte) (bool, error) {
	mode := fs.FileMode(0644)
	existing, err := os.ReadFile(path)
	if err == nil {
		if bytes.Equal(existing, content) {
			return false, nil
		}
		if info, err := os.Stat(path); err == nil {
			mode = info.Mode().Perm()
		}
	}

	r.Logger.Debug("write file", zap.String("path", path), zap.Int("bytes", len(content)), zap.Bool("dry_run", r.DryRun))
	if r.DryRun {
		return true, nil
	}

	// * ensure directory
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return false, &erroring.FileOperationError{Op: "create directory for", Source: path, Err: err}
	}

	// * write temporary file next to the target
	temp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return false, &erroring.FileOperationError{Op: "create temporary file for", Source: path, Err: err}
	}
	tempPath := temp.Name()
	if _, err := temp.Write(content); err != nil {
		_ = temp.Close()
		_ = os.Remove(tempPath)
		return false, &erroring.FileOperationError{Op: "write", Source: tempPath, Err: err}
	}
	if err := temp.Close(); err != nil {
		_ = os.Remove(tempPath)
		return false, &erroring.FileOperationError{Op: "write", Source: tempPath, Err: err}
	}
	if err := os.Chmod(tempPath, mode); err != nil {
		_ = os.Remove(tempPath)
		return false, &erroring.FileOperationError{Op: "chmod", Source: tempPath, Err: err}
	}

	// * replace the original file
	if err := os.Rename(tempPath, path); err != nil {
		_ = os.Remove(tempPath)
		return false, &erroring.FileOperationError{Op: "replace", Source: tempPath, Destination: path, Err: err}
	}

	return true, nil
}

func (r *Workspace) AppendFile(path string, content []byte) error {
	r.Logger.Debug("append file", zap.String("path", path), zap.Int("bytes", len(content)), zap.Bool("dry_run", r.DryRun))
	if r.DryRun || len(content) == 0 {
		return nil
	}

	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return &erroring.FileOperationError{Op: "open", Source: path, Err: err}
	}
	if _, err := file.Write(content); err != nil {
		_ = file.Close()
		return &erroring.FileOperationError{Op: "append to", Source: path, Err: err}
	}
	if err := file.Close(); err != nil {
		return &erroring.FileOperationError{Op: "close", Source: path, Err: err}
	}

	return nil
}

// Copy duplicates source into destination, refusing to overwrite an existing destination.
func (r *Workspace) Copy(source string, destination string) error {
	if r.Exists(destination) {
		return &erroring.FileOperationError{Op: "copy", Source: source, Destination: destination, Err: fs.ErrExist}
	}

	r.Logger.Debug("copy file", zap.String("source", source), zap.String("destination", destination), zap.Bool("dry_run", r.DryRun))
	if r.DryRun {
		return nil
	}

	in, err := os.Open(source)
	if err != nil {
		return &erroring.FileOperationError{Op: "copy", Source: source, Destination: destination, Err: err}
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return &erroring.FileOperationError{Op: "copy", Source: source, Destination: destination, Err: err}
	}

	out, err := os.OpenFile(destination, os.O_CREATE|os.O_EXCL|os.O_WRONLY, info.Mode().Perm())
	if err != nil {
		return &erroring.FileOperationError{Op: "copy", Source: source, Destination: destination, Err: err}
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return &erroring.FileOperationError{Op: "copy", Source: source, Destination: destination, Err: err}
	}
	if err := out.Close(); err != nil {
		return &erroring.FileOperationError{Op: "copy", Source: source, Destination: destination, Err: err}
	}

	return nil
}

// Move renames source to destination, refusing to overwrite an existing destination.
func (r *Workspace) Move(source string, destination string) error {
	if r.Exists(destination) {
		return &erroring.FileOperationError{Op: "move", Source: source, Destination: destination, Err: fs.ErrExist}
	}

	r.Logger.Debug("move file", zap.String("source", source), zap.String("destination", destination), zap.Bool("dry_run", r.DryRun))
	if r.DryRun {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(destination), 0755); err != nil {
		return &erroring.FileOperationError{Op: "move", Source: source, Destination: destination, Err: err}
	}
	if err := os.Rename(source, destination); err != nil {
		return &erroring.FileOperationError{Op: "move", Source: source, Destination: destination, Err: err}
	}

	return nil
}

func (r *Workspace) Remove(path string) error {
	r.Logger.Debug("remove file", zap.String("path", path), zap.Bool("dry_run", r.DryRun))
	if r.DryRun {
		return nil
	}

	if err := os.Remove(path); err != nil {
		return &erroring.FileOperationError{Op: "remove", Source: path, Err: err}
	}
	return nil
}

// Entries lists the direct children of dir in lexical order.
func (r *Workspace) Entries(dir string) ([]fs.DirEntry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &erroring.MissingArtifactError{Path: dir}
		}
		return nil, &erroring.FileOperationError{Op: "list", Source: dir, Err: err}
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})
	return entries, nil
}

// Files lists every regular file below root in lexical path order. Symlinks
// are not followed.
func (r *Workspace) Files(root string) ([]string, error) {
	if !r.IsDir(root) {
		return nil, &erroring.MissingArtifactError{Path: root}
	}

	files := make([]string, 0)
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !entry.Type().IsRegular() {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, &erroring.FileOperationError{Op: "walk", Source: root, Err: err}
	}

	return files, nil
}
