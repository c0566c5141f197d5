package generator

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/mrz1836/recforge/internal/constants"
	"github.com/mrz1836/recforge/internal/ctxutil"
	rferrors "github.com/mrz1836/recforge/internal/errors"
)

// Layout names the directories the three artifacts are written to.
type Layout struct {
	PagesDir    string
	FeaturesDir string
	StepsDir    string
}

// DefaultLayout is the Maven-style test source layout.
func DefaultLayout() Layout {
	return Layout{
		PagesDir:    constants.DefaultPagesDir,
		FeaturesDir: constants.DefaultFeaturesDir,
		StepsDir:    constants.DefaultStepsDir,
	}
}

// Paths are the target files of one artifact set.
type Paths struct {
	PageObject      string `json:"page_object"`
	Feature         string `json:"feature"`
	StepDefinitions string `json:"step_definitions"`
}

// PathsFor returns the target files for className.
func (l Layout) PathsFor(className string) Paths {
	return Paths{
		PageObject:      filepath.Join(l.PagesDir, className+constants.SourceExt),
		Feature:         filepath.Join(l.FeaturesDir, className+constants.FeatureExt),
		StepDefinitions: filepath.Join(l.StepsDir, className+constants.StepsSuffix+constants.SourceExt),
	}
}

// EnsureDirs creates the three artifact directories.
func (l Layout) EnsureDirs(fs afero.Fs) error {
	for _, dir := range []string{l.PagesDir, l.FeaturesDir, l.StepsDir} {
		if err := fs.MkdirAll(dir, 0o750); err != nil {
			return rferrors.Wrapf(err, "failed to create %s", dir)
		}
	}
	return nil
}

// ReadExisting loads whatever artifacts already exist for className.
func (l Layout) ReadExisting(fs afero.Fs, className string) (Existing, error) {
	paths := l.PathsFor(className)
	var (
		out Existing
		err error
	)
	if out.PageObject, err = readIfExists(fs, paths.PageObject); err != nil {
		return Existing{}, err
	}
	if out.Feature, err = readIfExists(fs, paths.Feature); err != nil {
		return Existing{}, err
	}
	if out.StepDefinitions, err = readIfExists(fs, paths.StepDefinitions); err != nil {
		return Existing{}, err
	}
	return out, nil
}

func readIfExists(fs afero.Fs, path string) (string, error) {
	data, err := afero.ReadFile(fs, path)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", rferrors.Wrapf(err, "failed to read %s", path)
	}
	return string(data), nil
}

// GenerationError reports a failed write. When it is returned none of the
// three artifacts has been changed on disk.
type GenerationError struct {
	Op   string
	Path string
	Err  error
}

// Error implements error.
func (e *GenerationError) Error() string {
	return fmt.Sprintf("%s: %s %s: %v", rferrors.ErrGeneration, e.Op, e.Path, e.Err)
}

// Unwrap exposes both errors.ErrGeneration and the underlying cause.
func (e *GenerationError) Unwrap() []error {
	return []error{rferrors.ErrGeneration, e.Err}
}

// Writer persists artifact sets all-or-nothing.
type Writer struct {
	fs     afero.Fs
	layout Layout
	logger zerolog.Logger
}

// NewWriter creates a Writer over fs. Directories in layout must exist.
func NewWriter(fs afero.Fs, layout Layout, logger zerolog.Logger) *Writer {
	return &Writer{
		fs:     fs,
		layout: layout,
		logger: logger.With().Str("component", "artifact_writer").Logger(),
	}
}

// staged is one artifact on its way to disk.
type staged struct {
	path    string
	content string
	temp    string
	prior   []byte
	existed bool
}

// Write stages every artifact as a temp file next to its target, then renames
// them into place. Any failure removes the temps and restores files already
// replaced, so callers see all three artifacts or none.
func (w *Writer) Write(ctx context.Context, set *ArtifactSet) (Paths, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return Paths{}, err
	}
	paths := w.layout.PathsFor(set.ClassName)
	files := []*staged{
		{path: paths.PageObject, content: set.PageObject},
		{path: paths.Feature, content: set.Feature},
		{path: paths.StepDefinitions, content: set.StepDefinitions},
	}

	for _, f := range files {
		if err := w.stage(f); err != nil {
			w.discard(files)
			return Paths{}, &GenerationError{Op: "stage", Path: f.path, Err: err}
		}
	}

	for i, f := range files {
		if err := w.fs.Rename(f.temp, f.path); err != nil {
			w.rollback(files[:i])
			w.discard(files[i:])
			return Paths{}, &GenerationError{Op: "commit", Path: f.path, Err: err}
		}
		f.temp = ""
	}

	w.logger.Info().
		Str("page_object", paths.PageObject).
		Str("feature", paths.Feature).
		Str("step_definitions", paths.StepDefinitions).
		Msg("artifacts written")
	return paths, nil
}

func (w *Writer) stage(f *staged) error {
	prior, err := afero.ReadFile(w.fs, f.path)
	switch {
	case err == nil:
		f.prior, f.existed = prior, true
	case !os.IsNotExist(err):
		return err
	}

	tmp, err := afero.TempFile(w.fs, filepath.Dir(f.path), "."+filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return err
	}
	f.temp = tmp.Name()
	if _, err = tmp.WriteString(f.content); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return w.fs.Chmod(f.temp, 0o644)
}

// discard removes temp files that were not renamed.
func (w *Writer) discard(files []*staged) {
	for _, f := range files {
		if f.temp == "" {
			continue
		}
		if err := w.fs.Remove(f.temp); err != nil && !os.IsNotExist(err) {
			w.logger.Warn().Err(err).Str("path", f.temp).Msg("failed to remove staged artifact")
		}
		f.temp = ""
	}
}

// rollback undoes committed renames, newest first.
func (w *Writer) rollback(files []*staged) {
	for i := len(files) - 1; i >= 0; i-- {
		f := files[i]
		var err error
		if f.existed {
			err = afero.WriteFile(w.fs, f.path, f.prior, 0o644)
		} else {
			err = w.fs.Remove(f.path)
		}
		if err != nil {
			w.logger.Error().Err(err).Str("path", f.path).Msg("failed to roll back artifact")
		}
	}
}
