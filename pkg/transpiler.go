package corrozy

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

const SourceExtension = ".crz"

// Transpiler compiles every source file of a project into its output
// directory
type Transpiler struct {
	config   *Config
	compiler *Compiler
	logger   *slog.Logger
	workers  int
}

func NewTranspiler(config *Config, logger *slog.Logger) *Transpiler {
	if logger == nil {
		logger = slog.Default()
	}

	return &Transpiler{
		config:   config,
		compiler: NewCompiler(config, logger),
		logger:   logger,
		workers:  runtime.GOMAXPROCS(0),
	}
}

// TranspileProject compiles all source files under root and returns how
// many were written. The first failing file stops the rest.
func (t *Transpiler) TranspileProject(ctx context.Context, root string) (int, error) {
	outputDir := filepath.Join(root, t.config.Transpiler.OutputDir)
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return 0, errors.Wrap(err, "unable to create output directory")
	}

	files, err := t.discover(root, outputDir)
	if err != nil {
		return 0, err
	}

	t.logger.Info("transpiling project", "root", root, "files", len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(t.workers)

	for _, file := range files {
		file := file
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			return t.transpileFile(root, outputDir, file)
		})
	}

	if err := g.Wait(); err != nil {
		return 0, err
	}

	return len(files), nil
}

func (t *Transpiler) discover(root, outputDir string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if path == outputDir {
				return filepath.SkipDir
			}

			return nil
		}

		if filepath.Ext(path) == SourceExtension {
			files = append(files, path)
		}

		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "unable to walk %s", root)
	}

	return files, nil
}

func (t *Transpiler) transpileFile(root, outputDir, path string) error {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return errors.Wrapf(err, "unable to resolve %s", path)
	}
	rel = t.stripSrcDir(rel)

	php, err := t.compiler.CompileFile(path, rel)
	if err != nil {
		return err
	}

	out := filepath.Join(outputDir, strings.TrimSuffix(rel, SourceExtension)+".php")
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return errors.Wrapf(err, "unable to create directory for %s", out)
	}

	if err := os.WriteFile(out, []byte(php), 0o644); err != nil {
		return errors.Wrapf(err, "unable to write %s", out)
	}

	t.logger.Debug("transpiled file", "source", path, "output", out)

	return nil
}

// stripSrcDir drops the source directory from a project relative path so
// outputs mirror the layout inside it
func (t *Transpiler) stripSrcDir(rel string) string {
	src := filepath.Clean(t.config.Transpiler.SrcDir)
	if src == "." || src == "" {
		return rel
	}

	if strings.HasPrefix(rel, src+string(filepath.Separator)) {
		return strings.TrimPrefix(rel, src+string(filepath.Separator))
	}

	return rel
}
