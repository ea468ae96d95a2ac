package corrozy

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// Compiler turns one source file into a PHP document
type Compiler struct {
	config *Config
	logger *slog.Logger
}

func NewCompiler(config *Config, logger *slog.Logger) *Compiler {
	if logger == nil {
		logger = slog.Default()
	}

	return &Compiler{config: config, logger: logger}
}

// CompileFile compiles the file at filename. relPath is its path relative to
// the source directory and decides the namespace.
func (c *Compiler) CompileFile(filename, relPath string) (string, error) {
	f, err := os.Open(filename)
	if err != nil {
		return "", errors.Wrap(err, "unable to open file")
	}
	defer f.Close()

	return c.CompileFromReader(filename, relPath, f)
}

func (c *Compiler) CompileFromReader(filename, relPath string, reader io.Reader) (string, error) {
	src, err := io.ReadAll(reader)
	if err != nil {
		return "", errors.Wrapf(err, "unable to read %s", filename)
	}

	return c.CompileSource(filename, relPath, string(src))
}

func (c *Compiler) CompileSource(filename, relPath, src string) (string, error) {
	statements, err := NewParser(filename).Parse(src)
	if err != nil {
		return "", errors.Wrapf(err, "failed to parse %s", filename)
	}

	body, err := NewCodeGenerator(c.config, c.logger).Generate(statements)
	if err != nil {
		return "", errors.Wrapf(err, "failed to generate %s", filename)
	}

	return c.document(relPath, body), nil
}

func (c *Compiler) document(relPath, body string) string {
	var out strings.Builder
	out.WriteString("<?php\n")

	if c.config.Transpiler.StrictTypes {
		out.WriteString("declare(strict_types=1);\n\n")
	}

	if ns, ok := Namespace(c.config.Namespace, relPath); ok {
		out.WriteString("namespace " + ns + ";\n\n")
	}

	out.WriteString(body)

	return out.String()
}
