package corrozy

import (
	"path"
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Namespace derives the PHP namespace of a file from its path relative to
// the source directory. The second value is false when the file gets none.
func Namespace(config NamespaceConfig, relPath string) (string, bool) {
	if config.BaseNamespace == "" {
		return "", false
	}

	switch config.Mode {
	case NamespaceManual:
		return toPHPSeparator(config.BaseNamespace, config.Separator), true
	case NamespaceAuto:
		parts := []string{config.BaseNamespace}

		dir := path.Dir(filepath.ToSlash(relPath))
		if dir != "." && dir != "/" {
			for _, segment := range strings.Split(dir, "/") {
				if segment != "" {
					parts = append(parts, pascalCase(segment))
				}
			}
		}

		sep := config.Separator
		if sep == "" {
			sep = "\\"
		}

		return toPHPSeparator(strings.Join(parts, sep), sep), true
	}

	return "", false
}

func toPHPSeparator(ns, sep string) string {
	if sep == "" || sep == "\\" {
		return ns
	}

	return strings.ReplaceAll(ns, sep, "\\")
}

// pascalCase turns my_dir into MyDir, keeping the case of the rest of
// each word
func pascalCase(s string) string {
	title := cases.Title(language.Und, cases.NoLower)

	var out strings.Builder
	for _, word := range strings.Split(s, "_") {
		out.WriteString(title.String(word))
	}

	return out.String()
}
