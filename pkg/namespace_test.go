package corrozy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNamespace(t *testing.T) {
	cases := []struct {
		config NamespaceConfig
		path   string
		expect string
		ok     bool
	}{
		{NamespaceConfig{Mode: NamespaceAuto, BaseNamespace: "MyApp", Separator: "\\"}, "main.crz", "MyApp", true},
		{NamespaceConfig{Mode: NamespaceAuto, BaseNamespace: "MyApp", Separator: "\\"}, "utils/math.crz", "MyApp\\Utils", true},
		{NamespaceConfig{Mode: NamespaceAuto, BaseNamespace: "MyApp", Separator: "\\"}, "my_dir/sub_dir/file.crz", "MyApp\\MyDir\\SubDir", true},
		{NamespaceConfig{Mode: NamespaceAuto, BaseNamespace: "MyApp", Separator: "\\"}, "httpAPI/file.crz", "MyApp\\HttpAPI", true},
		{NamespaceConfig{Mode: NamespaceAuto, BaseNamespace: "Acme", Separator: "."}, "models/user.crz", "Acme\\Models", true},
		{NamespaceConfig{Mode: NamespaceAuto, BaseNamespace: "Acme.Core", Separator: "."}, "main.crz", "Acme\\Core", true},
		{NamespaceConfig{Mode: NamespaceManual, BaseNamespace: "Acme.Tools", Separator: "."}, "deep/nested/file.crz", "Acme\\Tools", true},
		{NamespaceConfig{Mode: NamespaceManual, BaseNamespace: "Acme\\Tools", Separator: "\\"}, "x.crz", "Acme\\Tools", true},
		{NamespaceConfig{Mode: NamespaceNone, BaseNamespace: "MyApp", Separator: "\\"}, "utils/math.crz", "", false},
		{NamespaceConfig{Mode: NamespaceAuto, BaseNamespace: "", Separator: "\\"}, "utils/math.crz", "", false},
		{NamespaceConfig{Mode: NamespaceAuto, BaseNamespace: "MyApp"}, "utils/math.crz", "MyApp\\Utils", true},
	}

	for _, c := range cases {
		ns, ok := Namespace(c.config, c.path)
		assert.Equal(t, c.ok, ok, c.path)
		assert.Equal(t, c.expect, ns, c.path)
	}
}

func TestPascalCase(t *testing.T) {
	cases := map[string]string{
		"utils":      "Utils",
		"my_dir":     "MyDir",
		"a_b_c":      "ABC",
		"already_OK": "AlreadyOK",
		"":           "",
	}

	for in, expect := range cases {
		assert.Equal(t, expect, pascalCase(in), in)
	}
}
