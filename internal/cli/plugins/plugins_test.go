package plugins

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writePlugin(t *testing.T, dir, name, script string) string {
	t.Helper()
	path := filepath.Join(dir, Prefix+name)
	if err := os.WriteFile(path, []byte(script), 0755); err != nil {
		t.Fatalf("failed to create test plugin: %v", err)
	}
	return path
}

func TestFindPlugin_NotFound(t *testing.T) {
	t.Setenv("PATH", t.TempDir())

	_, err := findPlugin("nonexistent-plugin-xyz", []string{t.TempDir()})
	if !errors.Is(err, ErrPluginNotFound) {
		t.Errorf("expected ErrPluginNotFound, got %v", err)
	}
}

func TestFindPlugin_SearchOrder(t *testing.T) {
	first := t.TempDir()
	second := t.TempDir()

	want := writePlugin(t, first, "testplugin", "#!/bin/sh\necho first\n")
	writePlugin(t, second, "testplugin", "#!/bin/sh\necho second\n")

	found, err := findPlugin("testplugin", []string{first, second})
	if err != nil {
		t.Fatalf("expected to find plugin, got error: %v", err)
	}
	if found != want {
		t.Errorf("expected %s, got %s", want, found)
	}
}

func TestFindPlugin_InPluginsDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("PATH", t.TempDir())

	pluginsDir := filepath.Join(home, ".bifinder", "plugins")
	if err := os.MkdirAll(pluginsDir, 0755); err != nil {
		t.Fatalf("failed to create plugins dir: %v", err)
	}
	want := writePlugin(t, pluginsDir, "testplugin", "#!/bin/sh\necho test\n")

	found, err := FindPlugin("testplugin")
	if err != nil {
		t.Fatalf("expected to find plugin, got error: %v", err)
	}
	if found != want {
		t.Errorf("expected %s, got %s", want, found)
	}
}

func TestFindPlugin_OnPath(t *testing.T) {
	binDir := t.TempDir()
	t.Setenv("PATH", binDir)
	want := writePlugin(t, binDir, "pathplugin", "#!/bin/sh\n")

	found, err := findPlugin("pathplugin", nil)
	if err != nil {
		t.Fatalf("expected to find plugin, got error: %v", err)
	}
	if found != want {
		t.Errorf("expected %s, got %s", want, found)
	}
}

func TestFindPlugin_RejectsPaths(t *testing.T) {
	dir := t.TempDir()
	writePlugin(t, dir, "x", "#!/bin/sh\n")

	for _, name := range []string{"", "../x", "a/b"} {
		if _, err := findPlugin(name, []string{dir}); !errors.Is(err, ErrPluginNotFound) {
			t.Errorf("findPlugin(%q) = %v, want ErrPluginNotFound", name, err)
		}
	}
}

func TestExecute(t *testing.T) {
	dir := t.TempDir()
	path := writePlugin(t, dir, "echo", "#!/bin/sh\necho \"out:$1\"\necho \"err:$2\" >&2\nexit 3\n")

	var stdout, stderr bytes.Buffer
	code := Execute(path, []string{"a", "b"}, &stdout, &stderr)

	if code != 3 {
		t.Errorf("exit code = %d, want 3", code)
	}
	if got := stdout.String(); got != "out:a\n" {
		t.Errorf("stdout = %q", got)
	}
	if got := stderr.String(); got != "err:b\n" {
		t.Errorf("stderr = %q", got)
	}
}

func TestExecute_MissingBinary(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := Execute(filepath.Join(t.TempDir(), "missing"), nil, &stdout, &stderr)

	if code != 2 {
		t.Errorf("exit code = %d, want 2", code)
	}
	if !strings.Contains(stderr.String(), "Error executing plugin") {
		t.Errorf("stderr = %q", stderr.String())
	}
}

func TestFormatNotFoundError_KnownPlugin(t *testing.T) {
	KnownPlugins["export"] = "Exports scored events to a metrics store."
	t.Cleanup(func() { delete(KnownPlugins, "export") })

	msg := FormatNotFoundError("export")

	if !strings.Contains(msg, "available as a plugin") {
		t.Error("expected error to mention plugin availability")
	}
	if !strings.Contains(msg, "Exports scored events") {
		t.Error("expected error to include the plugin description")
	}
	if !strings.Contains(msg, "bifinder-export") {
		t.Error("expected error to mention bifinder-export")
	}
}

func TestKnownPlugins_OnlyReleased(t *testing.T) {
	if len(KnownPlugins) != 0 {
		t.Errorf("KnownPlugins = %v, want no entries until a plugin ships", KnownPlugins)
	}
	if msg := FormatNotFoundError("plot"); strings.Contains(msg, "available as a plugin") {
		t.Errorf("unreleased plugin advertised:\n%s", msg)
	}
}

func TestFormatNotFoundError_UnknownPlugin(t *testing.T) {
	msg := FormatNotFoundError("unknown")

	if !strings.Contains(msg, `unknown command "unknown"`) {
		t.Errorf("unexpected message: %s", msg)
	}
	if !strings.Contains(msg, "~/.bifinder/plugins/bifinder-unknown") {
		t.Error("expected error to mention the plugins dir")
	}
	if strings.Contains(msg, "available as a plugin") {
		t.Error("should not mention plugin availability for unknown plugins")
	}
}

func TestIsExecutable(t *testing.T) {
	tmpDir := t.TempDir()

	nonExec := filepath.Join(tmpDir, "nonexec")
	if err := os.WriteFile(nonExec, []byte("test"), 0644); err != nil {
		t.Fatalf("failed to create file: %v", err)
	}
	if isExecutable(nonExec) {
		t.Error("non-executable file should not be detected as executable")
	}

	execFile := filepath.Join(tmpDir, "exec")
	if err := os.WriteFile(execFile, []byte("test"), 0755); err != nil {
		t.Fatalf("failed to create file: %v", err)
	}
	if !isExecutable(execFile) {
		t.Error("executable file should be detected as executable")
	}

	if isExecutable(tmpDir) {
		t.Error("directory should not be detected as executable")
	}
	if isExecutable(filepath.Join(tmpDir, "nonexistent")) {
		t.Error("non-existent file should not be detected as executable")
	}
}
