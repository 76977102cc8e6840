// Package plugins provides exec-based plugin support for bifinder.
// Plugins are separate binaries named bifinder-<command> that are discovered
// and executed when an unknown command is invoked.
package plugins

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Prefix is prepended to a command name to form the plugin binary name.
const Prefix = "bifinder-"

// KnownPlugins lists released plugin names with a short description.
// They get an error message saying what the plugin is for.
var KnownPlugins = map[string]string{}

// ErrPluginNotFound is returned when no plugin binary can be located.
var ErrPluginNotFound = errors.New("plugin not found")

// SearchDirs returns the directories searched before PATH, in order:
//  1. Same directory as the bifinder binary
//  2. ~/.bifinder/plugins/
func SearchDirs() []string {
	var dirs []string
	if execPath, err := os.Executable(); err == nil {
		dirs = append(dirs, filepath.Dir(execPath))
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(homeDir, ".bifinder", "plugins"))
	}
	return dirs
}

// FindPlugin searches for a plugin binary named bifinder-<command>
// in SearchDirs, then anywhere in PATH.
func FindPlugin(command string) (string, error) {
	return findPlugin(command, SearchDirs())
}

func findPlugin(command string, dirs []string) (string, error) {
	if command == "" || strings.ContainsRune(command, filepath.Separator) {
		return "", ErrPluginNotFound
	}
	pluginName := Prefix + command

	for _, dir := range dirs {
		candidate := filepath.Join(dir, pluginName)
		if isExecutable(candidate) {
			return candidate, nil
		}
	}

	if path, err := exec.LookPath(pluginName); err == nil {
		return path, nil
	}

	return "", ErrPluginNotFound
}

// Execute runs a plugin with the given arguments and returns its exit code.
// Stdin is inherited.
func Execute(pluginPath string, args []string, stdout, stderr io.Writer) int {
	cmd := exec.Command(pluginPath, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	err := cmd.Run()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.ExitCode()
		}
		fmt.Fprintf(stderr, "Error executing plugin: %v\n", err)
		return 2
	}

	return 0
}

// FormatNotFoundError returns a helpful error message when a plugin is not found.
func FormatNotFoundError(command string) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "unknown command %q for \"bifinder\"\n", command)

	if info, ok := KnownPlugins[command]; ok {
		fmt.Fprintf(&sb, "\n%q is available as a plugin.\n", command)
		sb.WriteString(info)
		sb.WriteString("\n\nInstall the plugin binary as one of:\n")
	} else {
		sb.WriteString("\nIf this is a plugin, install the binary as one of:\n")
	}

	fmt.Fprintf(&sb, "  - %s%s in the same directory as bifinder\n", Prefix, command)
	fmt.Fprintf(&sb, "  - ~/.bifinder/plugins/%s%s\n", Prefix, command)
	fmt.Fprintf(&sb, "  - %s%s anywhere in your PATH\n", Prefix, command)

	sb.WriteString("\nRun 'bifinder --help' for usage.")

	return sb.String()
}

// isExecutable checks if a regular file exists with any execute bit set.
func isExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular() && info.Mode()&0111 != 0
}
