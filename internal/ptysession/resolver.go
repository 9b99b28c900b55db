package ptysession

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// Command is the executable-plus-arguments descriptor produced by
// ResolveShell and consumed by the PTY factory.
type Command struct {
	Path string
	Args []string
}

// ResolveShell maps an optional shell-kind token and a GOOS indicator to a
// command descriptor. kind is one of the closed set documented in
// SPEC_FULL §4.1 ("cmd", "powershell", "pwsh", "wsl", "gitbash", "bash",
// "zsh", "custom:<path>") or empty for default-shell detection.
func ResolveShell(kind, goos string) (Command, error) {
	switch {
	case kind == "cmd":
		return Command{Path: "cmd.exe"}, nil

	case kind == "powershell":
		if goos == "windows" {
			if p, err := exec.LookPath("powershell"); err == nil {
				return Command{Path: p}, nil
			}
			return Command{Path: "powershell.exe"}, nil
		}
		return defaultShell(goos)

	case kind == "pwsh":
		if goos == "windows" {
			if p, err := exec.LookPath("pwsh"); err == nil {
				return Command{Path: p}, nil
			}
			if p, err := exec.LookPath("powershell"); err == nil {
				return Command{Path: p}, nil
			}
			return Command{Path: "powershell.exe"}, nil
		}
		return Command{Path: "pwsh"}, nil

	case kind == "wsl":
		return Command{Path: "wsl.exe"}, nil

	case kind == "gitbash":
		if goos == "windows" {
			if path := detectGitBash(); path != "" {
				return Command{Path: path, Args: []string{"--login"}}, nil
			}
			return defaultShell(goos)
		}
		return Command{Path: "bash"}, nil

	case kind == "bash":
		return Command{Path: "bash"}, nil

	case kind == "zsh":
		return Command{Path: "zsh"}, nil

	case strings.HasPrefix(kind, "custom:"):
		path := strings.TrimPrefix(kind, "custom:")
		if path == "" {
			return Command{}, errShellUnavailable("empty custom shell path")
		}
		return Command{Path: path}, nil

	default:
		return defaultShell(goos)
	}
}

func defaultShell(goos string) (Command, error) {
	if goos == "windows" {
		return defaultWindowsShell(), nil
	}
	return defaultUnixShell()
}

func defaultWindowsShell() Command {
	if shell := os.Getenv("SHELL"); shell != "" {
		return Command{Path: shell}
	}
	if p, err := exec.LookPath("powershell"); err == nil {
		return Command{Path: p}
	}
	if p, err := exec.LookPath("pwsh"); err == nil {
		return Command{Path: p}
	}
	if comspec := os.Getenv("COMSPEC"); comspec != "" {
		return Command{Path: comspec}
	}
	return Command{Path: "cmd.exe"}
}

func defaultUnixShell() (Command, error) {
	if shell := os.Getenv("SHELL"); shell != "" {
		return Command{Path: shell}, nil
	}
	candidates := []string{"/bin/zsh", "/bin/bash", "/bin/fish", "/bin/sh"}
	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return Command{Path: c}, nil
		}
	}
	return Command{Path: "/bin/sh"}, nil
}

// detectGitBash looks for Git Bash at its standard install locations
// first, then falls back to a PATH lookup that excludes any WSL-supplied
// bash (which lives under a WindowsApps directory).
func detectGitBash() string {
	candidates := []string{
		`C:\Program Files\Git\bin\bash.exe`,
		`C:\Program Files (x86)\Git\bin\bash.exe`,
	}
	if profile := os.Getenv("USERPROFILE"); profile != "" {
		candidates = append(candidates, filepath.Join(profile, `AppData\Local\Programs\Git\bin\bash.exe`))
	}
	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c
		}
	}
	for _, name := range []string{"bash.exe", "bash"} {
		if p, err := exec.LookPath(name); err == nil && !strings.Contains(p, "WindowsApps") {
			return p
		}
	}
	return ""
}

// loginArgs returns the extra arguments that make the resolved shell behave
// as a login shell, keyed off the executable's basename.
func loginArgs(path string) []string {
	name := strings.ToLower(filepath.Base(path))
	name = strings.TrimSuffix(name, ".exe")
	switch name {
	case "bash", "zsh", "fish", "sh":
		return []string{"-l"}
	case "pwsh", "powershell":
		return []string{"-NoLogo"}
	default:
		return nil
	}
}

// hostGOOS reports the GOOS that Create passes to ResolveShell.
func hostGOOS() string { return runtime.GOOS }
