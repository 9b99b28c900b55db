package ptysession

import "testing"

func TestResolveShell_Cmd(t *testing.T) {
	cmd, err := ResolveShell("cmd", "windows")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cmd.Path != "cmd.exe" {
		t.Errorf("path = %q, want cmd.exe", cmd.Path)
	}
}

func TestResolveShell_Wsl(t *testing.T) {
	cmd, err := ResolveShell("wsl", "windows")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cmd.Path != "wsl.exe" {
		t.Errorf("path = %q, want wsl.exe", cmd.Path)
	}
}

func TestResolveShell_Bash(t *testing.T) {
	cmd, err := ResolveShell("bash", "linux")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cmd.Path != "bash" {
		t.Errorf("path = %q, want bash", cmd.Path)
	}
}

func TestResolveShell_Zsh(t *testing.T) {
	cmd, err := ResolveShell("zsh", "darwin")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cmd.Path != "zsh" {
		t.Errorf("path = %q, want zsh", cmd.Path)
	}
}

func TestResolveShell_Custom(t *testing.T) {
	cmd, err := ResolveShell("custom:/opt/fish/bin/fish", "linux")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cmd.Path != "/opt/fish/bin/fish" {
		t.Errorf("path = %q, want /opt/fish/bin/fish", cmd.Path)
	}
}

func TestResolveShell_CustomEmpty(t *testing.T) {
	if _, err := ResolveShell("custom:", "linux"); err == nil {
		t.Error("expected error for empty custom path")
	}
}

func TestResolveShell_PwshNonWindows(t *testing.T) {
	cmd, err := ResolveShell("pwsh", "linux")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cmd.Path != "pwsh" {
		t.Errorf("path = %q, want pwsh", cmd.Path)
	}
}

func TestResolveShell_UnknownFallsBackToDefault(t *testing.T) {
	cmd, err := ResolveShell("not-a-real-shell", "linux")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cmd.Path == "" {
		t.Error("expected a non-empty default shell path")
	}
}

func TestResolveShell_EmptyKindDefaults(t *testing.T) {
	cmd, err := ResolveShell("", "linux")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cmd.Path == "" {
		t.Error("expected a non-empty default shell path")
	}
}

func TestLoginArgs(t *testing.T) {
	cases := map[string][]string{
		"/bin/bash":      {"-l"},
		"/bin/zsh":       {"-l"},
		"fish":           {"-l"},
		"sh":             {"-l"},
		"pwsh.exe":       {"-NoLogo"},
		"powershell.exe": {"-NoLogo"},
		"cmd.exe":        nil,
		"wsl.exe":        nil,
	}
	for path, want := range cases {
		got := loginArgs(path)
		if len(got) != len(want) {
			t.Errorf("loginArgs(%q) = %v, want %v", path, got, want)
			continue
		}
		for i := range got {
			if got[i] != want[i] {
				t.Errorf("loginArgs(%q) = %v, want %v", path, got, want)
			}
		}
	}
}
