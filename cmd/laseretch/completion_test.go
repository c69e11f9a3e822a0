package main

// Notes:
// - GenerateCompletion: scripts are checked for expected content markers. They
//   are not run in the target shells.

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func findCommand(t *testing.T, name string) commandDef {
	t.Helper()
	for _, c := range getCommands() {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("command %q not found", name)
	return commandDef{}
}

func flagsByName(c commandDef) map[string]flagDef {
	m := make(map[string]flagDef, len(c.Flags))
	for _, f := range c.Flags {
		m[f.Long] = f
	}
	return m
}

func generate(t *testing.T, shell Shell) string {
	t.Helper()
	var buf bytes.Buffer
	if err := GenerateCompletion(&buf, shell); err != nil {
		t.Fatalf("GenerateCompletion(%q) error = %v", shell, err)
	}
	if buf.Len() == 0 {
		t.Fatalf("GenerateCompletion(%q) produced empty output", shell)
	}
	return buf.String()
}

// ---------------------------------------------------------------------------
// TestGenerateCompletion_SupportedShells - Shell completion script generation
// ---------------------------------------------------------------------------

func TestGenerateCompletion_SupportedShells(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		shell        Shell
		wantContains []string
	}{
		{
			name:  "bash",
			shell: ShellBash,
			wantContains: []string{
				"_laseretch_completions",
				"complete -o filenames -F _laseretch_completions laseretch",
				"compgen -W 'file browser'",
				"compgen -W 'cut laser'",
				"--host)",
				"--output-dir|-o)",
				"compgen -f -X '!*.yaml'",
				"compgen -f -X '!*.yml'",
			},
		},
		{
			name:  "zsh",
			shell: ShellZsh,
			wantContains: []string{
				"#compdef laseretch",
				"_laseretch",
				"_arguments",
				"_describe",
				":host:(file browser)",
				":style:(cut laser)",
				`_files -g "(*.yaml|*.yml)"`,
				"'1:completion:(bash zsh fish powershell)'",
			},
		},
		{
			name:  "fish",
			shell: ShellFish,
			wantContains: []string{
				"complete -c laseretch",
				"__fish_laseretch_needs_command",
				"__fish_laseretch_using_command",
				"-l host -x -a 'file browser'",
				"-s s -l style -x -a 'cut laser'",
				"-s i -l input -r -F",
			},
		},
		{
			name:  "powershell",
			shell: ShellPowerShell,
			wantContains: []string{
				"Register-ArgumentCompleter",
				"-CommandName laseretch",
				"CompletionResult",
				"'export --host' = @('file', 'browser')",
				"'generate -s' = @('cut', 'laser')",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			output := generate(t, tt.shell)
			for _, want := range tt.wantContains {
				if !strings.Contains(output, want) {
					t.Errorf("output missing %q", want)
				}
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestGenerateCompletion_ContainsAllCommands - Every shell lists every command
// ---------------------------------------------------------------------------

func TestGenerateCompletion_ContainsAllCommands(t *testing.T) {
	t.Parallel()

	for _, shell := range []Shell{ShellBash, ShellZsh, ShellFish, ShellPowerShell} {
		t.Run(string(shell), func(t *testing.T) {
			t.Parallel()

			output := generate(t, shell)
			for _, cmd := range getCommands() {
				if !strings.Contains(output, cmd.Name) {
					t.Errorf("%s completion missing command %q", shell, cmd.Name)
				}
				for _, f := range cmd.Flags {
					if !strings.Contains(output, f.Long) {
						t.Errorf("%s completion missing flag --%s of %s", shell, f.Long, cmd.Name)
					}
				}
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestGenerateCompletion_UnsupportedShell - Error handling for unknown shells
// ---------------------------------------------------------------------------

func TestGenerateCompletion_UnsupportedShell(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		shell Shell
	}{
		{name: "empty shell", shell: ""},
		{name: "unknown shell", shell: "unknown"},
		{name: "sh is not supported", shell: "sh"},
		{name: "csh is not supported", shell: "csh"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			err := GenerateCompletion(&buf, tt.shell)
			if !errors.Is(err, ErrUnsupportedShell) {
				t.Fatalf("GenerateCompletion(%q) error = %v, want ErrUnsupportedShell", tt.shell, err)
			}
			if !strings.Contains(err.Error(), string(tt.shell)) {
				t.Errorf("error should name the shell %q, got: %v", tt.shell, err)
			}
			if buf.Len() != 0 {
				t.Errorf("nothing should be written on error, got %q", buf.String())
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestRunCompletion - Usage, valid and invalid shells
// ---------------------------------------------------------------------------

func TestRunCompletion(t *testing.T) {
	t.Parallel()

	t.Run("no args prints usage", func(t *testing.T) {
		t.Parallel()

		te := newTestEnv(t)
		if err := runCompletion(nil, te.Environment); err != nil {
			t.Fatalf("runCompletion() error = %v", err)
		}
		out := te.stdout.String()
		for _, want := range []string{"Usage: laseretch completion", "bash", "zsh", "fish", "powershell", "Installation"} {
			if !strings.Contains(out, want) {
				t.Errorf("usage missing %q", want)
			}
		}
	})

	t.Run("valid shell", func(t *testing.T) {
		t.Parallel()

		te := newTestEnv(t)
		if err := runCompletion([]string{"zsh"}, te.Environment); err != nil {
			t.Fatalf("runCompletion(zsh) error = %v", err)
		}
		if !strings.Contains(te.stdout.String(), "#compdef laseretch") {
			t.Error("stdout should hold the zsh script")
		}
	})

	t.Run("invalid shell is a usage error", func(t *testing.T) {
		t.Parallel()

		te := newTestEnv(t)
		err := runCompletion([]string{"invalid"}, te.Environment)
		if !errors.Is(err, ErrUnsupportedShell) {
			t.Errorf("error = %v, want ErrUnsupportedShell", err)
		}
		if code := exitCodeFor(err); code != ExitUsage {
			t.Errorf("exitCodeFor() = %d, want %d", code, ExitUsage)
		}
	})
}

// ---------------------------------------------------------------------------
// TestGetCommands - Command and flag registry
// ---------------------------------------------------------------------------

func TestGetCommands_ReturnsExpectedCommands(t *testing.T) {
	t.Parallel()

	want := []string{"generate", "export", "serve", "config", "doctor", "completion", "version", "help"}
	got := commandNames(getCommands())
	if strings.Join(got, " ") != strings.Join(want, " ") {
		t.Errorf("commands = %v, want %v", got, want)
	}

	help := findCommand(t, "help")
	if strings.Join(help.Args, " ") != strings.Join(want, " ") {
		t.Errorf("help args = %v, want every command", help.Args)
	}
	completion := findCommand(t, "completion")
	if strings.Join(completion.Args, " ") != "bash zsh fish powershell" {
		t.Errorf("completion args = %v", completion.Args)
	}
}

func TestGetCommands_FlagTypes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		command   string
		flag      string
		wantShort string
		wantType  flagType
		wantGlob  string
	}{
		{"generate", "output", "o", flagFile, "*.svg"},
		{"generate", "config", "c", flagFile, "*.yaml,*.yml"},
		{"generate", "style", "s", flagEnum, ""},
		{"generate", "font-size", "", flagFloat, ""},
		{"generate", "asset-path", "", flagDir, ""},
		{"generate", "quiet", "q", flagBool, ""},
		{"export", "host", "", flagEnum, ""},
		{"export", "output-dir", "o", flagDir, ""},
		{"export", "input", "i", flagFile, "*.svg"},
		{"export", "timeout", "t", flagString, ""},
		{"export", "no-sandbox", "", flagBool, ""},
		{"serve", "addr", "a", flagString, ""},
		{"config", "config", "c", flagFile, "*.yaml,*.yml"},
		{"doctor", "json", "", flagBool, ""},
	}

	for _, tt := range tests {
		t.Run(tt.command+" --"+tt.flag, func(t *testing.T) {
			t.Parallel()

			f, ok := flagsByName(findCommand(t, tt.command))[tt.flag]
			if !ok {
				t.Fatalf("missing flag --%s", tt.flag)
			}
			if f.Short != tt.wantShort {
				t.Errorf("short = %q, want %q", f.Short, tt.wantShort)
			}
			if f.Type != tt.wantType {
				t.Errorf("type = %v, want %v", f.Type, tt.wantType)
			}
			if f.FileGlob != tt.wantGlob {
				t.Errorf("glob = %q, want %q", f.FileGlob, tt.wantGlob)
			}
		})
	}
}

func TestGetCommands_EnumFlagsHaveValues(t *testing.T) {
	t.Parallel()

	host := flagsByName(findCommand(t, "export"))["host"]
	if strings.Join(host.Values, " ") != "file browser" {
		t.Errorf("--host values = %v, want [file browser]", host.Values)
	}

	style := flagsByName(findCommand(t, "serve"))["style"]
	if strings.Join(style.Values, " ") != "cut laser" {
		t.Errorf("--style values = %v, want the embedded styles [cut laser]", style.Values)
	}
}

func TestShellConstants(t *testing.T) {
	t.Parallel()

	tests := []struct {
		shell Shell
		want  string
	}{
		{ShellBash, "bash"},
		{ShellZsh, "zsh"},
		{ShellFish, "fish"},
		{ShellPowerShell, "powershell"},
	}

	for _, tt := range tests {
		if string(tt.shell) != tt.want {
			t.Errorf("Shell constant %v = %q, want %q", tt.shell, string(tt.shell), tt.want)
		}
	}
}
