package main

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-laseretch/internal/assets"
	"github.com/alnah/go-laseretch/internal/config"
)

// Shell represents a supported shell for completion generation.
type Shell string

// Supported shells for completion.
const (
	ShellBash       Shell = "bash"
	ShellZsh        Shell = "zsh"
	ShellFish       Shell = "fish"
	ShellPowerShell Shell = "powershell"
)

// ErrUnsupportedShell is returned when an unknown shell is requested.
var ErrUnsupportedShell = errors.New("unsupported shell")

// supportedShells lists shells in the order they are documented.
var supportedShells = []string{
	string(ShellBash), string(ShellZsh), string(ShellFish), string(ShellPowerShell),
}

// flagType represents the completion type for a flag.
type flagType int

const (
	flagString flagType = iota // default
	flagBool
	flagInt
	flagFloat
	flagEnum // has predefined values
	flagFile // file with glob pattern
	flagDir  // directory
)

// flagDef describes a flag for completion purposes.
type flagDef struct {
	Long     string   // --output
	Short    string   // -o (empty if none)
	Type     flagType // completion type
	Desc     string   // help text
	Values   []string // for enum flags
	FileGlob string   // for file flags
}

// takesValue reports whether the flag consumes the next word.
func (f flagDef) takesValue() bool { return f.Type != flagBool }

// commandDef describes a command for completion.
type commandDef struct {
	Name  string
	Desc  string
	Flags []flagDef
	Args  []string // fixed positional values (shell or command names)
}

// completionMeta holds completion-specific metadata for flags.
// Flag names, types, and descriptions come from the FlagSet.
type completionMeta struct {
	Values   []string // enum values
	FileGlob string   // file glob pattern
	IsDir    bool     // directory completion
}

// flagCompletionMeta maps flag names to their completion metadata.
// Names are shared across commands, so one entry covers every command using it.
func flagCompletionMeta() map[string]completionMeta {
	return map[string]completionMeta{
		// Enum flags
		"host":  {Values: []string{config.HostFile, config.HostBrowser}},
		"style": {Values: embeddedStyleNames()},

		// File flags with glob patterns
		"config": {FileGlob: "*.yaml,*.yml"},
		"output": {FileGlob: "*.svg"},
		"input":  {FileGlob: "*.svg"},

		// Directory flags
		"output-dir": {IsDir: true},
		"asset-path": {IsDir: true},
	}
}

// embeddedStyleNames lists the built-in styles. Custom styles live under
// --asset-path and are not known at completion time.
func embeddedStyleNames() []string {
	names, err := assets.ListStyles()
	if err != nil {
		return nil
	}
	return names
}

// extractFlagsFromFlagSet extracts flag definitions from a pflag.FlagSet.
// Enriches with completion metadata from flagCompletionMeta.
func extractFlagsFromFlagSet(fs *flag.FlagSet) []flagDef {
	meta := flagCompletionMeta()
	var flags []flagDef

	fs.VisitAll(func(f *flag.Flag) {
		fd := flagDef{
			Long:  f.Name,
			Short: f.Shorthand,
			Desc:  f.Usage,
		}

		switch f.Value.Type() {
		case "bool":
			fd.Type = flagBool
		case "int", "int8", "int16", "int32", "int64", "uint", "uint8", "uint16", "uint32", "uint64":
			fd.Type = flagInt
		case "float32", "float64":
			fd.Type = flagFloat
		default:
			fd.Type = flagString
		}

		if m, ok := meta[f.Name]; ok {
			switch {
			case len(m.Values) > 0:
				fd.Type = flagEnum
				fd.Values = m.Values
			case m.FileGlob != "":
				fd.Type = flagFile
				fd.FileGlob = m.FileGlob
			case m.IsDir:
				fd.Type = flagDir
			}
		}

		flags = append(flags, fd)
	})

	return flags
}

// getCommands returns the command registry for completion.
// Flags are extracted from the same FlagSets the commands parse with.
func getCommands() []commandDef {
	generateFS, _ := newGenerateFlagSet(io.Discard)
	exportFS, _ := newExportFlagSet(io.Discard)
	serveFS, _ := newServeFlagSet(io.Discard)
	configFS, _ := newConfigFlagSet(io.Discard)
	doctorFS, _ := newDoctorFlagSet(io.Discard)

	commands := []commandDef{
		{Name: "generate", Desc: "Print the laser-etched SVG for some text", Flags: extractFlagsFromFlagSet(generateFS)},
		{Name: "export", Desc: "Save the SVG as a file through the download chain", Flags: extractFlagsFromFlagSet(exportFS)},
		{Name: "serve", Desc: "Run the web widget", Flags: extractFlagsFromFlagSet(serveFS)},
		{Name: "config", Desc: "Print the effective configuration", Flags: extractFlagsFromFlagSet(configFS)},
		{Name: "doctor", Desc: "Check Chrome and system setup", Flags: extractFlagsFromFlagSet(doctorFS)},
		{Name: "completion", Desc: "Generate shell completion script", Args: supportedShells},
		{Name: "version", Desc: "Show version information"},
		{Name: "help", Desc: "Show help for a command"},
	}

	names := commandNames(commands)
	for i := range commands {
		if commands[i].Name == "help" {
			commands[i].Args = names
		}
	}
	return commands
}

// GenerateCompletion writes shell completion script to w.
// Returns error if shell is unsupported or write fails.
func GenerateCompletion(w io.Writer, shell Shell) error {
	commands := getCommands()

	var b strings.Builder
	switch shell {
	case ShellBash:
		writeBash(&b, commands)
	case ShellZsh:
		writeZsh(&b, commands)
	case ShellFish:
		writeFish(&b, commands)
	case ShellPowerShell:
		writePowerShell(&b, commands)
	default:
		return fmt.Errorf("%w: %q (supported: %s)", ErrUnsupportedShell, shell, strings.Join(supportedShells, ", "))
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	return nil
}

// runCompletion handles the completion command.
func runCompletion(args []string, env *Environment) error {
	if len(args) == 0 {
		printCompletionUsage(env.Stdout)
		return nil
	}
	if err := GenerateCompletion(env.Stdout, Shell(args[0])); err != nil {
		if errors.Is(err, ErrUnsupportedShell) {
			return fmt.Errorf("%w: %w", ErrUsage, err)
		}
		return err
	}
	return nil
}

// printCompletionUsage prints help for the completion command.
func printCompletionUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: laseretch completion <shell>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Generate shell completion script for the specified shell.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Supported shells:")
	fmt.Fprintln(w, "  bash        Bash completion script")
	fmt.Fprintln(w, "  zsh         Zsh completion script")
	fmt.Fprintln(w, "  fish        Fish completion script")
	fmt.Fprintln(w, "  powershell  PowerShell completion script")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Installation:")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Bash:")
	fmt.Fprintln(w, "    # Add to ~/.bashrc:")
	fmt.Fprintln(w, "    eval \"$(laseretch completion bash)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Zsh:")
	fmt.Fprintln(w, "    # Add to ~/.zshrc (after compinit):")
	fmt.Fprintln(w, "    eval \"$(laseretch completion zsh)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Fish:")
	fmt.Fprintln(w, "    laseretch completion fish > ~/.config/fish/completions/laseretch.fish")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  PowerShell:")
	fmt.Fprintln(w, "    # Add to $PROFILE:")
	fmt.Fprintln(w, "    laseretch completion powershell | Out-String | Invoke-Expression")
}

// commandNames returns the command names in registry order.
func commandNames(commands []commandDef) []string {
	names := make([]string, 0, len(commands))
	for _, c := range commands {
		names = append(names, c.Name)
	}
	return names
}

// flagWords returns every spelling of every flag (--long and -s).
func flagWords(flags []flagDef) []string {
	words := make([]string, 0, len(flags)*2)
	for _, f := range flags {
		words = append(words, "--"+f.Long)
		if f.Short != "" {
			words = append(words, "-"+f.Short)
		}
	}
	return words
}

// flagSwitches returns "--long|-s" for a case label.
func flagSwitches(f flagDef) string {
	if f.Short == "" {
		return "--" + f.Long
	}
	return "--" + f.Long + "|-" + f.Short
}

// globPatterns splits "*.yaml,*.yml" into its patterns.
func globPatterns(glob string) []string {
	return strings.Split(glob, ",")
}

// ---------------------------------------------------------------------------
// Bash
// ---------------------------------------------------------------------------

func writeBash(b *strings.Builder, commands []commandDef) {
	b.WriteString("# bash completion for laseretch\n")
	b.WriteString("_laseretch_completions() {\n")
	b.WriteString("    local cur prev cmd\n")
	b.WriteString("    COMPREPLY=()\n")
	b.WriteString("    cur=\"${COMP_WORDS[COMP_CWORD]}\"\n")
	b.WriteString("    prev=\"${COMP_WORDS[COMP_CWORD-1]}\"\n")
	b.WriteString("    cmd=\"${COMP_WORDS[1]}\"\n\n")
	b.WriteString("    if [[ ${COMP_CWORD} -eq 1 ]]; then\n")
	fmt.Fprintf(b, "        COMPREPLY=( $(compgen -W '%s' -- \"${cur}\") )\n", strings.Join(commandNames(commands), " "))
	b.WriteString("        return 0\n")
	b.WriteString("    fi\n\n")
	b.WriteString("    case \"${cmd}\" in\n")

	for _, c := range commands {
		if len(c.Flags) == 0 && len(c.Args) == 0 {
			continue
		}
		fmt.Fprintf(b, "    %s)\n", c.Name)

		if hasValueFlags(c.Flags) {
			b.WriteString("        case \"${prev}\" in\n")
			for _, f := range c.Flags {
				if !f.takesValue() {
					continue
				}
				fmt.Fprintf(b, "        %s)\n", flagSwitches(f))
				switch f.Type {
				case flagEnum:
					fmt.Fprintf(b, "            COMPREPLY=( $(compgen -W '%s' -- \"${cur}\") )\n", strings.Join(f.Values, " "))
				case flagFile:
					fmt.Fprintf(b, "            COMPREPLY=( %s$(compgen -d -- \"${cur}\") )\n", bashFiles(f.FileGlob))
				case flagDir:
					b.WriteString("            COMPREPLY=( $(compgen -d -- \"${cur}\") )\n")
				}
				b.WriteString("            return 0\n")
				b.WriteString("            ;;\n")
			}
			b.WriteString("        esac\n")
		}

		words := append(append([]string{}, c.Args...), flagWords(c.Flags)...)
		fmt.Fprintf(b, "        COMPREPLY=( $(compgen -W '%s' -- \"${cur}\") )\n", strings.Join(words, " "))
		b.WriteString("        ;;\n")
	}

	b.WriteString("    esac\n")
	b.WriteString("    return 0\n")
	b.WriteString("}\n\n")
	b.WriteString("complete -o filenames -F _laseretch_completions laseretch\n")
}

// bashFiles emits one compgen call per pattern, so no extglob is needed.
func bashFiles(glob string) string {
	var b strings.Builder
	for _, p := range globPatterns(glob) {
		fmt.Fprintf(&b, "$(compgen -f -X '!%s' -- \"${cur}\") ", p)
	}
	return b.String()
}

func hasValueFlags(flags []flagDef) bool {
	for _, f := range flags {
		if f.takesValue() {
			return true
		}
	}
	return false
}

// ---------------------------------------------------------------------------
// Zsh
// ---------------------------------------------------------------------------

func writeZsh(b *strings.Builder, commands []commandDef) {
	b.WriteString("#compdef laseretch\n\n")
	b.WriteString("_laseretch() {\n")
	b.WriteString("    local -a commands\n")
	b.WriteString("    commands=(\n")
	for _, c := range commands {
		fmt.Fprintf(b, "        '%s:%s'\n", c.Name, zshQuote(c.Desc))
	}
	b.WriteString("    )\n\n")
	b.WriteString("    if (( CURRENT == 2 )); then\n")
	b.WriteString("        _describe 'command' commands\n")
	b.WriteString("        return\n")
	b.WriteString("    fi\n\n")
	b.WriteString("    local cmd=\"${words[2]}\"\n")
	b.WriteString("    shift words\n")
	b.WriteString("    (( CURRENT-- ))\n\n")
	b.WriteString("    case \"${cmd}\" in\n")

	for _, c := range commands {
		if len(c.Flags) == 0 && len(c.Args) == 0 {
			continue
		}
		fmt.Fprintf(b, "    %s)\n", c.Name)
		b.WriteString("        _arguments -s")
		for _, f := range c.Flags {
			fmt.Fprintf(b, " \\\n            %s", zshFlagSpec(f))
		}
		if len(c.Args) > 0 {
			fmt.Fprintf(b, " \\\n            '1:%s:(%s)'", c.Name, strings.Join(c.Args, " "))
		} else {
			b.WriteString(" \\\n            '*:text: '")
		}
		b.WriteString("\n        ;;\n")
	}

	b.WriteString("    esac\n")
	b.WriteString("}\n\n")
	b.WriteString("compdef _laseretch laseretch\n")
}

// zshFlagSpec renders one _arguments spec, grouping -s and --long as exclusive.
func zshFlagSpec(f flagDef) string {
	desc := "[" + zshQuote(zshBrackets(f.Desc)) + "]"

	var action string
	switch f.Type {
	case flagBool:
		action = ""
	case flagEnum:
		action = ":" + f.Long + ":(" + strings.Join(f.Values, " ") + ")"
	case flagFile:
		patterns := globPatterns(f.FileGlob)
		glob := patterns[0]
		if len(patterns) > 1 {
			glob = "(" + strings.Join(patterns, "|") + ")"
		}
		action = ":file:_files -g \"" + glob + "\""
	case flagDir:
		action = ":directory:_files -/"
	default:
		action = ":" + f.Long + ": "
	}

	if f.Short == "" {
		return "'--" + f.Long + desc + action + "'"
	}
	return "'(-" + f.Short + " --" + f.Long + ")'{-" + f.Short + ",--" + f.Long + "}'" + desc + action + "'"
}

// zshQuote escapes text for a single-quoted zsh word.
func zshQuote(s string) string {
	return strings.ReplaceAll(s, "'", `'\''`)
}

// zshBrackets escapes brackets that would end an _arguments description.
func zshBrackets(s string) string {
	return strings.NewReplacer("[", `\[`, "]", `\]`).Replace(s)
}

// ---------------------------------------------------------------------------
// Fish
// ---------------------------------------------------------------------------

func writeFish(b *strings.Builder, commands []commandDef) {
	b.WriteString("# fish completion for laseretch\n\n")
	b.WriteString("function __fish_laseretch_needs_command\n")
	b.WriteString("    set -l cmd (commandline -opc)\n")
	b.WriteString("    test (count $cmd) -eq 1\n")
	b.WriteString("end\n\n")
	b.WriteString("function __fish_laseretch_using_command\n")
	b.WriteString("    set -l cmd (commandline -opc)\n")
	b.WriteString("    test (count $cmd) -gt 1; and test $cmd[2] = $argv[1]\n")
	b.WriteString("end\n\n")
	b.WriteString("complete -c laseretch -f\n\n")

	for _, c := range commands {
		fmt.Fprintf(b, "complete -c laseretch -n __fish_laseretch_needs_command -a %s -d '%s'\n", c.Name, fishQuote(c.Desc))
	}

	for _, c := range commands {
		if len(c.Flags) == 0 && len(c.Args) == 0 {
			continue
		}
		b.WriteString("\n")
		cond := "'__fish_laseretch_using_command " + c.Name + "'"
		if len(c.Args) > 0 {
			fmt.Fprintf(b, "complete -c laseretch -n %s -x -a '%s'\n", cond, strings.Join(c.Args, " "))
		}
		for _, f := range c.Flags {
			var sb strings.Builder
			fmt.Fprintf(&sb, "complete -c laseretch -n %s", cond)
			if f.Short != "" {
				fmt.Fprintf(&sb, " -s %s", f.Short)
			}
			fmt.Fprintf(&sb, " -l %s", f.Long)
			switch f.Type {
			case flagBool:
			case flagEnum:
				fmt.Fprintf(&sb, " -x -a '%s'", strings.Join(f.Values, " "))
			case flagFile:
				sb.WriteString(" -r -F")
			case flagDir:
				sb.WriteString(" -x -a '(__fish_complete_directories)'")
			default:
				sb.WriteString(" -x")
			}
			fmt.Fprintf(&sb, " -d '%s'\n", fishQuote(f.Desc))
			b.WriteString(sb.String())
		}
	}
}

// fishQuote escapes text for a single-quoted fish string.
func fishQuote(s string) string {
	return strings.NewReplacer(`\`, `\\`, "'", `\'`).Replace(s)
}

// ---------------------------------------------------------------------------
// PowerShell
// ---------------------------------------------------------------------------

func writePowerShell(b *strings.Builder, commands []commandDef) {
	b.WriteString("# PowerShell completion for laseretch\n")
	b.WriteString("Register-ArgumentCompleter -Native -CommandName laseretch -ScriptBlock {\n")
	b.WriteString("    param($wordToComplete, $commandAst, $cursorPosition)\n\n")

	b.WriteString("    $commands = [ordered]@{\n")
	for _, c := range commands {
		fmt.Fprintf(b, "        '%s' = '%s'\n", c.Name, psQuote(c.Desc))
	}
	b.WriteString("    }\n\n")

	b.WriteString("    $words = @{\n")
	for _, c := range commands {
		words := append(append([]string{}, c.Args...), flagWords(c.Flags)...)
		if len(words) == 0 {
			continue
		}
		fmt.Fprintf(b, "        '%s' = @(%s)\n", c.Name, psList(words))
	}
	b.WriteString("    }\n\n")

	// Values keyed by "command flag" so --output can differ per command.
	values := map[string][]string{}
	for _, c := range commands {
		for _, f := range c.Flags {
			if f.Type != flagEnum {
				continue
			}
			values[c.Name+" --"+f.Long] = f.Values
			if f.Short != "" {
				values[c.Name+" -"+f.Short] = f.Values
			}
		}
	}
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	b.WriteString("    $values = @{\n")
	for _, k := range keys {
		fmt.Fprintf(b, "        '%s' = @(%s)\n", k, psList(values[k]))
	}
	b.WriteString("    }\n\n")

	b.WriteString("    $elements = @($commandAst.CommandElements | ForEach-Object { $_.ToString() })\n")
	b.WriteString("    $count = $elements.Count\n")
	b.WriteString("    if ($wordToComplete -ne '') { $count-- }\n\n")
	b.WriteString("    if ($count -le 1) {\n")
	b.WriteString("        $commands.Keys | Where-Object { $_ -like \"$wordToComplete*\" } | ForEach-Object {\n")
	b.WriteString("            [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $commands[$_])\n")
	b.WriteString("        }\n")
	b.WriteString("        return\n")
	b.WriteString("    }\n\n")
	b.WriteString("    $command = $elements[1]\n")
	b.WriteString("    $key = \"$command $($elements[$count - 1])\"\n")
	b.WriteString("    if ($values.ContainsKey($key)) {\n")
	b.WriteString("        $values[$key] | Where-Object { $_ -like \"$wordToComplete*\" } | ForEach-Object {\n")
	b.WriteString("            [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $_)\n")
	b.WriteString("        }\n")
	b.WriteString("        return\n")
	b.WriteString("    }\n\n")
	b.WriteString("    if ($words.ContainsKey($command)) {\n")
	b.WriteString("        $words[$command] | Where-Object { $_ -like \"$wordToComplete*\" } | ForEach-Object {\n")
	b.WriteString("            [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterName', $_)\n")
	b.WriteString("        }\n")
	b.WriteString("    }\n")
	b.WriteString("}\n")
}

// psList renders 'a', 'b' for a PowerShell array literal.
func psList(items []string) string {
	quoted := make([]string, len(items))
	for i, it := range items {
		quoted[i] = "'" + psQuote(it) + "'"
	}
	return strings.Join(quoted, ", ")
}

// psQuote escapes text for a single-quoted PowerShell string.
func psQuote(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
