package domain

// DefaultConfigFile is the project file read when no path is given.
const DefaultConfigFile = "forge.yaml"

// Invocation carries the command-line inputs shared by every command.
type Invocation struct {
	ConfigPath string
	Jobs       int
	// Prefix overrides the configured install prefix when non-empty.
	Prefix string
	Args   []string
}

// Process describes one external toolchain invocation.
type Process struct {
	// Args is the argv of the process; Args[0] names the executable.
	Args []string
	// Env overrides entries of the inherited environment.
	Env map[string]string
	// Dir is the working directory; empty means the current directory.
	Dir string
}
