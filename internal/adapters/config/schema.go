package config

// Forgefile represents the structure of the forge.yaml project file.
type Forgefile struct {
	Project   ProjectDTO   `yaml:"project"`
	Toolchain ToolchainDTO `yaml:"toolchain"`
	Layout    LayoutDTO    `yaml:"layout"`
	Sources   []string     `yaml:"sources"`
	Headers   []string     `yaml:"headers"`
}

// ProjectDTO names the target and how it is produced.
type ProjectDTO struct {
	Output   string `yaml:"output"`
	Kind     string `yaml:"kind"`
	Platform string `yaml:"platform"`
}

// ToolchainDTO holds toolchain command lines. Unset entries fall back to defaults;
// an explicitly empty flags entry means no flags.
type ToolchainDTO struct {
	Compiler      *string           `yaml:"compiler"`
	CompilerFlags *string           `yaml:"compiler_flags"`
	Linker        *string           `yaml:"linker"`
	LinkerFlags   *string           `yaml:"linker_flags"`
	Archiver      *string           `yaml:"archiver"`
	Environment   map[string]string `yaml:"environment"`
}

// LayoutDTO names the input and output directories.
type LayoutDTO struct {
	SourceDir       string `yaml:"source_dir"`
	BuildDir        string `yaml:"build_dir"`
	DistDir         string `yaml:"dist_dir"`
	ObjectExtension string `yaml:"object_extension"`
	InstallPrefix   string `yaml:"install_prefix"`
}
