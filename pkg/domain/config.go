package domain

// Plugin is an opaque plugin descriptor passed through to the generator.
type Plugin struct {
	// Name is the module name when the descriptor is a require/import of a package.
	Name string `json:"name,omitempty"`
	// Source is the descriptor as written in the configuration.
	Source string `json:"source"`
}

// ContentConfig lists the glob patterns to scan for class-name usage.
type ContentConfig struct {
	// Files holds patterns in order. Entries starting with "!" exclude files.
	Files []string `json:"files"`
	// Relative resolves patterns against the config file directory instead of the working directory.
	Relative bool `json:"relative,omitempty"`
	// Key is the configuration path of Files, used in error messages.
	Key string `json:"-"`
}

// Config is a loaded configuration. It is immutable for the rest of a session.
type Config struct {
	// Path is the absolute path of the configuration file.
	Path   string `json:"path"`
	Format Format `json:"format"`

	Content ContentConfig `json:"content"`
	// Theme is the raw theme block; nil when the configuration has none.
	Theme   *Value   `json:"-"`
	Plugins []Plugin `json:"plugins"`

	DarkMode  string   `json:"darkMode,omitempty"`
	Important string   `json:"important,omitempty"`
	Prefix    string   `json:"prefix,omitempty"`
	Safelist  []string `json:"safelist,omitempty"`
	Separator string   `json:"separator,omitempty"`
}
