// Package secureenv builds the environment variable list passed to a
// spawned stdio MCP tool server: an allow-listed subset of the daemon's
// own environment, plus a PATH widened with the package-manager and
// language-runtime directories tool servers are commonly installed under
// (npx, uvx, go run, cargo-built binaries).
package secureenv

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

const (
	osWindows = "windows"
	osDarwin  = "darwin"
)

// EnvConfig controls which variables a ChildEnvBuilder inherits from the
// daemon's own environment and which it adds unconditionally.
type EnvConfig struct {
	InheritSystemSafe bool              `json:"inherit_system_safe"`
	AllowedSystemVars []string          `json:"allowed_system_vars"`
	CustomVars        map[string]string `json:"custom_vars"`
}

// pathDiscovery holds the tool-install directories found on this host,
// used to widen a spawned server's PATH beyond the daemon's own.
type pathDiscovery struct {
	HomePath        string
	BrewPaths       []string
	NodePaths       []string
	PythonPaths     []string
	RustPaths       []string
	GoPaths         []string
	SystemPaths     []string
	DiscoveredPaths []string
}

// DefaultEnvConfig returns the allow-list every spawned stdio server's
// environment is built from: the variables a stdio child process needs to resolve
// its own interpreter/runtime and behave predictably, nothing else.
func DefaultEnvConfig() *EnvConfig {
	allowedVars := []string{
		"PATH",     // Essential for finding executables
		"HOME",     // User directory path (Unix)
		"TMPDIR",   // Temporary directory (Unix)
		"TEMP",     // Temporary directory (Windows)
		"TMP",      // Temporary directory (Windows)
		"SHELL",    // Default shell
		"TERM",     // Terminal type
		"LANG",     // Language settings
		"USER",     // Current user (Unix)
		"USERNAME", // Current user (Windows)
	}

	if runtime.GOOS == osWindows {
		allowedVars = append(allowedVars,
			"USERPROFILE",  // User profile directory
			"APPDATA",      // Application data directory
			"LOCALAPPDATA", // Local application data directory
			"PROGRAMFILES", // Program files directory
			"SYSTEMROOT",   // System root directory
			"COMSPEC",      // Command interpreter
		)
	} else {
		allowedVars = append(allowedVars,
			"XDG_CONFIG_HOME", // XDG config directory
			"XDG_DATA_HOME",   // XDG data directory
			"XDG_CACHE_HOME",  // XDG cache directory
			"XDG_RUNTIME_DIR", // XDG runtime directory
		)
	}

	allowedVars = append(allowedVars,
		"LC_ALL", "LC_CTYPE", "LC_NUMERIC", "LC_TIME", "LC_COLLATE",
		"LC_MONETARY", "LC_MESSAGES", "LC_PAPER", "LC_NAME", "LC_ADDRESS",
		"LC_TELEPHONE", "LC_MEASUREMENT", "LC_IDENTIFICATION",
	)

	return &EnvConfig{
		InheritSystemSafe: true,
		AllowedSystemVars: allowedVars,
		CustomVars:        make(map[string]string),
	}
}

// ChildEnvBuilder constructs the environment variable list for a spawned
// stdio MCP tool server process from an allow-list plus discovered PATH
// entries.
type ChildEnvBuilder struct {
	config *EnvConfig
	paths  *pathDiscovery
}

// NewChildEnvBuilder builds a ChildEnvBuilder over config, discovering
// runtime install paths immediately so BuildSecureEnvironment is cheap to
// call per spawned server. A nil config uses DefaultEnvConfig.
func NewChildEnvBuilder(config *EnvConfig) *ChildEnvBuilder {
	if config == nil {
		config = DefaultEnvConfig()
	}

	b := &ChildEnvBuilder{config: config}
	b.paths = b.discoverPaths()
	return b
}

func (b *ChildEnvBuilder) discoverPaths() *pathDiscovery {
	discovery := &pathDiscovery{}

	homeDir, _ := os.UserHomeDir()
	discovery.HomePath = homeDir

	switch runtime.GOOS {
	case osDarwin:
		discovery = b.discoverMacOSPaths(discovery)
	case osWindows:
		discovery = b.discoverWindowsPaths(discovery)
	default:
		discovery = b.discoverUnixPaths(discovery)
	}

	discovery.DiscoveredPaths = b.buildDiscoveredPaths(discovery)
	return discovery
}

// discoverMacOSPaths finds Homebrew, nvm/volta/fnm, pyenv/pip, cargo, and
// Go install directories: where stdio tool servers built with npx/uvx/go
// run/cargo are typically found on a developer's Mac.
func (b *ChildEnvBuilder) discoverMacOSPaths(discovery *pathDiscovery) *pathDiscovery {
	homeDir := discovery.HomePath

	discovery.SystemPaths = []string{
		"/usr/bin",
		"/bin",
		"/usr/sbin",
		"/sbin",
		"/usr/local/bin",
		"/usr/local/sbin",
	}

	potentialBrewPaths := []string{
		"/opt/homebrew/bin", // Apple Silicon default
		"/opt/homebrew/sbin",
		"/usr/local/bin", // Intel default (also in system paths)
		"/usr/local/sbin",
	}
	for _, path := range potentialBrewPaths {
		if b.pathExists(path) {
			discovery.BrewPaths = append(discovery.BrewPaths, path)
		}
	}

	if homeDir != "" {
		potentialNodePaths := []string{
			filepath.Join(homeDir, ".nvm/versions/node/*/bin"),
			filepath.Join(homeDir, ".volta/bin"),
			filepath.Join(homeDir, ".fnm/versions/*/installation/bin"),
		}
		for _, pathPattern := range potentialNodePaths {
			if strings.Contains(pathPattern, "*") {
				discovery.NodePaths = append(discovery.NodePaths, b.expandGlobPath(pathPattern)...)
			} else if b.pathExists(pathPattern) {
				discovery.NodePaths = append(discovery.NodePaths, pathPattern)
			}
		}
	}

	if homeDir != "" {
		potentialPythonPaths := []string{
			filepath.Join(homeDir, ".pyenv/versions/*/bin"),
			filepath.Join(homeDir, ".local/bin"), // pip user installs
			filepath.Join(homeDir, "Library/Python/*/bin"),
		}
		for _, pathPattern := range potentialPythonPaths {
			if strings.Contains(pathPattern, "*") {
				discovery.PythonPaths = append(discovery.PythonPaths, b.expandGlobPath(pathPattern)...)
			} else if b.pathExists(pathPattern) {
				discovery.PythonPaths = append(discovery.PythonPaths, pathPattern)
			}
		}
	}

	if homeDir != "" {
		rustPath := filepath.Join(homeDir, ".cargo/bin")
		if b.pathExists(rustPath) {
			discovery.RustPaths = append(discovery.RustPaths, rustPath)
		}
	}

	goPaths := []string{"/usr/local/go/bin"}
	if homeDir != "" {
		goPaths = append(goPaths, filepath.Join(homeDir, "go/bin"))
	}
	for _, path := range goPaths {
		if b.pathExists(path) {
			discovery.GoPaths = append(discovery.GoPaths, path)
		}
	}

	return discovery
}

func (b *ChildEnvBuilder) discoverWindowsPaths(discovery *pathDiscovery) *pathDiscovery {
	discovery.SystemPaths = []string{
		"C:\\Windows\\System32",
		"C:\\Windows",
		"C:\\Windows\\System32\\Wbem",
		"C:\\Windows\\System32\\WindowsPowerShell\\v1.0\\",
	}

	// The daemon's own process may not inherit a user's PATH when
	// launched by a service manager; fall back to the registry's copy
	// when it yields anything.
	if registryPaths := discoverWindowsPathsFromRegistry(); len(registryPaths) > 0 {
		discovery.SystemPaths = append(registryPaths, discovery.SystemPaths...)
	}

	programFilesPaths := []string{
		"C:\\Program Files\\Git\\bin",
		"C:\\Program Files\\nodejs",
		"C:\\Program Files (x86)\\nodejs",
	}
	for _, path := range programFilesPaths {
		if b.pathExists(path) {
			discovery.NodePaths = append(discovery.NodePaths, path)
		}
	}

	return discovery
}

func (b *ChildEnvBuilder) discoverUnixPaths(discovery *pathDiscovery) *pathDiscovery {
	discovery.SystemPaths = []string{
		"/usr/bin",
		"/bin",
		"/usr/sbin",
		"/sbin",
		"/usr/local/bin",
		"/usr/local/sbin",
	}
	return discovery
}

// buildDiscoveredPaths orders discovered paths so user-installed runtimes
// take precedence over system ones, matching where tool-server processes
// are actually launched from.
func (b *ChildEnvBuilder) buildDiscoveredPaths(discovery *pathDiscovery) []string {
	var paths []string
	paths = append(paths, discovery.BrewPaths...)
	paths = append(paths, discovery.NodePaths...)
	paths = append(paths, discovery.PythonPaths...)
	paths = append(paths, discovery.RustPaths...)
	paths = append(paths, discovery.GoPaths...)
	paths = append(paths, discovery.SystemPaths...)
	return b.removeDuplicatePaths(paths)
}

// BuildSecureEnvironment returns the "KEY=VALUE" list to pass as a spawned
// tool server's environment: allow-listed inherited variables, this
// server's custom overrides, and a PATH widened with discovered runtime
// directories.
func (b *ChildEnvBuilder) BuildSecureEnvironment() []string {
	var envVars []string

	if b.config.InheritSystemSafe {
		envVars = append(envVars, b.getFilteredSystemEnv()...)
	}

	for k, v := range b.config.CustomVars {
		envVars = append(envVars, k+"="+v)
	}

	envVars = b.ensureComprehensivePath(envVars)
	return envVars
}

func (b *ChildEnvBuilder) ensureComprehensivePath(envVars []string) []string {
	var existingPath string
	pathIndex := -1

	for i, envVar := range envVars {
		if strings.HasPrefix(envVar, "PATH=") {
			existingPath = strings.TrimPrefix(envVar, "PATH=")
			pathIndex = i
			break
		}
	}

	enhancedPath := b.buildEnhancedPath(existingPath)

	pathVar := "PATH=" + enhancedPath
	if pathIndex >= 0 {
		envVars[pathIndex] = pathVar
	} else {
		envVars = append(envVars, pathVar)
	}

	return envVars
}

func (b *ChildEnvBuilder) buildEnhancedPath(existingPath string) string {
	var pathComponents []string
	pathComponents = append(pathComponents, b.paths.DiscoveredPaths...)

	if existingPath != "" {
		for _, component := range strings.Split(existingPath, string(os.PathListSeparator)) {
			component = strings.TrimSpace(component)
			if component != "" && !b.containsPath(pathComponents, component) {
				pathComponents = append(pathComponents, component)
			}
		}
	}

	validPaths := make([]string, 0, len(pathComponents))
	seen := make(map[string]bool)
	for _, path := range pathComponents {
		if path != "" && !seen[path] && b.pathExists(path) {
			validPaths = append(validPaths, path)
			seen[path] = true
		}
	}

	return strings.Join(validPaths, string(os.PathListSeparator))
}

func (b *ChildEnvBuilder) getFilteredSystemEnv() []string {
	var filtered []string
	for _, envVar := range os.Environ() {
		if b.isEnvVarAllowed(envVar) {
			filtered = append(filtered, envVar)
		}
	}
	return filtered
}

// isEnvVarAllowed checks a raw "KEY=VALUE" string against the allow-list,
// supporting an "LC_*"-style wildcard suffix.
func (b *ChildEnvBuilder) isEnvVarAllowed(envVar string) bool {
	parts := strings.SplitN(envVar, "=", 2)
	if len(parts) != 2 {
		return false
	}
	return b.isKeyAllowed(parts[0])
}

func (b *ChildEnvBuilder) isKeyAllowed(key string) bool {
	for _, allowedVar := range b.config.AllowedSystemVars {
		if key == allowedVar {
			return true
		}
		if strings.HasSuffix(allowedVar, "*") {
			prefix := strings.TrimSuffix(allowedVar, "*")
			if strings.HasPrefix(key, prefix) {
				return true
			}
		}
	}
	return false
}

func (b *ChildEnvBuilder) pathExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func (b *ChildEnvBuilder) expandGlobPath(pattern string) []string {
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil
	}
	var validPaths []string
	for _, match := range matches {
		if b.pathExists(match) {
			validPaths = append(validPaths, match)
		}
	}
	return validPaths
}

func (b *ChildEnvBuilder) removeDuplicatePaths(paths []string) []string {
	seen := make(map[string]bool)
	var unique []string
	for _, path := range paths {
		if path != "" && !seen[path] {
			unique = append(unique, path)
			seen[path] = true
		}
	}
	return unique
}

func (b *ChildEnvBuilder) containsPath(paths []string, target string) bool {
	for _, path := range paths {
		if path == target {
			return true
		}
	}
	return false
}
