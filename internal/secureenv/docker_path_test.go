package secureenv

import (
	"os"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These cover the PATH-widening behavior a minimal launch environment
// needs: a tool server spawned by a daemon started from Launchd/systemd
// rather than an interactive shell often inherits a PATH missing
// /usr/local/bin and similar directories its own dependencies (docker,
// node, python) are installed under.

func TestBuildSecureEnvironment_WidensMinimalPath(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("Unix PATH layout assumed")
	}

	originalEnv := os.Environ()
	defer func() {
		os.Clearenv()
		for _, env := range originalEnv {
			parts := strings.SplitN(env, "=", 2)
			if len(parts) == 2 {
				os.Setenv(parts[0], parts[1])
			}
		}
	}()

	// Minimal Launchd-like environment, missing /usr/local/bin.
	os.Clearenv()
	os.Setenv("PATH", "/usr/bin:/bin")
	os.Setenv("HOME", "/tmp/test-home")

	builder := NewChildEnvBuilder(&EnvConfig{
		InheritSystemSafe: true,
		AllowedSystemVars: []string{"PATH", "HOME"},
	})

	envVars := builder.BuildSecureEnvironment()
	envMap := make(map[string]string)
	for _, envVar := range envVars {
		parts := strings.SplitN(envVar, "=", 2)
		if len(parts) == 2 {
			envMap[parts[0]] = parts[1]
		}
	}

	enhancedPath := envMap["PATH"]
	assert.Contains(t, enhancedPath, "/usr/local/bin", "widened PATH should include /usr/local/bin")
	assert.Contains(t, enhancedPath, "/usr/bin", "widened PATH should preserve the original /usr/bin")
	assert.Contains(t, enhancedPath, "/bin", "widened PATH should preserve the original /bin")

	pathParts := strings.Split(enhancedPath, ":")
	assert.Greater(t, len(pathParts), 2, "widened PATH should have more entries than the original")

	localBinIndex, usrBinIndex := -1, -1
	for i, part := range pathParts {
		if part == "/usr/local/bin" {
			localBinIndex = i
		}
		if part == "/usr/bin" {
			usrBinIndex = i
		}
	}
	require.True(t, localBinIndex >= 0, "/usr/local/bin should be in the PATH")
	require.True(t, usrBinIndex >= 0, "/usr/bin should be in the PATH")
	assert.Less(t, localBinIndex, usrBinIndex, "discovered paths should take priority over the inherited PATH")
}

func TestBuildSecureEnvironment_ComprehensivePathIsUnchanged(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("Unix PATH layout assumed")
	}

	originalEnv := os.Environ()
	defer func() {
		os.Clearenv()
		for _, env := range originalEnv {
			parts := strings.SplitN(env, "=", 2)
			if len(parts) == 2 {
				os.Setenv(parts[0], parts[1])
			}
		}
	}()

	os.Clearenv()
	os.Setenv("PATH", "/usr/local/bin:/usr/bin:/bin:/usr/sbin:/sbin")
	os.Setenv("HOME", "/tmp/test-home")

	builder := NewChildEnvBuilder(&EnvConfig{
		InheritSystemSafe: true,
		AllowedSystemVars: []string{"PATH", "HOME"},
	})

	envVars := builder.BuildSecureEnvironment()
	envMap := make(map[string]string)
	for _, envVar := range envVars {
		parts := strings.SplitN(envVar, "=", 2)
		if len(parts) == 2 {
			envMap[parts[0]] = parts[1]
		}
	}

	assert.Equal(t, "/usr/local/bin:/usr/bin:/bin:/usr/sbin:/sbin", envMap["PATH"],
		"an already-comprehensive PATH should pass through with no reordering")
}

func TestBuildSecureEnvironment_MinimalLaunchEnvironmentStillFindsCommonToolDirs(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("Unix PATH layout assumed")
	}

	originalEnv := os.Environ()
	defer func() {
		os.Clearenv()
		for _, env := range originalEnv {
			parts := strings.SplitN(env, "=", 2)
			if len(parts) == 2 {
				os.Setenv(parts[0], parts[1])
			}
		}
	}()

	// Very minimal PATH, as Launchd/systemd might hand a daemon process.
	os.Clearenv()
	os.Setenv("PATH", "/usr/bin")
	os.Setenv("HOME", "/tmp/test-home")

	builder := NewChildEnvBuilder(&EnvConfig{
		InheritSystemSafe: true,
		AllowedSystemVars: []string{"PATH", "HOME", "USER", "TMPDIR"},
	})

	envVars := builder.BuildSecureEnvironment()
	var enhancedPath string
	for _, envVar := range envVars {
		if strings.HasPrefix(envVar, "PATH=") {
			enhancedPath = envVar[5:]
			break
		}
	}

	require.NotEmpty(t, enhancedPath, "PATH should be present in the environment")

	for _, dir := range []string{"/usr/local/bin", "/opt/homebrew/bin"} {
		if _, err := os.Stat(dir); err == nil {
			assert.Contains(t, enhancedPath, dir, "widened PATH should include %s when it exists on this host", dir)
		}
	}

	assert.Contains(t, enhancedPath, "/usr/bin", "widened PATH should preserve the original entry")
}
