package commands_test

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/finadvisor/internal/config"
)

var binaryPath string

func TestMain(m *testing.M) {
	// Build the binary once for all tests.
	tmpDir, err := os.MkdirTemp("", "finadvisor-test-*")
	if err != nil {
		panic(err)
	}
	defer os.RemoveAll(tmpDir)

	binaryPath = filepath.Join(tmpDir, "finadvisor")
	cmd := exec.Command("go", "build", "-o", binaryPath, "../../cmd/finadvisor")
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		panic("failed to build binary: " + err.Error())
	}

	os.Exit(m.Run())
}

// runFinadvisor runs the binary with hosted-provider keys cleared so no test
// reaches a real model.
func runFinadvisor(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := exec.Command(binaryPath, args...)
	cmd.Env = append(os.Environ(), "GROQ_API_KEY=", "OPENAI_API_KEY=", "GEMINI_API_KEY=")
	out, err := cmd.CombinedOutput()
	return string(out), err
}

func TestInit_CreatesStructure(t *testing.T) {
	dir := t.TempDir()
	_, err := runFinadvisor(t, "init", dir)
	require.NoError(t, err)

	expectedDirs := []string{
		"import",
		filepath.Join("import", "processed"),
		"logs",
		"data",
	}
	for _, d := range expectedDirs {
		info, err := os.Stat(filepath.Join(dir, d))
		require.NoError(t, err, "directory %s should exist", d)
		assert.True(t, info.IsDir(), "%s should be a directory", d)
	}

	_, err = os.Stat(filepath.Join(dir, "import", ".gitkeep"))
	require.NoError(t, err)
}

func TestInit_Config(t *testing.T) {
	dir := t.TempDir()
	out, err := runFinadvisor(t, "init", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Set GROQ_API_KEY")

	data, err := os.ReadFile(filepath.Join(dir, "finadvisor.yaml"))
	require.NoError(t, err)
	contents := string(data)

	assert.Contains(t, contents, "provider: groq")
	assert.Contains(t, contents, "model: llama-3.3-70b-versatile")
	assert.Contains(t, contents, "path: data/finadvisor.db")

	cfg, err := config.Load(filepath.Join(dir, "finadvisor.yaml"))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())
}

func TestInit_Provider(t *testing.T) {
	dir := t.TempDir()
	out, err := runFinadvisor(t, "init", dir, "--provider", "ollama", "--model", "mistral")
	require.NoError(t, err)
	assert.NotContains(t, out, "Set ")

	cfg, err := config.Load(filepath.Join(dir, "finadvisor.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "ollama", cfg.LLM.Provider)
	assert.Equal(t, "mistral", cfg.LLM.Model)
	assert.Empty(t, cfg.LLM.APIKeyEnv)
}

func TestInit_UnknownProvider(t *testing.T) {
	dir := t.TempDir()
	_, err := runFinadvisor(t, "init", dir, "--provider", "anthropic")
	require.Error(t, err, "init with an unknown provider should fail")

	_, err = os.Stat(filepath.Join(dir, "finadvisor.yaml"))
	assert.True(t, os.IsNotExist(err))
}

func TestInit_RefusesExisting(t *testing.T) {
	dir := t.TempDir()
	_, err := runFinadvisor(t, "init", dir)
	require.NoError(t, err)

	out, err := runFinadvisor(t, "init", dir)
	require.Error(t, err, "second init should fail")
	assert.Contains(t, out, "already exists")
}

func TestInit_Gitignore(t *testing.T) {
	dir := t.TempDir()
	_, err := runFinadvisor(t, "init", dir)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, ".gitignore"))
	require.NoError(t, err)
	contents := string(data)

	for _, pattern := range []string{"data/", ".env"} {
		assert.Contains(t, contents, pattern, ".gitignore should contain %s", pattern)
	}
}

func TestInit_DirFlag(t *testing.T) {
	dir := t.TempDir()
	_, err := runFinadvisor(t, "init", "--dir", dir)
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, "finadvisor.yaml"))
	require.NoError(t, err)
}

func TestVersion(t *testing.T) {
	out, err := runFinadvisor(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "dev (commit: none")
}

func TestWorkspaceRequiresInit(t *testing.T) {
	out, err := runFinadvisor(t, "report", "--dir", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, out, "run finadvisor init first")
}
