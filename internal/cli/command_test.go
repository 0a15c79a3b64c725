package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idelchi/storagestat/internal/storage"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer

	cmd := New("v1.2.3").Command()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.Execute()

	return out.String(), err
}

func writeBytes(t *testing.T, path string, size int) {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, make([]byte, size), 0o644))
}

func TestCommand_JSON(t *testing.T) {
	base := t.TempDir()
	writeBytes(t, filepath.Join(base, "clip.webm"), 3*storage.MiB)
	writeBytes(t, filepath.Join(base, "uploads", "a.png"), 2*storage.MiB)

	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("top: 1\n"), 0o644))

	out, err := execute(t, "--output", "json", "--config", configPath, base)
	require.NoError(t, err)

	var report storage.Report
	require.NoError(t, json.Unmarshal([]byte(out), &report))

	assert.Len(t, report.Entries, 2)
	require.Len(t, report.Top, 1)
	assert.Equal(t, "clip.webm", report.Top[0].Label)
	assert.Equal(t, int64(5*storage.MiB), report.TotalBytes)
}

func TestCommand_TopFlagOverridesConfig(t *testing.T) {
	base := t.TempDir()
	writeBytes(t, filepath.Join(base, "a.mp4"), 10)
	writeBytes(t, filepath.Join(base, "b.mp4"), 20)

	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("top: 1\n"), 0o644))

	out, err := execute(t, "-o", "json", "-c", configPath, "-t", "5", base)
	require.NoError(t, err)

	var report storage.Report
	require.NoError(t, json.Unmarshal([]byte(out), &report))

	assert.Equal(t, 5, report.TopN)
	assert.Len(t, report.Top, 2)
}

func TestCommand_Dedupe(t *testing.T) {
	base := t.TempDir()
	writeBytes(t, filepath.Join(base, "huge.mkv"), 11*storage.MiB)

	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("top: 5\n"), 0o644))

	dedupeConfig := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(dedupeConfig, []byte("dedupe: true\n"), 0o644))

	tests := []struct {
		name      string
		args      []string
		wantItems int
		wantBytes int64
	}{
		{"listed twice by default", []string{"-c", configPath}, 2, 22 * storage.MiB},
		{"flag", []string{"-c", configPath, "--dedupe"}, 1, 11 * storage.MiB},
		{"config", []string{"-c", dedupeConfig}, 1, 11 * storage.MiB},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, append(tt.args, "-o", "json", base)...)
			require.NoError(t, err)

			var report storage.Report
			require.NoError(t, json.Unmarshal([]byte(out), &report))

			assert.Len(t, report.Entries, tt.wantItems)
			assert.Equal(t, tt.wantBytes, report.TotalBytes)
		})
	}
}

func TestCommand_Errors(t *testing.T) {
	base := t.TempDir()

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"bad output", []string{"-o", "xml", base}, "invalid output format"},
		{"negative top", []string{"--top=-1", base}, "top cannot be negative"},
		{"missing path", []string{filepath.Join(base, "missing")}, "accessing path"},
		{"missing config", []string{"-c", filepath.Join(base, "none.yaml"), base}, "not found"},
		{"too many args", []string{base, base}, "accepts at most 1 arg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestCommand_Version(t *testing.T) {
	out, err := execute(t, "--version")
	require.NoError(t, err)
	assert.Equal(t, "v1.2.3\n", out)
}

func TestConfigCommand_Default(t *testing.T) {
	out, err := execute(t, "config", "--default")
	require.NoError(t, err)

	assert.Contains(t, out, "functions/node_modules")
	assert.Contains(t, out, "kind: large")
	assert.Contains(t, out, "min_size: 10 MiB")
}

func TestConfigCommand_ResolvesDefaults(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("top: 3\n"), 0o644))

	out, err := execute(t, "config", "-c", configPath)
	require.NoError(t, err)

	assert.Contains(t, out, "top: 3")
	assert.Contains(t, out, "name: videos")
}

func TestConfigCommand_Path(t *testing.T) {
	out, err := execute(t, "config", "--path")
	require.NoError(t, err)
	assert.Contains(t, out, filepath.Join("storagestat", "config.yaml"))
}
