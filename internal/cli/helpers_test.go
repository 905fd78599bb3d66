package cli

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kijins-dev/chatwork-task-generator/internal/app"
	"github.com/kijins-dev/chatwork-task-generator/internal/domain"
)

const testRoster = `members:
  - name: 宮内良明
    chatwork_id: "100"
  - name: 安田太郎
    chatwork_id: "200"
excluded_rooms:
  - 採用
`

const testReport = `# 2025-01-15
> [!note] 営業
## 次アクション
- **安田太郎**：テスト作成（1/20）
- **外部太郎**：見積回答
## 要対応
- 契約書に押印
## 自分への関係
- 自分宛てメンション: 0件
- 自分の発言: あり

> [!note] 採用
## 次アクション
- **宮内良明**：面接調整
`

// newTestContainer builds a container over a temp working directory holding
// configText, a roster and one report. The global config directory is isolated.
func newTestContainer(t *testing.T, configText string) (*app.Container, string) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, domain.LocalConfigFileName), []byte(configText), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, domain.DefaultRosterFile), []byte(testRoster), 0o600))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, domain.DefaultLogsDir), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(dir, domain.DefaultLogsDir, "2025-01-15.md"), []byte(testReport), 0o600))

	c, err := app.New(app.Options{
		Dir:       dir,
		LogOutput: io.Discard,
		Getenv:    func(string) string { return "" },
	})
	require.NoError(t, err)
	t.Cleanup(c.Close)
	return c, dir
}

// runCommand executes the root command with args and returns stdout.
func runCommand(t *testing.T, c *app.Container, args ...string) (string, error) {
	t.Helper()
	root := NewRootCommand(c, "test")
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), err
}
