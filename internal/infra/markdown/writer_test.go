package markdown

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kijins-dev/chatwork-task-generator/internal/domain"
	"github.com/kijins-dev/chatwork-task-generator/internal/testutil"
)

const stamp = "2025/01/15 09:00:00"

func sampleGroups() []domain.AssigneeTasks {
	return []domain.AssigneeTasks{
		{Assignee: "宮内良明", Tasks: []domain.Task{
			{Assignee: "宮内良明", Content: "見積書を送る", Deadline: "1/20", Room: "営業", SourceDate: "2025-01-15", Kind: domain.KindNextAction},
			{Assignee: "宮内良明", Content: "契約書を確認", Room: "法務", SourceDate: "2025-01-15", Kind: domain.KindRequiredAction},
			{Assignee: "宮内良明", Content: "請求書", Room: "営業", SourceDate: "2025-01-15", Kind: domain.KindNextAction, Status: domain.StatusCompleted},
		}},
		{Assignee: "安田/太郎", Tasks: []domain.Task{
			{Assignee: "安田/太郎", Content: "議事録", Room: "開発", SourceDate: "2025-01-14", Kind: domain.KindNextAction},
		}},
	}
}

func TestAssigneeMarkdown(t *testing.T) {
	got := AssigneeMarkdown(sampleGroups()[0], stamp)

	want := strings.Join([]string{
		"# 宮内良明のタスク",
		"",
		"> 最終更新: " + stamp,
		"",
		"## 🔴 要対応",
		"",
		"- [ ] 契約書を確認 (法務)",
		"",
		"## 📋 次アクション",
		"",
		"- [ ] 見積書を送る 📅 1/20 (営業)",
		"- [x] 請求書 (営業)",
		"",
		"---",
		"",
		"## ソース情報",
		"",
		"- 2025-01-15 - 営業",
		"- 2025-01-15 - 法務",
	}, "\n") + "\n"
	assert.Equal(t, want, got)
}

func TestTeamMarkdown(t *testing.T) {
	got := TeamMarkdown(sampleGroups(), stamp)

	assert.Contains(t, got, "## 宮内良明 (3件)\n\n- [ ] 見積書を送る 📅 1/20 📌 営業\n")
	assert.Contains(t, got, "- [x] 請求書 📌 営業")
	assert.Contains(t, got, "## 安田/太郎 (1件)")
}

func TestDailyMarkdown(t *testing.T) {
	reports := []domain.Report{{Date: "2025-01-15", Rooms: make([]domain.RoomSection, 3)}}

	got := DailyMarkdown("2025-01-15", sampleGroups(), reports, "宮内良明", stamp)

	assert.Contains(t, got, "# タスクレポート (2025-01-15)")
	assert.Contains(t, got, "- 合計タスク数: 4件\n- 担当者数: 2名\n- 対象ログ: 1件 (3ルーム)")
	assert.Contains(t, got, "- 宮内良明: 3件 ⭐\n- 安田/太郎: 1件")
	assert.Contains(t, got, "- 🔴 **宮内良明**: 契約書を確認\n")
	assert.Contains(t, got, "- 📋 **宮内良明**: 見積書を送る 📅 1/20\n")
}

func TestWriter_Write(t *testing.T) {
	// Setup
	dir := filepath.Join(t.TempDir(), "out")
	clock := &testutil.MockClock{NowTime: time.Date(2025, 1, 15, 9, 0, 0, 0, time.Local)}
	w := NewWriter(dir, "宮内良明", clock)

	// Execute
	paths, err := w.Write(context.Background(), "2025-01-15", sampleGroups(), nil)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "宮内良明_タスク.md"),
		filepath.Join(dir, "安田_太郎_タスク.md"),
		filepath.Join(dir, "チームタスク一覧.md"),
		filepath.Join(dir, "タスクレポート_2025-01-15.md"),
	}, paths)

	data, err := os.ReadFile(paths[0])
	require.NoError(t, err)
	assert.Contains(t, string(data), "> 最終更新: "+stamp)
}
