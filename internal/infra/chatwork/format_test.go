package chatwork

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kijins-dev/chatwork-task-generator/internal/domain"
)

func TestFormatTeamList(t *testing.T) {
	groups := []domain.AssigneeTasks{
		{Assignee: "宮内良明", Tasks: []domain.Task{
			{Content: "見積書を送る", Deadline: "1/20", Room: "営業"},
			{Content: "議事録確認"},
		}},
		{Assignee: "空"},
	}

	got := FormatTeamList(groups)

	want := "[info][title]📋 本日のタスク一覧[/title]\n" +
		"[hr]\n" +
		"👤 宮内良明\n" +
		"\n" +
		"・見積書を送る (1/20) [営業]\n" +
		"・議事録確認\n" +
		"\n" +
		"[/info]"
	assert.Equal(t, want, got)
}

func TestFormatPersonal(t *testing.T) {
	group := domain.AssigneeTasks{Assignee: "安田太郎", Tasks: []domain.Task{
		{Content: "契約書を確認", Kind: domain.KindRequiredAction, Deadline: "明日"},
		{Content: "資料共有", Kind: domain.KindNextAction},
	}}

	tests := []struct {
		name      string
		accountID string
		wantHead  string
	}{
		{"with mention", "123", "[To:123]安田太郎さん"},
		{"without mention", "", "安田太郎さん"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatPersonal(group, tt.accountID)
			assert.Equal(t, tt.wantHead+"\n\n"+
				"[info][title]📋 あなたのタスク[/title]\n"+
				"🔴 ・契約書を確認 (明日)\n"+
				"・資料共有\n"+
				"[/info]", got)
		})
	}
}

func TestFormatSummary(t *testing.T) {
	mk := func(name string, n int) domain.AssigneeTasks {
		g := domain.AssigneeTasks{Assignee: name}
		for i := 0; i < n; i++ {
			g.Tasks = append(g.Tasks, domain.Task{Content: "x"})
		}
		return g
	}
	groups := []domain.AssigneeTasks{mk("A", 1), mk("B", 3), mk("C", 2), mk("D", 2), mk("E", 0)}

	got := FormatSummary("2025-01-15", groups)

	assert.Contains(t, got, "[info][title]📊 2025-01-15 タスクサマリー[/title]")
	assert.Contains(t, got, "・合計タスク数: 8件")
	assert.Contains(t, got, "・担当者数: 4名")
	assert.Contains(t, got, "📌 タスクが多い担当者:\n  B: 3件\n  C: 2件\n  D: 2件\n")
	assert.NotContains(t, got, "  A: 1件")
}

func TestFormatReminder(t *testing.T) {
	got := FormatReminder([]domain.Task{{Assignee: "宮内良明", Content: "見積書", Deadline: "明日"}})

	assert.Equal(t, "[info][title]⚠️ 期限が近いタスク[/title]\n・宮内良明: 見積書 (明日)\n[/info]", got)
}
