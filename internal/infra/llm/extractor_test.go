package llm

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kijins-dev/chatwork-task-generator/internal/domain"
)

func extractRoster() *domain.Roster {
	return &domain.Roster{
		Members: []domain.Member{
			{Name: "宮内良明", ChatworkID: "111"},
			{Name: "安田 太郎", ChatworkID: "555"},
		},
		ExcludedRooms: []string{"雑談"},
	}
}

func TestExtractor_Extract(t *testing.T) {
	// Setup
	reports := []domain.Report{{
		Source: "2025-01-15.md",
		Date:   "2025-01-15",
		Rooms: []domain.RoomSection{
			{Name: "A社案件", NextActions: []string{"- 宮内：見積を送付（1/20まで）"}, RequiredActions: []string{"- ※555 請求書を確認"}},
			{Name: "雑談部屋", NextActions: []string{"- 宮内：ランチの店を決める"}},
			{Name: "空ルーム"},
			{Name: "B社案件", RequiredActions: []string{"- 安田さん：契約書を回収する"}},
		},
	}}
	stub := &stubCompleter{answers: []string{
		"抽出結果:\n" + `[
  {"assignee": "宮内", "content": " 見積を送付 ", "deadline": "1/20", "kind": "次アクション"},
  {"assignee": "（安田太郎）", "content": "請求書を確認", "kind": "要対応"},
  {"assignee": "伊藤 蒼星", "content": "資料作成"},
  {"assignee": "", "content": "担当なし"},
  {"assignee": "宮内良明", "content": "  "}
]`,
		`[{"assignee": "555", "content": "契約書を回収する", "kind": "required_action"}]`,
	}}
	e := NewExtractor(stub, nil)

	// Execute
	got, err := e.Extract(context.Background(), reports, extractRoster())

	// Assert
	require.NoError(t, err)
	require.Len(t, stub.prompts, 2, "excluded and empty rooms are not sent")
	assert.Equal(t, []domain.Task{
		{Assignee: "宮内良明", Content: "見積を送付", Deadline: "1/20", Room: "A社案件", SourceDate: "2025-01-15", Kind: domain.KindNextAction, Status: domain.StatusPending},
		{Assignee: "安田 太郎", Content: "請求書を確認", Room: "A社案件", SourceDate: "2025-01-15", Kind: domain.KindRequiredAction, Status: domain.StatusPending},
		{Assignee: "安田 太郎", Content: "契約書を回収する", Room: "B社案件", SourceDate: "2025-01-15", Kind: domain.KindRequiredAction, Status: domain.StatusPending},
	}, got)
}

func TestExtractor_PromptListsMembersAndReplacesIDs(t *testing.T) {
	// Setup
	reports := []domain.Report{{
		Date: "2025-01-15",
		Rooms: []domain.RoomSection{
			{Name: "A社案件", NextActions: []string{"- ※555 に連絡", "- 担当(111)：発注"}},
		},
	}}
	stub := &stubCompleter{answers: []string{`[]`}}

	// Execute
	got, err := NewExtractor(stub, nil).Extract(context.Background(), reports, extractRoster())

	// Assert
	require.NoError(t, err)
	assert.Empty(t, got)
	require.Len(t, stub.prompts, 1)
	prompt := stub.prompts[0]
	assert.Contains(t, prompt, "宮内良明, 安田 太郎")
	assert.Contains(t, prompt, "（安田 太郎） に連絡")
	assert.Contains(t, prompt, "担当（宮内良明）：発注")
	assert.NotContains(t, prompt, "※555")
	assert.Contains(t, prompt, "## 次アクション\n- ")
	assert.Contains(t, prompt, "\n\n## 要対応")
}

func TestExtractor_FailedRoomIsSkipped(t *testing.T) {
	// Setup
	reports := []domain.Report{{
		Date: "2025-01-15",
		Rooms: []domain.RoomSection{
			{Name: "A社案件", NextActions: []string{"- 宮内：見積を送付する"}},
			{Name: "B社案件", NextActions: []string{"- 宮内：請求書を発行する"}},
			{Name: "C社案件", NextActions: []string{"- 宮内：日程を調整する"}},
		},
	}}
	stub := &stubCompleter{
		answers: []string{"", "JSONなし", `[{"assignee":"宮内","content":"日程を調整する"}]`},
		errs:    []error{errors.New("API error (500)")},
	}

	// Execute
	got, err := NewExtractor(stub, nil).Extract(context.Background(), reports, extractRoster())

	// Assert
	require.NoError(t, err)
	assert.Len(t, stub.prompts, 3)
	require.Len(t, got, 1)
	assert.Equal(t, "C社案件", got[0].Room)
	assert.Equal(t, "宮内良明", got[0].Assignee)
}

func TestExtractor_CanceledContext(t *testing.T) {
	// Setup
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	reports := []domain.Report{{Rooms: []domain.RoomSection{{Name: "A社案件", NextActions: []string{"- 宮内：見積を送付する"}}}}}
	stub := &stubCompleter{errs: []error{context.Canceled}}

	// Execute
	_, err := NewExtractor(stub, nil).Extract(ctx, reports, extractRoster())

	// Assert
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBuildExtractPrompt_Truncates(t *testing.T) {
	text := strings.Repeat("あ", maxSectionRunes+50)

	prompt := BuildExtractPrompt(text, []string{"宮内良明"})

	assert.Contains(t, prompt, strings.Repeat("あ", maxSectionRunes)+"\n\n## ルール")
	assert.NotContains(t, prompt, strings.Repeat("あ", maxSectionRunes+1))
}

func TestMatchMember(t *testing.T) {
	members := []string{"宮内良明", "安田 太郎", "Alice Smith"}
	tests := []struct {
		name   string
		in     string
		want   string
		wantOK bool
	}{
		{name: "exact", in: "宮内良明", want: "宮内良明", wantOK: true},
		{name: "spaces ignored", in: "安田　太郎", want: "安田 太郎", wantOK: true},
		{name: "surname prefix", in: "宮内良", want: "宮内良明", wantOK: true},
		{name: "shared three-rune prefix", in: "宮内良子", want: "宮内良明", wantOK: true},
		{name: "substring", in: "安田", want: "安田 太郎", wantOK: true},
		{name: "contains member", in: "営業の宮内良明さん", want: "宮内良明", wantOK: true},
		{name: "latin", in: "AliceSmith", want: "Alice Smith", wantOK: true},
		{name: "non-member", in: "伊藤 蒼星", wantOK: false},
		{name: "empty", in: "  ", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := MatchMember(tt.in, members)

			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseCandidates(t *testing.T) {
	got, err := ParseCandidates("はい\n[{\"assignee\":\"宮内\",\"content\":\"a\",\"deadline\":\"明日\"}]\n以上")
	require.NoError(t, err)
	assert.Equal(t, []Candidate{{Assignee: "宮内", Content: "a", Deadline: "明日"}}, got)

	_, err = ParseCandidates("なし")
	assert.Error(t, err)

	_, err = ParseCandidates("[{broken]")
	assert.Error(t, err)
}
