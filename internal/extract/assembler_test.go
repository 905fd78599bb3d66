package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kijins-dev/chatwork-task-generator/internal/domain"
	"github.com/kijins-dev/chatwork-task-generator/internal/logparse"
)

func scenarioRoster() *domain.Roster {
	return domain.NewRoster([]string{"宮内良明", "安田太郎"}, []string{"パートナーA"})
}

func report(date string, rooms ...domain.RoomSection) domain.Report {
	return domain.Report{Source: date + ".md", Date: date, Rooms: rooms}
}

func TestAssemble_BoldNextAction(t *testing.T) {
	// Setup
	a := NewAssembler(scenarioRoster(), testOperator)
	r := report("2025-01-15", domain.RoomSection{
		Name:        "社内定例",
		NextActions: []string{"**宮内良明**：資料送付（1/20）"},
	})

	// Execute
	res := a.Assemble(r)

	// Assert
	require.Len(t, res.Tasks, 1)
	assert.Equal(t, domain.Task{
		Assignee:   "宮内良明",
		Content:    "資料送付",
		Deadline:   "1/20",
		Room:       "社内定例",
		SourceDate: "2025-01-15",
		Kind:       domain.KindNextAction,
		Status:     domain.StatusPending,
	}, res.Tasks[0])
	assert.Equal(t, 1, res.Stats.NextActions)
}

func TestAssemble_PlaceholderYieldsNothing(t *testing.T) {
	a := NewAssembler(scenarioRoster(), testOperator)
	r := report("2025-01-15", domain.RoomSection{
		Name:        "社内定例",
		NextActions: []string{"誰が・何を・いつまでに: 明確な期限指定なし"},
	})

	res := a.Assemble(r)

	assert.Empty(t, res.Tasks)
	assert.Equal(t, 1, res.Stats.Dropped)
}

func TestAssemble_UnattributedRequiredActionDefaultsToOperator(t *testing.T) {
	a := NewAssembler(scenarioRoster(), testOperator)
	r := report("2025-01-15", domain.RoomSection{
		Name:            "社内定例",
		RequiredActions: []string{"資料を確認してください"},
	})

	res := a.Assemble(r)

	require.Len(t, res.Tasks, 1)
	task := res.Tasks[0]
	assert.Equal(t, testOperator, task.Assignee)
	assert.Equal(t, "資料を確認してください", task.Content)
	assert.Empty(t, task.Deadline)
	assert.Equal(t, domain.KindRequiredAction, task.Kind)
	assert.Equal(t, 1, res.Stats.Defaulted)
	assert.Equal(t, 1, res.Stats.RequiredActions)
}

func TestAssemble_DefaultOwnershipKeepsWholeLine(t *testing.T) {
	lines := []string{
		"先方へ折り返し連絡",
		"請求書の送付（今週中）",
		"**決定事項**：予算承認",
		"承認が完了し次第、発注",
	}
	a := NewAssembler(scenarioRoster(), testOperator)
	for _, line := range lines {
		t.Run(line, func(t *testing.T) {
			res := a.Assemble(report("2025-01-15", domain.RoomSection{
				Name:            "社内定例",
				RequiredActions: []string{line},
			}))
			require.Len(t, res.Tasks, 1)
			assert.Equal(t, testOperator, res.Tasks[0].Assignee)
			assert.Equal(t, line, res.Tasks[0].Content)
		})
	}
}

func TestAssembleBatch_DeduplicatesAcrossRooms(t *testing.T) {
	a := NewAssembler(scenarioRoster(), testOperator)
	r := report("2025-01-15",
		domain.RoomSection{Name: "ルーム1", NextActions: []string{"**安田**：見積作成"}},
		domain.RoomSection{Name: "ルーム2", NextActions: []string{"**安田**：見積作成"}},
	)

	res := a.AssembleBatch([]domain.Report{r})

	require.Len(t, res.Tasks, 1)
	assert.Equal(t, "安田太郎", res.Tasks[0].Assignee)
	assert.Equal(t, "ルーム1", res.Tasks[0].Room, "first occurrence survives")
	assert.Equal(t, 1, res.Stats.Duplicates)
}

func TestAssembleBatch_DeduplicatesAcrossReports(t *testing.T) {
	a := NewAssembler(scenarioRoster(), testOperator)
	day1 := report("2025-01-14", domain.RoomSection{Name: "A", RequiredActions: []string{"宮内：資料送付"}})
	day2 := report("2025-01-15", domain.RoomSection{Name: "B", NextActions: []string{"- dummy", "宮内さんが資料送付"}})

	res := a.AssembleBatch([]domain.Report{day1, day2})

	require.Len(t, res.Tasks, 1)
	assert.Equal(t, "2025-01-14", res.Tasks[0].SourceDate)
	assert.Equal(t, domain.KindRequiredAction, res.Tasks[0].Kind)
	assert.Equal(t, 1, res.Stats.Duplicates)
	assert.Equal(t, 1, res.Stats.Dropped)
}

func TestAssemble_ExcludedRoom(t *testing.T) {
	a := NewAssembler(scenarioRoster(), testOperator)
	r := report("2025-01-15",
		domain.RoomSection{
			Name:            "社外_パートナーA",
			NextActions:     []string{"**宮内良明**：資料送付"},
			RequiredActions: []string{"資料を確認してください"},
		},
		domain.RoomSection{
			Name:        "パートナーA",
			NextActions: []string{"**安田**：見積作成"},
		},
	)

	res := a.Assemble(r)

	assert.Empty(t, res.Tasks)
	assert.Equal(t, 2, res.Stats.ExcludedRooms)
	assert.Equal(t, 0, res.Stats.Rooms)
}

func TestAssemble_NormalizesToRosterName(t *testing.T) {
	a := NewAssembler(scenarioRoster(), testOperator)
	r := report("2025-01-15", domain.RoomSection{
		Name:        "社内定例",
		NextActions: []string{"宮内：提案書の修正"},
	})

	res := a.Assemble(r)

	require.Len(t, res.Tasks, 1)
	assert.Equal(t, "宮内良明", res.Tasks[0].Assignee)
}

func TestAssembleBatch_Deterministic(t *testing.T) {
	text := `> [!note] 社内定例
## 次アクション
- **宮内良明**：資料送付（1/20）
- 安田さんが契約書を確認
- 佐藤：議事録共有
## 要対応
- 資料を確認してください
> [!info] 開発
## 次アクション
- **安田**：見積作成
- 佐藤：議事録共有
`
	reports := []domain.Report{logparse.Parse("2025-01-15.md", text)}

	first := NewAssembler(scenarioRoster(), testOperator).AssembleBatch(reports)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, NewAssembler(scenarioRoster(), testOperator).AssembleBatch(reports))
	}

	seen := make(map[domain.TaskKey]bool)
	for _, task := range first.Tasks {
		assert.False(t, seen[task.Key()], "duplicate key %v", task.Key())
		seen[task.Key()] = true
	}
	assert.Len(t, first.Tasks, 5)
	assert.Equal(t, 1, first.Stats.Duplicates)
}

func TestAssembler_Trace(t *testing.T) {
	a := NewAssembler(scenarioRoster(), testOperator)
	r := report("2025-01-15",
		domain.RoomSection{
			Name:            "社内定例",
			NextActions:     []string{"**安田**：見積作成", "雑談"},
			RequiredActions: []string{"資料を確認してください"},
		},
		domain.RoomSection{Name: "パートナーA", NextActions: []string{"**宮内**：確認"}},
	)

	traces := a.Trace(r)

	require.Len(t, traces, 3)
	assert.Equal(t, OutcomeExtracted, traces[0].Outcome)
	assert.Equal(t, MatcherBold, traces[0].Matcher)
	assert.Equal(t, "安田太郎", traces[0].Assignee)
	assert.Equal(t, OutcomeDropped, traces[1].Outcome)
	assert.Equal(t, OutcomeDefaulted, traces[2].Outcome)
	assert.Equal(t, testOperator, traces[2].Assignee)
}

func TestAssemble_LatinRosterNameWithSpace(t *testing.T) {
	// Setup
	a := NewAssembler(domain.NewRoster([]string{"Alice Smith", "宮内良明"}, nil), testOperator)
	r := report("2025-01-15", domain.RoomSection{
		Name:        "海外案件",
		NextActions: []string{"**Alice Smith**：見積作成"},
	})

	// Execute
	res := a.Assemble(r)

	// Assert
	require.Len(t, res.Tasks, 1)
	assert.Equal(t, "Alice Smith", res.Tasks[0].Assignee)
	assert.Equal(t, "見積作成", res.Tasks[0].Content)
}

func TestSummarize(t *testing.T) {
	// Setup
	reports := []domain.Report{
		report("2025-01-15",
			domain.RoomSection{Name: "A社案件"},
			domain.RoomSection{Name: "パートナーA連絡"},
		),
		report("2025-01-16", domain.RoomSection{Name: "B社案件"}),
	}
	tasks := []domain.Task{
		{Assignee: "宮内良明", Content: "見積作成", Kind: domain.KindNextAction, Room: "A社案件"},
		{Assignee: "安田太郎", Content: "請求書確認", Kind: domain.KindRequiredAction, Room: "A社案件"},
		{Assignee: "宮内良明", Content: "見積作成", Kind: domain.KindNextAction, Room: "B社案件"},
	}

	// Execute
	got := Summarize(reports, scenarioRoster(), tasks)

	// Assert
	require.Len(t, got.Tasks, 2)
	assert.Equal(t, "A社案件", got.Tasks[0].Room)
	assert.Equal(t, Stats{
		Rooms:           2,
		ExcludedRooms:   1,
		NextActions:     2,
		RequiredActions: 1,
		Duplicates:      1,
	}, got.Stats)
}
