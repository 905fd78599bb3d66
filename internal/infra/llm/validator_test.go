package llm

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kijins-dev/chatwork-task-generator/internal/domain"
	"github.com/kijins-dev/chatwork-task-generator/internal/testutil"
)

// stubCompleter answers each call from a queue.
type stubCompleter struct {
	answers []string
	errs    []error
	prompts []string
}

func (s *stubCompleter) Complete(_ context.Context, prompt string) (string, error) {
	i := len(s.prompts)
	s.prompts = append(s.prompts, prompt)
	var err error
	if i < len(s.errs) {
		err = s.errs[i]
	}
	answer := ""
	if i < len(s.answers) {
		answer = s.answers[i]
	}
	return answer, err
}

func tasksNamed(contents ...string) []domain.Task {
	out := make([]domain.Task, 0, len(contents))
	for _, c := range contents {
		out = append(out, domain.Task{Assignee: "宮内良明", Content: c})
	}
	return out
}

func contents(tasks []domain.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.Content)
	}
	return out
}

func TestValidator_Validate(t *testing.T) {
	tests := []struct {
		name    string
		answers []string
		errs    []error
		want    []string
	}{
		{
			name:    "filters by verdict",
			answers: []string{"結果:\n[{\"index\":1,\"isTask\":true},{\"index\":2,\"isTask\":false},{\"index\":3,\"isTask\":true}]", `[{"index":1,"isTask":false}]`},
			want:    []string{"a", "c"},
		},
		{
			name:    "out of range and duplicate indices",
			answers: []string{`[{"index":0,"isTask":true},{"index":3,"isTask":true},{"index":3,"isTask":true},{"index":9,"isTask":true}]`, `[{"index":1,"isTask":true}]`},
			want:    []string{"c", "d"},
		},
		{
			name:    "no array keeps batch",
			answers: []string{"判定できません", `[]`},
			want:    []string{"a", "b", "c"},
		},
		{
			name:    "call failure keeps batch",
			answers: []string{"", `[{"index":1,"isTask":true}]`},
			errs:    []error{errors.New("boom")},
			want:    []string{"a", "b", "c", "d"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Setup
			stub := &stubCompleter{answers: tt.answers, errs: tt.errs}
			v := NewValidator(stub, nil, 3, nil)

			// Execute
			got, err := v.Validate(context.Background(), tasksNamed("a", "b", "c", "d"))

			// Assert
			require.NoError(t, err)
			assert.Equal(t, tt.want, contents(got))
			assert.Len(t, stub.prompts, 2)
		})
	}
}

func TestValidator_Validate_Empty(t *testing.T) {
	stub := &stubCompleter{}
	got, err := NewValidator(stub, nil, 0, nil).Validate(context.Background(), nil)

	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Empty(t, stub.prompts)
}

func TestValidator_ReplacesMemberIDs(t *testing.T) {
	roster := &domain.Roster{Members: []domain.Member{{Name: "安田太郎", ChatworkID: "555"}}}
	stub := &stubCompleter{answers: []string{`[{"index":1,"isTask":true}]`}}
	v := NewValidator(stub, &testutil.MockRosterProvider{Roster: roster}, 10, nil)

	_, err := v.Validate(context.Background(), tasksNamed("※555に確認"))

	require.NoError(t, err)
	require.Len(t, stub.prompts, 1)
	assert.Contains(t, stub.prompts[0], "内容: （安田太郎）に確認")
}

func TestBuildPrompt(t *testing.T) {
	batch := []domain.Task{
		{Assignee: "宮内良明", Content: "見積書を送る", Deadline: "1/20"},
		{Assignee: "安田太郎", Content: "議事録"},
	}

	got := BuildPrompt(batch, nil)

	assert.Contains(t, got, "1. 担当者: 宮内良明, 内容: 見積書を送る, 期限: 1/20\n")
	assert.Contains(t, got, "2. 担当者: 安田太郎, 内容: 議事録, 期限: 未設定\n")
	assert.True(t, strings.HasSuffix(got, "JSON配列のみを出力してください。"))
}

func TestParseVerdicts(t *testing.T) {
	got, err := ParseVerdicts("```json\n[{\"index\":2,\"isTask\":true,\"reason\":\"依頼\"}]\n```")
	require.NoError(t, err)
	assert.Equal(t, []Verdict{{Index: 2, IsTask: true, Reason: "依頼"}}, got)

	_, err = ParseVerdicts("none")
	assert.Error(t, err)

	_, err = ParseVerdicts("[not json]")
	assert.Error(t, err)
}

func TestPassThrough(t *testing.T) {
	in := tasksNamed("a", "b")
	got, err := PassThrough{}.Validate(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, in, got)
}
