package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/kijins-dev/chatwork-task-generator/internal/domain"
)

// Completer produces a completion for a prompt.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Ensure implementations satisfy domain.TaskValidator.
var (
	_ domain.TaskValidator = (*Validator)(nil)
	_ domain.TaskValidator = PassThrough{}
	_ Completer            = (*Client)(nil)
)

var jsonArrayPattern = regexp.MustCompile(`\[[\s\S]*\]`)

// Verdict is one element of the model's JSON answer.
type Verdict struct {
	Reason string `json:"reason"`
	Index  int    `json:"index"`
	IsTask bool   `json:"isTask"`
}

// Validator asks the model which extracted lines are real action items.
// A batch whose call or answer fails is kept unfiltered.
type Validator struct {
	completer Completer
	roster    domain.RosterProvider
	logger    *zap.Logger
	batchSize int
}

// NewValidator creates a Validator. roster may be nil; it is only used to
// replace member IDs in the prompt text.
func NewValidator(completer Completer, roster domain.RosterProvider, batchSize int, logger *zap.Logger) *Validator {
	if batchSize <= 0 {
		batchSize = domain.DefaultAIBatchSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Validator{
		completer: completer,
		roster:    roster,
		logger:    logger,
		batchSize: batchSize,
	}
}

// Validate returns the tasks the model judged real, in input order.
func (v *Validator) Validate(ctx context.Context, tasks []domain.Task) ([]domain.Task, error) {
	if len(tasks) == 0 {
		return nil, nil
	}

	var r *domain.Roster
	if v.roster != nil {
		loaded, err := v.roster.Load(ctx)
		if err != nil {
			v.logger.Warn("Roster unavailable for prompt rendering", zap.Error(err))
		} else {
			r = loaded
		}
	}

	out := make([]domain.Task, 0, len(tasks))
	for start := 0; start < len(tasks); start += v.batchSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		end := min(start+v.batchSize, len(tasks))
		batch := tasks[start:end]

		keep, err := v.validateBatch(ctx, batch, r)
		if err != nil {
			v.logger.Warn("AI validation failed, keeping batch",
				zap.Int("batch_start", start),
				zap.Int("count", len(batch)),
				zap.Error(err),
			)
			out = append(out, batch...)
			continue
		}
		out = append(out, keep...)
	}
	return out, nil
}

func (v *Validator) validateBatch(ctx context.Context, batch []domain.Task, r *domain.Roster) ([]domain.Task, error) {
	text, err := v.completer.Complete(ctx, BuildPrompt(batch, r))
	if err != nil {
		return nil, err
	}
	verdicts, err := ParseVerdicts(text)
	if err != nil {
		return nil, err
	}

	accepted := make([]bool, len(batch))
	for _, vd := range verdicts {
		if vd.IsTask && vd.Index > 0 && vd.Index <= len(batch) {
			accepted[vd.Index-1] = true
		}
	}

	var keep []domain.Task
	for i, t := range batch {
		if accepted[i] {
			keep = append(keep, t)
		} else {
			v.logger.Debug("AI rejected task",
				zap.String("assignee", t.Assignee),
				zap.String("content", t.Content),
			)
		}
	}
	return keep, nil
}

// BuildPrompt renders the numbered candidate list and the judging rules.
func BuildPrompt(batch []domain.Task, r *domain.Roster) string {
	var list strings.Builder
	for i, t := range batch {
		deadline := t.Deadline
		if deadline == "" {
			deadline = "未設定"
		}
		fmt.Fprintf(&list, "%d. 担当者: %s, 内容: %s, 期限: %s\n",
			i+1, t.Assignee, r.ReplaceIDs(t.Content), deadline)
	}

	return `以下のリストは、チャットワークの会話ログから抽出された「タスク候補」です。
各項目が本当に「誰かがやるべきアクションアイテム（タスク）」かどうかを判定してください。

## タスク候補:
` + list.String() + `
## 判定基準:
- タスク: 具体的なアクションがあり、担当者が明確で、実行可能なもの
- タスクではない: 単なる報告、共有情報、質問、完了した事項、一般的な会話

## 出力形式:
各タスク候補について、以下の形式でJSON配列として出力してください:
[
  { "index": 1, "isTask": true, "reason": "具体的なアクションがある" },
  { "index": 2, "isTask": false, "reason": "完了報告であり、これからやることではない" }
]

JSON配列のみを出力してください。`
}

// ParseVerdicts extracts the first-to-last bracketed JSON array from text.
func ParseVerdicts(text string) ([]Verdict, error) {
	raw := jsonArrayPattern.FindString(text)
	if raw == "" {
		return nil, fmt.Errorf("no JSON array in response")
	}
	var out []Verdict
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("decode verdicts: %w", err)
	}
	return out, nil
}

// PassThrough accepts every task. It is used when AI validation is disabled.
type PassThrough struct{}

// Validate returns tasks unchanged.
func (PassThrough) Validate(_ context.Context, tasks []domain.Task) ([]domain.Task, error) {
	return tasks, nil
}
