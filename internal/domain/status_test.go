package domain

import "testing"

func TestStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		name   string
		from   Status
		to     Status
		expect bool
	}{
		{"pending -> completed", StatusPending, StatusCompleted, true},
		{"pending -> pending", StatusPending, StatusPending, false},
		{"completed -> pending", StatusCompleted, StatusPending, false},
		{"completed -> completed", StatusCompleted, StatusCompleted, false},
		{"unknown -> completed", Status("unknown"), StatusCompleted, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.from.CanTransitionTo(tt.to)
			if got != tt.expect {
				t.Errorf("CanTransitionTo() = %v, want %v", got, tt.expect)
			}
		})
	}
}

func TestStatus_IsTerminal(t *testing.T) {
	if StatusPending.IsTerminal() {
		t.Error("pending should not be terminal")
	}
	if !StatusCompleted.IsTerminal() {
		t.Error("completed should be terminal")
	}
}

func TestStatus_Display(t *testing.T) {
	tests := []struct {
		status Status
		want   string
	}{
		{StatusPending, "未完了"},
		{StatusCompleted, "完了"},
		{Status("other"), "other"},
	}
	for _, tt := range tests {
		if got := tt.status.Display(); got != tt.want {
			t.Errorf("%q.Display() = %q, want %q", tt.status, got, tt.want)
		}
	}
}

func TestStatus_IsValid(t *testing.T) {
	for _, s := range AllStatuses() {
		if !s.IsValid() {
			t.Errorf("%q should be valid", s)
		}
	}
	if Status("todo").IsValid() {
		t.Error("todo should not be valid")
	}
}

func TestParseStatus(t *testing.T) {
	tests := []struct {
		input   string
		want    Status
		wantErr bool
	}{
		{"pending", StatusPending, false},
		{"未完了", StatusPending, false},
		{"completed", StatusCompleted, false},
		{"完了", StatusCompleted, false},
		{"done", StatusCompleted, false},
		{"closed", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseStatus(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseStatus(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseStatus(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
