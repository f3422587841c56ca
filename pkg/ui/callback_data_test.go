package ui

import (
	"strings"
	"testing"
)

func TestParseReviewCallback(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    ReviewAction
		wantErr bool
	}{
		{
			name:  "show",
			input: "r:show:abc123",
			want:  ReviewAction{Op: OpShow, Token: "abc123"},
		},
		{
			name:  "remembered",
			input: "r:fb:abc123:y",
			want:  ReviewAction{Op: OpFeedback, Token: "abc123", Remembered: true},
		},
		{
			name:  "forgotten",
			input: "r:fb:abc123:n",
			want:  ReviewAction{Op: OpFeedback, Token: "abc123"},
		},
		{name: "empty", input: "", wantErr: true},
		{name: "wrong prefix", input: "s:home", wantErr: true},
		{name: "unknown op", input: "r:skip:abc", wantErr: true},
		{name: "missing token", input: "r:show:", wantErr: true},
		{name: "bad answer", input: "r:fb:abc:maybe", wantErr: true},
		{name: "feedback without answer", input: "r:fb:abc", wantErr: true},
		{name: "too long", input: "r:show:" + strings.Repeat("a", MaxCallbackDataLen), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseReviewCallback(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q, got %+v", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error for %q: %v", tt.input, err)
			}
			if got != tt.want {
				t.Fatalf("expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestBuildReviewCallbacksRoundTrip(t *testing.T) {
	show, err := BuildShowCallback("7f3a")
	if err != nil {
		t.Fatalf("build show failed: %v", err)
	}
	if show != "r:show:7f3a" {
		t.Fatalf("unexpected show data %q", show)
	}

	for _, remembered := range []bool{true, false} {
		data, err := BuildFeedbackCallback("7f3a", remembered)
		if err != nil {
			t.Fatalf("build feedback failed: %v", err)
		}
		action, err := ParseReviewCallback(data)
		if err != nil {
			t.Fatalf("parse %q failed: %v", data, err)
		}
		if action.Op != OpFeedback || action.Token != "7f3a" || action.Remembered != remembered {
			t.Fatalf("unexpected action for %q: %+v", data, action)
		}
	}
}

func TestBuildCallbackRejectsBadToken(t *testing.T) {
	if _, err := BuildShowCallback(""); err == nil {
		t.Fatal("expected error for empty token")
	}
	if _, err := BuildFeedbackCallback("a:b", true); err == nil {
		t.Fatal("expected error for token containing separator")
	}
	if _, err := BuildShowCallback(strings.Repeat("x", MaxCallbackDataLen)); err == nil {
		t.Fatal("expected error for oversized callback data")
	}
}
