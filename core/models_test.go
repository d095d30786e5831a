package core

import (
	"testing"
)

func TestIDFromContent(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		wantSame bool
	}{
		{
			name:     "same content produces same ID",
			content:  "test content",
			wantSame: true,
		},
		{
			name:     "empty string",
			content:  "",
			wantSame: true,
		},
		{
			name:     "long content",
			content:  "This is a much longer piece of content that should still hash consistently",
			wantSame: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id1 := IDFromContent(tt.content)
			id2 := IDFromContent(tt.content)

			if tt.wantSame && id1 != id2 {
				t.Errorf("IDFromContent() produced different IDs for same content: %d vs %d", id1, id2)
			}
		})
	}
}

func TestIDFromContent_Different(t *testing.T) {
	id1 := IDFromContent("content1")
	id2 := IDFromContent("content2")

	if id1 == id2 {
		t.Errorf("IDFromContent() produced same ID for different content")
	}
}

func TestNewResult(t *testing.T) {
	r := NewResult("calc", "4", "2 + 2", "4")

	if r.ProviderID != "calc" || r.Title != "4" || r.Subtitle != "2 + 2" || r.Value != "4" {
		t.Fatalf("NewResult() did not copy fields: %+v", r)
	}
	if r.Id == 0 {
		t.Errorf("NewResult() left ID unset")
	}
	if r.Id != NewResult("calc", "four", "", "4").Id {
		t.Errorf("NewResult() ID should depend only on provider and value")
	}
	if r.Id == NewResult("files", "4", "2 + 2", "4").Id {
		t.Errorf("NewResult() ID should differ across providers")
	}
}
