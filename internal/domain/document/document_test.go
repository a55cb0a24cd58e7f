package document

import (
	"strings"
	"testing"
	"time"

	"github.com/kailas-cloud/docsense/internal/domain/category"
)

func TestNewValidation(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name    string
		id      string
		owner   string
		cat     category.Category
		raw     string
		wantErr bool
	}{
		{name: "valid", id: "a1b2c3d4", owner: "15551234567", cat: category.General, raw: "hello"},
		{name: "missing id", id: "", owner: "15551234567", cat: category.General, wantErr: true},
		{name: "missing owner", id: "a1b2c3d4", owner: "", cat: category.General, wantErr: true},
		{name: "invalid category", id: "a1b2c3d4", owner: "15551234567", cat: "report", wantErr: true},
		{
			name: "oversized content", id: "a1b2c3d4", owner: "15551234567", cat: category.General,
			raw: strings.Repeat("x", MaxContentSize+1), wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.id, tt.owner, "f.txt", tt.raw, tt.cat, 0.5, now)
			if (err != nil) != tt.wantErr {
				t.Errorf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestWithClassification(t *testing.T) {
	d, err := New("a1b2c3d4", "15551234567", "", "package main", category.General, 0.2, time.Now())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	re := d.WithClassification(category.Code, 0.9)
	if re.Category() != category.Code || re.Confidence() != 0.9 {
		t.Errorf("reclassified = (%q, %v), want (code, 0.9)", re.Category(), re.Confidence())
	}
	if re.RawText() != d.RawText() {
		t.Error("reclassification must not change raw text")
	}
	if d.Category() != category.General {
		t.Error("original document mutated")
	}
}

func TestPreview(t *testing.T) {
	d, _ := New("a1b2c3d4", "15551234567", "", "abcdefgh", category.General, 0, time.Now())
	if got := d.Preview(4); got != "abcd..." {
		t.Errorf("Preview(4) = %q", got)
	}
	if got := d.Preview(100); got != "abcdefgh" {
		t.Errorf("Preview(100) = %q", got)
	}
}
