package storage

import (
	"testing"

	"gapscout/internal/models"
)

func TestGroupByTarget(t *testing.T) {
	comments := []models.Comment{
		{CommentID: "1", TargetType: "gap", TargetID: "0"},
		{CommentID: "2", TargetType: "gap", TargetID: "0"},
		{CommentID: "3", TargetType: "direction", TargetID: "2"},
	}
	grouped := GroupByTarget(comments)
	if len(grouped) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(grouped))
	}
	if len(grouped["gap:0"]) != 2 {
		t.Fatalf("expected 2 comments under gap:0, got %d", len(grouped["gap:0"]))
	}
	if len(grouped["direction:2"]) != 1 {
		t.Fatal("direction comment not grouped")
	}
}
