package models

import (
	"errors"
	"testing"
)

func TestTaskStatusValid(t *testing.T) {
	valid := []TaskStatus{TaskStatusPending, TaskStatusRunning, TaskStatusDone, TaskStatusFailed}
	for _, s := range valid {
		if !s.Valid() {
			t.Errorf("expected %q to be valid", s)
		}
	}

	if TaskStatus("unknown").Valid() {
		t.Error("expected unknown status to be invalid")
	}
	if TaskStatus("").Valid() {
		t.Error("expected empty status to be invalid")
	}
}

func TestTaskChild(t *testing.T) {
	root := Task{
		ID:          "root-id",
		Description: "summarize topic X",
		Depth:       0,
		Status:      TaskStatusRunning,
	}

	child := root.Child("child-id", "research X")

	if child.ParentID != "root-id" {
		t.Errorf("expected parent 'root-id', got %q", child.ParentID)
	}
	if child.Depth != 1 {
		t.Errorf("expected depth 1, got %d", child.Depth)
	}
	if child.Description != "research X" {
		t.Errorf("expected description 'research X', got %q", child.Description)
	}
	if child.Status != TaskStatusPending {
		t.Errorf("expected pending status, got %q", child.Status)
	}
	if child.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}

	// Depth must increase by exactly 1 per level.
	grandchild := child.Child("gc-id", "read sources")
	if grandchild.Depth != 2 {
		t.Errorf("expected depth 2, got %d", grandchild.Depth)
	}
	if grandchild.ParentID != "child-id" {
		t.Errorf("expected parent 'child-id', got %q", grandchild.ParentID)
	}
}

func TestResultFailed(t *testing.T) {
	ok := Result{TaskID: "t1", Role: "researcher", Output: "findings"}
	if ok.Failed() {
		t.Error("expected success result not to be failed")
	}

	bad := Result{TaskID: "t2", Role: "writer", Err: errors.New("provider timeout")}
	if !bad.Failed() {
		t.Error("expected error result to be failed")
	}
}
