package storage

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"poolctl/internal/model"
)

func TestJsonlJournalAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal", "ops.jsonl")
	journal := NewJsonlJournal(path)

	ops := []model.OperationRecord{
		{Network: "mainnet", Op: "swap", Token0: "0x2", Token1: "0x100", Fee: "42", CreatedAt: time.Now().UTC()},
		{Network: "mainnet", Op: "mint", Token0: "0x2", Token1: "0x100", TxHash: "0xabc", CreatedAt: time.Now().UTC()},
	}
	for _, op := range ops {
		if err := journal.RecordOperation(context.Background(), op); err != nil {
			t.Fatalf("record operation: %v", err)
		}
	}

	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("open journal: %v", err)
	}
	defer file.Close()

	var got []model.OperationRecord
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		var op model.OperationRecord
		if err := json.Unmarshal(scanner.Bytes(), &op); err != nil {
			t.Fatalf("unmarshal line: %v", err)
		}
		got = append(got, op)
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("scan journal: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("line count mismatch: got %d, want 2", len(got))
	}
	if got[0].Op != "swap" || got[0].Fee != "42" {
		t.Fatalf("first record mismatch: %+v", got[0])
	}
	if got[1].Op != "mint" || got[1].TxHash != "0xabc" {
		t.Fatalf("second record mismatch: %+v", got[1])
	}
}
