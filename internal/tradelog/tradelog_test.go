package tradelog

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestAppendAndAppendSignal(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("FUND_LOG_DIR", dir)

	err := Append(Entry{
		ContractID: "INXD-26DEC31",
		Side:       "BUY",
		OrderID:    "ord-1",
		Size:       120,
		Price:      0.62,
		Confidence: 0.81,
	})
	if err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	err = AppendSignal(SignalEntry{
		ContractID: "INXD-26DEC31",
		Action:     "BUY",
		Confidence: 0.81,
	})
	if err != nil {
		t.Fatalf("AppendSignal failed: %v", err)
	}

	day := time.Now().UTC().Format("2006-01-02")

	f, err := os.Open(filepath.Join(dir, day+".txt"))
	if err != nil {
		t.Fatalf("Expected daily trade log: %v", err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	if !sc.Scan() {
		t.Fatal("Expected one trade entry")
	}
	var e Entry
	if err := json.Unmarshal(sc.Bytes(), &e); err != nil {
		t.Fatalf("Entry is not valid JSON: %v", err)
	}
	if e.ContractID != "INXD-26DEC31" || e.Side != "BUY" {
		t.Errorf("Unexpected entry: %+v", e)
	}
	if e.Time == "" {
		t.Error("Expected timestamp to be set")
	}

	if _, err := os.Stat(filepath.Join(dir, "signals", day+".txt")); err != nil {
		t.Errorf("Expected daily signal log: %v", err)
	}
}

func TestCompressOlder(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("FUND_LOG_DIR", dir)

	old := filepath.Join(dir, "2020-01-01.txt")
	if err := os.WriteFile(old, []byte("{}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	past := time.Now().AddDate(0, 0, -10)
	if err := os.Chtimes(old, past, past); err != nil {
		t.Fatal(err)
	}

	if err := CompressOlder(7); err != nil {
		t.Fatalf("CompressOlder failed: %v", err)
	}

	if _, err := os.Stat(old); !os.IsNotExist(err) {
		t.Error("Expected original log to be removed")
	}
	if _, err := os.Stat(old + ".gz"); err != nil {
		t.Errorf("Expected gzipped log, got %v", err)
	}
}

func TestCompressOlderDisabled(t *testing.T) {
	if err := CompressOlder(0); err != nil {
		t.Errorf("Expected nil for zero retention, got %v", err)
	}
}
