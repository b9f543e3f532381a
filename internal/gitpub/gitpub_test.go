package gitpub

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

func initRepo(t *testing.T) string {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}

	dir := t.TempDir()
	run := func(args ...string) {
		t.Helper()
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		if out, err := cmd.CombinedOutput(); err != nil {
			t.Fatalf("git %s: %v\n%s", strings.Join(args, " "), err, out)
		}
	}
	run("init")
	run("config", "user.email", "test@example.com")
	run("config", "user.name", "test")
	return dir
}

func TestPublishCleanTreeIsNoOp(t *testing.T) {
	dir := initRepo(t)
	p := New(dir, "origin", "main")

	if err := p.Publish(""); err != nil {
		t.Errorf("clean tree should publish without error: %v", err)
	}
}

func TestPublishCommitsChanges(t *testing.T) {
	dir := initRepo(t)
	if err := os.WriteFile(filepath.Join(dir, "data.json"), []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}

	// No remote configured; the push step is expected to fail, but the
	// commit must land first.
	p := New(dir, "origin", "main")
	err := p.Publish("update data")
	if err == nil {
		t.Fatal("expected push to fail without a remote")
	}
	if !strings.Contains(err.Error(), "git push") {
		t.Errorf("failure should come from the push step: %v", err)
	}

	cmd := exec.Command("git", "log", "--oneline")
	cmd.Dir = dir
	out, logErr := cmd.CombinedOutput()
	if logErr != nil {
		t.Fatalf("git log: %v\n%s", logErr, out)
	}
	if !strings.Contains(string(out), "update data") {
		t.Errorf("commit should exist despite the failed push:\n%s", out)
	}
}

func TestPublishInvalidRepoErrors(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}

	p := New(t.TempDir(), "origin", "main")
	if err := p.Publish(""); err == nil {
		t.Error("expected error for a directory that is not a repository")
	}
}
