// Package gitpub commits and pushes the regenerated docs bundle to the
// pages repository using the system git.
package gitpub

import (
	"bytes"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Publisher drives git in a working tree.
type Publisher struct {
	repoPath string
	remote   string
	branch   string
}

// New creates a Publisher for the repository at repoPath.
func New(repoPath, remote, branch string) *Publisher {
	return &Publisher{repoPath: repoPath, remote: remote, branch: branch}
}

// Publish stages everything, commits with message (or a timestamped default)
// and pushes. A clean tree is a no-op success. A failed push returns an
// error; the previous published state on the remote is untouched.
func (p *Publisher) Publish(message string) error {
	changed, err := p.hasChanges()
	if err != nil {
		return err
	}
	if !changed {
		logrus.Info("변경사항 없음, 스킵")
		return nil
	}

	if message == "" {
		message = fmt.Sprintf("Update IPO data - %s", time.Now().Format("2006-01-02 15:04"))
	}

	if _, err := p.git("add", "."); err != nil {
		return err
	}
	if _, err := p.git("commit", "-m", message); err != nil {
		return err
	}
	if _, err := p.git("push", p.remote, p.branch); err != nil {
		return err
	}

	logrus.Infof("GitHub 푸시 완료: %s", message)
	return nil
}

func (p *Publisher) hasChanges() (bool, error) {
	out, err := p.git("status", "--porcelain")
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(out) != "", nil
}

func (p *Publisher) git(args ...string) (string, error) {
	logrus.Debugf("실행: git %s", strings.Join(args, " "))

	cmd := exec.Command("git", args...)
	cmd.Dir = p.repoPath

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("git %s: %w (%s)",
			args[0], err, strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}
