// Package publish exports a question bank as a directory of markdown pages.
package publish

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"qbank/internal/resources"
)

type WriteOptions struct {
	Overwrite bool
}

type WriteResult struct {
	Written []string `json:"written"`
}

// WriteBank writes <toDir>/banks/<bankID>/index.md plus one page per
// question under questions/.
func WriteBank(ctx context.Context, api resources.API, bankID string, toDir string, opt WriteOptions) (WriteResult, error) {
	if api == nil {
		return WriteResult{}, errors.New("missing api")
	}
	bankID = strings.TrimSpace(bankID)
	if bankID == "" {
		return WriteResult{}, errors.New("missing bank id")
	}
	toDir = strings.TrimSpace(toDir)
	if toDir == "" {
		return WriteResult{}, errors.New("missing --to")
	}
	toDir = filepath.Clean(toDir)

	bc, err := loadBankContext(ctx, api, bankID)
	if err != nil {
		return WriteResult{}, err
	}
	qs, err := api.ListQuestions(ctx, bankID)
	if err != nil {
		return WriteResult{}, err
	}

	bankDir := filepath.Join(toDir, "banks", bankID)
	questionsDir := filepath.Join(bankDir, "questions")
	if err := os.MkdirAll(questionsDir, 0o755); err != nil {
		return WriteResult{}, err
	}

	indexPath := filepath.Join(bankDir, "index.md")
	if err := writeFile(indexPath, []byte(RenderBankIndexMarkdown(bc, qs)), opt.Overwrite); err != nil {
		return WriteResult{}, err
	}

	// Stops at the first failure; earlier pages stay on disk.
	written := []string{indexPath}
	for _, q := range qs {
		p := filepath.Join(questionsDir, q.ID+".md")
		if err := writeFile(p, []byte(RenderQuestionMarkdown(bc, q)), opt.Overwrite); err != nil {
			return WriteResult{Written: written}, err
		}
		written = append(written, p)
	}
	return WriteResult{Written: written}, nil
}

func writeFile(path string, b []byte, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return errors.New("file exists (use --overwrite): " + path)
		}
	}
	return os.WriteFile(path, b, 0o644)
}
