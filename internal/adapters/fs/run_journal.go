package fs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/liquidity-rails/rails-deploy/internal/domain"
	"github.com/liquidity-rails/rails-deploy/internal/domain/config"
	"github.com/liquidity-rails/rails-deploy/internal/usecase"
)

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// RunJournalAdapter keeps the latest run record of each plan under the data directory
type RunJournalAdapter struct {
	dir string
}

// NewRunJournalAdapter creates a new RunJournalAdapter
func NewRunJournalAdapter(cfg *config.RuntimeConfig) *RunJournalAdapter {
	return &RunJournalAdapter{dir: cfg.DataDir}
}

// Path returns the journal file of a plan
func (j *RunJournalAdapter) Path(planName string) string {
	name := strings.Trim(unsafeFileChars.ReplaceAllString(planName, "-"), "-")
	if name == "" {
		name = "default"
	}
	return filepath.Join(j.dir, fmt.Sprintf("run-%s.json", name))
}

// Save replaces the plan's journal with record
func (j *RunJournalAdapter) Save(_ context.Context, record *domain.RunRecord) error {
	return writeJSONAtomic(j.Path(record.Plan), record)
}

// Load reads the plan's journal
func (j *RunJournalAdapter) Load(_ context.Context, planName string) (*domain.RunRecord, error) {
	var record domain.RunRecord
	if err := readJSON(j.Path(planName), &record); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: no run recorded for plan %s", domain.ErrNotFound, planName)
		}
		return nil, err
	}
	return &record, nil
}

// Ensure RunJournalAdapter implements RunJournal
var _ usecase.RunJournal = (*RunJournalAdapter)(nil)
