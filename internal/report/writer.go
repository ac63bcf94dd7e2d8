package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go-jobfinder-automation/internal/models"

	"go.uber.org/zap"
)

const (
	JSONFile       = "jobs.json"
	MarkdownFile   = "jobs.md"
	SummaryFile    = "jobs_summary.md"
	IssueBodyFile  = "issue_body.md"
	MaxIssueBytes  = 60000
	filePermission = 0644
)

// JSON is a pretty-printed array of the accepted raw records.
func JSON(jobs []models.RawJob) ([]byte, error) {
	if jobs == nil {
		jobs = []models.RawJob{}
	}
	data, err := json.MarshalIndent(jobs, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal jobs: %w", err)
	}
	return data, nil
}

// Writer puts every report artifact in one directory.
type Writer struct {
	dir           string
	maxIssueBytes int
	logger        *zap.Logger
	now           func() time.Time
}

func NewWriter(dir string, logger *zap.Logger) *Writer {
	return &Writer{
		dir:           dir,
		maxIssueBytes: MaxIssueBytes,
		logger:        logger,
		now:           time.Now,
	}
}

// Write renders and saves all artifacts. A failing file does not stop the
// others; every failure is returned joined.
func (w *Writer) Write(jobs []models.RawJob) error {
	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	now := w.now()
	full := Markdown(jobs, now)
	condensed := CondensedMarkdown(jobs, now)

	var errs []error
	data, err := JSON(jobs)
	if err != nil {
		errs = append(errs, err)
	} else {
		errs = append(errs, w.save(JSONFile, data))
	}
	errs = append(errs,
		w.save(MarkdownFile, []byte(full)),
		w.save(SummaryFile, []byte(condensed)),
	)

	issueBody := Select(full, condensed, w.maxIssueBytes)
	if len(full) > w.maxIssueBytes {
		w.logger.Info("Full report too large for an issue, using summary", zap.Int("bytes", len(full)), zap.Int("limit", w.maxIssueBytes))
	}
	errs = append(errs, w.save(IssueBodyFile, []byte(issueBody)))

	return errors.Join(errs...)
}

func (w *Writer) save(name string, data []byte) error {
	path := filepath.Join(w.dir, name)
	if err := os.WriteFile(path, data, filePermission); err != nil {
		w.logger.Error("Failed to write report", zap.String("path", path), zap.Error(err))
		return fmt.Errorf("write %s: %w", name, err)
	}
	w.logger.Info("Report saved", zap.String("path", path), zap.Int("bytes", len(data)))
	return nil
}
