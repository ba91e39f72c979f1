package audit

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// FeedArchive keeps a JSON snapshot of the records decoded on each sync run.
type FeedArchive struct {
	Dir string
}

// ArchivedRun is the document written for one sync run.
type ArchivedRun struct {
	ID        string    `json:"id"`
	FeedURL   string    `json:"feed_url"`
	FetchedAt time.Time `json:"fetched_at"`
	Records   any       `json:"records"`
}

func NewFeedArchive(dir string) *FeedArchive {
	return &FeedArchive{Dir: dir}
}

// Save writes the decoded records of a run to a file named by a fresh UUID
// and returns the file name.
func (a *FeedArchive) Save(feedURL string, records any) (string, error) {
	if err := os.MkdirAll(a.Dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}

	runID := uuid.New().String()
	filename := runID + ".json"
	path := filepath.Join(a.Dir, filename)

	data, err := json.MarshalIndent(ArchivedRun{
		ID:        runID,
		FeedURL:   feedURL,
		FetchedAt: time.Now().UTC(),
		Records:   records,
	}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal archived run: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write archive file: %w", err)
	}

	log.Printf("Goodreads sync: archived feed snapshot to %s", path)
	return filename, nil
}
