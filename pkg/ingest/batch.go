package ingest

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// IngestDir imports every transcript file under dir. Files are
// independent of each other, so they are fanned out across the
// configured worker count; a failure in one file is recorded in the
// Result and never aborts the batch. Turn order within a single file is
// preserved because each file is handled by exactly one worker.
func (ing *Ingester) IngestDir(ctx context.Context, dir string) (*Result, error) {
	files, err := scanDir(dir, ing.extension)
	if err != nil {
		return nil, fmt.Errorf("scanning transcript directory: %w", err)
	}

	ing.logger.Info("scanning transcripts", "dir", dir, "files", len(files))

	result := &Result{Files: len(files)}

	workers := int(ing.workers)
	if workers > len(files) {
		workers = len(files)
	}

	jobs := make(chan string)
	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)

	wg.Add(workers)
	for range workers {
		go func() {
			defer wg.Done()
			for path := range jobs {
				convID, err := ing.IngestFile(ctx, path)

				mu.Lock()
				if err != nil {
					result.Failures = append(result.Failures, FileFailure{Path: path, Err: err})
				} else {
					result.Stored = append(result.Stored, convID)
				}
				mu.Unlock()

				if err != nil {
					ing.logger.Warn("skipping transcript", "file", path, "reason", err)
				}
			}
		}()
	}

	for _, path := range files {
		jobs <- path
	}
	close(jobs)
	wg.Wait()

	return result, nil
}

// scanDir finds all files with the given extension under dir.
func scanDir(dir, extension string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && strings.HasSuffix(path, extension) {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

// IngestPath imports a single file or, when path is a directory, every
// transcript under it.
func (ing *Ingester) IngestPath(ctx context.Context, path string) (*Result, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("reading path: %w", err)
	}

	if info.IsDir() {
		return ing.IngestDir(ctx, path)
	}

	result := &Result{Files: 1}
	convID, err := ing.IngestFile(ctx, path)
	if err != nil {
		result.Failures = append(result.Failures, FileFailure{Path: path, Err: err})
	} else {
		result.Stored = append(result.Stored, convID)
	}

	return result, nil
}
