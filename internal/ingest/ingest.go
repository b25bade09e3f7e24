// Package ingest reads flow observations from health-record exports.
package ingest

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/terraincognita07/ovumcal/internal/models"
	"golang.org/x/sync/errgroup"
)

const (
	FormatAppleHealth = "apple-health"
	FormatCSV         = "csv"
	FormatXLSX        = "xlsx"
)

type readerFunc func(path string, reader io.Reader) ([]models.Observation, []error, error)

var readers = map[string]readerFunc{
	FormatAppleHealth: ReadAppleHealth,
	FormatCSV:         ReadCSV,
	FormatXLSX:        ReadXLSX,
}

// maxParallelFiles bounds how many source files are parsed at once.
const maxParallelFiles = 4

func DetectFormat(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xml":
		return FormatAppleHealth, nil
	case ".csv":
		return FormatCSV, nil
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("unsupported source file %s", path)
	}
}

func ReadFile(path string) (Batch, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return Batch{}, err
	}

	file, err := os.Open(path)
	if err != nil {
		return Batch{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	observations, rejected, err := readers[format](path, file)
	if err != nil {
		return Batch{}, err
	}
	return Batch{Path: path, Format: format, Observations: observations, Rejected: rejected}, nil
}

// ReadFiles parses several sources concurrently. Batches come back in the
// order of paths; the first unreadable file aborts the whole read.
func ReadFiles(ctx context.Context, paths []string) ([]Batch, error) {
	batches := make([]Batch, len(paths))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(maxParallelFiles)

	for index, path := range paths {
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			batch, err := ReadFile(path)
			if err != nil {
				return err
			}
			batches[index] = batch
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}
	return batches, nil
}

// Merge flattens batches into one observation list plus every rejection.
func Merge(batches []Batch) ([]models.Observation, []error) {
	var observations []models.Observation
	var rejected []error
	for _, batch := range batches {
		observations = append(observations, batch.Observations...)
		rejected = append(rejected, batch.Rejected...)
	}
	return observations, rejected
}
