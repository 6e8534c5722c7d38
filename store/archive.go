package store

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress/zstd"
)

// ArchiveWriter streams TurnRows into outDir/tmp and moves the file into
// outDir on Finalize, so readers never see a partial archive.
type ArchiveWriter struct {
	tmpPath string
	outPath string

	file   *os.File
	writer *parquet.GenericWriter[TurnRow]

	rows int
}

func NewArchiveWriter(outDir, matchID string) (*ArchiveWriter, error) {
	if outDir == "" {
		return nil, fmt.Errorf("outDir is required")
	}
	if matchID == "" {
		return nil, fmt.Errorf("matchID is required")
	}

	absOut, err := filepath.Abs(outDir)
	if err != nil {
		absOut = outDir
	}
	tmpDir := filepath.Join(absOut, "tmp")
	if err := os.MkdirAll(tmpDir, 0o755); err != nil {
		return nil, fmt.Errorf("create tmp dir: %w", err)
	}

	name := matchID + ".parquet"
	tmpPath := filepath.Join(tmpDir, name)
	f, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open tmp parquet: %w", err)
	}

	w := parquet.NewGenericWriter[TurnRow](f,
		parquet.Compression(&zstd.Codec{Level: zstd.SpeedBetterCompression}),
	)
	w.SetKeyValueMetadata("schema", SchemaVersion)

	return &ArchiveWriter{
		tmpPath: tmpPath,
		outPath: filepath.Join(absOut, name),
		file:    f,
		writer:  w,
	}, nil
}

func (a *ArchiveWriter) OutPath() string { return a.outPath }
func (a *ArchiveWriter) Rows() int       { return a.rows }

func (a *ArchiveWriter) Write(row TurnRow) error {
	if a.writer == nil {
		return fmt.Errorf("archive writer is closed")
	}
	if _, err := a.writer.Write([]TurnRow{row}); err != nil {
		return fmt.Errorf("write turn %d: %w", row.Tick, err)
	}
	a.rows++
	return nil
}

// Finalize closes the writer and publishes the archive. With no rows the tmp
// file is removed and the returned path is empty. Calling it twice is a no-op.
func (a *ArchiveWriter) Finalize() (string, int, error) {
	if a.writer == nil && a.file == nil {
		return "", 0, nil
	}

	closeErr := a.writer.Close()
	a.writer = nil
	_ = a.file.Sync()
	fileErr := a.file.Close()
	a.file = nil
	if closeErr != nil {
		return "", 0, fmt.Errorf("close parquet writer: %w", closeErr)
	}
	if fileErr != nil {
		return "", 0, fmt.Errorf("close parquet file: %w", fileErr)
	}

	if a.rows == 0 {
		_ = os.Remove(a.tmpPath)
		return "", 0, nil
	}
	if err := os.Rename(a.tmpPath, a.outPath); err != nil {
		return "", 0, fmt.Errorf("rename parquet: %w", err)
	}
	return a.outPath, a.rows, nil
}

var ErrSchema = errors.New("unexpected archive schema")

// ReadArchive loads every row of an archive written by ArchiveWriter.
func ReadArchive(path string) ([]TurnRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, err
	}
	pf, err := parquet.OpenFile(f, stat.Size())
	if err != nil {
		return nil, fmt.Errorf("open parquet %s: %w", path, err)
	}
	if v, _ := pf.Lookup("schema"); v != SchemaVersion {
		return nil, fmt.Errorf("%w: %s has %q", ErrSchema, path, v)
	}

	reader := parquet.NewGenericReader[TurnRow](pf)
	defer reader.Close()

	rows := make([]TurnRow, 0, reader.NumRows())
	for {
		// Rows hold slices, so every batch needs its own buffer.
		buf := make([]TurnRow, 64)
		n, err := reader.Read(buf)
		rows = append(rows, buf[:n]...)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read parquet %s: %w", path, err)
		}
		if n == 0 {
			break
		}
	}
	return rows, nil
}
