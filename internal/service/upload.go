package service

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	apperrors "github.com/BMSihlas/dataops-greenflow-sage/internal/errors"
	"github.com/BMSihlas/dataops-greenflow-sage/internal/parquet"
	"github.com/BMSihlas/dataops-greenflow-sage/internal/util"
)

// TempSuffix marks in-flight uploads in the data directory. The cleanup job
// removes stale ones left behind by interrupted requests.
const TempSuffix = ".tmp"

// UploadService stores uploaded Parquet files in the data directory.
// Files are written to a temp path, schema-checked, then renamed into place
// so a partially written file is never visible under its final name.
type UploadService struct {
	dataDir string
}

func NewUploadService(dataDir string) *UploadService {
	return &UploadService{dataDir: dataDir}
}

// Store persists an uploaded file under name and returns its row count.
func (s *UploadService) Store(name string, src io.Reader) (int, error) {
	if !util.IsValidUploadName(name) {
		return 0, apperrors.InvalidInput("file", "must be a bare .parquet file name")
	}

	if err := os.MkdirAll(s.dataDir, 0o755); err != nil {
		return 0, apperrors.Internal("Failed to create data directory").WithCause(err)
	}

	dest := filepath.Join(s.dataDir, name)
	if _, err := os.Stat(dest); err == nil {
		return 0, apperrors.AlreadyExists(fmt.Sprintf("File %q", name))
	}

	tmp := dest + TempSuffix
	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return 0, apperrors.Internal("Failed to create temp file").WithCause(err)
	}

	if _, err := io.Copy(f, src); err != nil {
		f.Close()
		os.Remove(tmp)
		return 0, apperrors.Internal("Failed to write upload").WithCause(err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return 0, apperrors.Internal("Failed to write upload").WithCause(err)
	}

	rows, err := parquet.ValidateFile(tmp)
	if err != nil {
		os.Remove(tmp)
		return 0, apperrors.SchemaMismatch(err.Error())
	}

	if err := os.Rename(tmp, dest); err != nil {
		os.Remove(tmp)
		return 0, apperrors.Internal("Failed to store upload").WithCause(err)
	}

	log.Info().Str("file", name).Int("rows", rows).Msg("parquet file uploaded")
	return rows, nil
}

// Delete removes a previously uploaded file, called after a successful load
// of that file. A missing file is not an error.
func (s *UploadService) Delete(name string) error {
	if !util.IsValidUploadName(name) {
		return apperrors.InvalidInput("file", "must be a bare .parquet file name")
	}

	err := os.Remove(filepath.Join(s.dataDir, name))
	if err != nil && !os.IsNotExist(err) {
		return apperrors.Internal("Failed to delete uploaded file").WithCause(err)
	}
	return nil
}
