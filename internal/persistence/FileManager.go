package persistence

import (
	"os"
	"path/filepath"
	"ponydiary/internal/persistence/interfaces"
	"ponydiary/internal/providers"
	"time"

	json "github.com/goccy/go-json"
)

// FileManager writes JSON snapshots through the compressor using an atomic
// tmp-file + fsync + rename sequence.
type FileManager struct {
	compressor interfaces.CompressorInterface
	logger     providers.Logger
	metrics    providers.MetricsProviderInterface
}

func NewFileManager(compressor interfaces.CompressorInterface, logger providers.Logger, metrics providers.MetricsProviderInterface) *FileManager {
	return &FileManager{
		compressor: compressor,
		logger:     logger,
		metrics:    metrics,
	}
}

func (f *FileManager) SaveToFile(fileName string, v any) error {
	start := time.Now()
	defer func() {
		f.metrics.ObservePersistenceDuration(time.Since(start))
	}()

	jsonData, err := json.Marshal(v)
	if err != nil {
		return err
	}
	data, err := f.compressor.Compress(jsonData)
	if err != nil {
		return err
	}

	if err = os.MkdirAll(filepath.Dir(fileName), 0o755); err != nil {
		return err
	}

	tmpFile := fileName + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return err
	}

	_, err = file.Write(data)
	if err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return err
	}

	return os.Rename(tmpFile, fileName)
}

// ReadFile returns the decompressed snapshot bytes, or nil when the file does not exist.
func (f *FileManager) ReadFile(fileName string) ([]byte, error) {
	data, err := os.ReadFile(fileName)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	return f.compressor.Decompress(data)
}

// LoadFromFile decodes a snapshot into v. A missing file is reported as (false, nil).
func (f *FileManager) LoadFromFile(fileName string, v any) (bool, error) {
	data, err := f.ReadFile(fileName)
	if err != nil || data == nil {
		return false, err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, err
	}
	return true, nil
}
