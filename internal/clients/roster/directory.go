package roster

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Agraael/Lancer-vtt-NPC-import-Macro/internal/errors"
)

const recordExt = ".json"

// DirectoryConfig configures a roster kept as one JSON file per record
type DirectoryConfig struct {
	Dir string
}

// Validate ensures the directory is set
func (cfg *DirectoryConfig) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config is required")
	}

	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("Dir", cfg.Dir, vb)
	return vb.Build()
}

type directoryClient struct {
	dir string
}

// NewDirectory creates a roster client over a directory. The key of a
// record is its file name without the .json extension.
func NewDirectory(cfg *DirectoryConfig) (Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	info, err := os.Stat(cfg.Dir)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "roster directory is not readable")
	}
	if !info.IsDir() {
		return nil, errors.InvalidArgumentf("roster path %s is not a directory", cfg.Dir)
	}

	return &directoryClient{dir: cfg.Dir}, nil
}

func (c *directoryClient) List(_ context.Context, input *ListInput) (*ListOutput, error) {
	if input == nil {
		input = &ListInput{}
	}

	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to read roster directory")
	}

	keys := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(name), recordExt) {
			continue
		}
		key := strings.TrimSuffix(name, filepath.Ext(name))
		if input.ActiveOnly && !IsActive(key) {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	return &ListOutput{Keys: keys}, nil
}

func (c *directoryClient) Get(_ context.Context, input *GetInput) (*GetOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if err := validateKey(input.Key); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filepath.Join(c.dir, input.Key+recordExt))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NotFoundf("roster record %s not found", input.Key)
		}
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to read roster record")
	}
	if !json.Valid(data) {
		return nil, errors.InvalidArgumentf("roster record %s is not valid JSON", input.Key)
	}

	return &GetOutput{Record: data}, nil
}

func validateKey(key string) error {
	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("key", key, vb)
	if strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		vb.Field("key", "must not contain path separators")
	}
	return vb.Build()
}
