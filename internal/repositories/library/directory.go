package library

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Agraael/Lancer-vtt-NPC-import-Macro/internal/entities/lancer"
	"github.com/Agraael/Lancer-vtt-NPC-import-Macro/internal/errors"
)

// DirectoryConfig contains configuration for the directory library
type DirectoryConfig struct {
	// Dir holds one partition per .yaml, .yml or .json file
	Dir string
}

// Validate validates the DirectoryConfig
func (cfg *DirectoryConfig) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	if cfg.Dir == "" {
		return errors.InvalidArgument("dir cannot be empty")
	}
	return nil
}

// DirectoryRepository serves partitions loaded from files at construction
type DirectoryRepository struct {
	partitions []*lancer.Partition
	byName     map[string]*lancer.Partition
}

// NewDirectory loads every partition file in cfg.Dir, in file name order
func NewDirectory(cfg *DirectoryConfig) (*DirectoryRepository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	files, err := os.ReadDir(cfg.Dir)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read library dir %s", cfg.Dir)
	}

	var names []string
	for _, f := range files {
		if f.IsDir() || !isPartitionFile(f.Name()) {
			continue
		}
		names = append(names, f.Name())
	}
	sort.Strings(names)

	r := &DirectoryRepository{byName: make(map[string]*lancer.Partition, len(names))}
	for _, name := range names {
		p, err := LoadPartitionFile(filepath.Join(cfg.Dir, name))
		if err != nil {
			return nil, err
		}
		if _, dup := r.byName[p.Name]; dup {
			return nil, errors.InvalidArgumentf("partition %s is defined twice (%s)", p.Name, name)
		}
		r.partitions = append(r.partitions, p)
		r.byName[p.Name] = p
	}

	slog.Info("Library loaded", "dir", cfg.Dir, "partitions", len(r.partitions))
	return r, nil
}

// LoadPartitionFile reads a single partition. The partition name defaults to
// the file name without extension and the document type defaults to Item.
func LoadPartitionFile(path string) (*lancer.Partition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read partition %s", path)
	}

	var p lancer.Partition
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(data, &p)
	} else {
		err = yaml.Unmarshal(data, &p)
	}
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, fmt.Sprintf("failed to parse partition %s", path))
	}

	if p.Name == "" {
		p.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if p.DocumentType == "" {
		p.DocumentType = lancer.DocumentTypeItem
	}
	if err := validatePartition(&p); err != nil {
		return nil, errors.Wrapf(err, "invalid partition %s", path)
	}
	return &p, nil
}

func isPartitionFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml", ".json":
		return true
	default:
		return false
	}
}

// Partitions returns the loaded partitions, for copying into another store
func (r *DirectoryRepository) Partitions() []*lancer.Partition {
	return r.partitions
}

// ListPartitions returns the partition indexes in file name order
func (r *DirectoryRepository) ListPartitions(_ context.Context, _ ListPartitionsInput) (*ListPartitionsOutput, error) {
	out := &ListPartitionsOutput{Partitions: make([]PartitionIndex, len(r.partitions))}
	for i, p := range r.partitions {
		out.Partitions[i] = indexOf(p)
	}
	return out, nil
}

// GetEntry returns a copy of an entry
func (r *DirectoryRepository) GetEntry(_ context.Context, input GetEntryInput) (*GetEntryOutput, error) {
	if err := validateGetEntry(input); err != nil {
		return nil, err
	}

	p, ok := r.byName[input.Partition]
	if !ok {
		return nil, errors.NotFoundf("partition %s not found", input.Partition)
	}
	for i := range p.Entries {
		if p.Entries[i].ID == input.ID {
			return &GetEntryOutput{Entry: p.Entries[i].Clone()}, nil
		}
	}
	return nil, errors.NotFoundf("entry %s not found in partition %s", input.ID, input.Partition)
}

func validateGetEntry(input GetEntryInput) error {
	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("partition", input.Partition, vb)
	errors.ValidateRequired("id", input.ID, vb)
	return vb.Build()
}
