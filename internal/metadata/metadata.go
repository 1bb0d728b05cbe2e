// Copyright 2025 Emiliano Spinella (eminwux)
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/eminwux/bytefilter/internal/pipeline"
	"github.com/rs/xid"
	"go.yaml.in/yaml/v3"
)

// Report describes one completed run.
type Report struct {
	RunID        string    `json:"runId"        yaml:"runId"`
	Input        string    `json:"input"        yaml:"input"`
	Output       string    `json:"output"       yaml:"output"`
	Filter       string    `json:"filter"       yaml:"filter"`
	Mode         string    `json:"mode"         yaml:"mode"`
	BytesRead    int64     `json:"bytesRead"    yaml:"bytesRead"`
	BytesWritten int64     `json:"bytesWritten" yaml:"bytesWritten"`
	Chunks       int       `json:"chunks"       yaml:"chunks"`
	StartedAt    time.Time `json:"startedAt"    yaml:"startedAt"`
	FinishedAt   time.Time `json:"finishedAt"   yaml:"finishedAt"`
}

func NewReport(opts pipeline.Options, stats *pipeline.Stats, started, finished time.Time) *Report {
	r := &Report{
		RunID:      xid.New().String(),
		Input:      opts.Input,
		Output:     opts.Output,
		Filter:     opts.FilterName,
		StartedAt:  started.UTC(),
		FinishedAt: finished.UTC(),
	}
	if stats != nil {
		r.Mode = string(stats.Mode)
		r.BytesRead = stats.BytesRead
		r.BytesWritten = stats.BytesWritten
		r.Chunks = stats.Chunks
	}
	return r
}

// Encode marshals r as YAML for .yaml/.yml paths and as indented JSON
// otherwise.
func Encode(path string, r *Report) ([]byte, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Marshal(r)
	default:
		b, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(b, '\n'), nil
	}
}

func Write(_ context.Context, path string, r *Report) error {
	marshaled, err := Encode(path, r)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", path, err)
	}

	const filePerm = 0o644
	if writeErr := atomicWriteFile(path, marshaled, filePerm); writeErr != nil {
		return fmt.Errorf("write %s: %w", path, writeErr)
	}
	return nil
}

// atomicWriteFile writes to a temp file in the same dir, fsyncs, then renames.
func atomicWriteFile(dst string, data []byte, mode os.FileMode) error {
	dir := filepath.Dir(dst)

	f, createErr := os.CreateTemp(dir, ".report-*.tmp")
	if createErr != nil {
		return createErr
	}
	tmp := f.Name()
	defer func() {
		_ = f.Close()
		_ = os.Remove(tmp) // safe if already renamed
	}()

	if chmodErr := f.Chmod(mode); chmodErr != nil {
		return fmt.Errorf("chmod: %w", chmodErr)
	}
	if _, writeErr := f.Write(data); writeErr != nil {
		return fmt.Errorf("write: %w", writeErr)
	}
	if syncErr := f.Sync(); syncErr != nil {
		return fmt.Errorf("fsync: %w", syncErr)
	}
	if closeErr := f.Close(); closeErr != nil {
		return fmt.Errorf("close: %w", closeErr)
	}

	if renameErr := os.Rename(tmp, dst); renameErr != nil {
		return fmt.Errorf("rename: %w", renameErr)
	}
	if d, openErr := os.Open(dir); openErr == nil {
		_ = d.Sync()
		_ = d.Close()
	}
	return nil
}
