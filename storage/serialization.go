// Copyright 2025 Poiesic Systems
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


package storage

import (
	"encoding/json"
	"fmt"

	"github.com/poiesic/pitchfinder/core"
)

// Record is the stored form of one event.
type Record struct {
	ID       string          `json:"id"`
	Vector   []float32       `json:"vector,omitempty"`
	Document json.RawMessage `json:"document"`
	Metadata Metadata        `json:"metadata"`
}

// NewRecord encodes event into a Record.
func NewRecord(event *core.CanonicalEvent, vector []float32) (*Record, error) {
	if event == nil {
		return nil, ErrEventRequired
	}
	doc, err := core.EncodeEvent(event)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return &Record{
		ID:       event.ID,
		Vector:   vector,
		Document: doc,
		Metadata: MetadataFor(event),
	}, nil
}

// Event decodes the record's document.
func (r *Record) Event() (*core.CanonicalEvent, error) {
	event, err := core.DecodeEvent(r.Document)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return event, nil
}

// MarshalRecord serializes a Record to bytes.
func MarshalRecord(record *Record) ([]byte, error) {
	data, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return data, nil
}

// UnmarshalRecord deserializes a Record from bytes.
func UnmarshalRecord(data []byte) (*Record, error) {
	var record Record
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return &record, nil
}
