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
	"fmt"
	"time"

	"github.com/mus-format/mus-go"
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
	"github.com/poiesic/launchpad/core"
)

// Serializers for persisted records. Timestamps are stored as Unix
// microseconds, with 0 standing for the zero time.
var (
	IDMUS          mus.Serializer[core.ID]          = idMUS{}
	UsageRecordMUS mus.Serializer[core.UsageRecord] = usageRecordMUS{}
	SelectionMUS   mus.Serializer[core.Selection]   = selectionMUS{}
)

// MarshalUsageRecord serializes a UsageRecord to bytes.
func MarshalUsageRecord(record *core.UsageRecord) []byte {
	buf := make([]byte, UsageRecordMUS.Size(*record))
	UsageRecordMUS.Marshal(*record, buf)
	return buf
}

// UnmarshalUsageRecord deserializes a UsageRecord from bytes.
func UnmarshalUsageRecord(data []byte) (*core.UsageRecord, error) {
	record, _, err := UsageRecordMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return &record, nil
}

// MarshalSelection serializes a Selection to bytes.
func MarshalSelection(selection *core.Selection) []byte {
	buf := make([]byte, SelectionMUS.Size(*selection))
	SelectionMUS.Marshal(*selection, buf)
	return buf
}

// UnmarshalSelection deserializes a Selection from bytes.
func UnmarshalSelection(data []byte) (*core.Selection, error) {
	selection, _, err := SelectionMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return &selection, nil
}

type idMUS struct{}

func (idMUS) Marshal(id core.ID, bs []byte) int {
	return varint.Uint64.Marshal(uint64(id), bs)
}

func (idMUS) Unmarshal(bs []byte) (core.ID, int, error) {
	v, n, err := varint.Uint64.Unmarshal(bs)
	return core.ID(v), n, err
}

func (idMUS) Size(id core.ID) int {
	return varint.Uint64.Size(uint64(id))
}

func (idMUS) Skip(bs []byte) (int, error) {
	return varint.Uint64.Skip(bs)
}

type timeMUS struct{}

func (timeMUS) Marshal(t time.Time, bs []byte) int {
	return varint.Int64.Marshal(timeToMicros(t), bs)
}

func (timeMUS) Unmarshal(bs []byte) (time.Time, int, error) {
	v, n, err := varint.Int64.Unmarshal(bs)
	if err != nil {
		return time.Time{}, n, err
	}
	return microsToTime(v), n, nil
}

func (timeMUS) Size(t time.Time) int {
	return varint.Int64.Size(timeToMicros(t))
}

func (timeMUS) Skip(bs []byte) (int, error) {
	return varint.Int64.Skip(bs)
}

func timeToMicros(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMicro()
}

func microsToTime(v int64) time.Time {
	if v == 0 {
		return time.Time{}
	}
	return time.UnixMicro(v).UTC()
}

var timeSer = timeMUS{}

// usageRecordMUS encodes Key, Count, LastUsed in order.
type usageRecordMUS struct{}

func (usageRecordMUS) Marshal(r core.UsageRecord, bs []byte) (n int) {
	n = ord.String.Marshal(r.Key, bs)
	n += varint.Uint32.Marshal(r.Count, bs[n:])
	n += timeSer.Marshal(r.LastUsed, bs[n:])
	return n
}

func (usageRecordMUS) Unmarshal(bs []byte) (r core.UsageRecord, n int, err error) {
	var n1 int
	r.Key, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	r.Count, n1, err = varint.Uint32.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	r.LastUsed, n1, err = timeSer.Unmarshal(bs[n:])
	n += n1
	return
}

func (usageRecordMUS) Size(r core.UsageRecord) int {
	return ord.String.Size(r.Key) +
		varint.Uint32.Size(r.Count) +
		timeSer.Size(r.LastUsed)
}

func (usageRecordMUS) Skip(bs []byte) (n int, err error) {
	var n1 int
	n, err = ord.String.Skip(bs)
	if err != nil {
		return
	}
	n1, err = varint.Uint32.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = timeSer.Skip(bs[n:])
	n += n1
	return
}

// selectionMUS encodes Id, Query, Title, Category, Action, SelectedAt in order.
type selectionMUS struct{}

func (selectionMUS) Marshal(s core.Selection, bs []byte) (n int) {
	n = IDMUS.Marshal(s.Id, bs)
	n += ord.String.Marshal(s.Query, bs[n:])
	n += ord.String.Marshal(s.Title, bs[n:])
	n += ord.String.Marshal(s.Category, bs[n:])
	n += ord.String.Marshal(s.Action, bs[n:])
	n += timeSer.Marshal(s.SelectedAt, bs[n:])
	return n
}

func (selectionMUS) Unmarshal(bs []byte) (s core.Selection, n int, err error) {
	var n1 int
	s.Id, n, err = IDMUS.Unmarshal(bs)
	if err != nil {
		return
	}
	for _, field := range []*string{&s.Query, &s.Title, &s.Category, &s.Action} {
		*field, n1, err = ord.String.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	s.SelectedAt, n1, err = timeSer.Unmarshal(bs[n:])
	n += n1
	return
}

func (selectionMUS) Size(s core.Selection) int {
	return IDMUS.Size(s.Id) +
		ord.String.Size(s.Query) +
		ord.String.Size(s.Title) +
		ord.String.Size(s.Category) +
		ord.String.Size(s.Action) +
		timeSer.Size(s.SelectedAt)
}

func (selectionMUS) Skip(bs []byte) (n int, err error) {
	var n1 int
	n, err = IDMUS.Skip(bs)
	if err != nil {
		return
	}
	for range 4 {
		n1, err = ord.String.Skip(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	n1, err = timeSer.Skip(bs[n:])
	n += n1
	return
}
