package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gagyebu/internal/core"
	"gagyebu/internal/grouping"
)

var (
	ErrIndexOutOfRange = errors.New("index out of range")
	ErrNotList         = errors.New("path does not hold a list")
)

// ReadWriter is what the list helpers need from an adapter.
type ReadWriter interface {
	Reader
	Writer
	Updater
}

// entry is one stored list element, kept as raw JSON so unknown fields
// survive a re-sort.
type entry struct {
	raw   json.RawMessage
	month int
}

func (e entry) ItemMonth() int { return e.month }

func newEntry(raw json.RawMessage) entry {
	var m struct {
		Month int `json:"month"`
	}
	_ = json.Unmarshal(raw, &m)
	return entry{raw: raw, month: m.Month}
}

// Put validates value against the record kind of path and stores it. List
// paths take a whole array; an empty array deletes the list.
func Put(ctx context.Context, s Writer, path string, value json.RawMessage) error {
	target, err := Resolve(path)
	if err != nil {
		return err
	}
	var prepared json.RawMessage
	if target.List {
		prepared, err = core.PrepareList(target.Kind, value)
	} else {
		prepared, err = core.PrepareRecord(target.Kind, value)
	}
	if err != nil {
		return err
	}
	return s.Set(ctx, path, prepared)
}

// AddItem appends item to the list at path and re-sorts it by month.
func AddItem(ctx context.Context, s Updater, path string, item json.RawMessage) error {
	kind, err := listKind(path)
	if err != nil {
		return err
	}
	prepared, err := core.PrepareRecord(kind, item)
	if err != nil {
		return err
	}
	return s.Update(ctx, path, func(current json.RawMessage) (json.RawMessage, error) {
		entries, err := decodeList(current)
		if err != nil {
			return nil, err
		}
		entries = append(entries, newEntry(prepared))
		return encodeList(grouping.SortByMonth(entries))
	})
}

// UpdateItem replaces the element at index and re-sorts the list by month.
func UpdateItem(ctx context.Context, s Updater, path string, index int, item json.RawMessage) error {
	kind, err := listKind(path)
	if err != nil {
		return err
	}
	prepared, err := core.PrepareRecord(kind, item)
	if err != nil {
		return err
	}
	return s.Update(ctx, path, func(current json.RawMessage) (json.RawMessage, error) {
		entries, err := decodeList(current)
		if err != nil {
			return nil, err
		}
		if index < 0 || index >= len(entries) {
			return nil, fmt.Errorf("update %s[%d] of %d: %w", path, index, len(entries), ErrIndexOutOfRange)
		}
		entries[index] = newEntry(prepared)
		return encodeList(grouping.SortByMonth(entries))
	})
}

// RemoveItem deletes the element at index. Removing the last element deletes
// the list rather than storing an empty array.
func RemoveItem(ctx context.Context, s Updater, path string, index int) error {
	if _, err := listKind(path); err != nil {
		return err
	}
	return s.Update(ctx, path, func(current json.RawMessage) (json.RawMessage, error) {
		entries, err := decodeList(current)
		if err != nil {
			return nil, err
		}
		if index < 0 || index >= len(entries) {
			return nil, fmt.Errorf("remove %s[%d] of %d: %w", path, index, len(entries), ErrIndexOutOfRange)
		}
		entries = append(entries[:index:index], entries[index+1:]...)
		return encodeList(entries)
	})
}

// ReorderItems stores items in the order given, without sorting.
func ReorderItems(ctx context.Context, s Writer, path string, items json.RawMessage) error {
	kind, err := listKind(path)
	if err != nil {
		return err
	}
	prepared, err := core.PrepareList(kind, items)
	if err != nil {
		return err
	}
	return s.Set(ctx, path, prepared)
}

func listKind(path string) (core.RecordKind, error) {
	target, err := Resolve(path)
	if err != nil {
		return 0, err
	}
	if !target.List {
		return 0, fmt.Errorf("%s: %w", path, ErrNotList)
	}
	return target.Kind, nil
}

func decodeList(raw json.RawMessage) ([]entry, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil, fmt.Errorf("stored value is not a list: %w", ErrNotList)
	}
	entries := make([]entry, 0, len(elems)+1)
	for _, e := range elems {
		entries = append(entries, newEntry(e))
	}
	return entries, nil
}

// encodeList returns nil for an empty list so the path is deleted.
func encodeList(entries []entry) (json.RawMessage, error) {
	if len(entries) == 0 {
		return nil, nil
	}
	out := make([]json.RawMessage, len(entries))
	for i, e := range entries {
		out[i] = e.raw
	}
	return json.Marshal(out)
}
