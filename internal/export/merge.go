package export

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"strings"
	"time"

	"dario.cat/mergo"
	"github.com/handiism/suno-exporter/internal/model"
)

// MergeResult is the outcome of Merge.
type MergeResult struct {
	// Songs are unique by ID, in first-seen order.
	Songs []model.Song

	// Total is the number of input records.
	Total int

	// Duplicates is the number of input records folded into an earlier one.
	Duplicates int
}

// Merge combines song lists by ID.
//
// The first record of an ID is kept; later records with the same ID only
// fill its empty fields. ExtractedAt keeps the first non-zero value.
func Merge(lists ...[]model.Song) (MergeResult, error) {
	res := MergeResult{Songs: []model.Song{}}
	index := make(map[string]int)

	for _, list := range lists {
		for _, s := range list {
			res.Total++
			if i, ok := index[s.ID]; ok {
				res.Duplicates++
				dst := &res.Songs[i]
				if err := mergo.Merge(dst, s, mergo.WithTransformers(zeroTimeFiller{})); err != nil {
					return MergeResult{}, fmt.Errorf("merge song %s: %w", s.ID, err)
				}
				dst.Tags = slices.Clone(dst.Tags)
				continue
			}
			index[s.ID] = len(res.Songs)
			s.Tags = slices.Clone(s.Tags)
			if s.Tags == nil {
				s.Tags = []string{}
			}
			res.Songs = append(res.Songs, s)
		}
	}
	return res, nil
}

// zeroTimeFiller lets mergo fill a zero time.Time, which it otherwise treats
// as a struct without mergeable fields.
type zeroTimeFiller struct{}

func (zeroTimeFiller) Transformer(typ reflect.Type) func(dst, src reflect.Value) error {
	if typ != reflect.TypeOf(time.Time{}) {
		return nil
	}
	return func(dst, src reflect.Value) error {
		if dst.CanSet() && dst.Interface().(time.Time).IsZero() {
			dst.Set(src)
		}
		return nil
	}
}

// ReadFile decodes an export file, choosing the decoder by extension
// (.json, otherwise CSV).
func ReadFile(path string) ([]model.Song, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var songs []model.Song
	if strings.EqualFold(filepath.Ext(path), ".json") {
		songs, err = DecodeJSON(f)
	} else {
		songs, err = DecodeCSV(f)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return songs, nil
}
