/*
Copyright © 2024 the DistCost authors.
This file is part of DistCost.

DistCost is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

DistCost is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with DistCost.  If not, see <http://www.gnu.org/licenses/>.
*/

package batch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"

	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/distcost"
	"gocloud.dev/blob"
)

// DefaultPrefix is the default key prefix of batch files.
const DefaultPrefix = "disc_sims"

// Key returns the key of the batch file whose last record has the given
// index.
func Key(prefix string, index int) string {
	return fmt.Sprintf("%s_%d.json", prefix, index)
}

// Writer writes records to a bucket in batches of about 1% of the total
// number of records in a run.
type Writer struct {
	bucket *blob.Bucket
	prefix string
	total  int
	every  int

	next int
	buf  bytes.Buffer
	enc  *json.Encoder
	n    int // records in buf
	keys []string

	// Log receives a message for every batch file written.
	Log logrus.FieldLogger
}

// NewWriter returns a writer for a run of total records, the first of
// which has index start. A batch file is written after every
// max(1, total/100) records and after the record with index total-1.
func NewWriter(bucket *blob.Bucket, prefix string, total, start int) *Writer {
	w := &Writer{
		bucket: bucket,
		prefix: prefix,
		total:  total,
		every:  total / 100,
		next:   start,
		Log:    logrus.StandardLogger(),
	}
	if w.every < 1 {
		w.every = 1
	}
	w.enc = json.NewEncoder(&w.buf)
	return w
}

// Write adds r to the current batch, and writes the batch if it is full.
func (w *Writer) Write(ctx context.Context, r distcost.Record) error {
	if err := w.enc.Encode(r); err != nil {
		return fmt.Errorf("batch: encoding record %s: %v", r.ID, err)
	}
	w.n++
	index := w.next
	w.next++
	if (index+1)%w.every == 0 || index == w.total-1 {
		return w.flush(ctx, index)
	}
	return nil
}

// Close writes any records that have not yet been written.
// It does not close the bucket.
func (w *Writer) Close(ctx context.Context) error {
	if w.n == 0 {
		return nil
	}
	return w.flush(ctx, w.next-1)
}

func (w *Writer) flush(ctx context.Context, index int) error {
	key := Key(w.prefix, index)
	if err := writeBlob(ctx, w.bucket, key, w.buf.Bytes()); err != nil {
		return err
	}
	w.Log.WithFields(logrus.Fields{
		"key":     key,
		"records": w.n,
	}).Info("wrote batch")
	w.keys = append(w.keys, key)
	w.buf.Reset()
	w.n = 0
	return nil
}

// Keys returns the keys of the batch files written so far.
func (w *Writer) Keys() []string { return append([]string(nil), w.keys...) }

// Read reads all the records in a batch file. Records may be compact or
// indented.
func Read(ctx context.Context, bucket *blob.Bucket, key string) ([]distcost.Record, error) {
	b, err := readBlob(ctx, bucket, key)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	var o []distcost.Record
	for {
		var r distcost.Record
		err := dec.Decode(&r)
		if err == io.EOF {
			return o, nil
		}
		if err != nil {
			return nil, fmt.Errorf("batch: decoding record %d of %s: %v", len(o), key, err)
		}
		o = append(o, r)
	}
}

// Keys returns the keys of the batch files with the given prefix in the
// bucket, in order of index, and their indices.
func Keys(ctx context.Context, bucket *blob.Bucket, prefix string) ([]string, []int, error) {
	re := regexp.MustCompile("^" + regexp.QuoteMeta(prefix) + `_(\d+)\.json$`)
	type entry struct {
		key   string
		index int
	}
	var entries []entry
	iter := bucket.List(&blob.ListOptions{Prefix: prefix + "_"})
	for {
		obj, err := iter.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("batch: listing %s batches: %v", prefix, err)
		}
		m := re.FindStringSubmatch(obj.Key)
		if m == nil {
			continue
		}
		i, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		entries = append(entries, entry{key: obj.Key, index: i})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].index < entries[j].index })
	keys := make([]string, len(entries))
	indices := make([]int, len(entries))
	for i, e := range entries {
		keys[i], indices[i] = e.key, e.index
	}
	return keys, indices, nil
}

// ReadAll reads the records of every batch file with the given prefix.
func ReadAll(ctx context.Context, bucket *blob.Bucket, prefix string) ([]distcost.Record, error) {
	keys, _, err := Keys(ctx, bucket, prefix)
	if err != nil {
		return nil, err
	}
	var o []distcost.Record
	for _, k := range keys {
		r, err := Read(ctx, bucket, k)
		if err != nil {
			return nil, err
		}
		o = append(o, r...)
	}
	return o, nil
}

// Resume returns the index of the first record that has not been written
// to a batch file with the given prefix, so that an interrupted run can
// continue where it stopped.
func Resume(ctx context.Context, bucket *blob.Bucket, prefix string) (int, error) {
	_, indices, err := Keys(ctx, bucket, prefix)
	if err != nil {
		return 0, err
	}
	if len(indices) == 0 {
		return 0, nil
	}
	return indices[len(indices)-1] + 1, nil
}
