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

package distcostutil

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/distcost"
	"github.com/spatialmodel/distcost/batch"
	"github.com/spatialmodel/distcost/procsim"
	"github.com/spatialmodel/distcost/sample"
	"gocloud.dev/blob"
	"golang.org/x/exp/rand"
)

// designs returns the designs of the default design space that have not
// yet been written to bucket under prefix, and the index of the first one.
func designs(ctx context.Context, bucket *blob.Bucket, prefix string, n int, seed uint64) ([]distcost.Design, int, error) {
	first, err := batch.Resume(ctx, bucket, prefix)
	if err != nil {
		return nil, 0, err
	}
	if first >= n {
		return nil, first, nil
	}
	d, err := sample.DefaultDesignSpace().Designs(n, first, rand.NewSource(seed))
	return d, first, err
}

// Sample writes n designs sampled from the default design space to bucket.
func Sample(ctx context.Context, bucket *blob.Bucket, prefix string, n int, seed uint64, log logrus.FieldLogger) error {
	ds, first, err := designs(ctx, bucket, prefix, n, seed)
	if err != nil {
		return err
	}
	if len(ds) == 0 {
		log.WithField("prefix", prefix).Info("all designs have already been written")
		return nil
	}
	log.WithFields(logrus.Fields{"first": first, "n": n}).Info("sampling designs")
	w := batch.NewWriter(bucket, prefix, n, first)
	w.Log = log
	for _, d := range ds {
		if err := w.Write(ctx, d.Record()); err != nil {
			return err
		}
	}
	return w.Close(ctx)
}

// replaySimulator returns a simulator that looks up the results stored in
// bucket under prefix and retries for up to maxElapsed.
func replaySimulator(ctx context.Context, bucket *blob.Bucket, prefix string, maxElapsed time.Duration, log logrus.FieldLogger) (procsim.Simulator, error) {
	recs, err := batch.ReadAll(ctx, bucket, prefix)
	if err != nil {
		return nil, err
	}
	r := procsim.NewReplay(recs)
	log.WithFields(logrus.Fields{"prefix": prefix, "simulations": r.Len()}).Info("loaded simulation results")
	return procsim.Retry(r, maxElapsed, log), nil
}

// Run samples n designs from the default design space, simulates them with
// sim, sizes and costs them with ev, and writes the results to bucket in
// batches. Designs already written by an earlier run are skipped.
func Run(ctx context.Context, bucket *blob.Bucket, prefix string, n int, seed uint64, sim procsim.Simulator, ev *distcost.Evaluator, log logrus.FieldLogger) error {
	ds, first, err := designs(ctx, bucket, prefix, n, seed)
	if err != nil {
		return err
	}
	if len(ds) == 0 {
		log.WithField("prefix", prefix).Info("all columns have already been evaluated")
		return nil
	}
	log.WithFields(logrus.Fields{"first": first, "n": n, "evaluator": ev.String()}).Info("running")
	w := batch.NewWriter(bucket, prefix, n, first)
	w.Log = log
	chunk := n / 100
	if chunk < 1 {
		chunk = 1
	}
	var all []distcost.Record
	for start := 0; start < len(ds); start += chunk {
		end := start + chunk
		if end > len(ds) {
			end = len(ds)
		}
		recs := make([]distcost.Record, 0, end-start)
		for _, d := range ds[start:end] {
			s, err := procsim.Run(ctx, sim, d)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				log.WithFields(logrus.Fields{"id": d.ID, "error": err}).Error("simulating column")
				r := d.Record()
				r.Error = err.Error()
				recs = append(recs, r)
				continue
			}
			recs = append(recs, s.Record())
		}
		recs = evaluate(ctx, ev, recs)
		if err := writeAll(ctx, w, recs); err != nil {
			return err
		}
		all = append(all, recs...)
	}
	return finish(ctx, w, all, log)
}

// Evaluate sizes and costs recs with ev and writes the results to bucket.
func Evaluate(ctx context.Context, bucket *blob.Bucket, prefix string, recs []distcost.Record, ev *distcost.Evaluator, log logrus.FieldLogger) error {
	log.WithFields(logrus.Fields{"columns": len(recs), "evaluator": ev.String()}).Info("evaluating")
	w := batch.NewWriter(bucket, prefix, len(recs), 0)
	w.Log = log
	out := evaluate(ctx, ev, recs)
	if err := writeAll(ctx, w, out); err != nil {
		return err
	}
	return finish(ctx, w, out, log)
}

// evaluate costs the records that have not already failed.
func evaluate(ctx context.Context, ev *distcost.Evaluator, recs []distcost.Record) []distcost.Record {
	out := make([]distcost.Record, len(recs))
	var pending []distcost.Record
	var idx []int
	for i, r := range recs {
		if r.Error != "" {
			out[i] = r
			continue
		}
		pending = append(pending, r)
		idx = append(idx, i)
	}
	for j, r := range ev.EvaluateRecords(ctx, pending) {
		out[idx[j]] = r
	}
	return out
}

func writeAll(ctx context.Context, w *batch.Writer, recs []distcost.Record) error {
	for _, r := range recs {
		if err := w.Write(ctx, r); err != nil {
			return err
		}
	}
	return nil
}

func finish(ctx context.Context, w *batch.Writer, recs []distcost.Record, log logrus.FieldLogger) error {
	if err := w.Close(ctx); err != nil {
		return err
	}
	s := batch.Summarize(recs)
	log.WithFields(logrus.Fields{
		"columns":       s.Total,
		"costed":        s.Costed,
		"failed":        s.Failed,
		"not_converged": s.NotConverged,
	}).Info("finished")
	return nil
}

// Dataset writes the convergence dataset of the records in bucket to a
// CSV file at path.
func Dataset(ctx context.Context, bucket *blob.Bucket, prefix, path string, log logrus.FieldLogger) error {
	recs, err := batch.ReadAll(ctx, bucket, prefix)
	if err != nil {
		return err
	}
	rows, skipped := batch.Rows(recs)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("distcost: creating dataset: %v", err)
	}
	if err := batch.WriteCSV(f, rows); err != nil {
		f.Close()
		return err
	}
	log.WithFields(logrus.Fields{"file": path, "rows": len(rows), "skipped": skipped}).Info("wrote dataset")
	return f.Close()
}

// Report writes the records in bucket and their summary to an Excel file at
// path.
func Report(ctx context.Context, bucket *blob.Bucket, prefix, path string, log logrus.FieldLogger) (batch.Summary, error) {
	recs, err := batch.ReadAll(ctx, bucket, prefix)
	if err != nil {
		return batch.Summary{}, err
	}
	f, err := os.Create(path)
	if err != nil {
		return batch.Summary{}, fmt.Errorf("distcost: creating report: %v", err)
	}
	if err := batch.WriteReport(f, recs); err != nil {
		f.Close()
		return batch.Summary{}, err
	}
	s := batch.Summarize(recs)
	log.WithFields(logrus.Fields{
		"file":     path,
		"columns":  s.Total,
		"tac_mean": s.TAC.Mean,
		"tac_min":  s.TAC.Min,
		"tac_max":  s.TAC.Max,
	}).Info("wrote report")
	return s, f.Close()
}
