package batch

import (
	v1 "github.com/arianpg/mikaboshi/api/gen/v1"
	"github.com/arianpg/mikaboshi/internal/model"
)

// Compact folds a batch by flow key, summing the sizes of records that share
// one. Each key appears exactly once in the result; the total byte count is
// preserved. Result order is unspecified.
func Compact(records []model.RawRecord) []*v1.CompactedRecord {
	if len(records) == 0 {
		return nil
	}
	sums := make(map[model.FlowKey]int, len(records))
	for _, rec := range records {
		sums[rec.Key()] += rec.Size
	}
	out := make([]*v1.CompactedRecord, 0, len(sums))
	for key, size := range sums {
		out = append(out, model.RawRecord{FlowKey: key, Size: size}.Wire())
	}
	return out
}
