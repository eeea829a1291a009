package phpipam

import (
	"context"
)

// ExpandIDs fetches the full record for each ID through ctrl.Get, one
// round-trip per ID, in input order. On any failure -- a transport error,
// a non-success status, or an undecodable body -- expansion stops
// immediately: IDs after the failing one are never fetched, and the
// returned *PartialExpansionError carries the records accumulated so far,
// the offending ID, and the raw failing response. The partial records are
// also returned directly so either value can be used to salvage work.
func ExpandIDs(ctx context.Context, ctrl *Controller, ids []string) ([]Record, error) {
	records := make([]Record, 0, len(ids))

	for _, id := range ids {
		res, err := ctrl.Get(ctx, id, nil)
		if err != nil {
			return records, &PartialExpansionError{
				Partial:  records,
				FailedID: id,
				cause:    err,
			}
		}

		if !res.IsSuccess() {
			return records, &PartialExpansionError{
				Partial:  records,
				FailedID: id,
				Response: res,
				cause:    res.StatusErr(),
			}
		}

		rec, err := res.DecodeRecord()
		if err != nil {
			return records, &PartialExpansionError{
				Partial:  records,
				FailedID: id,
				Response: res,
				cause:    err,
			}
		}

		records = append(records, rec)
	}

	return records, nil
}
