package phpipam

import (
	"context"

	"github.com/cockroachdb/errors"
)

// Touch creates a throwaway item in this controller's collection so the
// caller can read back what a fully populated item looks like, then
// deletes it again. fields supplies whatever values the controller
// requires for a POST to succeed.
//
// Any failure before the new item's ID is obtained is wrapped as an
// *ItemCreationError; there is nothing to clean up at that point. Failures
// after the ID exists are returned unwrapped, since the item may have been
// left behind.
func (c *Controller) Touch(ctx context.Context, fields map[string]any) (Record, error) {
	res, err := c.Post(ctx, "", &RequestOptions{JSON: fields})
	if err != nil {
		return nil, &ItemCreationError{cause: err}
	}
	if err := res.StatusErr(); err != nil {
		return nil, &ItemCreationError{cause: err}
	}

	id, err := createdID(res)
	if err != nil {
		return nil, &ItemCreationError{cause: err}
	}

	got, err := c.Get(ctx, id, nil)
	if err != nil {
		return nil, err
	}

	if _, err := c.Delete(ctx, id, nil); err != nil {
		return nil, err
	}

	if err := got.StatusErr(); err != nil {
		return nil, errors.Wrapf(err, "reading back created item %s", id)
	}

	return got.DecodeRecord()
}

// createdID pulls the new item's ID out of a create response. phpIPAM
// reports it either at the body's top level or inside the data object,
// depending on version.
func createdID(res *Response) (string, error) {
	var body Record
	if err := res.Decode(&body); err != nil {
		return "", err
	}

	if id, err := fieldString(body, "id"); err == nil && id != "" {
		return id, nil
	}

	if data, ok := body["data"].(map[string]any); ok {
		if id, err := fieldString(Record(data), "id"); err == nil && id != "" {
			return id, nil
		}
	}

	return "", errors.Newf("create response for %s carried no id", res.URL)
}

// Wipe deletes every item in this controller's collection, one DELETE per
// item. It rebuilds the catalog by id first, so it also refreshes the
// local snapshot as a side effect. Destructive and unrecoverable; intended
// for scrubbing test instances.
func (c *Controller) Wipe(ctx context.Context) error {
	if err := c.GetCatalog(ctx, KeyField("id")); err != nil {
		return err
	}

	for id := range c.catalog {
		res, err := c.Delete(ctx, id, nil)
		if err != nil {
			return err
		}
		if err := res.StatusErr(); err != nil {
			return errors.Wrapf(err, "deleting item %s", id)
		}
	}

	return nil
}
