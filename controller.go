package phpipam

import (
	"context"
	"net/http"
	"strings"

	"github.com/cockroachdb/errors"
)

// Controller represents one collection path in the phpIPAM API URL space,
// for example "devices" or the nested "tools/locations". phpIPAM's
// controller set is large and open-ended, so nodes are materialized lazily
// on first access rather than enumerated up front.
//
// A Controller is not safe for concurrent use; see the package
// documentation.
type Controller struct {
	session *session
	path    string // begins and ends with "/", e.g. "/tools/locations/"

	children map[string]*Controller
	catalog  Catalog
}

func newController(s *session, path string) *Controller {
	return &Controller{
		session:  s,
		path:     path,
		children: make(map[string]*Controller),
	}
}

// Path returns the controller's path relative to the API base, with
// leading and trailing slashes.
func (c *Controller) Path() string {
	return c.path
}

// Child returns the sub-controller for the given path segment. Children
// are memoized: repeated access returns the identical instance, including
// any catalog it has built. Surrounding slashes on name are ignored.
func (c *Controller) Child(name string) *Controller {
	name = strings.Trim(name, "/")

	if child, ok := c.children[name]; ok {
		return child
	}

	child := newController(c.session, c.path+name+"/")
	c.children[name] = child
	return child
}

// Call performs an HTTP verb against this controller's path plus an
// optional suffix, always with a trailing slash. It returns the raw
// response without any status checking; the caller decides whether a
// non-2xx status is an error.
func (c *Controller) Call(ctx context.Context, verb, suffix string, opts *RequestOptions) (*Response, error) {
	return c.session.apiDo(ctx, verb, c.requestPath(suffix), opts, nil)
}

// requestPath appends suffix to the controller path without ever doubling
// separators, however many slashes the caller supplied.
func (c *Controller) requestPath(suffix string) string {
	suffix = strings.Trim(suffix, "/")
	if suffix == "" {
		return c.path
	}
	return c.path + suffix + "/"
}

// Get performs a GET against {path}{suffix}/.
func (c *Controller) Get(ctx context.Context, suffix string, opts *RequestOptions) (*Response, error) {
	return c.Call(ctx, http.MethodGet, suffix, opts)
}

// Post performs a POST against {path}{suffix}/.
func (c *Controller) Post(ctx context.Context, suffix string, opts *RequestOptions) (*Response, error) {
	return c.Call(ctx, http.MethodPost, suffix, opts)
}

// Patch performs a PATCH against {path}{suffix}/.
func (c *Controller) Patch(ctx context.Context, suffix string, opts *RequestOptions) (*Response, error) {
	return c.Call(ctx, http.MethodPatch, suffix, opts)
}

// Delete performs a DELETE against {path}{suffix}/.
func (c *Controller) Delete(ctx context.Context, suffix string, opts *RequestOptions) (*Response, error) {
	return c.Call(ctx, http.MethodDelete, suffix, opts)
}

// GetCatalog fetches the controller's collection and rebuilds its local
// catalog indexed by the given key. A zero-value key indexes by "id". The
// catalog is owned by this controller alone; a child controller built
// before the parent had a catalog still builds its own independently.
func (c *Controller) GetCatalog(ctx context.Context, key KeySpec) error {
	if key.isZero() {
		key = KeyField("id")
	}

	res, err := c.Get(ctx, "", nil)
	if err != nil {
		return err
	}
	if err := res.StatusErr(); err != nil {
		return errors.Wrapf(err, "fetching catalog for %s", c.path)
	}

	records, err := res.DecodeRecords()
	if err != nil {
		return err
	}

	catalog, err := BuildIndex(records, key)
	if err != nil {
		return err
	}

	c.catalog = catalog
	return nil
}

// Lookup returns the cataloged record for key. A missing key or an unbuilt
// catalog yields (nil, false).
func (c *Controller) Lookup(key string) (Record, bool) {
	return c.catalog.Lookup(key)
}

// Catalog returns the controller's current catalog snapshot. Nil until
// GetCatalog has succeeded.
func (c *Controller) Catalog() Catalog {
	return c.catalog
}
