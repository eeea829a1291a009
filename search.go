package phpipam

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/PuerkitoBio/goquery"
	"github.com/cockroachdb/errors"

	"github.com/nwkauto/go-phpipam/observability"
)

// Search result categories. Only the first four ever appear in a
// SearchResult; pstn and circuits are accepted as search flags and
// forwarded in the cookie, but the web UI's markup for them is not
// extracted (a documented limitation, not a silent bug).
const (
	CategoryAddresses = "addresses"
	CategorySubnets   = "subnets"
	CategoryVLANs     = "vlans"
	CategoryVRF       = "vrf"
	CategoryPSTN      = "pstn"
	CategoryCircuits  = "circuits"
)

// SearchOptions selects which categories one search invocation covers and
// whether matched IDs are expanded into full records.
type SearchOptions struct {
	Addresses bool
	Subnets   bool
	VLANs     bool
	VRF       bool
	PSTN      bool
	Circuits  bool

	// Expand replaces each category's ID list with fully hydrated records,
	// one GET per ID. Large result sets mean many round-trips.
	Expand bool
}

// DefaultSearchOptions enables the categories the web UI searches by
// default: addresses, subnets, vlans, and vrf.
func DefaultSearchOptions() *SearchOptions {
	return &SearchOptions{
		Addresses: true,
		Subnets:   true,
		VLANs:     true,
		VRF:       true,
	}
}

// CategoryResult holds one category's matches: the extracted IDs, plus the
// expanded records when expansion was requested.
type CategoryResult struct {
	IDs     []string
	Records []Record
}

// SearchResult maps each supported category to its matches. All four
// supported categories are always present, with empty (non-nil) ID lists
// when nothing matched.
type SearchResult map[string]*CategoryResult

// searchParameters mirrors the JSON object the web UI stores in its
// search_parameters cookie. Field order follows the UI's own encoding.
type searchParameters struct {
	Addresses string `json:"addresses"`
	Subnets   string `json:"subnets"`
	VLANs     string `json:"vlans"`
	VRF       string `json:"vrf"`
	PSTN      string `json:"pstn"`
	Circuits  string `json:"circuits"`
}

func onOff(on bool) string {
	if on {
		return "on"
	}
	return "off"
}

// expansion order and the controller serving each category's records
var expandTargets = []struct {
	category   string
	controller string
}{
	{CategorySubnets, "subnets"},
	{CategoryAddresses, "addresses"},
	{CategoryVLANs, "vlans"},
	{CategoryVRF, "vrfs"},
}

// Search runs the web UI's search tool for find and returns the matched
// entity IDs per category. The tool has no REST equivalent: the category
// selection travels in an undocumented search_parameters cookie (observed
// from live UI traffic) and results are scraped out of the rendered HTML,
// so a markup change upstream yields fewer or no IDs rather than an error.
//
// A nil opts searches the default categories. With opts.Expand set, each
// ID list is expanded into records; an expansion failure is returned as a
// *PartialExpansionError together with the partially populated result.
func (c *Client) Search(ctx context.Context, find string, opts *SearchOptions) (SearchResult, error) {
	if opts == nil {
		opts = DefaultSearchOptions()
	}

	params := searchParameters{
		Addresses: onOff(opts.Addresses),
		Subnets:   onOff(opts.Subnets),
		VLANs:     onOff(opts.VLANs),
		VRF:       onOff(opts.VRF),
		PSTN:      onOff(opts.PSTN),
		Circuits:  onOff(opts.Circuits),
	}
	cookie, err := json.Marshal(params)
	if err != nil {
		return nil, errors.Wrap(err, "encoding search parameters cookie")
	}

	// The cookie is attached to this one request only, not stored in the
	// jar: net/http sanitizes jar values and would strip the JSON quoting
	// the server expects. Session cookies from the jar are still appended.
	res, err := c.session.webDo(ctx, http.MethodGet, "/tools/search/"+url.PathEscape(find), nil,
		func(req *http.Request) {
			req.Header.Set("Cookie", "search_parameters="+string(cookie))
		})
	if err != nil {
		return nil, err
	}
	if err := res.StatusErr(); err != nil {
		return nil, errors.Wrap(err, "search failed")
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(res.Body))
	if err != nil {
		return nil, errors.Wrap(err, "parsing search result page")
	}

	result := SearchResult{
		CategorySubnets:   {IDs: extractSubnets(doc)},
		CategoryAddresses: {IDs: extractAddresses(doc)},
		CategoryVLANs:     {IDs: extractVLANs(doc)},
		CategoryVRF:       {IDs: extractVRFs(doc)},
	}

	for category, matches := range result {
		c.session.metrics.RecordSearch(category, len(matches.IDs))
	}
	c.session.logger.Debug("search completed",
		observability.Field{Key: "find", Value: find},
		observability.Field{Key: "subnets", Value: len(result[CategorySubnets].IDs)},
		observability.Field{Key: "addresses", Value: len(result[CategoryAddresses].IDs)},
		observability.Field{Key: "vlans", Value: len(result[CategoryVLANs].IDs)},
		observability.Field{Key: "vrf", Value: len(result[CategoryVRF].IDs)},
	)

	if !opts.Expand {
		return result, nil
	}

	for _, target := range expandTargets {
		records, err := ExpandIDs(ctx, c.Controller(target.controller), result[target.category].IDs)
		if err != nil {
			return result, errors.Wrapf(err, "expanding %s results", target.category)
		}
		result[target.category].Records = records
	}

	return result, nil
}
