package phpipam

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Extraction rules for the search result page. Each rule is a deliberate
// coupling to the web UI's rendered markup: if the markup drifts, the rule
// returns fewer or no IDs rather than failing. All rules return a non-nil
// slice in document order.

// extractSubnets reads the subnetid attribute off every subnet result row.
func extractSubnets(doc *goquery.Document) []string {
	return attrValues(doc.Find("tr.subnetSearch"), "subnetid")
}

// extractAddresses reads the id attribute off every address result row.
func extractAddresses(doc *goquery.Document) []string {
	return attrValues(doc.Find("tr.ipSearch"), "id")
}

// extractVLANs finds the VLAN results heading and reads data-vlanid off the
// edit anchors in the table that follows it.
func extractVLANs(doc *goquery.Document) []string {
	return extractEditAnchors(doc, "Search results (VLANs):", "data-vlanid")
}

// extractVRFs is the VLAN rule with the VRF heading and attribute.
func extractVRFs(doc *goquery.Document) []string {
	return extractEditAnchors(doc, "Search results (VRFs):", "data-vrfid")
}

// extractEditAnchors locates the h4 heading with the given literal text,
// takes the first table following it, and collects attr off its edit-action
// anchors. A missing heading yields an empty slice.
func extractEditAnchors(doc *goquery.Document, heading, attr string) []string {
	anchor := doc.Find("h4").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return strings.TrimSpace(s.Text()) == heading
	}).First()

	if anchor.Length() == 0 {
		return []string{}
	}

	table := anchor.NextAllFiltered("table").First()
	return attrValues(table.Find(`a[data-action="edit"]`), attr)
}

func attrValues(sel *goquery.Selection, attr string) []string {
	values := []string{}
	sel.Each(func(_ int, s *goquery.Selection) {
		if v, ok := s.Attr(attr); ok {
			values = append(values, v)
		}
	})
	return values
}
