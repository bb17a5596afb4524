package domain

import "strings"

// VenueKey identifies a known top-tier publication venue.
type VenueKey string

// Known venue keys.
const (
	VenueNeurIPS VenueKey = "neurips"
	VenueICML    VenueKey = "icml"
	VenueICLR    VenueKey = "iclr"
	VenueCVPR    VenueKey = "cvpr"
	VenueACL     VenueKey = "acl"
	VenueEMNLP   VenueKey = "emnlp"
	VenueAAAI    VenueKey = "aaai"
)

// VenueInfo describes a top-tier venue: its display name, the score bonus it
// contributes to a paper's impact score, and its focus area.
type VenueInfo struct {
	DisplayName string
	ScoreBonus  float64
	FocusArea   string
}

// VenueTable is an immutable mapping of venue keys to venue metadata.
// Iteration order is fixed by the Keys slice; detection ties break by that
// order, not by match specificity.
type VenueTable struct {
	keys  []VenueKey
	infos map[VenueKey]VenueInfo
}

// venueEntry pairs a key with its info for table construction.
type venueEntry struct {
	key  VenueKey
	info VenueInfo
}

// defaultVenues lists the known top-tier venues in detection order.
var defaultVenues = []venueEntry{
	{VenueNeurIPS, VenueInfo{DisplayName: "NeurIPS", ScoreBonus: 60, FocusArea: "machine learning"}},
	{VenueICML, VenueInfo{DisplayName: "ICML", ScoreBonus: 55, FocusArea: "machine learning"}},
	{VenueICLR, VenueInfo{DisplayName: "ICLR", ScoreBonus: 55, FocusArea: "representation learning"}},
	{VenueCVPR, VenueInfo{DisplayName: "CVPR", ScoreBonus: 50, FocusArea: "computer vision"}},
	{VenueACL, VenueInfo{DisplayName: "ACL", ScoreBonus: 45, FocusArea: "computational linguistics"}},
	{VenueEMNLP, VenueInfo{DisplayName: "EMNLP", ScoreBonus: 45, FocusArea: "natural language processing"}},
	{VenueAAAI, VenueInfo{DisplayName: "AAAI", ScoreBonus: 40, FocusArea: "artificial intelligence"}},
}

// venueTable is the process-wide read-only table, built once at init.
var venueTable = newVenueTable(defaultVenues)

func newVenueTable(entries []venueEntry) *VenueTable {
	t := &VenueTable{
		keys:  make([]VenueKey, 0, len(entries)),
		infos: make(map[VenueKey]VenueInfo, len(entries)),
	}
	for _, e := range entries {
		t.keys = append(t.keys, e.key)
		t.infos[e.key] = e.info
	}
	return t
}

// Venues returns the process-wide venue table.
func Venues() *VenueTable {
	return venueTable
}

// Keys returns the venue keys in detection order. Callers must not modify
// the returned slice.
func (t *VenueTable) Keys() []VenueKey {
	return t.keys
}

// Info returns the metadata for a venue key.
func (t *VenueTable) Info(key VenueKey) (VenueInfo, bool) {
	info, ok := t.infos[key]
	return info, ok
}

// Bonus returns the score bonus for a venue key, or 0 for an unknown or
// empty key.
func (t *VenueTable) Bonus(key VenueKey) float64 {
	if info, ok := t.infos[key]; ok {
		return info.ScoreBonus
	}
	return 0
}

// Detect matches the record's title and abstract against the known venue
// display names and returns the first match in table order. On a match it
// sets the record's Venue and appends the venue display name to its Source
// tag. A record whose Venue is already set is returned unchanged; detection
// is idempotent and never overwrites an earlier result.
func (t *VenueTable) Detect(rec *PaperRecord) (VenueKey, bool) {
	if rec.Venue != "" {
		return rec.Venue, true
	}

	text := strings.ToLower(rec.Title + " " + rec.Abstract)
	for _, key := range t.keys {
		info := t.infos[key]
		if strings.Contains(text, strings.ToLower(info.DisplayName)) {
			rec.Venue = key
			rec.Source = rec.Source + " · " + info.DisplayName
			return key, true
		}
	}

	return "", false
}
