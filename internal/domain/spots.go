package domain

import "strings"

// DefaultStation is the NDBC buoy used when no spot or override is given
// (La Perouse Bank, off Vancouver Island).
const DefaultStation = "46206"

const defaultRegion = "CA-BC"

// Catalog is the set of spots offered for a region.
type Catalog struct {
	Region string `json:"region"`
	Spots  []Spot `json:"spots"`
}

var catalogs = map[string][]Spot{
	"CA-BC": {
		{ID: "chesterman", Name: "Chesterman Beach", Lat: 49.1190, Lon: -125.8920, Station: "46206", Exposure: 1.0},
		{ID: "cox-bay", Name: "Cox Bay", Lat: 49.1010, Lon: -125.8760, Station: "46206", Exposure: 1.1},
		{ID: "jordan-river", Name: "Jordan River", Lat: 48.4210, Lon: -124.0530, Station: "46087", Exposure: 0.7},
	},
	"US-CA": {
		{ID: "ocean-beach-sf", Name: "Ocean Beach", Lat: 37.7600, Lon: -122.5110, Station: "46026", Exposure: 1.15},
		{ID: "steamer-lane", Name: "Steamer Lane", Lat: 36.9510, Lon: -122.0260, Station: "46042", Exposure: 0.85},
		{ID: "rincon", Name: "Rincon", Lat: 34.3730, Lon: -119.4770, Station: "46053", Exposure: 0.75},
		{ID: "huntington", Name: "Huntington Beach Pier", Lat: 33.6550, Lon: -118.0050, Station: "46253", Exposure: 1.0},
	},
	"US-HI": {
		{ID: "pipeline", Name: "Banzai Pipeline", Lat: 21.6650, Lon: -158.0530, Station: "51201", Exposure: 1.25},
		{ID: "waikiki", Name: "Waikiki", Lat: 21.2760, Lon: -157.8270, Station: "51211", Exposure: 0.8},
	},
}

// RegionKey builds the catalog key for a place, e.g. "US-CA". Places without a
// state code key on country alone.
func RegionKey(p Place) string {
	country := strings.ToUpper(p.CountryCode)
	if p.StateCode == "" {
		return country
	}
	return country + "-" + strings.ToUpper(p.StateCode)
}

// CatalogFor returns the catalog for a reverse-geocoded place, falling back to
// the default region.
func CatalogFor(p Place) Catalog {
	if spots, ok := catalogs[RegionKey(p)]; ok {
		return newCatalog(RegionKey(p), spots)
	}
	return DefaultCatalog()
}

// DefaultCatalog returns the catalog served when no region is known.
func DefaultCatalog() Catalog {
	return newCatalog(defaultRegion, catalogs[defaultRegion])
}

// FindSpot looks a spot up by ID across every region.
func FindSpot(id string) (Spot, bool) {
	for region, spots := range catalogs {
		for _, s := range spots {
			if s.ID == id {
				s.Region = region
				return s, true
			}
		}
	}
	return Spot{}, false
}

// newCatalog copies spots so callers cannot mutate the shared table.
func newCatalog(region string, spots []Spot) Catalog {
	out := make([]Spot, len(spots))
	for i, s := range spots {
		s.Region = region
		out[i] = s
	}
	return Catalog{Region: region, Spots: out}
}
