// Package dataset loads the cached external datasets (Land Registry price
// paid, ONS rentals, OSM amenities, EPC certificates, planning applications)
// from a local data directory into memory.
//
// Every dataset is optional. A missing or unreadable file is logged and
// yields a nil slice; the scoring and valuation layers treat nil as "no
// evidence" and fall back to documented defaults. Loaders never return a
// partially parsed row: malformed rows are skipped and counted.
package dataset

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"

	"btr_valuation/pkg/models"
)

// File name prefixes for the cached dataset files. Fetch jobs write dated
// files like land_registry_20250630.csv; the newest per prefix wins.
const (
	LandRegistryPrefix = "land_registry"
	RentalsPrefix      = "ons_rentals"
	AmenitiesPrefix    = "osm_amenities"
	EPCPrefix          = "epc_certificates"
	PlanningPrefix     = "planning_applications"
)

// Store is one immutable snapshot of all loaded datasets.
type Store struct {
	Sales     []models.LandRegistrySale
	Rentals   []models.RentalRecord
	Amenities []models.Amenity
	EPC       []models.EPCRecord
	Planning  []models.PlanningApplication
}

// Load reads every dataset found under dir. Missing datasets are logged at
// warn level and left nil; Load itself only fails on an unreadable directory.
func Load(dir string) (*Store, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}

	s := &Store{}
	if path := latestFile(dir, names, LandRegistryPrefix, ".csv"); path != "" {
		s.Sales = loadOrWarn(path, LoadLandRegistryCSV)
	} else {
		log.Warnf("[DATASET] no %s_*.csv under %s", LandRegistryPrefix, dir)
	}
	if path := latestFile(dir, names, RentalsPrefix, ".csv"); path != "" {
		s.Rentals = loadOrWarn(path, LoadRentalsCSV)
	} else {
		log.Warnf("[DATASET] no %s_*.csv under %s", RentalsPrefix, dir)
	}
	if path := latestFile(dir, names, AmenitiesPrefix, ".csv"); path != "" {
		s.Amenities = loadOrWarn(path, LoadAmenitiesCSV)
	} else {
		log.Warnf("[DATASET] no %s_*.csv under %s", AmenitiesPrefix, dir)
	}
	if path := latestFile(dir, names, EPCPrefix, ".csv"); path != "" {
		s.EPC = loadOrWarn(path, LoadEPCCSV)
	} else {
		log.Warnf("[DATASET] no %s_*.csv under %s", EPCPrefix, dir)
	}
	if path := latestFile(dir, names, PlanningPrefix, ".html"); path != "" {
		s.Planning = loadOrWarn(path, LoadPlanningHTML)
	} else if path := latestFile(dir, names, PlanningPrefix, ".csv"); path != "" {
		s.Planning = loadOrWarn(path, LoadPlanningCSV)
	} else {
		log.Warnf("[DATASET] no %s_* file under %s", PlanningPrefix, dir)
	}

	log.Infof("[DATASET] loaded: %d sales, %d rentals, %d amenities, %d epc, %d planning",
		len(s.Sales), len(s.Rentals), len(s.Amenities), len(s.EPC), len(s.Planning))
	return s, nil
}

func loadOrWarn[T any](path string, loader func(string) ([]T, error)) []T {
	rows, err := loader(path)
	if err != nil {
		log.Warnf("[DATASET] failed to load %s: %v", filepath.Base(path), err)
		return nil
	}
	return rows
}

// latestFile picks the lexicographically greatest file matching
// prefix*ext, which with dated suffixes means the newest snapshot.
func latestFile(dir string, names []string, prefix, ext string) string {
	var matches []string
	for _, n := range names {
		if strings.HasPrefix(n, prefix) && strings.HasSuffix(n, ext) {
			matches = append(matches, n)
		}
	}
	if len(matches) == 0 {
		return ""
	}
	sort.Strings(matches)
	return filepath.Join(dir, matches[len(matches)-1])
}

// Catalog wraps a Store with reload support so the API server can refresh
// datasets on a schedule without restarting.
type Catalog struct {
	mu    sync.RWMutex
	dir   string
	store *Store
}

// NewCatalog loads dir once and remembers it for future reloads.
func NewCatalog(dir string) (*Catalog, error) {
	s, err := Load(dir)
	if err != nil {
		return nil, err
	}
	return &Catalog{dir: dir, store: s}, nil
}

// Snapshot returns the current store. Callers must not mutate it.
func (c *Catalog) Snapshot() *Store {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.store
}

// Reload re-reads the data directory and swaps in the new snapshot. The old
// snapshot stays valid for in-flight requests.
func (c *Catalog) Reload() error {
	s, err := Load(c.dir)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.store = s
	c.mu.Unlock()
	return nil
}
