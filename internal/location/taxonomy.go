// Package location holds the fixed country→region→city→district hierarchy
// used for geographic filtering and for normalizing submitted locations.
package location

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/encounterhub/listing-service/internal/listing/domain"
	"github.com/encounterhub/listing-service/internal/platform/logger"
	"go.uber.org/zap"
)

// Taxonomy maps country → region → city → districts.
type Taxonomy map[string]map[string]map[string][]string

// Store is the process-wide read-only taxonomy cache. It is populated once at
// startup and only replaced wholesale through Reload; requests never mutate it.
type Store struct {
	mu       sync.RWMutex
	taxonomy Taxonomy
	path     string
	logger   *logger.Logger
}

// NewStore loads the taxonomy from path. A missing or unreadable source is not
// an error: the store starts empty and callers treat that as "no location
// filtering available".
func NewStore(path string, log *logger.Logger) *Store {
	s := &Store{
		taxonomy: Taxonomy{},
		path:     path,
		logger:   log.Named("TaxonomyStore"),
	}
	s.Reload()
	return s
}

// Reload re-reads the configured source, replacing the cached taxonomy on
// success and leaving the previous one in place otherwise.
func (s *Store) Reload() {
	data, err := os.ReadFile(s.path)
	if err != nil {
		s.logger.Warn("taxonomy source unavailable, location filtering disabled",
			zap.String("path", s.path), zap.Error(err))
		return
	}

	var t Taxonomy
	if err := json.Unmarshal(data, &t); err != nil {
		s.logger.Error("taxonomy source is malformed, keeping previous taxonomy",
			zap.String("path", s.path), zap.Error(err))
		return
	}

	s.mu.Lock()
	s.taxonomy = t
	s.mu.Unlock()
	s.logger.Info("taxonomy loaded", zap.String("path", s.path), zap.Int("countries", len(t)))
}

// Get returns the full taxonomy mapping, empty when no source was available.
func (s *Store) Get() Taxonomy {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.taxonomy
}

// Empty reports whether no taxonomy data is loaded.
func (s *Store) Empty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.taxonomy) == 0
}

// Normalize validates a submitted location against the taxonomy and fills in
// the broader levels implied by the deepest supplied one (a city implies its
// region and country). Inconsistent input (a city outside its stated region)
// fails with ErrInvalidInput. With no taxonomy loaded the location passes
// through unvalidated.
func (s *Store) Normalize(loc domain.Location) (domain.Location, error) {
	if loc.IsZero() {
		return loc, nil
	}
	s.mu.RLock()
	t := s.taxonomy
	s.mu.RUnlock()
	if len(t) == 0 {
		return loc, nil
	}

	for _, country := range sortedKeys(t) {
		if loc.Country != "" && loc.Country != country {
			continue
		}
		regions := t[country]
		if loc.Region == "" && loc.City == "" && loc.District == "" {
			return domain.Location{Country: country}, nil
		}
		for _, region := range sortedKeys(regions) {
			if loc.Region != "" && loc.Region != region {
				continue
			}
			cities := regions[region]
			if loc.City == "" && loc.District == "" {
				if loc.Region == region {
					return domain.Location{Country: country, Region: region}, nil
				}
				continue
			}
			for _, city := range sortedKeys(cities) {
				if loc.City != "" && loc.City != city {
					continue
				}
				if loc.District == "" {
					if loc.City == city {
						return domain.Location{Country: country, Region: region, City: city}, nil
					}
					continue
				}
				for _, district := range cities[city] {
					if district == loc.District {
						return domain.Location{Country: country, Region: region, City: city, District: district}, nil
					}
				}
			}
		}
	}
	return loc, fmt.Errorf("%w: location %+v is not consistent with the taxonomy", domain.ErrInvalidInput, loc)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
