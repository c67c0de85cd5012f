package scripts

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// sitesFile is the on-disk format of declared sites:
//
//	sites:
//	  state-college:
//	    id: state-college
//	    entry_url: https://apply.example.edu/form
//	    submit_candidates:
//	      - {kind: role, role: button, name: Send application}
type sitesFile struct {
	Sites map[string]Profile `yaml:"sites"`
}

// LoadSites reads standard-shape site profiles from a YAML file. It is read
// once at startup; entries are keyed by their map key. A profile without an
// id takes its key as id.
func LoadSites(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read sites file: %w", err)
	}
	return ParseSites(data)
}

// ParseSites decodes a sites document.
func ParseSites(data []byte) ([]Entry, error) {
	var doc sitesFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode sites file: %w", err)
	}

	keys := make([]string, 0, len(doc.Sites))
	for key := range doc.Sites {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	entries := make([]Entry, 0, len(keys))
	for _, key := range keys {
		profile := doc.Sites[key]
		if profile.ID == "" {
			profile.ID = key
		}
		script, err := NewStandardScript(profile)
		if err != nil {
			return nil, fmt.Errorf("site '%s': %w", key, err)
		}
		entries = append(entries, Entry{Key: key, Script: script})
	}
	return entries, nil
}
