package homepage

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// templateVar matches gethomepage substitutions such as {{HOMEPAGE_VAR_URL}}.
var templateVar = regexp.MustCompile(`\{\{[^}]+\}\}`)

func LoadServices(path string) (ServicesConfig, error) {
	var cfg ServicesConfig
	if err := loadYAML(path, &cfg); err != nil {
		return nil, fmt.Errorf("services file: %w", err)
	}
	return cfg, nil
}

func LoadBookmarks(path string) (BookmarksConfig, error) {
	var cfg BookmarksConfig
	if err := loadYAML(path, &cfg); err != nil {
		return nil, fmt.Errorf("bookmarks file: %w", err)
	}
	return cfg, nil
}

func loadYAML(path string, dst any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	// Substitutions are resolved by gethomepage at runtime; here they
	// become empty strings and the affected entries are skipped.
	data = templateVar.ReplaceAll(data, []byte(`""`))
	if err := yaml.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}
