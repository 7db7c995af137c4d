package cache

import (
	"bufio"
	"os"
	"strings"

	"golang.org/x/xerrors"
)

// LoadUnresolvable reads the newline-delimited g:a:v list of spec.md §6
// (unresolvable.txt), ignoring blank lines, for use with
// UnresolvableFilter. It is loaded once at cache construction, per
// spec.md §5's "read-only thereafter" policy. A missing path is not an
// error — it just means no coordinate is known to be permanently
// unresolvable. Grounded on InMemoryMavenPomCache.fillUnresolvablePoms /
// MapdbMavenPomCache, both of which read this file once at construction.
func LoadUnresolvable(path string) (map[string]struct{}, error) {
	set := map[string]struct{}{}
	if path == "" {
		return set, nil
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return set, nil
		}
		return nil, xerrors.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		set[line] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return nil, xerrors.Errorf("read %s: %w", path, err)
	}
	return set, nil
}
