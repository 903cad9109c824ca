// Package seed bulk-loads area reference data.
package seed

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
)

// AreaInserter stores area names, skipping names that already exist, and
// reports how many were new.
type AreaInserter interface {
	InsertNames(ctx context.Context, names []string) (int, error)
}

// ReadNames reads one area name per line. Blank lines and lines starting
// with '#' are skipped; surrounding whitespace is trimmed. Repeated names are
// returned once.
func ReadNames(r io.Reader) ([]string, error) {
	var (
		names []string
		seen  = make(map[string]struct{})
	)
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := sc.Text()
		if strings.HasPrefix(line, "#") {
			continue
		}
		name := strings.TrimSpace(line)
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read area names: %w", err)
	}
	return names, nil
}

// LoadAreas reads names from r and inserts them. It returns the number of
// names read and the number that were new.
func LoadAreas(ctx context.Context, r io.Reader, dst AreaInserter, log zerolog.Logger) (read, inserted int, err error) {
	names, err := ReadNames(r)
	if err != nil {
		return 0, 0, err
	}
	if len(names) == 0 {
		log.Warn().Msg("no area names found, nothing to load")
		return 0, 0, nil
	}

	for _, n := range names {
		log.Debug().Str("name", n).Msg("staging area")
	}
	inserted, err = dst.InsertNames(ctx, names)
	if err != nil {
		return len(names), 0, fmt.Errorf("insert areas: %w", err)
	}
	log.Info().Int("read", len(names)).Int("inserted", inserted).Msg("areas loaded")
	return len(names), inserted, nil
}
