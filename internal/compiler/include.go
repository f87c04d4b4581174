package compiler

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"

	"github.com/vk/bbmc/internal/ctxlog"
)

// include evaluates another file's directives into the current pass as if
// they had been written in place.
func (s *session) include(ctx context.Context, p *pass, d Include) error {
	path, src, err := s.resolve(p.file, d.Path)
	if err != nil {
		return fmt.Errorf("%s: %w", d.Source(), err)
	}

	key := includeKey(path)
	if slices.Contains(s.stack, key) {
		chain := append(append([]string(nil), s.stack...), key)
		return fmt.Errorf("%w: %s", ErrIncludeCycle, strings.Join(chain, " -> "))
	}
	s.stack = append(s.stack, key)
	defer func() { s.stack = s.stack[:len(s.stack)-1] }()

	ctxlog.FromContext(ctx).Debug("Include resolved.", "include", d.Path, "file", path, "from", p.file)

	sub := &pass{
		file:    path,
		depth:   p.depth,
		branch:  p.branch,
		include: true,
		out:     p.out,
		local:   p.local,
	}
	if err := s.run(ctx, sub, src); err != nil {
		if errors.Is(err, ErrNotImportable) {
			return err
		}
		return fmt.Errorf("in included file %s: %w", path, err)
	}
	return nil
}

// resolve finds the file an #include names. Relative targets are searched
// next to the including file, then in each include path, then relative to
// the working directory.
func (s *session) resolve(from, target string) (string, string, error) {
	name := filepath.Clean(target + s.c.ext)

	var candidates []string
	if filepath.IsAbs(name) {
		candidates = append(candidates, name)
	} else {
		if from != "" {
			candidates = append(candidates, filepath.Join(filepath.Dir(from), name))
		}
		for _, dir := range s.c.includePaths {
			candidates = append(candidates, filepath.Join(dir, name))
		}
		candidates = append(candidates, name)
	}

	for _, candidate := range slices.Compact(candidates) {
		src, err := s.c.reader.ReadSource(candidate)
		if err == nil {
			return candidate, src, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", "", err
		}
	}
	return "", "", fmt.Errorf("%w: %s (searched %s)", ErrIncludeNotFound, name, strings.Join(candidates, ", "))
}

func includeKey(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}
