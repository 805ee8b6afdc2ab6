//go:build mage

package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// sourceRoots are the trees counted by Stats.
var sourceRoots = []string{"cmd", "internal", "pkg"}

type pkgLines struct {
	Package string `json:"package"`
	Prod    int    `json:"prod"`
	Test    int    `json:"test"`
}

// Stats prints Go line counts per package, then the totals, as JSON lines.
func Stats() error {
	byPkg := map[string]*pkgLines{}
	for _, root := range sourceRoots {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if os.IsNotExist(err) {
					return filepath.SkipDir
				}
				return err
			}
			if d.IsDir() || filepath.Ext(path) != ".go" {
				return nil
			}
			n, err := countLines(path)
			if err != nil {
				return err
			}
			dir := filepath.ToSlash(filepath.Dir(path))
			p := byPkg[dir]
			if p == nil {
				p = &pkgLines{Package: dir}
				byPkg[dir] = p
			}
			if strings.HasSuffix(path, "_test.go") {
				p.Test += n
			} else {
				p.Prod += n
			}
			return nil
		})
		if err != nil {
			return err
		}
	}

	dirs := make([]string, 0, len(byPkg))
	for dir := range byPkg {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)

	enc := json.NewEncoder(os.Stdout)
	total := pkgLines{Package: "total"}
	for _, dir := range dirs {
		p := byPkg[dir]
		total.Prod += p.Prod
		total.Test += p.Test
		if err := enc.Encode(p); err != nil {
			return err
		}
	}
	if err := enc.Encode(total); err != nil {
		return fmt.Errorf("writing totals: %w", err)
	}
	return nil
}

// countLines counts non-blank lines.
func countLines(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	n := 0
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if strings.TrimSpace(sc.Text()) != "" {
			n++
		}
	}
	return n, sc.Err()
}
