// Package migrations embeds the per-dialect schema and the shared seed data.
package migrations

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
)

//go:embed mysql/*.sql postgres/*.sql sqlite/*.sql seeds/*.sql
var files embed.FS

// File is one .sql file split into executable statements.
type File struct {
	Name       string
	Statements []string
}

// Schema returns the schema files for a driver ("mysql", "postgres", "sqlite") in name order.
func Schema(driver string) ([]File, error) {
	switch driver {
	case "mysql", "postgres", "sqlite":
	default:
		return nil, fmt.Errorf("migrations: unsupported driver %q", driver)
	}
	return load(driver)
}

// Seeds returns the seed files in name order. They use portable SQL only.
func Seeds() ([]File, error) { return load("seeds") }

func load(dir string) ([]File, error) {
	names, err := fs.Glob(files, dir+"/*.sql")
	if err != nil {
		return nil, err
	}
	sort.Strings(names)
	out := make([]File, 0, len(names))
	for _, n := range names {
		b, err := files.ReadFile(n)
		if err != nil {
			return nil, err
		}
		out = append(out, File{Name: path.Base(n), Statements: Split(string(b))})
	}
	return out, nil
}

// Split cuts a script at semicolons that end a line. Comment-only lines are dropped.
func Split(script string) []string {
	var (
		out []string
		cur strings.Builder
	)
	for _, line := range strings.Split(script, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "--") {
			continue
		}
		cur.WriteString(line)
		cur.WriteByte('\n')
		if strings.HasSuffix(trimmed, ";") {
			if stmt := strings.TrimSuffix(strings.TrimSpace(cur.String()), ";"); stmt != "" {
				out = append(out, stmt)
			}
			cur.Reset()
		}
	}
	if stmt := strings.TrimSpace(cur.String()); stmt != "" {
		out = append(out, stmt)
	}
	return out
}
