package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/noah-isme/toko-campaigns/internal/campaign"
)

// campaign_lint loads every .yaml/.yml campaign table under the given roots
// (default "campaigns") and reports the ones that fail to build.
// Exit code 0 = ok, 1 = invalid table, 2 = other error.
func main() {
	roots := os.Args[1:]
	if len(roots) == 0 {
		roots = []string{"campaigns"}
	}
	os.Exit(lint(roots, os.Stdout, os.Stderr))
}

type violation struct {
	path string
	err  error
}

func lint(roots []string, stdout, stderr io.Writer) int {
	var (
		checked    int
		violations []violation
	)
	for _, root := range roots {
		n, found, err := scan(root)
		if err != nil {
			fmt.Fprintf(stderr, "campaign_lint error: %v\n", err)
			return 2
		}
		checked += n
		violations = append(violations, found...)
	}
	if len(violations) > 0 {
		for _, v := range violations {
			fmt.Fprintf(stderr, "INVALID: %s\n", v.path)
			for _, line := range strings.Split(v.err.Error(), "\n") {
				fmt.Fprintf(stderr, "  %s\n", line)
			}
		}
		return 1
	}
	fmt.Fprintf(stdout, "campaign_lint: OK (%d tables)\n", checked)
	return 0
}

func scan(root string) (int, []violation, error) {
	var (
		checked    int
		violations []violation
	)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		switch filepath.Ext(path) {
		case ".yaml", ".yml":
		default:
			return nil
		}
		checked++
		if _, err := campaign.LoadTablesFile(path); err != nil {
			if !errors.Is(err, campaign.ErrInvalidConfig) {
				return err
			}
			violations = append(violations, violation{path: path, err: err})
		}
		return nil
	})
	return checked, violations, err
}
