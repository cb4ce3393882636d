package git

import (
	"fmt"
	"path/filepath"
	"strings"

	. "kobi/internal/utils"

	gogit "github.com/go-git/go-git/v5"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// LastCommitContent returns the file at path as committed in HEAD of the
// repository that contains it.
func LastCommitContent(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil { return "", err }
	if real, err := filepath.EvalSymlinks(filepath.Dir(abs)); err == nil {
		abs = filepath.Join(real, filepath.Base(abs))
	}

	r, err := gogit.PlainOpenWithOptions(filepath.Dir(abs), &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil { return "", fmt.Errorf("error opening git repository: %w", err) }

	wt, err := r.Worktree()
	if err != nil { return "", fmt.Errorf("error getting worktree: %w", err) }
	root := wt.Filesystem.Root()
	if real, err := filepath.EvalSymlinks(root); err == nil { root = real }

	rel, err := filepath.Rel(root, abs)
	if err != nil { return "", fmt.Errorf("error locating file in repository: %w", err) }

	ref, err := r.Head()
	if err != nil { return "", fmt.Errorf("error getting repository HEAD: %w", err) }

	commit, err := r.CommitObject(ref.Hash())
	if err != nil { return "", fmt.Errorf("error getting commit object: %w", err) }

	tree, err := commit.Tree()
	if err != nil { return "", fmt.Errorf("error getting commit tree: %w", err) }

	file, err := tree.File(filepath.ToSlash(rel))
	if err != nil { return "", fmt.Errorf("error getting file from tree: %w", err) }

	content, err := file.Contents()
	if err != nil { return "", fmt.Errorf("error getting file contents: %w", err) }

	return content, nil
}

type Change int

const (
	Unchanged Change = iota
	Added
	Modified
	Deleted // lines were removed just above this row
)

var dmp = diffmatchpatch.New()

// Changes compares current with base line by line and returns the rows of
// current that differ, keyed by 0-based row.
func Changes(base, current string) map[int]Change {
	a, b, lines := dmp.DiffLinesToChars(base, current)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	changes := map[int]Change{}
	lastRow := strings.Count(current, "\n")
	row, deleted := 0, 0
	markDeleted := func() {
		if deleted == 0 { return }
		r := Min(row, lastRow)
		if _, ok := changes[r]; !ok { changes[r] = Deleted }
		deleted = 0
	}

	for _, diff := range diffs {
		n := lineCount(diff.Text)
		switch diff.Type {
		case diffmatchpatch.DiffEqual:
			markDeleted()
			row += n
		case diffmatchpatch.DiffDelete:
			deleted += n
		case diffmatchpatch.DiffInsert:
			for i := 0; i < n; i++ {
				if deleted > 0 {
					changes[row+i] = Modified
					deleted--
				} else {
					changes[row+i] = Added
				}
			}
			row += n
		}
	}
	markDeleted()
	return changes
}

func lineCount(text string) int {
	n := strings.Count(text, "\n")
	if text != "" && !strings.HasSuffix(text, "\n") { n++ }
	return n
}
