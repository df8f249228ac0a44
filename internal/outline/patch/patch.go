// Package patch writes a mutated outline back into the host buffer.
//
// The serialized tree is compared line by line with the buffer text the tree
// was parsed from. Only the residual window between the common prefix and
// suffix is replaced, in a single ReplaceRange call, so the host keeps its
// undo granularity and scroll state outside the edit. Folds inside the window
// are carried over to the new lines of the same nodes.
package patch

import (
	"fmt"
	"slices"
	"strings"

	"github.com/dshills/outliner/internal/outline"
)

// Patch is the minimal edit turning the buffer region of one tree into the
// printed text of another.
type Patch struct {
	// From and To bound the replaced buffer range.
	From, To outline.Position
	// Text replaces the range.
	Text string
	// Unfold lists the lines unfolded before the edit, descending.
	Unfold []int
	// Fold lists the lines folded after the edit, descending.
	Fold []int
	// changed is false when the texts are equal.
	changed bool
}

// Changed reports whether the patch edits text.
func (p Patch) Changed() bool {
	return p.changed
}

// String returns a short description for logging.
func (p Patch) String() string {
	if !p.changed {
		return "no text change"
	}
	return fmt.Sprintf("replace %s-%s with %d line(s)", p.From, p.To, strings.Count(p.Text, "\n")+1)
}

// Compute builds the patch from the buffer text of before's region to the
// printed after tree. oldText must be the region text as read from the buffer.
func Compute(oldText string, before, after *outline.Root) Patch {
	oldLines := strings.Split(oldText, "\n")
	newLines := strings.Split(after.Print(), "\n")
	start := before.ContentStart().Line
	n, m := len(oldLines), len(newLines)

	// Suffix first, then prefix within what is left.
	k := 0
	for k < min(n, m) && oldLines[n-1-k] == newLines[m-1-k] {
		k++
	}
	p := 0
	for p < min(n, m)-k && oldLines[p] == newLines[p] {
		p++
	}
	if p+k == n && n == m {
		return Patch{}
	}

	var patch Patch
	patch.changed = true
	inserted := strings.Join(newLines[p:m-k], "\n")
	oldEmpty, newEmpty := p == n-k, p == m-k
	lineEnd := func(i int) outline.Position {
		return outline.Pos(start+i, len(oldLines[i]))
	}

	switch {
	case !oldEmpty && !newEmpty:
		patch.From, patch.To, patch.Text = outline.Pos(start+p, 0), lineEnd(n-k-1), inserted
	case oldEmpty && p < n:
		patch.From = outline.Pos(start+p, 0)
		patch.To, patch.Text = patch.From, inserted+"\n"
	case oldEmpty:
		patch.From = lineEnd(n - 1)
		patch.To, patch.Text = patch.From, "\n"+inserted
	case k > 0:
		patch.From, patch.To = outline.Pos(start+p, 0), outline.Pos(start+n-k, 0)
	case p > 0:
		patch.From, patch.To = lineEnd(p-1), lineEnd(n-1)
	default:
		patch.From, patch.To = outline.Pos(start, 0), lineEnd(n-1)
	}

	patch.Unfold, patch.Fold = reconcileFolds(before, after, patch.From.Line, patch.To.Line)
	return patch
}

// reconcileFolds pairs fold roots of before whose subtree lines touch the
// edited lines with the same node in after.
func reconcileFolds(before, after *outline.Root, fromLine, toLine int) (unfold, fold []int) {
	for _, old := range before.Lists() {
		if !old.IsFoldRoot() {
			continue
		}
		from, _, _ := before.ContentLinesRangeOf(old)
		till := old.ContentEndIncludingChildren().Line
		if till < fromLine || from > toLine {
			continue
		}
		moved := after.ListByID(old.ID())
		if moved == nil {
			continue
		}
		newLine, _, ok := after.ContentLinesRangeOf(moved)
		if !ok {
			continue
		}
		unfold = append(unfold, from)
		fold = append(fold, newLine)
	}
	descending := func(a, b int) int { return b - a }
	slices.SortFunc(unfold, descending)
	slices.SortFunc(fold, descending)
	return unfold, fold
}

// ChangesApplicator reconciles a mutated tree with the buffer it was parsed
// from.
type ChangesApplicator struct{}

// NewChangesApplicator creates an applicator.
func NewChangesApplicator() *ChangesApplicator {
	return &ChangesApplicator{}
}

// Apply writes after into the editor. before must be the pristine tree the
// buffer region was parsed into. Selections are always set to after's, even
// when no text changes.
func (a *ChangesApplicator) Apply(editor outline.Editor, before, after *outline.Root) (Patch, error) {
	start, end := before.ContentRange()
	patch := Compute(editor.GetRange(start, end), before, after)

	if patch.Changed() {
		for _, line := range patch.Unfold {
			editor.Unfold(line)
		}
		if err := editor.ReplaceRange(patch.Text, patch.From, patch.To); err != nil {
			return patch, fmt.Errorf("apply %s: %w", patch, err)
		}
		for _, line := range patch.Fold {
			editor.Fold(line)
		}
	}

	editor.SetSelections(after.Selections())
	return patch, nil
}
