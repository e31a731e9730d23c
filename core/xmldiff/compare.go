package xmldiff

import (
	"fmt"
	"log/slog"
	"regexp"
)

// Options configures a reconciliation pass. The zero value (or a nil
// pointer) selects the defaults: del/ins tags, regexp word splitting,
// semantic coalescing on, merge mode off.
type Options struct {
	// Tags names the removed and added annotation elements. Ignored when
	// Factory is set.
	Tags [2]string
	// Factory creates annotation nodes; overrides Tags.
	Factory WrapperFactory
	// Merge duplicates each side's changed content into the other
	// document at the mirrored position, so either document alone shows
	// both the removal and the addition.
	Merge bool
	// NoCoalesce disables the engine's semantic cleanup of the edit
	// script.
	NoCoalesce bool
	// CoalesceExponent tunes the simplifier threshold (len(equal)-1)^k.
	// Zero selects the default of 1.5. Affects only output granularity.
	CoalesceExponent float64
	// WordSeparator splits text into diff tokens. Defaults to whitespace
	// runs or a single non-word character.
	WordSeparator *regexp.Regexp
	// UnicodeWords segments words per UAX #29 instead of WordSeparator.
	UnicodeWords bool
	// Engine overrides the diff engine.
	Engine Engine
	// Logger receives debug-level pipeline traces. Defaults to
	// slog.Default().
	Logger *slog.Logger
}

func (o *Options) withDefaults() Options {
	var r Options
	if o != nil {
		r = *o
	}
	if r.Tags[0] == "" {
		r.Tags[0] = "del"
	}
	if r.Tags[1] == "" {
		r.Tags[1] = "ins"
	}
	if r.Factory == nil {
		r.Factory = TagFactory{Removed: r.Tags[0], Added: r.Tags[1]}
	}
	if r.WordSeparator == nil {
		r.WordSeparator = DefaultWordSeparator
	}
	if r.CoalesceExponent == 0 {
		r.CoalesceExponent = defaultCoalesceExponent
	}
	if r.Engine == nil {
		r.Engine = NewMatchPatchEngine(!r.NoCoalesce)
	}
	if r.Logger == nil {
		r.Logger = slog.Default()
	}
	return r
}

// Change is one entry of a simplified text diff between two documents.
type Change struct {
	Op   Op
	Text string
}

// Compare reconciles two documents in place: both trees are mutated so
// that text present only on the left is wrapped in removed-role
// annotations and text present only on the right in added-role
// annotations. Neither tree may be touched by the caller until Compare
// returns; on error both trees may be left partially annotated.
func Compare(left, right *Tree, opts *Options) error {
	o := opts.withDefaults()

	leftDoc := Flatten(left)
	rightDoc := Flatten(right)

	regions, err := pipelineRegions(leftDoc, rightDoc, &o)
	if err != nil {
		return err
	}

	for _, r := range regions {
		if r.Op == OpEqual {
			continue
		}
		if r.LeftLen > 0 {
			content, err := leftDoc.markRange(r.LeftPos, r.LeftLen, RoleRemoved, factoryCreate(o.Factory))
			if err != nil {
				return fmt.Errorf("left document: %w", err)
			}
			if o.Merge {
				if err := rightDoc.insertContent(r.RightPos, left, content, RoleRemoved, o.Factory); err != nil {
					return fmt.Errorf("right document: %w", err)
				}
			}
		}
		if r.RightLen > 0 {
			content, err := rightDoc.markRange(r.RightPos, r.RightLen, RoleAdded, factoryCreate(o.Factory))
			if err != nil {
				return fmt.Errorf("right document: %w", err)
			}
			if o.Merge {
				if err := leftDoc.insertContent(r.LeftPos, right, content, RoleAdded, o.Factory); err != nil {
					return fmt.Errorf("left document: %w", err)
				}
			}
		}
	}
	return nil
}

// Changes computes the simplified text-level diff of two documents
// without mutating either tree.
func Changes(left, right *Tree, opts *Options) ([]Change, error) {
	o := opts.withDefaults()
	hunks, err := pipelineHunks(Flatten(left), Flatten(right), &o)
	if err != nil {
		return nil, err
	}
	changes := make([]Change, 0, len(hunks))
	for _, h := range hunks {
		changes = append(changes, Change{Op: h.op, Text: h.text})
	}
	return changes, nil
}

// Regions computes the simplified diff as positioned change regions
// without mutating either tree.
func Regions(left, right *Tree, opts *Options) ([]ChangeRegion, error) {
	o := opts.withDefaults()
	return pipelineRegions(Flatten(left), Flatten(right), &o)
}

func pipelineRegions(leftDoc, rightDoc *FlatDoc, o *Options) ([]ChangeRegion, error) {
	hunks, err := pipelineHunks(leftDoc, rightDoc, o)
	if err != nil {
		return nil, err
	}
	regions := reformat(hunks)
	o.Logger.Debug("diff reformatted", "regions", len(regions))
	return regions, nil
}

func pipelineHunks(leftDoc, rightDoc *FlatDoc, o *Options) ([]hunk, error) {
	split := regexpSplitter(o.WordSeparator)
	if o.UnicodeWords {
		split = unicodeSplitter()
	}

	vocab := newVocabulary()
	a, err := encode(leftDoc, vocab, split)
	if err != nil {
		return nil, fmt.Errorf("left document: %w", err)
	}
	b, err := encode(rightDoc, vocab, split)
	if err != nil {
		return nil, fmt.Errorf("right document: %w", err)
	}
	o.Logger.Debug("documents encoded",
		"left_tokens", len(a), "right_tokens", len(b), "vocabulary", len(vocab.words))

	edits, err := o.Engine.Diff(a, b)
	if err != nil {
		return nil, err
	}

	hunks, err := decode(edits, a, b, vocab)
	if err != nil {
		return nil, err
	}
	hunks = simplify(hunks, o.CoalesceExponent)
	o.Logger.Debug("diff simplified", "edits", len(edits), "hunks", len(hunks))
	return hunks, nil
}

func factoryCreate(f WrapperFactory) createFunc {
	return func(t *Tree, role Role) (NodeID, error) {
		return f.Create(t, role), nil
	}
}
