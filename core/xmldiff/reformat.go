package xmldiff

// ChangeRegion is one diff entry positioned in both documents' flattened
// coordinate spaces. Equal and Delete consume left text; Equal and Insert
// consume right text.
type ChangeRegion struct {
	Op       Op
	LeftPos  int
	LeftLen  int
	RightPos int
	RightLen int
}

// reformat converts (op, text) hunks into explicit change regions by
// running independent position counters for the two sides.
func reformat(hunks []hunk) []ChangeRegion {
	regions := make([]ChangeRegion, 0, len(hunks))
	left, right := 0, 0
	for _, h := range hunks {
		n := len(h.text)
		r := ChangeRegion{Op: h.op, LeftPos: left, RightPos: right}
		if h.op == OpEqual || h.op == OpDelete {
			r.LeftLen = n
		}
		if h.op == OpEqual || h.op == OpInsert {
			r.RightLen = n
		}
		regions = append(regions, r)
		left += r.LeftLen
		right += r.RightLen
	}
	return regions
}
