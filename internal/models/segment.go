package models

// Segment is the bucket a task is filed under, independent of folder or origin.
type Segment string

// Recognized segment keys.
const (
	SegmentToday    Segment = "today"
	SegmentThisWeek Segment = "this-week"
	SegmentProject  Segment = "project"
	SegmentWaiting  Segment = "waiting"
	SegmentSomeday  Segment = "someday"
)

// SegmentInfo describes a segment for display.
type SegmentInfo struct {
	Key   Segment `json:"key"`
	Label string  `json:"label"`
}

// Segments lists every recognized segment in display order.
var Segments = []SegmentInfo{
	{Key: SegmentToday, Label: "Today"},
	{Key: SegmentThisWeek, Label: "This Week"},
	{Key: SegmentProject, Label: "Project"},
	{Key: SegmentWaiting, Label: "Waiting"},
	{Key: SegmentSomeday, Label: "Someday"},
}

// Valid reports whether s is one of the recognized segment keys.
func (s Segment) Valid() bool {
	for _, info := range Segments {
		if info.Key == s {
			return true
		}
	}
	return false
}

// SegmentKeys returns the recognized keys as plain values, e.g. for validation.In.
func SegmentKeys() []any {
	out := make([]any, len(Segments))
	for i, info := range Segments {
		out[i] = info.Key
	}
	return out
}
