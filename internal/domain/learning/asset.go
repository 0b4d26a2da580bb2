package learning

import "fmt"

// AssetKind selects which lesson media slot an upload targets.
type AssetKind string

const (
	AssetVideo AssetKind = "video"
	AssetNotes AssetKind = "notes"
)

func ParseAssetKind(s string) (AssetKind, error) {
	switch AssetKind(s) {
	case AssetVideo:
		return AssetVideo, nil
	case AssetNotes:
		return AssetNotes, nil
	default:
		return "", fmt.Errorf("unknown asset kind %q", s)
	}
}

// Apply stores url in the slot kind selects.
func (k AssetKind) Apply(l *Lesson, url string) {
	switch k {
	case AssetVideo:
		l.VideoURL = &url
	case AssetNotes:
		l.NotesURL = &url
	}
}
