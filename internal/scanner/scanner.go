package scanner

// ArtifactType represents the format of a produced distributable
type ArtifactType int

const (
	TypeUnknown ArtifactType = iota
	TypeDeb
	TypePE
)

// String returns the string representation of ArtifactType
func (at ArtifactType) String() string {
	switch at {
	case TypeDeb:
		return "deb"
	case TypePE:
		return "pe"
	default:
		return "unknown"
	}
}

// TreeStats summarises a directory tree
type TreeStats struct {
	Root  string
	Files int
	Dirs  int // Excludes the root itself
	Bytes int64
}

// Empty reports whether the tree holds no regular files
func (s *TreeStats) Empty() bool {
	return s.Files == 0
}
