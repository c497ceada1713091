package model

// CommitCategory is the changelog section a commit is filed under.
type CommitCategory string

const (
	CategoryFeature CommitCategory = "feature"
	CategoryFix     CommitCategory = "fix"
	CategoryOther   CommitCategory = "other"
)

// CommitRecord is a single parsed line of commit log output.
type CommitRecord struct {
	// Raw is the display line, including hash and author markup.
	Raw string `json:"raw"`

	// Message is the text following the first " - " separator.
	Message string `json:"message"`

	Category CommitCategory `json:"category"`
}

// CommitBucket holds classified commits in source order.
type CommitBucket struct {
	Features []CommitRecord `json:"features"`
	Fixes    []CommitRecord `json:"fixes"`
	Others   []CommitRecord `json:"others"`

	// Messages lists every classified commit's message regardless of category.
	Messages []string `json:"messages"`
}

// Add files a record under its category.
func (b *CommitBucket) Add(rec CommitRecord) {
	switch rec.Category {
	case CategoryFeature:
		b.Features = append(b.Features, rec)
	case CategoryFix:
		b.Fixes = append(b.Fixes, rec)
	default:
		rec.Category = CategoryOther
		b.Others = append(b.Others, rec)
	}
	b.Messages = append(b.Messages, rec.Message)
}

// Len returns the number of classified commits.
func (b *CommitBucket) Len() int {
	return len(b.Features) + len(b.Fixes) + len(b.Others)
}

// IsEmpty reports whether no commits were classified.
func (b *CommitBucket) IsEmpty() bool {
	return b.Len() == 0
}
