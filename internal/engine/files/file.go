package files

const (
	TypeImage = "image"
	TypePDF   = "pdf"
	TypeCSV   = "csv"
	TypeVideo = "video"
)

const (
	// StateActive is the normal, listed state.
	StateActive = "active"
	// StateTrashed means the file sits in the recoverable trash and
	// will be purged once its retention window elapses. The only state
	// in which TrashedAt is set.
	StateTrashed = "trashed"
)

// File is a catalog entry for an uploaded blob. Name, type, owner and
// org are immutable after creation; only the lifecycle fields change.
// The record is destroyed solely by the retention sweeper.
type File struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Type       string `json:"type"`
	OrgID      string `json:"org_id"`
	UserID     string `json:"user_id"`
	BlobHandle string `json:"blob_handle"`
	State      string `json:"state"`
	// TrashedAt is epoch milliseconds, set iff State == StateTrashed.
	TrashedAt *int64 `json:"trashed_at,omitempty"`
	CreatedAt int64  `json:"created_at"`
	UpdatedAt int64  `json:"updated_at"`
}

func (f *File) Trashed() bool {
	return f.State == StateTrashed
}

// ListFilter narrows a listing. Filters apply in order: name query,
// favorites intersection, then the state partition. A file never shows
// up in both the normal and the trash view.
type ListFilter struct {
	Query         string
	FavoritesOnly bool
	TrashedOnly   bool
}
