package favorites

// Favorite marks that a user bookmarked a file within an organization.
// The (user, org, file) triple is the primary key; the org id is
// denormalized onto the row so the (user, org) prefix is an indexed scan.
type Favorite struct {
	UserID    string `json:"user_id"`
	OrgID     string `json:"org_id"`
	FileID    string `json:"file_id"`
	CreatedAt int64  `json:"created_at"`
}
