package types

// ChatSession is one conversation thread. The project binding is fixed at
// creation time and never changes afterwards.
type ChatSession struct {
	ID         string `json:"id" db:"id"`
	UserID     string `json:"user_id" db:"user_id"`
	ProjectID  string `json:"project_id" db:"project_id"`
	Title      string `json:"title" db:"title"`
	IsFavorite bool   `json:"is_favorite" db:"is_favorite"`
	CreatedAt  int64  `json:"created_at" db:"created_at"`
	UpdatedAt  int64  `json:"updated_at" db:"updated_at"`
}

// SessionTitleLimit is the rune cap applied to the first question when it
// becomes the session title.
const SessionTitleLimit = 50
