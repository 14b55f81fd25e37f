package domain

import "time"

type Post struct {
	ID         int64     `db:"id"`
	Title      string    `db:"title"`
	Content    string    `db:"content"`
	DatePosted time.Time `db:"date_posted"`
	UserID     int64     `db:"user_id"`

	// Author is populated by read queries that join the owning user.
	Author *User `db:"-"`
}

func NewPost(title, content string, author *User) *Post {
	return &Post{
		Title:      title,
		Content:    content,
		DatePosted: time.Now().UTC(),
		UserID:     author.ID,
		Author:     author,
	}
}
