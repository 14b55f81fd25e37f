package form

import (
	"net/url"
	"strings"
)

type PostForm struct {
	Title   string
	Content string
}

func ParsePostForm(values url.Values) *PostForm {
	return &PostForm{
		Title:   strings.TrimSpace(values.Get("title")),
		Content: values.Get("content"),
	}
}

func (f *PostForm) Validate() Errors {
	errs := Errors{}
	required(errs, "title", f.Title)
	required(errs, "content", f.Content)
	return errs
}
