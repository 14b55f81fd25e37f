package form

import (
	"context"
	"errors"
	"net/url"
	"reflect"
	"testing"

	"github.com/martijn/inkwell/internal/core/domain"
)

type stubLookup struct {
	usernames map[string]bool
	emails    map[string]bool
	err       error
	calls     int
}

func (s *stubLookup) IsUsernameTaken(_ context.Context, username string) (bool, error) {
	s.calls++
	return s.usernames[username], s.err
}

func (s *stubLookup) IsEmailTaken(_ context.Context, email string) (bool, error) {
	s.calls++
	return s.emails[email], s.err
}

func TestRegistrationForm_Validate(t *testing.T) {
	lookup := &stubLookup{
		usernames: map[string]bool{"alice": true},
		emails:    map[string]bool{"alice@x.com": true},
	}

	tests := []struct {
		name   string
		values url.Values
		want   Errors
	}{
		{
			name: "valid",
			values: url.Values{
				"username": {"bob"}, "email": {"bob@x.com"},
				"password": {"pw"}, "confirm_password": {"pw"},
			},
			want: Errors{},
		},
		{
			name:   "everything missing",
			values: url.Values{"username": {"   "}},
			want: Errors{
				"username":         {MsgRequired},
				"email":            {MsgRequired},
				"password":         {MsgRequired},
				"confirm_password": {MsgRequired},
			},
		},
		{
			name: "short username, bad email, mismatch",
			values: url.Values{
				"username": {"b"}, "email": {"not-an-email"},
				"password": {"pw"}, "confirm_password": {"pw2"},
			},
			want: Errors{
				"username":         {MsgUsernameLen},
				"email":            {MsgInvalidEmail},
				"confirm_password": {MsgPasswordMatch},
			},
		},
		{
			name: "username too long",
			values: url.Values{
				"username": {"abcdefghijklmnopqrstu"}, "email": {"bob@x.com"},
				"password": {"pw"}, "confirm_password": {"pw"},
			},
			want: Errors{"username": {MsgUsernameLen}},
		},
		{
			name: "taken",
			values: url.Values{
				"username": {"alice"}, "email": {"alice@x.com"},
				"password": {"pw"}, "confirm_password": {"pw"},
			},
			want: Errors{
				"username": {MsgUsernameTaken},
				"email":    {MsgEmailTaken},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs, err := ParseRegistrationForm(tt.values).Validate(context.Background(), lookup)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(errs, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, errs)
			}
		})
	}
}

func TestRegistrationForm_LookupFailure(t *testing.T) {
	lookup := &stubLookup{err: errors.New("db down")}
	values := url.Values{
		"username": {"bob"}, "email": {"bob@x.com"},
		"password": {"pw"}, "confirm_password": {"pw"},
	}

	if _, err := ParseRegistrationForm(values).Validate(context.Background(), lookup); err == nil {
		t.Error("expected lookup error")
	}
}

func TestRegistrationForm_SkipsLookupForInvalidValues(t *testing.T) {
	lookup := &stubLookup{}
	values := url.Values{"username": {"x"}, "email": {"nope"}}

	if _, err := ParseRegistrationForm(values).Validate(context.Background(), lookup); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lookup.calls != 0 {
		t.Errorf("expected no lookups, got %d", lookup.calls)
	}
}

func TestLoginForm(t *testing.T) {
	f := ParseLoginForm(url.Values{"email": {" a@x.com "}, "password": {"pw"}, "remember": {"y"}})
	if f.Email != "a@x.com" || !f.Remember {
		t.Errorf("unexpected parse: %+v", f)
	}
	if errs := f.Validate(); !errs.Valid() {
		t.Errorf("expected valid, got %v", errs)
	}

	f = ParseLoginForm(url.Values{"email": {"bad"}})
	if f.Remember {
		t.Error("remember should default to false")
	}
	want := Errors{"email": {MsgInvalidEmail}, "password": {MsgRequired}}
	if errs := f.Validate(); !reflect.DeepEqual(errs, want) {
		t.Errorf("expected %v, got %v", want, errs)
	}
}

func TestUpdateAccountForm_Validate(t *testing.T) {
	current := &domain.User{Username: "alice", Email: "alice@x.com"}
	lookup := &stubLookup{
		usernames: map[string]bool{"alice": true, "bob": true},
		emails:    map[string]bool{"alice@x.com": true, "bob@x.com": true},
	}

	tests := []struct {
		name    string
		values  url.Values
		picture string
		want    Errors
	}{
		{
			name:   "own values are not taken",
			values: url.Values{"username": {"alice"}, "email": {"alice@x.com"}},
			want:   Errors{},
		},
		{
			name:   "other user's values are taken",
			values: url.Values{"username": {"bob"}, "email": {"bob@x.com"}},
			want:   Errors{"username": {MsgUsernameTaken}, "email": {MsgEmailTaken}},
		},
		{
			name:    "uppercase extension accepted",
			values:  url.Values{"username": {"alice"}, "email": {"alice@x.com"}},
			picture: "me.JPG",
		},
		{
			name:    "gif rejected",
			values:  url.Values{"username": {"alice"}, "email": {"alice@x.com"}},
			picture: "me.gif",
			want:    Errors{"picture": {MsgBadExtension}},
		},
		{
			name:   "missing fields",
			values: url.Values{},
			want:   Errors{"username": {MsgRequired}, "email": {MsgRequired}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			want := tt.want
			if want == nil {
				want = Errors{}
			}
			f := ParseUpdateAccountForm(tt.values, tt.picture)
			errs, err := f.Validate(context.Background(), current, lookup)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(errs, want) {
				t.Errorf("expected %v, got %v", want, errs)
			}
		})
	}
}

func TestPostForm(t *testing.T) {
	f := ParsePostForm(url.Values{"title": {"  "}, "content": {"\n\t"}})
	want := Errors{"title": {MsgRequired}, "content": {MsgRequired}}
	if errs := f.Validate(); !reflect.DeepEqual(errs, want) {
		t.Errorf("expected %v, got %v", want, errs)
	}

	f = ParsePostForm(url.Values{"title": {"Hi"}, "content": {"Body"}})
	if errs := f.Validate(); !errs.Valid() || errs.Has("title") {
		t.Errorf("expected valid, got %v", errs)
	}
}

func TestFromUser(t *testing.T) {
	f := FromUser(&domain.User{Username: "alice", Email: "alice@x.com"})
	if f.Username != "alice" || f.Email != "alice@x.com" || f.PictureName != "" {
		t.Errorf("unexpected form: %+v", f)
	}
}
