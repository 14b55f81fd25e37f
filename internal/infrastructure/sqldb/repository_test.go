package sqldb

import (
	"context"
	"errors"
	"testing"

	"github.com/martijn/inkwell/internal/core/domain"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := New(DriverSQLite, ":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func createUser(t *testing.T, repo interface {
	Create(context.Context, *domain.User) error
}, username, email string) *domain.User {
	t.Helper()

	user := domain.NewUser(username, email, "hashed")
	if err := repo.Create(context.Background(), user); err != nil {
		t.Fatalf("failed to create user %s: %v", username, err)
	}
	return user
}

func TestNew_UnsupportedDriver(t *testing.T) {
	if _, err := New("oracle", "whatever"); err == nil {
		t.Fatal("expected error for unsupported driver")
	}
}

func TestUserRepository_CreateAndFind(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := createUser(t, repo, "alice", "alice@example.com")
	if user.ID == 0 {
		t.Fatal("expected generated id")
	}

	byID, err := repo.FindByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if byID.Username != "alice" || byID.Email != "alice@example.com" {
		t.Errorf("unexpected user: %+v", byID)
	}
	if byID.ImageFile != domain.DefaultAvatar {
		t.Errorf("expected default avatar, got %q", byID.ImageFile)
	}

	if _, err := repo.FindByUsername(ctx, "alice"); err != nil {
		t.Errorf("FindByUsername failed: %v", err)
	}
	if _, err := repo.FindByEmail(ctx, "alice@example.com"); err != nil {
		t.Errorf("FindByEmail failed: %v", err)
	}

	if _, err := repo.FindByUsername(ctx, "bob"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
	if _, err := repo.FindByID(ctx, 999); !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserRepository_UniqueConstraints(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	createUser(t, repo, "alice", "alice@example.com")

	err := repo.Create(ctx, domain.NewUser("alice", "other@example.com", "hashed"))
	if !errors.Is(err, domain.ErrUsernameTaken) {
		t.Errorf("expected ErrUsernameTaken, got %v", err)
	}

	err = repo.Create(ctx, domain.NewUser("other", "alice@example.com", "hashed"))
	if !errors.Is(err, domain.ErrEmailTaken) {
		t.Errorf("expected ErrEmailTaken, got %v", err)
	}
}

func TestUserRepository_Update(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	alice := createUser(t, repo, "alice", "alice@example.com")
	createUser(t, repo, "bob", "bob@example.com")

	alice.Username = "alicia"
	alice.ImageFile = "0123456789abcdef.png"
	if err := repo.Update(ctx, alice); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	got, err := repo.FindByID(ctx, alice.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if got.Username != "alicia" || got.ImageFile != "0123456789abcdef.png" {
		t.Errorf("update not persisted: %+v", got)
	}

	alice.Email = "bob@example.com"
	if err := repo.Update(ctx, alice); !errors.Is(err, domain.ErrEmailTaken) {
		t.Errorf("expected ErrEmailTaken, got %v", err)
	}

	ghost := domain.NewUser("ghost", "ghost@example.com", "hashed")
	ghost.ID = 42
	if err := repo.Update(ctx, ghost); !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserRepository_List(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)

	createUser(t, repo, "zed", "zed@example.com")
	createUser(t, repo, "amy", "amy@example.com")

	users, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(users) != 2 || users[0].Username != "zed" || users[1].Username != "amy" {
		t.Errorf("expected users in id order, got %+v", users)
	}
}

func TestPostRepository_CreateFindList(t *testing.T) {
	db := newTestDB(t)
	users := NewUserRepository(db)
	posts := NewPostRepository(db)
	ctx := context.Background()

	alice := createUser(t, users, "alice", "alice@example.com")
	bob := createUser(t, users, "bob", "bob@example.com")

	first := domain.NewPost("First", "hello", alice)
	if err := posts.Create(ctx, first); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	second := domain.NewPost("Second", "world", bob)
	if err := posts.Create(ctx, second); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if first.ID == 0 || second.ID <= first.ID {
		t.Fatalf("unexpected ids: %d, %d", first.ID, second.ID)
	}

	got, err := posts.FindByID(ctx, second.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if got.Title != "Second" || got.Content != "world" {
		t.Errorf("unexpected post: %+v", got)
	}
	if got.Author == nil || got.Author.Username != "bob" || got.Author.ID != bob.ID {
		t.Errorf("expected author bob, got %+v", got.Author)
	}

	list, err := posts.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 posts, got %d", len(list))
	}
	if list[0].Title != "First" || list[1].Title != "Second" {
		t.Errorf("expected insertion order, got %q, %q", list[0].Title, list[1].Title)
	}
	if list[0].Author.Username != "alice" {
		t.Errorf("expected author alice, got %s", list[0].Author.Username)
	}

	if _, err := posts.FindByID(ctx, 999); !errors.Is(err, domain.ErrPostNotFound) {
		t.Errorf("expected ErrPostNotFound, got %v", err)
	}
}

func TestPostRepository_AuthorReflectsProfileChanges(t *testing.T) {
	db := newTestDB(t)
	users := NewUserRepository(db)
	posts := NewPostRepository(db)
	ctx := context.Background()

	alice := createUser(t, users, "alice", "alice@example.com")
	post := domain.NewPost("Hello", "body", alice)
	if err := posts.Create(ctx, post); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	alice.Username = "alicia"
	if err := users.Update(ctx, alice); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	got, err := posts.FindByID(ctx, post.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if got.Author.Username != "alicia" {
		t.Errorf("expected renamed author, got %s", got.Author.Username)
	}
}

func TestPostRepository_RejectsUnknownAuthor(t *testing.T) {
	db := newTestDB(t)
	posts := NewPostRepository(db)

	post := domain.NewPost("Orphan", "body", &domain.User{ID: 77})
	if err := posts.Create(context.Background(), post); err == nil {
		t.Error("expected foreign key violation")
	}
}
