package memo

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/mcplab-kr/mcp-go-tutorials/internal/database"
	"github.com/mcplab-kr/mcp-go-tutorials/internal/log"
	"github.com/mcplab-kr/mcp-go-tutorials/internal/tools"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "memos.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := database.Migrate(db); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	store, err := NewStore(db)
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	return store
}

func newTestService(t *testing.T) *Service {
	t.Helper()
	svc, err := NewService(newTestStore(t), log.NewNop())
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}
	return svc
}

func TestNormalizeTags(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{name: "empty", raw: "", want: nil},
		{name: "whitespace only", raw: "  ,  , ", want: nil},
		{name: "simple", raw: "work,urgent", want: []string{"work", "urgent"}},
		{name: "trims and dedupes preserving order", raw: " a , b ,a ,", want: []string{"a", "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeTags(tt.raw); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("NormalizeTags(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestStore_CreateAndGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	memo, err := store.Create(ctx, "groceries", "milk and eggs", "", []string{"home", "errand"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if memo.Category != "general" {
		t.Errorf("default category = %q, want general", memo.Category)
	}
	if !reflect.DeepEqual(memo.Tags, []string{"errand", "home"}) {
		t.Errorf("tags = %v, want sorted [errand home]", memo.Tags)
	}
	if memo.CreatedAt == "" || memo.UpdatedAt == "" {
		t.Error("timestamps not set")
	}

	got, err := store.Get(ctx, memo.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Title != "groceries" || got.Content != "milk and eggs" {
		t.Errorf("round trip mismatch: %+v", got)
	}

	_, err = store.Get(ctx, 9999)
	if !errors.Is(err, ErrMemoNotFound) {
		t.Errorf("Get(9999) error = %v, want ErrMemoNotFound", err)
	}
}

func TestStore_List(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	a, _ := store.Create(ctx, "first", "body", "work", []string{"go"})
	b, _ := store.Create(ctx, "second", "body", "home", []string{"go", "weekend"})
	c, _ := store.Create(ctx, "third", "body", "work", nil)

	pinned := true
	if _, err := store.Update(ctx, b.ID, UpdateFields{Pinned: &pinned}); err != nil {
		t.Fatalf("pinning: %v", err)
	}

	t.Run("pinned come first", func(t *testing.T) {
		memos, err := store.List(ctx, ListFilter{Limit: 10})
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(memos) != 3 {
			t.Fatalf("got %d memos, want 3", len(memos))
		}
		if memos[0].ID != b.ID {
			t.Errorf("first memo = %d, want pinned %d", memos[0].ID, b.ID)
		}
	})

	t.Run("category filter", func(t *testing.T) {
		memos, err := store.List(ctx, ListFilter{Category: "work"})
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(memos) != 2 {
			t.Errorf("got %d work memos, want 2", len(memos))
		}
		_ = a
		_ = c
	})

	t.Run("tag filter", func(t *testing.T) {
		memos, err := store.List(ctx, ListFilter{Tag: "weekend"})
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(memos) != 1 || memos[0].ID != b.ID {
			t.Errorf("tag filter returned %+v", memos)
		}
	})

	t.Run("pinned filter", func(t *testing.T) {
		memos, err := store.List(ctx, ListFilter{Pinned: &pinned})
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(memos) != 1 || memos[0].ID != b.ID {
			t.Errorf("pinned filter returned %+v", memos)
		}
	})
}

func TestStore_Update(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	memo, _ := store.Create(ctx, "draft", "v1", "work", []string{"old"})

	newContent := "v2"
	updated, err := store.Update(ctx, memo.ID, UpdateFields{
		Content: &newContent,
		Tags:    []string{"new", "shiny"},
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.Title != "draft" {
		t.Errorf("title changed unexpectedly: %q", updated.Title)
	}
	if updated.Content != "v2" {
		t.Errorf("content = %q, want v2", updated.Content)
	}
	if !reflect.DeepEqual(updated.Tags, []string{"new", "shiny"}) {
		t.Errorf("tags = %v, want replaced set", updated.Tags)
	}

	t.Run("clearing tags", func(t *testing.T) {
		cleared, err := store.Update(ctx, memo.ID, UpdateFields{Tags: []string{}})
		if err != nil {
			t.Fatalf("Update() error = %v", err)
		}
		if len(cleared.Tags) != 0 {
			t.Errorf("tags not cleared: %v", cleared.Tags)
		}
	})

	t.Run("missing memo", func(t *testing.T) {
		_, err := store.Update(ctx, 9999, UpdateFields{Content: &newContent})
		if !errors.Is(err, ErrMemoNotFound) {
			t.Errorf("error = %v, want ErrMemoNotFound", err)
		}
	})
}

func TestStore_DeleteCascade(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first, _ := store.Create(ctx, "keep", "body", "", []string{"shared", "only-first"})
	second, _ := store.Create(ctx, "remove", "body", "", []string{"shared"})

	title, err := store.Delete(ctx, second.ID)
	if err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if title != "remove" {
		t.Errorf("deleted title = %q, want remove", title)
	}

	// The shared tag must survive on the remaining memo.
	got, err := store.Get(ctx, first.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !reflect.DeepEqual(got.Tags, []string{"only-first", "shared"}) {
		t.Errorf("surviving tags = %v", got.Tags)
	}

	counts, err := store.TagCounts(ctx)
	if err != nil {
		t.Fatalf("TagCounts() error = %v", err)
	}
	if counts["shared"] != 1 {
		t.Errorf("shared tag count = %d, want 1", counts["shared"])
	}

	_, err = store.Delete(ctx, second.ID)
	if !errors.Is(err, ErrMemoNotFound) {
		t.Errorf("double delete error = %v, want ErrMemoNotFound", err)
	}
}

func TestStore_DeleteCascadesOnFreshConnection(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	memo, err := store.Create(ctx, "note", "body", "", []string{"go"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// Drop the idle connection so the delete runs on one the pool
	// opens fresh. Foreign key enforcement must hold there too.
	store.db.SetMaxIdleConns(0)
	store.db.SetMaxIdleConns(2)

	if _, err := store.Delete(ctx, memo.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	var links int
	err = store.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM memo_tags WHERE memo_id = ?", memo.ID).Scan(&links)
	if err != nil {
		t.Fatalf("counting tag links: %v", err)
	}
	if links != 0 {
		t.Errorf("memo_tags still holds %d rows for deleted memo %d", links, memo.ID)
	}
}

func TestStore_Search(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	store.Create(ctx, "meeting notes", "discuss roadmap", "work", nil)
	store.Create(ctx, "shopping", "buy a new roadmap poster", "home", nil)
	store.Create(ctx, "unrelated", "nothing here", "home", nil)

	memos, err := store.Search(ctx, "roadmap")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(memos) != 2 {
		t.Errorf("got %d matches, want 2", len(memos))
	}
}

func TestStore_CollectStats(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	m1, _ := store.Create(ctx, "a", "x", "work", []string{"go"})
	store.Create(ctx, "b", "y", "work", []string{"go", "sql"})
	store.Create(ctx, "c", "z", "home", nil)
	pinned := true
	store.Update(ctx, m1.ID, UpdateFields{Pinned: &pinned})

	stats, err := store.CollectStats(ctx)
	if err != nil {
		t.Fatalf("CollectStats() error = %v", err)
	}
	if stats.Total != 3 || stats.Pinned != 1 {
		t.Errorf("totals = %d/%d, want 3/1", stats.Total, stats.Pinned)
	}
	if stats.Categories["work"] != 2 || stats.Categories["home"] != 1 {
		t.Errorf("categories = %v", stats.Categories)
	}
	if stats.Tags["go"] != 2 || stats.Tags["sql"] != 1 {
		t.Errorf("tags = %v", stats.Tags)
	}
}

func TestService_Validation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	existing := svc.Create(ctx, CreateMemoInput{Title: "t", Content: "body"})
	if existing.Status != tools.StatusSuccess {
		t.Fatalf("Create: %+v", existing.Error)
	}
	existingID := existing.Data.(*Memo).ID

	tests := []struct {
		name string
		run  func() tools.Result
	}{
		{
			name: "create without title",
			run: func() tools.Result {
				return svc.Create(ctx, CreateMemoInput{Content: "body"})
			},
		},
		{
			name: "create without content",
			run: func() tools.Result {
				return svc.Create(ctx, CreateMemoInput{Title: "t"})
			},
		},
		{
			name: "update with nothing to change",
			run: func() tools.Result {
				return svc.Update(ctx, UpdateMemoInput{ID: existingID})
			},
		},
		{
			name: "search without keyword",
			run: func() tools.Result {
				return svc.Search(ctx, SearchMemosInput{Keyword: "  "})
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.run()
			if result.Status != tools.StatusError || result.Error.Code != tools.ErrCodeValidation {
				t.Errorf("got %+v, want VALIDATION error", result.Error)
			}
		})
	}

	t.Run("empty update on missing memo is not found", func(t *testing.T) {
		result := svc.Update(ctx, UpdateMemoInput{ID: 9999})
		if result.Error == nil || result.Error.Code != tools.ErrCodeNotFound {
			t.Errorf("got %+v, want NOT_FOUND", result.Error)
		}
	})
}

func TestService_Lifecycle(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created := svc.Create(ctx, CreateMemoInput{
		Title: "standup", Content: "prepare updates", Category: "work", Tags: "daily, work",
	})
	if created.Status != tools.StatusSuccess {
		t.Fatalf("Create: %+v", created.Error)
	}
	memo := created.Data.(*Memo)

	got := svc.Get(ctx, GetMemoInput{ID: memo.ID})
	if got.Status != tools.StatusSuccess {
		t.Fatalf("Get: %+v", got.Error)
	}
	if !strings.Contains(got.Message, "standup") || !strings.Contains(got.Message, "daily, work") {
		t.Errorf("rendered memo incomplete:\n%s", got.Message)
	}

	missing := svc.Get(ctx, GetMemoInput{ID: 9999})
	if missing.Error == nil || missing.Error.Code != tools.ErrCodeNotFound {
		t.Errorf("missing memo: got %+v, want NOT_FOUND", missing.Error)
	}

	newTags := "daily"
	updated := svc.Update(ctx, UpdateMemoInput{ID: memo.ID, Tags: &newTags})
	if updated.Status != tools.StatusSuccess {
		t.Fatalf("Update: %+v", updated.Error)
	}
	if um := updated.Data.(*Memo); !reflect.DeepEqual(um.Tags, []string{"daily"}) {
		t.Errorf("updated tags = %v, want [daily]", um.Tags)
	}

	deleted := svc.Delete(ctx, DeleteMemoInput{ID: memo.ID})
	if deleted.Status != tools.StatusSuccess {
		t.Fatalf("Delete: %+v", deleted.Error)
	}
	if !strings.Contains(deleted.Message, "standup") {
		t.Errorf("delete should echo the title: %q", deleted.Message)
	}

	gone := svc.Get(ctx, GetMemoInput{ID: memo.ID})
	if gone.Error == nil || gone.Error.Code != tools.ErrCodeNotFound {
		t.Errorf("deleted memo still loads: %+v", gone)
	}
}

func TestService_Resources(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if got := svc.CategoriesResource(ctx); !strings.Contains(got, "No categories yet") {
		t.Errorf("empty categories resource = %q", got)
	}
	if got := svc.RecentResource(ctx); !strings.Contains(got, "No memos yet") {
		t.Errorf("empty recent resource = %q", got)
	}

	svc.Create(ctx, CreateMemoInput{Title: "first", Content: "x", Category: "work"})

	if got := svc.CategoriesResource(ctx); !strings.Contains(got, "work (1 memos)") {
		t.Errorf("categories resource = %q", got)
	}
	if got := svc.RecentResource(ctx); !strings.Contains(got, "first") {
		t.Errorf("recent resource = %q", got)
	}
}

func TestService_CategoriesAndTags(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if result := svc.ListCategories(ctx); !strings.Contains(result.Message, "no categories yet") {
		t.Errorf("empty categories = %q", result.Message)
	}
	if result := svc.ListTags(ctx); !strings.Contains(result.Message, "no tags yet") {
		t.Errorf("empty tags = %q", result.Message)
	}

	svc.Create(ctx, CreateMemoInput{Title: "a", Content: "x", Category: "work", Tags: "go"})
	svc.Create(ctx, CreateMemoInput{Title: "b", Content: "y", Category: "work", Tags: "go, sql"})

	categories := svc.ListCategories(ctx)
	if categories.Status != tools.StatusSuccess || !strings.Contains(categories.Message, "work: 2") {
		t.Errorf("categories = %+v", categories)
	}
	tags := svc.ListTags(ctx)
	if tags.Status != tools.StatusSuccess || !strings.Contains(tags.Message, "go: 2") ||
		!strings.Contains(tags.Message, "sql: 1") {
		t.Errorf("tags = %+v", tags)
	}
}

func TestWeeklyReview(t *testing.T) {
	svc := newTestService(t)
	got := svc.WeeklyReview()
	for _, want := range []string{"list_memos", "TODO", "next week"} {
		if !strings.Contains(got, want) {
			t.Errorf("prompt missing %q: %q", want, got)
		}
	}
}
