package memo

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/mcplab-kr/mcp-go-tutorials/internal/log"
	"github.com/mcplab-kr/mcp-go-tutorials/internal/tools"
)

// CreateMemoInput defines input for the create_memo tool.
type CreateMemoInput struct {
	Title    string `json:"title" jsonschema:"memo title"`
	Content  string `json:"content" jsonschema:"memo body text"`
	Category string `json:"category,omitempty" jsonschema:"category name, defaults to general"`
	Tags     string `json:"tags,omitempty" jsonschema:"comma-separated tags, e.g. work,urgent"`
}

// GetMemoInput defines input for the get_memo tool.
type GetMemoInput struct {
	ID int64 `json:"id" jsonschema:"memo id"`
}

// ListMemosInput defines input for the list_memos tool.
type ListMemosInput struct {
	Category   string `json:"category,omitempty" jsonschema:"filter by category"`
	Tag        string `json:"tag,omitempty" jsonschema:"filter by tag"`
	PinnedOnly bool   `json:"pinned_only,omitempty" jsonschema:"show only pinned memos"`
	Limit      int    `json:"limit,omitempty" jsonschema:"maximum memos to return, defaults to 10"`
}

// UpdateMemoInput defines input for the update_memo tool. Omitted fields
// keep their current value; tags, when present, replace the whole set.
type UpdateMemoInput struct {
	ID       int64   `json:"id" jsonschema:"memo id"`
	Title    *string `json:"title,omitempty" jsonschema:"new title"`
	Content  *string `json:"content,omitempty" jsonschema:"new body text"`
	Category *string `json:"category,omitempty" jsonschema:"new category"`
	Tags     *string `json:"tags,omitempty" jsonschema:"comma-separated tags replacing the current set"`
	Pinned   *bool   `json:"pinned,omitempty" jsonschema:"pin or unpin the memo"`
}

// DeleteMemoInput defines input for the delete_memo tool.
type DeleteMemoInput struct {
	ID int64 `json:"id" jsonschema:"memo id"`
}

// SearchMemosInput defines input for the search_memos tool.
type SearchMemosInput struct {
	Keyword string `json:"keyword" jsonschema:"text to search in titles and content"`
}

// Service exposes the memo tools over a Store.
type Service struct {
	store  *Store
	logger log.Logger
}

// NewService creates the memo service.
func NewService(store *Store, logger log.Logger) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("store is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &Service{store: store, logger: logger}, nil
}

// Create stores a new memo.
func (s *Service) Create(ctx context.Context, input CreateMemoInput) tools.Result {
	if strings.TrimSpace(input.Title) == "" {
		return tools.Errorf(tools.ErrCodeValidation, "title is required")
	}
	if strings.TrimSpace(input.Content) == "" {
		return tools.Errorf(tools.ErrCodeValidation, "content is required")
	}

	memo, err := s.store.Create(ctx, input.Title, input.Content, input.Category,
		NormalizeTags(input.Tags))
	if err != nil {
		return tools.Errorf(tools.ErrCodeDatabase, "creating memo: %v", err)
	}

	s.logger.Info("memo created", "id", memo.ID, "category", memo.Category)
	return tools.Ok(fmt.Sprintf("created memo #%d %q", memo.ID, memo.Title), memo)
}

// Get loads one memo by id.
func (s *Service) Get(ctx context.Context, input GetMemoInput) tools.Result {
	memo, err := s.store.Get(ctx, input.ID)
	if err != nil {
		if errors.Is(err, ErrMemoNotFound) {
			return tools.Errorf(tools.ErrCodeNotFound, "memo %d does not exist", input.ID)
		}
		return tools.Errorf(tools.ErrCodeDatabase, "loading memo: %v", err)
	}
	return tools.Ok(formatMemo(memo), memo)
}

// List returns memos matching the filters, pinned first.
func (s *Service) List(ctx context.Context, input ListMemosInput) tools.Result {
	limit := input.Limit
	if limit <= 0 {
		limit = 10
	}
	filter := ListFilter{Category: input.Category, Tag: input.Tag, Limit: limit}
	if input.PinnedOnly {
		pinned := true
		filter.Pinned = &pinned
	}

	memos, err := s.store.List(ctx, filter)
	if err != nil {
		return tools.Errorf(tools.ErrCodeDatabase, "listing memos: %v", err)
	}
	if len(memos) == 0 {
		return tools.Ok("no memos match the filter", memos)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d memos:\n", len(memos))
	for _, m := range memos {
		sb.WriteString(formatMemoLine(&m))
		sb.WriteString("\n")
	}
	return tools.Ok(strings.TrimRight(sb.String(), "\n"), memos)
}

// Update applies a partial update to a memo.
func (s *Service) Update(ctx context.Context, input UpdateMemoInput) tools.Result {
	fields := UpdateFields{
		Title:    input.Title,
		Content:  input.Content,
		Category: input.Category,
		Pinned:   input.Pinned,
	}
	if input.Tags != nil {
		tags := NormalizeTags(*input.Tags)
		if tags == nil {
			tags = []string{}
		}
		fields.Tags = tags
	}
	if fields.Title == nil && fields.Content == nil && fields.Category == nil &&
		fields.Tags == nil && fields.Pinned == nil {
		// A missing memo reports NOT_FOUND even when there is nothing
		// to change, matching get_memo and delete_memo.
		if _, err := s.store.Get(ctx, input.ID); err != nil {
			if errors.Is(err, ErrMemoNotFound) {
				return tools.Errorf(tools.ErrCodeNotFound, "memo %d does not exist", input.ID)
			}
			return tools.Errorf(tools.ErrCodeDatabase, "loading memo: %v", err)
		}
		return tools.Errorf(tools.ErrCodeValidation, "nothing to update")
	}
	if fields.Title != nil && strings.TrimSpace(*fields.Title) == "" {
		return tools.Errorf(tools.ErrCodeValidation, "title cannot be empty")
	}

	memo, err := s.store.Update(ctx, input.ID, fields)
	if err != nil {
		if errors.Is(err, ErrMemoNotFound) {
			return tools.Errorf(tools.ErrCodeNotFound, "memo %d does not exist", input.ID)
		}
		return tools.Errorf(tools.ErrCodeDatabase, "updating memo: %v", err)
	}

	s.logger.Info("memo updated", "id", memo.ID)
	return tools.Ok(fmt.Sprintf("updated memo #%d\n\n%s", memo.ID, formatMemo(memo)), memo)
}

// Delete removes a memo.
func (s *Service) Delete(ctx context.Context, input DeleteMemoInput) tools.Result {
	title, err := s.store.Delete(ctx, input.ID)
	if err != nil {
		if errors.Is(err, ErrMemoNotFound) {
			return tools.Errorf(tools.ErrCodeNotFound, "memo %d does not exist", input.ID)
		}
		return tools.Errorf(tools.ErrCodeDatabase, "deleting memo: %v", err)
	}

	s.logger.Info("memo deleted", "id", input.ID)
	return tools.Ok(fmt.Sprintf("deleted memo #%d %q", input.ID, title),
		map[string]any{"id": input.ID, "title": title})
}

// Search finds memos by keyword in title or content.
func (s *Service) Search(ctx context.Context, input SearchMemosInput) tools.Result {
	if strings.TrimSpace(input.Keyword) == "" {
		return tools.Errorf(tools.ErrCodeValidation, "keyword is required")
	}

	memos, err := s.store.Search(ctx, input.Keyword)
	if err != nil {
		return tools.Errorf(tools.ErrCodeDatabase, "searching memos: %v", err)
	}
	if len(memos) == 0 {
		return tools.Ok(fmt.Sprintf("no memos contain %q", input.Keyword), memos)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d memos contain %q:\n", len(memos), input.Keyword)
	for _, m := range memos {
		sb.WriteString(formatMemoLine(&m))
		sb.WriteString("\n")
	}
	return tools.Ok(strings.TrimRight(sb.String(), "\n"), memos)
}

// ListCategories returns the categories in use with memo counts.
func (s *Service) ListCategories(ctx context.Context) tools.Result {
	categories, err := s.store.Categories(ctx)
	if err != nil {
		return tools.Errorf(tools.ErrCodeDatabase, "listing categories: %v", err)
	}
	if len(categories) == 0 {
		return tools.Ok("no categories yet; memos default to the general category", categories)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d categories:\n", len(categories))
	for _, name := range sortedCountKeys(categories) {
		fmt.Fprintf(&sb, "  %s: %d\n", name, categories[name])
	}
	return tools.Ok(strings.TrimRight(sb.String(), "\n"), categories)
}

// ListTags returns every tag with the number of memos carrying it.
func (s *Service) ListTags(ctx context.Context) tools.Result {
	tags, err := s.store.TagCounts(ctx)
	if err != nil {
		return tools.Errorf(tools.ErrCodeDatabase, "listing tags: %v", err)
	}
	if len(tags) == 0 {
		return tools.Ok("no tags yet", tags)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d tags:\n", len(tags))
	for _, name := range sortedCountKeys(tags) {
		fmt.Fprintf(&sb, "  %s: %d\n", name, tags[name])
	}
	return tools.Ok(strings.TrimRight(sb.String(), "\n"), tags)
}

// GetStats summarizes the memo collection.
func (s *Service) GetStats(ctx context.Context) tools.Result {
	stats, err := s.store.CollectStats(ctx)
	if err != nil {
		return tools.Errorf(tools.ErrCodeDatabase, "collecting stats: %v", err)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Memos: %d total, %d pinned\n", stats.Total, stats.Pinned)
	if len(stats.Categories) > 0 {
		sb.WriteString("Categories:\n")
		for _, name := range sortedCountKeys(stats.Categories) {
			fmt.Fprintf(&sb, "  %s: %d\n", name, stats.Categories[name])
		}
	}
	if len(stats.Tags) > 0 {
		sb.WriteString("Tags:\n")
		for _, name := range sortedCountKeys(stats.Tags) {
			fmt.Fprintf(&sb, "  %s: %d\n", name, stats.Tags[name])
		}
	}
	return tools.Ok(strings.TrimRight(sb.String(), "\n"), stats)
}

// CategoriesResource renders the memo://categories resource.
func (s *Service) CategoriesResource(ctx context.Context) string {
	categories, err := s.store.Categories(ctx)
	if err != nil {
		return fmt.Sprintf("failed to load categories: %v", err)
	}
	if len(categories) == 0 {
		return "No categories yet. Memos default to the general category."
	}

	var sb strings.Builder
	sb.WriteString("Categories in use:\n")
	for _, name := range sortedCountKeys(categories) {
		fmt.Fprintf(&sb, "  %s (%d memos)\n", name, categories[name])
	}
	return strings.TrimRight(sb.String(), "\n")
}

// RecentResource renders the memo://recent resource.
func (s *Service) RecentResource(ctx context.Context) string {
	memos, err := s.store.Recent(ctx, 5)
	if err != nil {
		return fmt.Sprintf("failed to load recent memos: %v", err)
	}
	if len(memos) == 0 {
		return "No memos yet."
	}

	var sb strings.Builder
	sb.WriteString("Recently updated:\n")
	for _, m := range memos {
		sb.WriteString(formatMemoLine(&m))
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

// WeeklyReview renders the weekly_review prompt.
func (s *Service) WeeklyReview() string {
	return `Please review my memos from this week:

1. Use list_memos to pull up the full list
2. Group the memos by category and summarize each group
3. Collect any unfinished TODO items you find in the content
4. Suggest action items for next week based on what is there`
}

func formatMemo(m *Memo) string {
	var sb strings.Builder
	pin := ""
	if m.IsPinned {
		pin = " [pinned]"
	}
	fmt.Fprintf(&sb, "#%d %s%s\n", m.ID, m.Title, pin)
	fmt.Fprintf(&sb, "category: %s\n", m.Category)
	if len(m.Tags) > 0 {
		fmt.Fprintf(&sb, "tags: %s\n", strings.Join(m.Tags, ", "))
	}
	fmt.Fprintf(&sb, "created: %s, updated: %s\n\n%s", m.CreatedAt, m.UpdatedAt, m.Content)
	return sb.String()
}

func formatMemoLine(m *Memo) string {
	pin := ""
	if m.IsPinned {
		pin = " [pinned]"
	}
	tags := ""
	if len(m.Tags) > 0 {
		tags = " (" + strings.Join(m.Tags, ", ") + ")"
	}
	return fmt.Sprintf("  #%d [%s] %s%s%s", m.ID, m.Category, m.Title, pin, tags)
}

func sortedCountKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
