package todo

import (
	"context"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// CategoryRepository holds the category collection in creation order.
// The "all" category is always first.
type CategoryRepository struct {
	categories []Category
	saver      CategorySaver
	opts       options
}

// NewCategoryRepository creates a repository seeded with initial categories.
// If initial lacks the "all" category the seed entry is put in front.
func NewCategoryRepository(initial []Category, saver CategorySaver, opts ...Option) *CategoryRepository {
	r := &CategoryRepository{
		saver: saver,
		opts:  buildOptions(opts),
	}
	hasAll := false
	for _, c := range initial {
		if c.ID == AllCategoryID {
			hasAll = true
			break
		}
	}
	if !hasAll {
		r.categories = append(r.categories, SeedCategories()[0])
	}
	r.categories = append(r.categories, initial...)
	return r
}

// Categories returns a copy of the collection.
func (r *CategoryRepository) Categories() []Category {
	out := make([]Category, len(r.categories))
	copy(out, r.categories)
	return out
}

// Get returns the category with the given ID.
func (r *CategoryRepository) Get(id string) (Category, bool) {
	if i := r.index(id); i >= 0 {
		return r.categories[i], true
	}
	return Category{}, false
}

// Name returns the display name of a category, or UnknownCategoryName.
func (r *CategoryRepository) Name(id string) string {
	if c, ok := r.Get(id); ok {
		return c.Name
	}
	return UnknownCategoryName
}

// Create appends a category derived from fields and persists the collection.
// Its ID is the slug of the name; a taken slug gets a numeric suffix.
func (r *CategoryRepository) Create(ctx context.Context, fields CategoryFields) (Category, error) {
	if strings.TrimSpace(fields.Name) == "" {
		return Category{}, fmt.Errorf("%w: name must not be empty", ErrInvalidCategory)
	}
	icon := fields.Icon
	if icon == "" {
		icon = IconFor(fields.Name)
	}
	color := fields.Color
	if color == "" {
		color = DefaultCategoryColor
	}
	category := Category{
		ID:    r.uniqueID(Slugify(fields.Name)),
		Name:  fields.Name,
		Icon:  icon,
		Color: color,
	}
	r.categories = append(r.categories, category)

	err := r.persist(ctx, Event{
		Kind:       EventCategoryCreated,
		CategoryID: category.ID,
		Message:    "Category added successfully",
	})
	return category, err
}

// Delete removes a category. Tasks that reference it are left alone and
// render as UnknownCategoryName. The "all" category cannot be deleted.
func (r *CategoryRepository) Delete(ctx context.Context, id string) (bool, error) {
	if id == AllCategoryID {
		return false, fmt.Errorf("%w: %q cannot be deleted", ErrReservedCategory, id)
	}
	i := r.index(id)
	if i < 0 {
		return false, nil
	}
	r.categories = append(r.categories[:i], r.categories[i+1:]...)

	return true, r.persist(ctx, Event{
		Kind:       EventCategoryDeleted,
		CategoryID: id,
		Message:    "Category deleted",
	})
}

// Slugify lowercases name and replaces each run of whitespace with a hyphen.
func Slugify(name string) string {
	var b strings.Builder
	inSpace := false
	for _, r := range strings.ToLower(name) {
		if unicode.IsSpace(r) {
			if !inSpace {
				b.WriteByte('-')
				inSpace = true
			}
			continue
		}
		b.WriteRune(r)
		inSpace = false
	}
	return b.String()
}

// IconFor returns the first letter of name, uppercased.
func IconFor(name string) string {
	r, _ := utf8.DecodeRuneInString(strings.TrimSpace(name))
	if r == utf8.RuneError {
		return ""
	}
	return strings.ToUpper(string(r))
}

func (r *CategoryRepository) uniqueID(base string) string {
	taken := func(id string) bool {
		return id == AllCategoryID || r.index(id) >= 0
	}
	if !taken(base) {
		return base
	}
	for n := 2; ; n++ {
		candidate := fmt.Sprintf("%s-%d", base, n)
		if !taken(candidate) {
			return candidate
		}
	}
}

func (r *CategoryRepository) index(id string) int {
	for i := range r.categories {
		if r.categories[i].ID == id {
			return i
		}
	}
	return -1
}

func (r *CategoryRepository) persist(ctx context.Context, ev Event) error {
	if err := r.saver.SaveCategories(ctx, r.Categories()); err != nil {
		r.opts.notifier.Notify(Event{
			Kind:       EventSaveFailed,
			CategoryID: ev.CategoryID,
			Message:    "Failed to save categories",
			Err:        err,
		})
		return fmt.Errorf("save categories: %w", err)
	}
	r.opts.notifier.Notify(ev)
	return nil
}
