package models

import "time"

// Category represents one of the fixed set of article categories. The id set
// is predefined; categories are never user-created. ArticleCount mirrors the
// number of public articles with this categoryId.
type Category struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Slug         string    `json:"slug"`
	Color        string    `json:"color"`
	IsActive     bool      `json:"is_active"`
	SortOrder    int       `json:"sort_order"`
	ArticleCount int64     `json:"article_count"`
	CreatedAt    time.Time `json:"created_at,omitempty"`
	UpdatedAt    time.Time `json:"updated_at,omitempty"`
}

// categories is the fixed category set with display metadata.
var categories = []Category{
	{ID: "frontend", Name: "フロントエンド", Slug: "frontend", Color: "#3B82F6", IsActive: true, SortOrder: 1},
	{ID: "backend", Name: "バックエンド", Slug: "backend", Color: "#10B981", IsActive: true, SortOrder: 2},
	{ID: "mobile", Name: "モバイル", Slug: "mobile", Color: "#8B5CF6", IsActive: true, SortOrder: 3},
	{ID: "devops", Name: "DevOps", Slug: "devops", Color: "#F59E0B", IsActive: true, SortOrder: 4},
	{ID: "ai-ml", Name: "AI・機械学習", Slug: "ai-ml", Color: "#EF4444", IsActive: true, SortOrder: 5},
	{ID: "security", Name: "セキュリティ", Slug: "security", Color: "#6B7280", IsActive: true, SortOrder: 6},
	{ID: "other", Name: "その他", Slug: "other", Color: "#94A3B8", IsActive: true, SortOrder: 99},
}

// Categories returns a copy of the fixed category set.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// CategoryByID returns the predefined category with the given id, or nil.
func CategoryByID(id string) *Category {
	for i := range categories {
		if categories[i].ID == id {
			c := categories[i]
			return &c
		}
	}
	return nil
}
