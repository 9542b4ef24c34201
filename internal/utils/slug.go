// internal/utils/slug.go
package utils

import (
	"fmt"
	"regexp"
	"strings"

	"gorm.io/gorm"
)

var nonSlugChars = regexp.MustCompile("[^a-z0-9]+")

// Slugify lowercases the base, collapses runs of non-alphanumeric characters
// into single hyphens and trims leading/trailing hyphens.
func Slugify(base string) string {
	slug := strings.ToLower(base)
	slug = nonSlugChars.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

// GenerateUniqueSlug returns the first free slug among `base`, `base-1`,
// `base-2`, ... for the given table. Uniqueness is checked among live
// (non-deleted) rows only.
func GenerateUniqueSlug(db *gorm.DB, table, base string) (string, error) {
	slug := Slugify(base)
	if slug == "" {
		slug = "item"
	}

	candidate := slug
	for counter := 0; ; counter++ {
		if counter > 0 {
			candidate = fmt.Sprintf("%s-%d", slug, counter)
		}

		var count int64
		if err := db.Table(table).
			Where("slug = ? AND deleted_at IS NULL", candidate).
			Count(&count).Error; err != nil {
			return "", err
		}

		if count == 0 {
			return candidate, nil
		}
	}
}
