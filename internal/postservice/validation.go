package postservice

import (
	"github.com/mochigome/inkwell/internal/common"
)

// Titles and categories are free-form text; only emptiness and generous
// upper bounds are checked.
const (
	maxTitleBytes    = 200
	maxCategoryBytes = 100
	// maxImageBytes caps the encoded image payload at 1MB.
	maxImageBytes = 1_048_576
)

func validateTitle(v *common.Validator, title string) {
	v.Check(title != "", "title", "must be provided")
	v.Check(len(title) <= maxTitleBytes, "title", "must be at most 200 bytes long")
}

func validateContent(v *common.Validator, content string) {
	v.Check(content != "", "content", "must be provided")
}

func validateCategory(v *common.Validator, category *string) {
	if category == nil {
		return
	}

	v.Check(*category != "", "category", "must not be empty when provided")
	v.Check(len(*category) <= maxCategoryBytes, "category", "must be at most 100 bytes long")
}

func validateImage(v *common.Validator, image *string) {
	if image == nil {
		return
	}

	v.Check(*image != "", "image", "must not be empty when provided")
	v.Check(len(*image) <= maxImageBytes, "image", "must not be larger than 1MB when encoded")
}

func validateSort(v *common.Validator, sort Sort) {
	v.Check(v.CheckPermitted(string(sort), string(SortNewest), string(SortOldest), string(SortTitleAZ), string(SortTitleZA)), "sort", "must be one of newest, oldest, a-z, z-a")
}

func validateInt(v *common.Validator, num int, name string) {
	v.Check(num > 0, name, "must be greater than zero")
}
