package validation

import (
	"strings"

	"github.com/budgetbox/backend/internal/models"
)

// ValidateCategory checks category field rules and normalizes the name
// in place (trimmed and title-cased).
func ValidateCategory(category *models.Category) Errors {
	errs := Errors{}

	name := strings.TrimSpace(category.Name)
	if name == "" {
		errs.Add("category_name", "Category name is required.")
	} else {
		name = TitleCase(name)
		if len(name) < 2 {
			errs.Add("category_name", "Category name must be at least 2 characters.")
		} else if len(name) > 50 {
			errs.Add("category_name", "Category name cannot exceed 50 characters.")
		}
		category.Name = name
	}

	if category.Type != models.CategoryTypeIncome && category.Type != models.CategoryTypeExpense {
		errs.Add("category_type", "Category type must be income or expense.")
	}

	return errs
}
