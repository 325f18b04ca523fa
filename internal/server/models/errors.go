// Package models holds the FoodDiary domain types together with the small
// invariants enforced on them: positive amounts, clamped satiety levels and
// calendar dates normalized to UTC midnight.
package models

import (
	"fmt"

	"github.com/dmitrijs2005/fooddiary/internal/common"
)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{common.ErrorValidation}, args...)...)
}
