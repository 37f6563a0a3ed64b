package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type sampleRequest struct {
	Username string  `json:"username" validate:"required,min=3"`
	Email    string  `json:"email" validate:"required,email"`
	Phone    *string `json:"phone,omitempty" validate:"omitempty,numeric,max=11"`
}

func TestValidateStruct_ReportsJSONFieldNames(t *testing.T) {
	phone := "1380013800012345"
	errs := ValidateStruct(sampleRequest{Username: "ab", Email: "nope", Phone: &phone})

	assert.Len(t, errs, 3)
	assert.Contains(t, errs["username"], "3")
	assert.Equal(t, "请输入合法的邮件地址。", errs["email"])
	assert.Contains(t, errs["phone"], "11")
}

func TestValidateStruct_Valid(t *testing.T) {
	errs := ValidateStruct(sampleRequest{Username: "alice", Email: "alice@example.com"})
	assert.Nil(t, errs)
}

func TestFormatValidationErrors_Sorted(t *testing.T) {
	got := FormatValidationErrors(map[string]string{"b": "two", "a": "one"})
	assert.Equal(t, "a: one; b: two", got)
}
