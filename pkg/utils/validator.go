package utils

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// report json field names instead of Go field names
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})
	return v
}

func ValidateStruct(data interface{}) map[string]string {
	err := validate.Struct(data)
	if err == nil {
		return nil
	}

	errors := make(map[string]string)
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, err := range validationErrors {
			errors[err.Field()] = getErrorMessage(err)
		}
	}

	return errors
}

// converts validator errors to human-readable messages
func getErrorMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "该字段是必填项。"
	case "email":
		return "请输入合法的邮件地址。"
	case "min":
		return fmt.Sprintf("请确保这个字段至少包含 %s 个字符。", err.Param())
	case "max":
		return fmt.Sprintf("请确保这个字段不能超过 %s 个字符。", err.Param())
	case "len":
		return fmt.Sprintf("请确保这个字段长度为 %s 个字符。", err.Param())
	case "numeric":
		return "请填写合法的数字。"
	case "oneof":
		options := strings.ReplaceAll(err.Param(), " ", ", ")
		return fmt.Sprintf("请选择以下选项之一: %s", options)
	case "datetime":
		return fmt.Sprintf("日期格式错误，请使用 %s 格式。", err.Param())
	default:
		return fmt.Sprintf("%s 字段不合法。", err.Field())
	}
}

// formats validation errors map into single string
func FormatValidationErrors(errors map[string]string) string {
	var msgs []string
	for field, msg := range errors {
		msgs = append(msgs, fmt.Sprintf("%s: %s", field, msg))
	}
	sort.Strings(msgs)
	return strings.Join(msgs, "; ")
}
