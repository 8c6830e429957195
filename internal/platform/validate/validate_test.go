// Copyright (c) 2026 Healthy Tips. All rights reserved.
// Author: dimitar.nikolovv@gmail.com

package validate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dimitarnikolovv/healthy-tips/internal/platform/apperr"
	"github.com/dimitarnikolovv/healthy-tips/internal/platform/validate"
)

/*
TestValidator_HappyPath verifies that a fully valid chain returns nil.
*/
func TestValidator_HappyPath(t *testing.T) {
	validator := &validate.Validator{}
	err := validator.
		Required("title", "Healthy breakfast ideas").
		MinLen("title", "Healthy breakfast ideas", 3).
		MaxLen("title", "Healthy breakfast ideas", 180).
		Email("email", "user@example.com").
		OneOf("status", "draft", "draft", "published").
		Err()

	assert.NoError(t, err)
}

/*
TestValidator_CollectsAllFailures verifies that every failed rule is reported,
not just the first one.
*/
func TestValidator_CollectsAllFailures(t *testing.T) {
	validator := &validate.Validator{}
	err := validator.
		Required("title", "   ").
		Email("email", "not-an-email").
		OneOf("status", "archived", "draft", "published").
		Err()

	require.Error(t, err)

	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, "VALIDATION_ERROR", appError.Code)
	assert.Len(t, appError.Details, 3)
}

/*
TestValidator_Lengths verifies the Unicode-aware length rules.
*/
func TestValidator_Lengths(t *testing.T) {
	cases := []struct {
		name    string
		value   string
		min     int
		max     int
		wantErr bool
	}{
		{"within bounds", "abc", 3, 5, false},
		{"too short", "ab", 3, 5, true},
		{"too long", "abcdef", 3, 5, true},
		{"cyrillic counts runes not bytes", "тест", 3, 5, false},
	}

	for _, testCase := range cases {
		t.Run(testCase.name, func(t *testing.T) {
			validator := &validate.Validator{}
			err := validator.
				MinLen("field", testCase.value, testCase.min).
				MaxLen("field", testCase.value, testCase.max).
				Err()

			if testCase.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

/*
TestValidator_MaxBytes verifies the binary payload size rule.
*/
func TestValidator_MaxBytes(t *testing.T) {
	validator := &validate.Validator{}
	assert.NoError(t, validator.MaxBytes("videoFile", 100, 100).Err())

	validator = &validate.Validator{}
	assert.Error(t, validator.MaxBytes("videoFile", 101, 100).Err())
}

/*
TestValidator_Custom verifies the escape hatch for arbitrary conditions.
*/
func TestValidator_Custom(t *testing.T) {
	validator := &validate.Validator{}
	err := validator.Custom("videoFile", true, "The video file is required").Err()

	require.Error(t, err)
	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, "videoFile", appError.Details[0].Field)
}
