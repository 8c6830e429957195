// Copyright (c) 2026 Healthy Tips. All rights reserved.
// Author: dimitar.nikolovv@gmail.com

package slug_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dimitarnikolovv/healthy-tips/pkg/slug"
)

/*
TestFrom covers the transliteration and sanitization pipeline.
*/
func TestFrom(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"simple title", "Hello World!", "hello-world"},
		{"punctuation collapse", "a -- b__c", "a-b-c"},
		{"accents removed", "Crème Brûlée", "creme-brulee"},
		{"bulgarian cyrillic", "Човекът и природата", "chovekat-i-prirodata"},
		{"mixed case cyrillic", "Здравословна Закуска", "zdravoslovna-zakuska"},
		{"digits preserved", "Top 10 Tips", "top-10-tips"},
		{"leading trailing trimmed", "  ...Tips...  ", "tips"},
		{"pure punctuation yields empty", "!!!", ""},
		{"empty input", "", ""},
	}

	for _, testCase := range cases {
		t.Run(testCase.name, func(t *testing.T) {
			assert.Equal(t, testCase.want, slug.From(testCase.input))
		})
	}
}
