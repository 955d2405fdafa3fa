// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package output

import (
	"bytes"
	"testing"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name  string   `json:"name" yaml:"name"`
	Tags  []string `json:"tags" yaml:"tags"`
	Count int      `json:"count" yaml:"count"`
}

func TestFormatters(t *testing.T) {
	obj := sample{Name: "api", Tags: []string{"go", "gin"}, Count: 2}

	tests := []struct {
		format Format
		want   string
	}{
		{
			JsonFormat,
			heredoc.Doc(`
				{
				  "name": "api",
				  "tags": [
				    "go",
				    "gin"
				  ],
				  "count": 2
				}
			`),
		},
		{
			YamlFormat,
			heredoc.Doc(`
				name: api
				tags:
				  - go
				  - gin
				count: 2
			`),
		},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			f, err := NewFormatter(string(tt.format))
			require.NoError(t, err)
			require.Equal(t, tt.format, f.Kind())

			buf := &bytes.Buffer{}
			require.NoError(t, f.Format(obj, buf, nil))
			require.Equal(t, tt.want, buf.String())
		})
	}

	none, err := NewFormatter("none")
	require.NoError(t, err)
	require.Error(t, none.Format(obj, &bytes.Buffer{}, nil))

	_, err = NewFormatter("table")
	require.Error(t, err)
}

func TestJsonFormatterKeepsVersionRanges(t *testing.T) {
	buf := &bytes.Buffer{}
	f := &JsonFormatter{}
	require.NoError(t, f.Format(map[string]string{"react": ">=18 <19 && ^18.2"}, buf, nil))
	require.Equal(t, "{\n  \"react\": \">=18 <19 && ^18.2\"\n}\n", buf.String())
}

func TestGetCommandFormatter(t *testing.T) {
	newFlags := func(args ...string) *pflag.FlagSet {
		var value string
		flags := pflag.NewFlagSet("detect", pflag.ContinueOnError)
		AddOutputFlag(flags, &value, []Format{JsonFormat, NoneFormat}, NoneFormat)
		require.NoError(t, flags.Parse(args))
		return flags
	}

	f, err := GetCommandFormatter(newFlags())
	require.NoError(t, err)
	require.Equal(t, NoneFormat, f.Kind())

	f, err = GetCommandFormatter(newFlags("--output", " JSON "))
	require.NoError(t, err)
	require.Equal(t, JsonFormat, f.Kind())

	_, err = GetCommandFormatter(newFlags("-o", "yaml"))
	require.Error(t, err)
}
