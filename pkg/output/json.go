// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package output

import (
	"encoding/json"
	"io"
)

type JsonFormatter struct {
}

func (f *JsonFormatter) Kind() Format {
	return JsonFormat
}

// Format writes obj as indented JSON followed by a newline. HTML characters in
// dependency specs (`<`, `>`, `&`) are written as-is.
func (f *JsonFormatter) Format(obj interface{}, writer io.Writer, _ interface{}) error {
	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)

	return encoder.Encode(obj)
}

var _ Formatter = (*JsonFormatter)(nil)
