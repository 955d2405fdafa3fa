// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package output

import (
	"errors"
	"io"
)

// NoneFormatter is selected when the command renders human readable output itself.
type NoneFormatter struct {
}

func (f *NoneFormatter) Kind() Format {
	return NoneFormat
}

func (f *NoneFormatter) Format(_ interface{}, _ io.Writer, _ interface{}) error {
	return errors.New("the none formatter does not format objects")
}

var _ Formatter = (*NoneFormatter)(nil)
