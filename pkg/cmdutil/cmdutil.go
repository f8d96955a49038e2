// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmdutil

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// Confirm asks a yes/no question on w and reads the answer from r. Anything
// but "y" or "yes" is a no, including end of input.
func Confirm(r io.Reader, w io.Writer, msg string) (bool, error) {
	fmt.Fprintf(w, "%s [y/N]: ", msg)

	var confirm string
	_, err := fmt.Fscanln(r, &confirm)
	if err != nil && !errors.Is(err, io.EOF) && err.Error() != "unexpected newline" {
		return false, fmt.Errorf("failed to read confirmation: %w", err)
	}
	switch strings.ToLower(confirm) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}
