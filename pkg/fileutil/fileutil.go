// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fileutil

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// WriteFile writes data to path. It writes to a temporary file in the same
// directory and then moves it into place, so readers never see a partial
// file.
func WriteFile(path string, data []byte, perm os.FileMode) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp*")
	if err != nil {
		return err
	}
	tempDst := tmp.Name()
	defer func() {
		tmp.Close()
		if err == nil {
			err = os.Rename(tempDst, path)
		}
		if err != nil {
			os.Remove(tempDst)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return err
	}
	if err = tmp.Chmod(perm); err != nil {
		return err
	}
	return tmp.Sync()
}

// Identical reports whether the file at path holds exactly data. A missing
// file is reported as not identical.
func Identical(path string, data []byte) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	hasher := sha256.New()
	if _, err := io.Copy(hasher, f); err != nil {
		return false, fmt.Errorf("failed to hash %s: %v", path, err)
	}
	want := sha256.Sum256(data)
	return bytes.Equal(hasher.Sum(nil), want[:]), nil
}
