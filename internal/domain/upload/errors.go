package upload

import "errors"

var (
	ErrEmptyFile      = errors.New("file is empty")
	ErrUploadNotFound = errors.New("upload not found")
	// ErrFileMissing means the record exists but the file is gone from disk.
	ErrFileMissing = errors.New("photo not found")
)
