package orderstatus

import "io"

// FileHandle describes a file picked in a file input. Open, when set, yields
// the file contents; the component never reads it.
type FileHandle struct {
	Name        string
	Size        int64
	ContentType string
	Open        func() (io.ReadCloser, error) `json:"-"`
}

// Value is either text or a file handle. The zero Value is empty text.
type Value struct {
	text string
	file *FileHandle
}

// Text wraps a raw text value.
func Text(s string) Value {
	return Value{text: s}
}

// File wraps a file handle.
func File(fh FileHandle) Value {
	return Value{file: &fh}
}

// IsFile reports whether the value carries a file handle.
func (v Value) IsFile() bool { return v.file != nil }

// Text returns the raw text, or the file name for file values.
func (v Value) Text() string {
	if v.file != nil {
		return v.file.Name
	}
	return v.text
}

// File returns the file handle, if any.
func (v Value) File() (FileHandle, bool) {
	if v.file == nil {
		return FileHandle{}, false
	}
	return *v.file, true
}

// Any returns the value as a string or FileHandle, for serialisation.
func (v Value) Any() any {
	if v.file != nil {
		return *v.file
	}
	return v.text
}

// Update is the message sent to the owner for every field change.
type Update struct {
	Field FieldName
	Value Value
}

// SetText builds a text update.
func SetText(field FieldName, value string) Update {
	return Update{Field: field, Value: Text(value)}
}

// SetFile builds a file update.
func SetFile(field FieldName, fh FileHandle) Update {
	return Update{Field: field, Value: File(fh)}
}

// ChangeFunc receives updates from the component.
type ChangeFunc func(Update)
