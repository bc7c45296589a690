// Package formdata writes multipart/form-data bodies byte for byte in the
// layout the issue tracker expects: text fields sorted by name, then a single
// file part named "fileupload", then a CRLF-wrapped boundary line.
package formdata

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"
	"time"
)

// FileField is the form field name of the file part.
const FileField = "fileupload"

const boundaryPrefix = "----------"

// File is the binary part of a form. An empty Content still produces a part.
type File struct {
	Name     string
	MIMEType string
	Content  []byte
}

// Encode renders fields and file with a fresh boundary.
func Encode(fields map[string]string, file File) (string, []byte) {
	now := time.Now()
	boundary := NewBoundary(now)
	for tick := 1; collides(boundary, fields, file); tick++ {
		boundary = NewBoundary(now.Add(time.Duration(tick) * 100 * time.Nanosecond))
	}
	return boundary, EncodeWithBoundary(boundary, fields, file)
}

// EncodeWithBoundary renders fields and file using boundary.
func EncodeWithBoundary(boundary string, fields map[string]string, file File) []byte {
	var buf bytes.Buffer

	for _, name := range sortedKeys(fields) {
		fmt.Fprintf(&buf, "--%s\r\n", boundary)
		fmt.Fprintf(&buf, "Content-Disposition: form-data; name=\"%s\"\r\n", name)
		buf.WriteString("\r\n")
		fmt.Fprintf(&buf, "%s\r\n", fields[name])
	}

	fmt.Fprintf(&buf, "--%s\r\n", boundary)
	fmt.Fprintf(&buf, "Content-Disposition: form-data; name=\"%s\"; filename=\"%s\"\r\n", FileField, file.Name)
	fmt.Fprintf(&buf, "Content-Type: %s\r\n", file.MIMEType)
	buf.WriteString("\r\n")
	buf.Write(file.Content)
	fmt.Fprintf(&buf, "\r\n--%s\r\n", boundary)

	return buf.Bytes()
}

// ContentType returns the request Content-Type header for boundary.
func ContentType(boundary string) string {
	return "multipart/form-data; boundary=" + boundary
}

// NewBoundary derives a boundary from t in 100ns ticks, hex encoded.
func NewBoundary(t time.Time) string {
	ticks := uint64(t.UnixNano() / 100)
	return boundaryPrefix + strconv.FormatUint(ticks, 16)
}

func collides(boundary string, fields map[string]string, file File) bool {
	marker := []byte("--" + boundary)
	if bytes.Contains(file.Content, marker) {
		return true
	}
	for name, value := range fields {
		if bytes.Contains([]byte(name), marker) || bytes.Contains([]byte(value), marker) {
			return true
		}
	}
	return false
}

func sortedKeys(fields map[string]string) []string {
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
