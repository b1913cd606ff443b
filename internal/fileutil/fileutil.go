// Package fileutil holds file permission modes shared by packages that write
// generated output.
package fileutil

import "os"

// ReadableByAll is the file permission mode for generated source files, which
// build tools and other users need to read.
const ReadableByAll os.FileMode = 0o644
