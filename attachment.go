package gemini

import (
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"

	// Packages
	schema "github.com/mutablelogic/go-gemini/pkg/schema"
)

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// ReadPart reads all data from the reader and returns an inline data part
// with a detected MIME type. When the reader is a file, the filename
// extension refines the detection. It is the responsibility of the caller
// to close the reader.
func ReadPart(r io.Reader) (*schema.Part, error) {
	var filename string
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if f, ok := r.(*os.File); ok {
		filename = f.Name()
	}
	return schema.NewDataPart(detectType(data, filename), data), nil
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// detectType returns the MIME type of the data, refined by the filename
// extension when the content sniff is not distinctive
func detectType(data []byte, filename string) string {
	// Mimetype based on content
	mimetype := http.DetectContentType(data)
	if mimetype == "application/octet-stream" && filename != "" {
		// Detect mimetype from extension
		if t := mime.TypeByExtension(filepath.Ext(filename)); t != "" {
			mimetype = t
		}
	}
	return mimetype
}
