package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"go-csv-merge/internal/model"
	"go-csv-merge/internal/table"
)

const defaultFileMode os.FileMode = 0644

// writeTable encodes t fully in memory before uploading, so a failed encode
// never truncates an existing file. An existing target must be a writable
// regular file; its permission bits are kept.
func (p *Pipeline) writeTable(ctx context.Context, URL string, t *table.Table) error {
	mode, err := p.targetMode(ctx, URL)
	if err != nil {
		return model.NewError(model.ReasonWriteError, URL, err)
	}
	var buf bytes.Buffer
	if err := table.Write(&buf, t); err != nil {
		return model.NewError(model.ReasonWriteError, URL, err)
	}
	if err := p.fs.Upload(ctx, URL, mode, &buf); err != nil {
		return model.NewError(model.ReasonWriteError, URL, err)
	}
	return nil
}

// targetMode returns the mode to upload with. Upload replaces the target
// outright, so permission and type checks have to happen here.
func (p *Pipeline) targetMode(ctx context.Context, URL string) (os.FileMode, error) {
	exists, err := p.fs.Exists(ctx, URL)
	if err != nil {
		return 0, err
	}
	if !exists {
		return defaultFileMode, nil
	}
	object, err := p.fs.Object(ctx, URL)
	if err != nil {
		return 0, err
	}
	if object.IsDir() {
		return 0, fmt.Errorf("%s is a directory", URL)
	}
	perm := object.Mode().Perm()
	if perm&0200 == 0 {
		return 0, fmt.Errorf("%s: permission denied", URL)
	}
	return perm, nil
}
