package pipeline

import (
	"bytes"
	"context"

	"go-csv-merge/internal/model"
	"go-csv-merge/internal/table"
)

// readTable downloads and parses one CSV file. Download problems are read
// errors, anything table.Read rejects is a parse error.
func (p *Pipeline) readTable(ctx context.Context, URL string) (*table.Table, error) {
	data, err := p.fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, model.NewError(model.ReasonReadError, URL, err)
	}
	t, err := table.Read(bytes.NewReader(data))
	if err != nil {
		return nil, model.NewError(model.ReasonParseError, URL, err)
	}
	return t, nil
}
