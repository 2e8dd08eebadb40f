package pipeline

import (
	"context"
	"fmt"
	"sort"

	"go-csv-merge/internal/model"
	"go-csv-merge/pkg/utils"

	"github.com/viant/afs/storage"
	"go.uber.org/zap"
)

// DiscoverApplications returns the union of subdirectory names found under the
// given roots, sorted. Roots that do not exist contribute nothing.
func (p *Pipeline) DiscoverApplications(ctx context.Context, roots ...string) ([]string, error) {
	apps := make(map[string]bool)
	for _, root := range roots {
		root = location(root)
		ok, err := p.isDir(ctx, root)
		if err != nil {
			return nil, err
		}
		if !ok {
			p.logger.Debug("Source root not found", zap.String("root", root))
			continue
		}
		objects, err := p.list(ctx, root)
		if err != nil {
			return nil, fmt.Errorf("failed to list %s: %w", root, err)
		}
		for _, object := range objects {
			if object.IsDir() {
				apps[object.Name()] = true
			}
		}
	}

	names := make([]string, 0, len(apps))
	for name := range apps {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// CollectFiles gathers the tabular files of one application from every root,
// roots in the order given and files in listing order. A root without the
// application directory is skipped.
func (p *Pipeline) CollectFiles(ctx context.Context, roots []string, app string) ([]model.SourceFile, error) {
	var files []model.SourceFile
	for _, root := range roots {
		root = location(root)
		appDir := utils.JoinPath(root, app)
		ok, err := p.isDir(ctx, appDir)
		if err != nil {
			return nil, err
		}
		if !ok {
			p.logger.Debug("No application directory",
				zap.String("application", app),
				zap.String("root", root))
			continue
		}
		names, err := p.listFiles(ctx, appDir)
		if err != nil {
			return nil, fmt.Errorf("failed to list %s: %w", appDir, err)
		}
		p.logger.Info("Found CSV files",
			zap.String("application", app),
			zap.String("root", root),
			zap.Int("count", len(names)))
		for _, name := range names {
			files = append(files, model.SourceFile{
				Root:        root,
				Application: app,
				Name:        name,
				URL:         utils.JoinPath(appDir, name),
			})
		}
	}
	return files, nil
}

// listFiles returns the names of tabular files directly inside dir
func (p *Pipeline) listFiles(ctx context.Context, dir string) ([]string, error) {
	objects, err := p.list(ctx, dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, object := range objects {
		if object.IsDir() || !utils.HasExtension(object.Name(), p.extension) {
			continue
		}
		names = append(names, object.Name())
	}
	return names, nil
}

// list returns the direct children of dir; storage listings include the
// directory itself, which is dropped here.
func (p *Pipeline) list(ctx context.Context, dir string) ([]storage.Object, error) {
	objects, err := p.fs.List(ctx, dir)
	if err != nil {
		return nil, err
	}
	children := make([]storage.Object, 0, len(objects))
	for _, object := range objects {
		if object.IsDir() && utils.IsSameLocation(object.URL(), dir) {
			continue
		}
		children = append(children, object)
	}
	return children, nil
}

func (p *Pipeline) isDir(ctx context.Context, dir string) (bool, error) {
	exists, err := p.fs.Exists(ctx, dir)
	if err != nil {
		return false, fmt.Errorf("failed to check %s: %w", dir, err)
	}
	if !exists {
		return false, nil
	}
	object, err := p.fs.Object(ctx, dir)
	if err != nil {
		return false, fmt.Errorf("failed to stat %s: %w", dir, err)
	}
	return object.IsDir(), nil
}
