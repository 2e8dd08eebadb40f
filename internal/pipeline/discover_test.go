package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscoverApplications(t *testing.T) {
	f := newFixture(t)
	f.put("a/app1/x.csv", "Filename\n1\n")
	f.put("a/app2/x.csv", "Filename\n1\n")
	f.put("b/app2/y.csv", "Filename\n1\n")
	f.put("b/app3/y.csv", "Filename\n1\n")
	f.put("b/README.txt", "not an application")

	apps, err := f.pipeline().DiscoverApplications(f.ctx, f.url("a"), f.url("b"), f.url("missing"))
	require.NoError(t, err)
	assert.Equal(t, []string{"app1", "app2", "app3"}, apps)
}

func TestDiscoverApplications_NoRoots(t *testing.T) {
	f := newFixture(t)

	apps, err := f.pipeline().DiscoverApplications(f.ctx, f.url("a"), f.url("b"))
	require.NoError(t, err)
	assert.Empty(t, apps)
}

func TestCollectFiles(t *testing.T) {
	f := newFixture(t)
	f.put("a/app1/x.csv", "Filename\n1\n")
	f.put("a/app1/notes.txt", "ignored")
	f.put("a/app1/nested/deep.csv", "Filename\n1\n")
	f.put("b/app1/y.csv", "Filename\n1\n")
	f.mkdir("b/app2")

	p := f.pipeline()
	roots := []string{f.url("a"), f.url("b")}

	tests := []struct {
		description string
		app         string
		expected    []string
	}{
		{description: "both roots, root a first", app: "app1", expected: []string{f.url("a/app1/x.csv"), f.url("b/app1/y.csv")}},
		{description: "empty application directory", app: "app2", expected: nil},
		{description: "application absent everywhere", app: "app9", expected: nil},
	}

	for _, tc := range tests {
		t.Run(tc.description, func(t *testing.T) {
			files, err := p.CollectFiles(f.ctx, roots, tc.app)
			require.NoError(t, err)
			var urls []string
			for _, file := range files {
				assert.Equal(t, tc.app, file.Application)
				urls = append(urls, file.URL)
			}
			assert.Equal(t, tc.expected, urls)
		})
	}
}

func TestCollectFiles_ChildNamedLikeApplication(t *testing.T) {
	f := newFixture(t)
	f.put("a/app1/app1/nested.csv", "Filename\n1\n")
	f.put("a/app1/x.csv", "Filename\n1\n")

	files, err := f.pipeline().CollectFiles(f.ctx, []string{f.url("a")}, "app1")
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, f.url("a/app1/x.csv"), files[0].URL)

	apps, err := f.pipeline().DiscoverApplications(f.ctx, f.url("a/app1"))
	require.NoError(t, err)
	assert.Equal(t, []string{"app1"}, apps)
}
